package ratecounter

import (
	"sync"
	"time"
)

// counter tek bir istemci anahtarının (IP) pencere sayacıdır.
// Pencere sıfırlama + artırma tek atomik birim olmalı; bu yüzden
// her sayacın kendi kilidi vardır ve tablo kilidi yalnızca map erişimini korur.
type counter struct {
	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// increment pencere süresi dolduysa sayacı sıfırlayıp artırır ve yeni değeri döndürür.
func (c *counter) increment(now time.Time, window time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.windowStart) > window {
		c.windowStart = now
		c.count = 0
	}
	c.count++
	return c.count
}

// Table anahtar başına sabit pencereli istek sayaçlarını tutar.
// Ambient global yerine gate zincirine açıkça enjekte edilir; her test
// kendi izole tablosunu kurabilir.
type Table struct {
	mu     sync.Mutex
	window time.Duration
	items  map[string]*counter
	stop   chan struct{}
	once   sync.Once
}

// NewTable verilen pencere süresiyle boş bir tablo oluşturur.
func NewTable(window time.Duration) *Table {
	if window <= 0 {
		window = time.Minute
	}
	return &Table{
		window: window,
		items:  make(map[string]*counter),
		stop:   make(chan struct{}),
	}
}

// Window tablonun pencere süresini döndürür.
func (t *Table) Window() time.Duration {
	return t.window
}

// Increment anahtarın sayacını artırır ve pencere içindeki yeni değeri döndürür.
// Aynı anahtara eşzamanlı çağrılar kayıpsızdır; farklı anahtarlar yalnızca
// kısa map erişimi sırasında birbirini bekler.
func (t *Table) Increment(key string, now time.Time) int {
	t.mu.Lock()
	c, ok := t.items[key]
	if !ok {
		c = &counter{windowStart: now}
		t.items[key] = c
	}
	t.mu.Unlock()
	return c.increment(now, t.window)
}

// Len tablodaki sayaç adedini döndürür.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Sweep pencere başlangıcı 2x pencere süresinden eski olan sayaçları siler.
// Silinen adedi döndürür.
func (t *Table) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for key, c := range t.items {
		c.mu.Lock()
		stale := now.Sub(c.windowStart) > 2*t.window
		c.mu.Unlock()
		if stale {
			delete(t.items, key)
			removed++
		}
	}
	return removed
}

// StartSweeper arka planda periyodik temizlik goroutine'i başlatır.
// Stop çağrılana kadar çalışır.
func (t *Table) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				t.Sweep(now)
			case <-t.stop:
				return
			}
		}
	}()
}

// Stop temizlik goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (t *Table) Stop() {
	t.once.Do(func() { close(t.stop) })
}

package ratecounter

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestIncrementSequential(t *testing.T) {
	table := NewTable(time.Minute)
	now := time.Now()
	for i := 1; i <= 5; i++ {
		if got := table.Increment("1.2.3.4", now); got != i {
			t.Fatalf("Increment #%d = %d, beklenen %d", i, got, i)
		}
	}
}

func TestIncrementConcurrentNoLostUpdates(t *testing.T) {
	table := NewTable(time.Minute)
	now := time.Now()

	const goroutines = 50
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				table.Increment("1.2.3.4", now)
			}
		}()
	}
	wg.Wait()

	total := table.Increment("1.2.3.4", now)
	if total != goroutines*perGoroutine+1 {
		t.Fatalf("toplam sayaç %d, beklenen %d", total, goroutines*perGoroutine+1)
	}
}

func TestIncrementResetsAfterWindow(t *testing.T) {
	table := NewTable(time.Minute)
	start := time.Now()

	table.Increment("k", start)
	table.Increment("k", start)

	// Pencere süresi aşıldığında sayaç sıfırlanıp yeniden 1'den başlamalı.
	later := start.Add(61 * time.Second)
	if got := table.Increment("k", later); got != 1 {
		t.Fatalf("pencere sonrası sayaç %d, beklenen 1", got)
	}
}

func TestConcurrentDistinctKeys(t *testing.T) {
	table := NewTable(time.Minute)
	now := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("10.0.0.%d", n)
			for i := 0; i < 100; i++ {
				table.Increment(key, now)
			}
		}(g)
	}
	wg.Wait()

	if table.Len() != 20 {
		t.Fatalf("tablo boyutu %d, beklenen 20", table.Len())
	}
}

func TestSweepEvictsStaleEntries(t *testing.T) {
	table := NewTable(time.Minute)
	start := time.Now()

	table.Increment("eski", start)
	table.Increment("yeni", start.Add(90*time.Second))

	// "eski" 2x pencereden yaşlı, "yeni" değil.
	removed := table.Sweep(start.Add(150 * time.Second))
	if removed != 1 {
		t.Fatalf("silinen sayaç %d, beklenen 1", removed)
	}
	if table.Len() != 1 {
		t.Fatalf("tablo boyutu %d, beklenen 1", table.Len())
	}
}

package challengegate

import (
	"testing"
	"time"
)

// fakeSession map tabanlı test session'ı.
type fakeSession map[string]interface{}

func (f fakeSession) Get(key string) interface{}        { return f[key] }
func (f fakeSession) Set(key string, value interface{}) { f[key] = value }
func (f fakeSession) Delete(key string)                 { delete(f, key) }

func TestRequireForSetsRequirement(t *testing.T) {
	sess := fakeSession{}
	RequireFor(sess, 10*time.Minute)
	if !IsRequired(sess) {
		t.Fatal("RequireFor sonrası IsRequired true olmalı")
	}
}

func TestExtensionIsMonotonic(t *testing.T) {
	sess := fakeSession{}
	RequireFor(sess, 10*time.Minute)
	first := RequiredUntil(sess)

	// Daha kısa ikinci çağrı mevcut daha geç bitişi kısaltmamalı.
	RequireFor(sess, time.Minute)
	second := RequiredUntil(sess)

	if second.Before(first) {
		t.Fatalf("bitiş zamanı kısaldı: %v -> %v", first, second)
	}
}

func TestLongerDurationExtends(t *testing.T) {
	sess := fakeSession{}
	RequireFor(sess, time.Minute)
	first := RequiredUntil(sess)

	RequireFor(sess, 30*time.Minute)
	second := RequiredUntil(sess)

	if !second.After(first) {
		t.Fatalf("daha uzun süre bitişi uzatmalıydı: %v -> %v", first, second)
	}
}

func TestExpiredRequirementLazilyCleared(t *testing.T) {
	sess := fakeSession{}
	// Geçmişte kalmış bir bitiş zamanı yerleştir.
	sess.Set("challenge_required_until", time.Now().Add(-time.Second).UnixMilli())

	if IsRequired(sess) {
		t.Fatal("süresi geçmiş zorunluluk aktif görünmemeli")
	}
	if _, ok := sess["challenge_required_until"]; ok {
		t.Fatal("süresi geçmiş kayıt temizlenmeliydi")
	}
}

func TestClear(t *testing.T) {
	sess := fakeSession{}
	RequireFor(sess, time.Hour)
	Clear(sess)
	if IsRequired(sess) {
		t.Fatal("Clear sonrası zorunluluk kalmamalı")
	}
}

func TestZeroDurationIgnored(t *testing.T) {
	sess := fakeSession{}
	RequireFor(sess, 0)
	if IsRequired(sess) {
		t.Fatal("sıfır süre zorunluluk oluşturmamalı")
	}
}

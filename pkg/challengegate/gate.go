package challengegate

import "time"

// sessionKey challenge zorunluluğunun bitiş zamanını tutan session anahtarı.
const sessionKey = "challenge_required_until"

// Session gate'in ihtiyaç duyduğu minimal session yüzeyi.
// fiber'ın *session.Session tipi bu arayüzü sağlar; testler map tabanlı
// bir sahte ile çalışabilir.
type Session interface {
	Get(key string) interface{}
	Set(key string, value interface{})
	Delete(key string)
}

// RequireFor session'ı verilen süre boyunca insan doğrulamasına zorunlu işaretler.
// Mevcut bir bitiş zamanı daha ilerideyse korunur; uzatmalar monotondur,
// asla kısaltılmaz.
func RequireFor(sess Session, duration time.Duration) {
	if duration <= 0 {
		return
	}
	until := time.Now().Add(duration).UnixMilli()
	if existing, ok := sess.Get(sessionKey).(int64); ok && existing > until {
		until = existing
	}
	sess.Set(sessionKey, until)
}

// IsRequired session için challenge zorunluluğu aktif mi kontrol eder.
// Süresi geçmiş bir kayıt yan etki olarak temizlenir.
func IsRequired(sess Session) bool {
	until, ok := sess.Get(sessionKey).(int64)
	if !ok {
		return false
	}
	if time.Now().UnixMilli() >= until {
		sess.Delete(sessionKey)
		return false
	}
	return true
}

// Clear zorunluluğu koşulsuz kaldırır. Başarılı doğrulama sonrası çağrılır.
func Clear(sess Session) {
	sess.Delete(sessionKey)
}

// RequiredUntil aktif zorunluluğun bitiş zamanını döndürür; yoksa sıfır zaman.
func RequiredUntil(sess Session) time.Time {
	until, ok := sess.Get(sessionKey).(int64)
	if !ok {
		return time.Time{}
	}
	return time.UnixMilli(until)
}

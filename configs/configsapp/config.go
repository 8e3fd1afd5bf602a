package configsapp

import (
	"os"
	"strconv"
	"time"

	"pcard.link/configs/configslog"
)

// RateRule bir yol kategorisi için istek limiti ve challenge tetikleme eşiğini tutar.
// Trigger her zaman Limit'ten küçük veya eşit olmalıdır.
type RateRule struct {
	Limit   int
	Trigger int
}

// Config ortam değişkenlerinden okunan, gate zincirine constructor ile
// enjekte edilen uygulama yapılandırması. Global state tutulmaz; testler
// kendi Config örneklerini kurabilir.
type Config struct {
	Production bool

	// Rate limit penceresi ve temizlik aralığı
	RateWindow    time.Duration
	SweepInterval time.Duration

	// Yol kategorisi başına kurallar
	RateDefault  RateRule
	RateLogin    RateRule
	RateRegister RateRule
	RateAPI      RateRule

	// Challenge (Turnstile) ayarları
	ChallengeCooldown time.Duration
	TurnstileSecret   string
	TurnstileSiteKey  string

	// Cloudflare bot skoru eşiği (1-99, düşük skor = muhtemel bot)
	BotScoreThreshold int

	UploadDir string
}

// Load ortam değişkenlerinden Config üretir. Eksik değerler için
// orijinal varsayılanlar kullanılır; trigger > limit ise limit'e indirilir.
func Load() Config {
	cfg := Config{
		Production:        os.Getenv("APP_ENV") == "production",
		RateWindow:        time.Minute,
		SweepInterval:     time.Minute,
		RateDefault:       RateRule{Limit: envInt("RATE_LIMIT_DEFAULT", 1000), Trigger: envInt("RATE_TRIGGER_DEFAULT", 200)},
		RateLogin:         RateRule{Limit: envInt("RATE_LIMIT_LOGIN", 50), Trigger: envInt("RATE_TRIGGER_LOGIN", 5)},
		RateRegister:      RateRule{Limit: envInt("RATE_LIMIT_REGISTER", 30), Trigger: envInt("RATE_TRIGGER_REGISTER", 3)},
		RateAPI:           RateRule{Limit: envInt("RATE_LIMIT_API", 500), Trigger: envInt("RATE_TRIGGER_API", 100)},
		ChallengeCooldown: time.Duration(envInt("CHALLENGE_COOLDOWN_MS", 600000)) * time.Millisecond,
		TurnstileSecret:   os.Getenv("CF_TURNSTILE_SECRET"),
		TurnstileSiteKey:  os.Getenv("CF_TURNSTILE_SITE_KEY"),
		BotScoreThreshold: envInt("BOT_SCORE_THRESHOLD", 30),
		UploadDir:         envStr("UPLOAD_DIR", "./uploads"),
	}

	for _, r := range []*RateRule{&cfg.RateDefault, &cfg.RateLogin, &cfg.RateRegister, &cfg.RateAPI} {
		if r.Trigger > r.Limit {
			configslog.SLog.Warnf("Challenge eşiği limitten büyük olamaz, limit'e indiriliyor: trigger=%d limit=%d", r.Trigger, r.Limit)
			r.Trigger = r.Limit
		}
	}

	return cfg
}

// TurnstileEnabled hem secret hem site key tanımlıysa true döner.
func (c Config) TurnstileEnabled() bool {
	return c.TurnstileSecret != "" && c.TurnstileSiteKey != ""
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		configslog.SLog.Warnf("Geçersiz sayısal ortam değişkeni %s=%q, varsayılan %d kullanılıyor", key, raw, def)
		return def
	}
	return n
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

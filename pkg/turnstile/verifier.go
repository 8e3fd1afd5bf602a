package turnstile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pcard.link/configs/configslog"

	"go.uber.org/zap"
)

// DefaultEndpoint Cloudflare Turnstile doğrulama API'si.
// https://developers.cloudflare.com/turnstile/
const DefaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

const requestTimeout = 5 * time.Second

// Verifier kullanıcı tarafından gönderilen challenge token'ını uzak
// servise karşı doğrular. Secret/site key tanımlı değilse özellik kapalıdır.
type Verifier struct {
	secret   string
	siteKey  string
	endpoint string
	client   *http.Client
}

// Option Verifier kurulumunu özelleştirir.
type Option func(*Verifier)

// WithEndpoint doğrulama adresini değiştirir (testler için).
func WithEndpoint(endpoint string) Option {
	return func(v *Verifier) { v.endpoint = endpoint }
}

// WithHTTPClient özel bir HTTP istemcisi kullandırır.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) { v.client = client }
}

// NewVerifier bağlanma ve okuma için sınırlı zaman aşımı olan bir doğrulayıcı kurar.
func NewVerifier(secret, siteKey string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:   secret,
		siteKey:  siteKey,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enabled hem secret hem site key tanımlıysa true döner.
func (v *Verifier) Enabled() bool {
	return v.secret != "" && v.siteKey != ""
}

// SiteKey widget render'ı için istemciye verilecek site anahtarı.
func (v *Verifier) SiteKey() string {
	return v.siteKey
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
}

// Verify token'ı uzak servise karşı doğrular.
//
// Karar politikası:
//   - Özellik kapalıysa her zaman true (doğrulama yok).
//   - Token boşsa ağ çağrısı yapılmadan false.
//   - 2xx + success=true ise true; success=false ise false.
//   - 5xx, zaman aşımı veya ağ hatasında FAIL OPEN: true döner.
//     Doğrulama servisi çöktüğünde gerçek kullanıcıları engellememek için
//     bilinçli bir erişilebilirlik/katılık ödünleşimidir; değiştirilmemelidir.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) bool {
	if v.secret == "" {
		configslog.SLog.Warn("Turnstile secret tanımlı değil, doğrulama atlanıyor")
		return true
	}
	if token == "" {
		configslog.SLog.Infof("Turnstile token eksik, IP=%s", remoteIP)
		return false
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		configslog.Log.Error("Turnstile isteği oluşturulamadı", zap.Error(err))
		return true
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		// Zaman aşımı veya ağ hatası: fail open.
		configslog.Log.Warn("Turnstile doğrulaması başarısız, degrade edilip izin veriliyor",
			zap.String("remote_ip", remoteIP), zap.Error(err))
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		configslog.Log.Warn("Turnstile servisi geçici olarak kullanılamıyor, izin veriliyor",
			zap.Int("status", resp.StatusCode), zap.String("remote_ip", remoteIP))
		return true
	}
	if resp.StatusCode != http.StatusOK {
		configslog.Log.Warn("Turnstile doğrulaması beklenmeyen durum kodu döndürdü",
			zap.Int("status", resp.StatusCode), zap.String("remote_ip", remoteIP))
		return false
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		configslog.Log.Warn("Turnstile yanıtı çözümlenemedi, izin veriliyor", zap.Error(err))
		return true
	}

	if !result.Success {
		configslog.SLog.Infof("Turnstile doğrulaması reddedildi, hatalar=%v IP=%s", result.ErrorCodes, remoteIP)
	}
	return result.Success
}

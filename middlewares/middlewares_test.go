package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pcard.link/configs/configsapp"
	"pcard.link/configs/configslog"
	"pcard.link/configs/configssession"
	"pcard.link/models"
	"pcard.link/pkg/challengegate"
	"pcard.link/pkg/ratecounter"
	"pcard.link/utils"

	"github.com/gofiber/fiber/v2"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	m.Run()
}

func testConfig() configsapp.Config {
	return configsapp.Config{
		RateWindow:        time.Minute,
		RateDefault:       configsapp.RateRule{Limit: 1000, Trigger: 1000},
		RateLogin:         configsapp.RateRule{Limit: 50, Trigger: 5},
		RateRegister:      configsapp.RateRule{Limit: 30, Trigger: 30},
		RateAPI:           configsapp.RateRule{Limit: 500, Trigger: 500},
		ChallengeCooldown: 10 * time.Minute,
		BotScoreThreshold: 30,
	}
}

func okHandler(c *fiber.Ctx) error { return c.SendString("ok") }

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	checks := map[string]string{
		fiber.HeaderXContentTypeOptions: "nosniff",
		fiber.HeaderXFrameOptions:       "SAMEORIGIN",
		fiber.HeaderReferrerPolicy:      "strict-origin-when-cross-origin",
		fiber.HeaderXXSSProtection:      "0",
	}
	for header, want := range checks {
		if got := resp.Header.Get(header); got != want {
			t.Errorf("%s = %q, beklenen %q", header, got, want)
		}
	}
	if resp.Header.Get(fiber.HeaderContentSecurityPolicy) == "" {
		t.Error("varsayılan CSP eklenmedi")
	}
	if resp.Header.Get(fiber.HeaderStrictTransportSecurity) != "" {
		t.Error("HTTP istekte HSTS olmamalı")
	}
}

func TestSecurityHeadersKeepsExistingCSP(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentSecurityPolicy, "default-src 'none'")
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(fiber.HeaderContentSecurityPolicy); got != "default-src 'none'" {
		t.Errorf("handler'ın CSP'si ezildi: %q", got)
	}
}

func TestSecurityHeadersHSTSWhenForwardedHTTPS(t *testing.T) {
	app := fiber.New()
	app.Use(Cloudflare(testConfig()))
	app.Use(SecurityHeaders())
	app.Get("/", okHandler)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXForwardedProto, "https")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get(fiber.HeaderStrictTransportSecurity) == "" {
		t.Error("proxy HTTPS isteğinde HSTS beklenirdi")
	}
}

func TestStaticCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(StaticCache())
	app.Get("/uploads/a.png", okHandler)
	app.Get("/static/app.css", okHandler)
	app.Get("/page", okHandler)

	resp, _ := app.Test(httptest.NewRequest("GET", "/uploads/a.png", nil))
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != uploadsCacheControl {
		t.Errorf("uploads Cache-Control = %q", got)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/static/app.css", nil))
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != assetsCacheControl {
		t.Errorf("css Cache-Control = %q", got)
	}
	if resp.Header.Get(fiber.HeaderVary) != "Accept-Encoding" {
		t.Error("css yanıtında Vary başlığı yok")
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/page", nil))
	if resp.Header.Get(fiber.HeaderCacheControl) != "" {
		t.Error("dinamik sayfada cache başlığı olmamalı")
	}
}

func TestCloudflareBotScoreRejection(t *testing.T) {
	app := fiber.New()
	app.Use(Cloudflare(testConfig()))
	app.Post("/auth/login", okHandler)
	app.Get("/about", okHandler)

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.Header.Set(headerCFBotScore, "5")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, beklenen 403", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Bot detected. Access denied.") {
		t.Errorf("beklenen hata gövdesi yok: %s", body)
	}

	// Korunmayan yolda aynı skor engellenmez.
	req = httptest.NewRequest("GET", "/about", nil)
	req.Header.Set(headerCFBotScore, "5")
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("korunmayan yol engellendi: %d", resp.StatusCode)
	}
}

func TestCloudflareGoodScorePasses(t *testing.T) {
	app := fiber.New()
	app.Use(Cloudflare(testConfig()))
	app.Post("/auth/login", okHandler)

	req := httptest.NewRequest("POST", "/auth/login", nil)
	req.Header.Set(headerCFBotScore, "85")
	req.Header.Set(headerCFConnectingIP, "203.0.113.9")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("iyi skorlu istek engellendi: %d", resp.StatusCode)
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLogin = configsapp.RateRule{Limit: 3, Trigger: 3}
	table := ratecounter.NewTable(cfg.RateWindow)
	defer table.Stop()

	app := fiber.New()
	app.Use(Cloudflare(cfg))
	app.Use(RateLimit(cfg, table))
	app.Post("/auth/login", okHandler)

	var lastStatus int
	var retryAfter string
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.Header.Set(headerCFConnectingIP, "198.51.100.7")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		lastStatus = resp.StatusCode
		retryAfter = resp.Header.Get(fiber.HeaderRetryAfter)
	}
	if lastStatus != fiber.StatusTooManyRequests {
		t.Fatalf("limit üstü istek status = %d, beklenen 429", lastStatus)
	}
	if retryAfter != "60" {
		t.Errorf("Retry-After = %q, beklenen 60", retryAfter)
	}
}

func TestRateLimitSkipsStaticPaths(t *testing.T) {
	cfg := testConfig()
	cfg.RateDefault = configsapp.RateRule{Limit: 1, Trigger: 1}
	table := ratecounter.NewTable(cfg.RateWindow)
	defer table.Stop()

	app := fiber.New()
	app.Use(RateLimit(cfg, table))
	app.Get("/static/app.css", okHandler)

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/static/app.css", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("statik istek sayaca takıldı: %d", resp.StatusCode)
		}
	}
	if table.Len() != 0 {
		t.Errorf("statik yol için sayaç oluşturuldu: %d", table.Len())
	}
}

func TestRateLimitTriggersChallengeUnderLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLogin = configsapp.RateRule{Limit: 50, Trigger: 5}
	table := ratecounter.NewTable(cfg.RateWindow)
	defer table.Stop()

	store := configssession.SetupSession()
	var challenged bool

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session_store", store)
		return c.Next()
	})
	app.Use(Cloudflare(cfg))
	app.Use(RateLimit(cfg, table))
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		sess, err := utils.SessionStart(c)
		if err != nil {
			return err
		}
		challenged = challengegate.IsRequired(sess)
		// Cookie'nin ilk istekte oluşması için oturum kaydedilir.
		if err := sess.Save(); err != nil {
			return err
		}
		return c.SendString("ok")
	})

	var cookie string
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.Header.Set(headerCFConnectingIP, "192.0.2.44")
		if cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("limit altındaki istek kesildi: %d (istek %d)", resp.StatusCode, i+1)
		}
		if sc := resp.Header.Get(fiber.HeaderSetCookie); sc != "" {
			cookie = strings.Split(sc, ";")[0]
		}
	}
	if !challenged {
		t.Error("eşik aşıldığında oturum challenge moduna geçmeliydi")
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &models.User{Username: "yonetici", Role: models.RoleAdmin}
	regular := &models.User{Username: "uye", Role: models.RoleUser}

	app := fiber.New()
	app.Get("/admin", func(c *fiber.Ctx) error {
		switch c.Query("as") {
		case "admin":
			c.Locals(LocalCurrentUser, admin)
		case "user":
			c.Locals(LocalCurrentUser, regular)
		}
		return c.Next()
	}, RequireAdmin(), okHandler)

	cases := []struct {
		as   string
		want int
	}{
		{"admin", fiber.StatusOK},
		{"user", fiber.StatusForbidden},
		{"", fiber.StatusForbidden}, // oturumsuz doğrudan erişim
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", "/admin?as="+tc.as, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tc.want {
			t.Errorf("as=%q status = %d, beklenen %d", tc.as, resp.StatusCode, tc.want)
		}
	}
}

func TestAuthRedirectsGuests(t *testing.T) {
	app := fiber.New()
	app.Get("/panel", Auth(), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/panel", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, beklenen 302", resp.StatusCode)
	}
	if loc := resp.Header.Get(fiber.HeaderLocation); loc != "/auth/login" {
		t.Errorf("Location = %q", loc)
	}
}

package configssession

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

// SetupSession fiber session store'unu oluşturur.
// Cloudflare arkasında TLS sonlandığı için cookie secure bayrağı APP_ENV'e bağlıdır.
func SetupSession() *session.Store {
	return session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:pcard_session",
		CookieHTTPOnly: true,
		CookieSecure:   os.Getenv("APP_ENV") == "production",
		CookieSameSite: "Lax",
	})
}

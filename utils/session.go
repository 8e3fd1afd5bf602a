package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Session anahtarları.
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "user_name"
	SessionKeyIsAdmin  = "is_admin"
)

var (
	ErrSessionStoreMissing = errors.New("session store locals içinde bulunamadı")
	ErrUserIDMissing       = errors.New("session içinde kullanıcı ID yok")
)

// SessionStart locals'a konulmuş store üzerinden isteğin session'ını açar.
func SessionStart(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals("session_store").(*session.Store)
	if !ok || store == nil {
		return nil, ErrSessionStoreMissing
	}
	return store.Get(c)
}

// GetUserIDFromSession oturum açmış kullanıcının ID'sini döndürür.
func GetUserIDFromSession(sess *session.Session) (uint, error) {
	id, ok := sess.Get(SessionKeyUserID).(uint)
	if !ok || id == 0 {
		return 0, ErrUserIDMissing
	}
	return id, nil
}

// SetUserSession başarılı girişte kullanıcı bilgilerini session'a yazar.
func SetUserSession(sess *session.Session, userID uint, username string, isAdmin bool) error {
	sess.Set(SessionKeyUserID, userID)
	sess.Set(SessionKeyUsername, username)
	sess.Set(SessionKeyIsAdmin, isAdmin)
	return sess.Save()
}

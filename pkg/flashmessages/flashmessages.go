package flashmessages

import (
	"github.com/gofiber/fiber/v2"

	"pcard.link/utils"
)

// Session-flash anahtarları.
const (
	FlashSuccessKey = "flash_success"
	FlashErrorKey   = "flash_error"
)

// FlashData bir sonraki istekte gösterilecek mesajlar.
type FlashData struct {
	Success string
	Error   string
}

// SetFlashMessage mesajı session'a yazar; bir sonraki okuyuşta silinir.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return err
	}
	sess.Set(key, message)
	return sess.Save()
}

// GetFlashMessages mesajları okur ve session'dan temizler (tek kullanımlık).
func GetFlashMessages(c *fiber.Ctx) (FlashData, error) {
	sess, err := utils.SessionStart(c)
	if err != nil {
		return FlashData{}, err
	}

	data := FlashData{}
	if v, ok := sess.Get(FlashSuccessKey).(string); ok {
		data.Success = v
		sess.Delete(FlashSuccessKey)
	}
	if v, ok := sess.Get(FlashErrorKey).(string); ok {
		data.Error = v
		sess.Delete(FlashErrorKey)
	}
	if data.Success != "" || data.Error != "" {
		err = sess.Save()
	}
	return data, err
}

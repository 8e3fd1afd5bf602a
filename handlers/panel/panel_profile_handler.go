package handlers

import (
	"net/http"

	"pcard.link/middlewares"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/renderer"
	"pcard.link/services"

	"github.com/gofiber/fiber/v2"
)

// PanelProfileHandler kullanıcının kendi profil ayarları için handler.
type PanelProfileHandler struct {
	userService services.IUserService
}

// NewPanelProfileHandler yeni bir PanelProfileHandler örneği oluşturur.
func NewPanelProfileHandler() *PanelProfileHandler {
	return &PanelProfileHandler{userService: services.NewUserService()}
}

// ShowProfile profil formunu gösterir.
func (h *PanelProfileHandler) ShowProfile(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title": "Profilim",
		"User":  user,
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "panel/profile", "layouts/panel_layout", data, http.StatusOK)
}

// UpdateNickname kullanıcının takma adını günceller.
func (h *PanelProfileHandler) UpdateNickname(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	if err := h.userService.UpdateNickname(c.UserContext(), user.ID, user.ID, c.FormValue("nickname")); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Takma adınız güncellendi.")
	}
	return c.Redirect("/panel/profile", fiber.StatusSeeOther)
}

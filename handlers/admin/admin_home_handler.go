package handlers

import (
	"net/http"

	"pcard.link/configs/configslog"
	"pcard.link/middlewares"
	"pcard.link/models"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/renderer"
	"pcard.link/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHomeHandler yönetim paneli ana sayfası (istatistikler).
type AdminHomeHandler struct {
	userRepo    repositories.IUserRepository
	cardRepo    repositories.ICardRepository
	commentRepo repositories.ICommentRepository
}

// NewAdminHomeHandler yeni bir AdminHomeHandler örneği oluşturur.
func NewAdminHomeHandler() *AdminHomeHandler {
	return &AdminHomeHandler{
		userRepo:    repositories.NewUserRepository(),
		cardRepo:    repositories.NewCardRepository(),
		commentRepo: repositories.NewCommentRepository(),
	}
}

// Home sayaçları toplar ve gösterge panelini çizer. Tek bir sayacın
// hatası sayfayı düşürmez; hatalı değer sıfır gösterilir.
func (h *AdminHomeHandler) Home(c *fiber.Ctx) error {
	count := func(v int64, err error) int64 {
		if err != nil {
			configslog.Log.Error("Admin istatistikleri okunamadı", zap.Error(err))
			return 0
		}
		return v
	}

	stats := fiber.Map{
		"TotalUsers":    count(h.userRepo.CountUsers("", "all", "all")),
		"AdminUsers":    count(h.userRepo.AdminCount()),
		"ActiveUsers":   count(h.userRepo.CountUsers("", "all", models.StatusActive)),
		"BannedUsers":   count(h.userRepo.CountUsers("", "all", models.StatusBanned)),
		"TotalCards":    count(h.cardRepo.CountCards("", "all")),
		"PublicCards":   count(h.cardRepo.CountCards("", models.VisibilityPublic)),
		"LinkOnlyCards": count(h.cardRepo.CountCards("", models.VisibilityLinkOnly)),
		"PrivateCards":  count(h.cardRepo.CountCards("", models.VisibilityPrivate)),
		"TotalComments": count(h.commentRepo.CountAll("")),
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title": "Yönetim Paneli",
		"Stats": stats,
		"User":  middlewares.CurrentUser(c),
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "admin/home", "layouts/admin_layout", data, http.StatusOK)
}

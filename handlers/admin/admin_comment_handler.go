package handlers

import (
	"net/http"

	"pcard.link/configs/configslog"
	"pcard.link/middlewares"
	"pcard.link/models"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/queryparams"
	"pcard.link/pkg/renderer"
	"pcard.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminCommentHandler yorum moderasyonu için handler.
type AdminCommentHandler struct {
	commentService services.ICommentService
}

// NewAdminCommentHandler yeni bir AdminCommentHandler örneği oluşturur.
func NewAdminCommentHandler() *AdminCommentHandler {
	return &AdminCommentHandler{commentService: services.NewCommentService()}
}

// ListComments aranabilir düz yorum listesi.
func (h *AdminCommentHandler) ListComments(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.commentService.GetCommentsPaginated(c.UserContext(), params)
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":  "Yorumlar",
		"Result": result,
		"Params": params,
		"User":   middlewares.CurrentUser(c),
	}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		data[renderer.FlashErrorKeyView] = "Yorumlar listelenirken hata oluştu."
		data["Result"] = &queryparams.PaginatedResult{Data: []models.Comment{}, Meta: queryparams.PaginationMeta{}}
		configslog.Log.Error("Admin - ListComments Error", zap.Error(err))
	}
	return renderer.Render(c, "admin/comments/list", "layouts/admin_layout", data, http.StatusOK)
}

// DeleteComment yorumu yanıtlarıyla birlikte siler.
func (h *AdminCommentHandler) DeleteComment(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if actor == nil || err != nil || id <= 0 {
		return c.Redirect("/admin/comments", fiber.StatusSeeOther)
	}

	if err := h.commentService.DeleteComment(c.UserContext(), uint(id), actor); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Yorum silindi.")
	}
	return c.Redirect("/admin/comments", fiber.StatusSeeOther)
}

package handlers

import (
	"errors"
	"strconv"

	"pcard.link/configs/configslog"
	"pcard.link/middlewares"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/visibility"
	"pcard.link/repositories"
	"pcard.link/services"
	"pcard.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicCommentHandler kart sayfasındaki yorum işlemlerini yönetir.
type PublicCommentHandler struct {
	commentService services.ICommentService
}

// NewPublicCommentHandler yeni bir PublicCommentHandler örneği oluşturur.
func NewPublicCommentHandler() *PublicCommentHandler {
	return &PublicCommentHandler{
		commentService: services.NewCommentService(),
	}
}

// AddComment karta yorum veya yanıt ekler. Kartı görüntüleme yetkisi
// olmayan kullanıcı yorum da yapamaz.
func (h *PublicCommentHandler) AddComment(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	cardID, err := c.ParamsInt("cardID")
	if err != nil || cardID <= 0 {
		return fiber.ErrNotFound
	}

	// Yetki görünürlük üzerinden denetlenir; sahiplik şartı yok, bu yüzden
	// servis yerine doğrudan repo ile okunur.
	card, err := repositories.NewCardRepository().FindByID(c.UserContext(), uint(cardID))
	if err != nil {
		return fiber.ErrNotFound
	}
	if !visibility.Allowed(card, c.FormValue("token"), visibility.RequesterFromUser(user)) {
		return fiber.NewError(fiber.StatusForbidden, "Bu karta yorum yapma yetkiniz yok")
	}

	redirect := "/card/" + card.LinkID
	if token := c.FormValue("token"); token != "" {
		redirect += "?token=" + token
	}

	var parentID *uint
	if raw := c.FormValue("parent_id"); raw != "" {
		if id, parseErr := strconv.ParseUint(raw, 10, 32); parseErr == nil && id > 0 {
			parsed := uint(id)
			parentID = &parsed
		}
	}

	if _, err := h.commentService.AddComment(c.UserContext(), card.ID, user, c.FormValue("content"), parentID); err != nil {
		configslog.Log.Warn("Yorum eklenemedi", zap.Uint("cardID", card.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirect, fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Yorumunuz eklendi.")
	return c.Redirect(redirect, fiber.StatusSeeOther)
}

// DeleteComment yorumu siler; yetki denetimi servis katmanında yapılır.
func (h *PublicCommentHandler) DeleteComment(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	commentID, err := c.ParamsInt("id")
	if err != nil || commentID <= 0 {
		return fiber.ErrNotFound
	}

	if err := h.commentService.DeleteComment(c.UserContext(), uint(commentID), user); err != nil {
		if errors.Is(err, services.ErrCommentForbidden) {
			return fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Yorum silindi.")
	}

	if redirect := c.FormValue("redirect"); utils.IsSafeRedirect(redirect) {
		return c.Redirect(redirect, fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

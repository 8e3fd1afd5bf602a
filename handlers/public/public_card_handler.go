package handlers

import (
	"errors"
	"net/http"

	"pcard.link/configs/configslog"
	"pcard.link/middlewares"
	"pcard.link/models"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/queryparams"
	"pcard.link/pkg/renderer"
	"pcard.link/pkg/visibility"
	"pcard.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicCardHandler kart görüntüleme ve kısa bağlantı isteklerini yönetir.
type PublicCardHandler struct {
	cardService    services.ICardService
	commentService services.ICommentService
}

// NewPublicCardHandler yeni bir PublicCardHandler örneği oluşturur.
func NewPublicCardHandler() *PublicCardHandler {
	return &PublicCardHandler{
		cardService:    services.NewCardService(),
		commentService: services.NewCommentService(),
	}
}

// Home ana sayfada PUBLIC kartları sayfalayarak listeler.
func (h *PublicCardHandler) Home(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.cardService.GetPublicCardsPaginated(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("Home: kart listesi alınamadı", zap.Error(err))
		result = &queryparams.PaginatedResult{Data: []models.Card{}, Meta: queryparams.PaginationMeta{}}
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":  "Kartlar",
		"Result": result,
		"Params": params,
		"User":   middlewares.CurrentUser(c),
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "public/home", "layouts/main_layout", data, http.StatusOK)
}

// ViewCard kalıcı bağlantı ile kartı gösterir. Önce varlık (404), sonra
// görünürlük (403) denetlenir; görünür kartta yorum ağacı yüklenir.
func (h *PublicCardHandler) ViewCard(c *fiber.Ctx) error {
	linkID := c.Params("linkID")

	card, err := h.cardService.GetCardByLinkID(c.UserContext(), linkID)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			return fiber.ErrNotFound
		}
		configslog.Log.Error("ViewCard: kart alınamadı", zap.String("linkID", linkID), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	requester := visibility.RequesterFromUser(middlewares.CurrentUser(c))
	if !visibility.Allowed(card, c.Query("token"), requester) {
		configslog.Log.Info("Görünürlük nedeniyle erişim reddedildi",
			zap.Uint("cardID", card.ID), zap.String("visibility", card.NormalizedVisibility()))
		return fiber.NewError(fiber.StatusForbidden, "Bu kartı görüntüleme yetkiniz yok")
	}

	comments, err := h.commentService.GetCommentTree(c.UserContext(), card.ID)
	if err != nil {
		comments = nil
	}

	user := middlewares.CurrentUser(c)
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":    card.ProducerName,
		"Card":     card,
		"SnsLinks": card.SnsLinks(),
		"Comments": comments,
		"User":     user,
		"IsOwner":  user != nil && (user.ID == card.UserID || user.IsAdmin()),
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "public/card", "layouts/main_layout", data, http.StatusOK)
}

// ShortLink kısa kodu kalıcı bağlantıya 302 ile yönlendirir. LINK_ONLY
// kartlarda paylaşım token'ı yönlendirmeye eklenir ki bağlantı çalışsın.
func (h *PublicCardHandler) ShortLink(c *fiber.Ctx) error {
	code := c.Params("code")

	card, err := h.cardService.GetCardByShortCode(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			return fiber.ErrNotFound
		}
		configslog.Log.Error("ShortLink: kart alınamadı", zap.String("code", code), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	target := "/card/" + card.LinkID
	if card.NormalizedVisibility() == models.VisibilityLinkOnly && card.ShareToken != "" {
		target += "?token=" + card.ShareToken
	}
	return c.Redirect(target, fiber.StatusFound)
}

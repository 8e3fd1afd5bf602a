package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pcard.link/configs/configsapp"
	"pcard.link/configs/configslog"
	"pcard.link/middlewares"
	"pcard.link/models"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/renderer"
	"pcard.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelCardHandler kullanıcının kendi kartları için handler.
type PanelCardHandler struct {
	service   services.ICardService
	uploadDir string
}

// NewPanelCardHandler yeni bir PanelCardHandler örneği oluşturur.
func NewPanelCardHandler(cfg configsapp.Config) *PanelCardHandler {
	return &PanelCardHandler{
		service:   services.NewCardService(),
		uploadDir: cfg.UploadDir,
	}
}

// ListCards kullanıcının kartlarını listeler.
func (h *PanelCardHandler) ListCards(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	cards, err := h.service.GetCardsForUser(c.UserContext(), user.ID)
	if err != nil {
		configslog.Log.Error("Panel - ListCards Error", zap.Uint("userID", user.ID), zap.Error(err))
		cards = nil
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title": "Kartlarım",
		"Cards": cards,
		"User":  user,
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "panel/cards/list", "layouts/panel_layout", data, http.StatusOK)
}

// ShowCreateCard yeni kart formunu gösterir.
func (h *PanelCardHandler) ShowCreateCard(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title": "Yeni Kart",
		"User":  middlewares.CurrentUser(c),
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "panel/cards/create", "layouts/panel_layout", data, http.StatusOK)
}

// parseSnsLinks formdan sns_name[]/sns_value[] çiftlerini okur.
func parseSnsLinks(c *fiber.Ctx) []models.SnsLink {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	names := form.Value["sns_name[]"]
	values := form.Value["sns_value[]"]
	var links []models.SnsLink
	for i := range names {
		if i >= len(values) {
			break
		}
		name := strings.TrimSpace(names[i])
		value := strings.TrimSpace(values[i])
		if name != "" && value != "" {
			links = append(links, models.SnsLink{Name: name, Value: value})
		}
	}
	return links
}

// cardInputFromForm form alanlarını ve varsa görselleri CardInput'a aktarır.
func (h *PanelCardHandler) cardInputFromForm(c *fiber.Ctx) (services.CardInput, error) {
	input := services.CardInput{
		ProducerName: c.FormValue("producer_name"),
		Region:       c.FormValue("region"),
		IdolName:     c.FormValue("idol_name"),
		Visibility:   c.FormValue("visibility", models.VisibilityPublic),
		SnsLinks:     parseSnsLinks(c),
	}

	if file, err := c.FormFile("card_front"); err == nil && file != nil {
		path, orientation, saveErr := saveCardImage(file, h.uploadDir)
		if saveErr != nil {
			return input, saveErr
		}
		input.FrontPath = &path
		input.ImageOrientation = orientation
	}
	if file, err := c.FormFile("card_back"); err == nil && file != nil {
		path, _, saveErr := saveCardImage(file, h.uploadDir)
		if saveErr != nil {
			return input, saveErr
		}
		input.BackPath = &path
	}
	return input, nil
}

// CreateCard yeni kart oluşturur.
func (h *PanelCardHandler) CreateCard(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	input, err := h.cardInputFromForm(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/cards/create", fiber.StatusSeeOther)
	}

	card, err := h.service.CreateCard(c.UserContext(), user.ID, input)
	if err != nil {
		configslog.Log.Error("Panel - CreateCard Error", zap.Uint("userID", user.ID), zap.Error(err))
		// Servis reddettiyse kaydedilen görseller yetim kalmasın.
		if input.FrontPath != nil {
			removeUploadedFile(h.uploadDir, *input.FrontPath)
		}
		if input.BackPath != nil {
			removeUploadedFile(h.uploadDir, *input.BackPath)
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel/cards/create", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kart oluşturuldu.")
	return c.Redirect(fmt.Sprintf("/panel/cards/update/%d", card.ID), fiber.StatusFound)
}

// ShowUpdateCard kart düzenleme formunu gösterir.
func (h *PanelCardHandler) ShowUpdateCard(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel", fiber.StatusSeeOther)
	}

	card, err := h.service.GetCardByID(c.UserContext(), uint(id), user)
	if err != nil {
		errMsg := "Kart bulunamadı."
		if errors.Is(err, services.ErrCardForbidden) {
			errMsg = err.Error()
		} else if !errors.Is(err, services.ErrCardNotFound) {
			errMsg = "Kart bilgileri alınırken hata oluştu."
			configslog.Log.Error("Panel - ShowUpdateCard Error", zap.Int("id", id), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, errMsg)
		return c.Redirect("/panel", fiber.StatusSeeOther)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":    "Kartı Düzenle",
		"Card":     card,
		"SnsLinks": card.SnsLinks(),
		"User":     user,
	}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "panel/cards/update", "layouts/panel_layout", data, http.StatusOK)
}

// UpdateCard kartı günceller; yeni görsel yüklendiyse eskisi silinir.
func (h *PanelCardHandler) UpdateCard(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel", fiber.StatusSeeOther)
	}
	cardID := uint(id)
	redirectPath := fmt.Sprintf("/panel/cards/update/%d", cardID)

	existing, err := h.service.GetCardByID(c.UserContext(), cardID, user)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/panel", fiber.StatusSeeOther)
	}

	input, err := h.cardInputFromForm(c)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	if _, err := h.service.UpdateCard(c.UserContext(), cardID, user, input); err != nil {
		configslog.Log.Error("Panel - UpdateCard Error", zap.Uint("id", cardID), zap.Uint("userID", user.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Güncelleme hatası: "+err.Error())
		return c.Redirect(redirectPath, fiber.StatusSeeOther)
	}

	// Güncelleme başarılıysa değiştirilen görsellerin eski kopyaları silinir.
	if input.FrontPath != nil && existing.CardFrontPath != "" && existing.CardFrontPath != *input.FrontPath {
		removeUploadedFile(h.uploadDir, existing.CardFrontPath)
	}
	if input.BackPath != nil && existing.CardBackPath != "" && existing.CardBackPath != *input.BackPath {
		removeUploadedFile(h.uploadDir, existing.CardBackPath)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kart güncellendi.")
	return c.Redirect(redirectPath, fiber.StatusFound)
}

// DeleteCard kartı ve görsellerini siler.
func (h *PanelCardHandler) DeleteCard(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Geçersiz ID.")
		return c.Redirect("/panel", fiber.StatusSeeOther)
	}

	deleted, err := h.service.DeleteCard(c.UserContext(), uint(id), user)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Silme hatası: "+err.Error())
	} else {
		removeUploadedFile(h.uploadDir, deleted.CardFrontPath)
		removeUploadedFile(h.uploadDir, deleted.CardBackPath)
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kart silindi.")
	}
	return c.Redirect("/panel", fiber.StatusSeeOther)
}

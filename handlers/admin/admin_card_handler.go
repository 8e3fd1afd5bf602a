package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pcard.link/configs/configsapp"
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

// AdminCardHandler tüm kartların yönetimi için handler.
type AdminCardHandler struct {
	cardService services.ICardService
	uploadDir   string
}

// NewAdminCardHandler yeni bir AdminCardHandler örneği oluşturur.
func NewAdminCardHandler(cfg configsapp.Config) *AdminCardHandler {
	return &AdminCardHandler{
		cardService: services.NewCardService(),
		uploadDir:   cfg.UploadDir,
	}
}

// ListCards filtreli ve sayfalı kart listesi (tüm kullanıcılar).
func (h *AdminCardHandler) ListCards(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.cardService.GetAllCardsPaginated(c.UserContext(), params)
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":  "Kartlar",
		"Result": result,
		"Params": params,
		"User":   middlewares.CurrentUser(c),
	}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		data[renderer.FlashErrorKeyView] = "Kartlar listelenirken hata oluştu."
		data["Result"] = &queryparams.PaginatedResult{Data: []models.Card{}, Meta: queryparams.PaginationMeta{}}
		configslog.Log.Error("Admin - ListCards Error", zap.Error(err))
	}
	return renderer.Render(c, "admin/cards/list", "layouts/admin_layout", data, http.StatusOK)
}

// DeleteCard herhangi bir kartı siler (yönetici yetkisiyle).
func (h *AdminCardHandler) DeleteCard(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if actor == nil || err != nil || id <= 0 {
		return c.Redirect("/admin/cards", fiber.StatusSeeOther)
	}

	deleted, err := h.cardService.DeleteCard(c.UserContext(), uint(id), actor)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Silme hatası: "+err.Error())
	} else {
		removeAdminUploadedFile(h.uploadDir, deleted.CardFrontPath)
		removeAdminUploadedFile(h.uploadDir, deleted.CardBackPath)
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kart silindi.")
	}
	return c.Redirect("/admin/cards", fiber.StatusSeeOther)
}

// DeleteBatch seçilen kartları tek tek siler ki görseller de temizlensin.
func (h *AdminCardHandler) DeleteBatch(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	if actor == nil {
		return c.Redirect("/admin/cards", fiber.StatusSeeOther)
	}

	var deleted int
	for _, id := range parseBatchIDs(c) {
		card, err := h.cardService.DeleteCard(c.UserContext(), id, actor)
		if err != nil {
			if !errors.Is(err, services.ErrCardNotFound) {
				configslog.Log.Error("Admin - DeleteBatch Error", zap.Uint("cardID", id), zap.Error(err))
			}
			continue
		}
		removeAdminUploadedFile(h.uploadDir, card.CardFrontPath)
		removeAdminUploadedFile(h.uploadDir, card.CardBackPath)
		deleted++
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		fmt.Sprintf("%d kart silindi.", deleted))
	return c.Redirect("/admin/cards", fiber.StatusSeeOther)
}

// UpdateVisibilityBatch seçilen kartların görünürlüğünü toplu değiştirir.
// Yeni görünürlük paylaşım alanı gerektiriyorsa eksikler üretilir.
func (h *AdminCardHandler) UpdateVisibilityBatch(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	if actor == nil {
		return c.Redirect("/admin/cards", fiber.StatusSeeOther)
	}

	ids := parseBatchIDs(c)
	visibilityValue := c.FormValue("visibility")
	updated, err := h.cardService.UpdateVisibilityBatch(c.UserContext(), actor, ids, visibilityValue)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/admin/cards", fiber.StatusSeeOther)
	}

	// Yeni görünürlükte eksik kalan shareToken/shortCode tamamlanır.
	for _, id := range ids {
		card, getErr := h.cardService.GetCardByID(c.UserContext(), id, actor)
		if getErr != nil {
			continue
		}
		if ensureErr := h.cardService.EnsureShareLinks(c.UserContext(), card); ensureErr != nil {
			configslog.Log.Error("Paylaşım alanları tamamlanamadı", zap.Uint("cardID", id), zap.Error(ensureErr))
		}
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		fmt.Sprintf("%d kartın görünürlüğü güncellendi.", updated))
	return c.Redirect("/admin/cards", fiber.StatusSeeOther)
}

// ExportCSV filtreye uyan kartları CSV olarak indirir.
func (h *AdminCardHandler) ExportCSV(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()
	params.PerPage = queryparams.MaxPerPage
	params.Page = 1

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="kartlar_%s.csv"`, time.Now().Format("20060102")))

	w := csv.NewWriter(c.Response().BodyWriter())
	if err := w.Write([]string{"ID", "Sahip", "Uretici", "Bolge", "Idol", "Gorunurluk", "KisaKod", "KayitTarihi"}); err != nil {
		return err
	}

	for {
		result, err := h.cardService.GetAllCardsPaginated(c.UserContext(), params)
		if err != nil {
			configslog.Log.Error("Admin - ExportCSV (cards) Error", zap.Error(err))
			return fiber.ErrInternalServerError
		}
		cards, ok := result.Data.([]models.Card)
		if !ok || len(cards) == 0 {
			break
		}
		for _, card := range cards {
			record := []string{
				strconv.FormatUint(uint64(card.ID), 10),
				card.Owner.Username,
				card.ProducerName,
				card.Region,
				card.IdolName,
				card.NormalizedVisibility(),
				card.ShortCode,
				card.CreatedAt.Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
		if params.Page >= result.Meta.TotalPages {
			break
		}
		params.Page++
	}

	w.Flush()
	return w.Error()
}

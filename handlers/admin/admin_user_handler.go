package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

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

// AdminUserHandler kullanıcı yönetimi için handler.
type AdminUserHandler struct {
	userService services.IUserService
}

// NewAdminUserHandler yeni bir AdminUserHandler örneği oluşturur.
func NewAdminUserHandler() *AdminUserHandler {
	return &AdminUserHandler{userService: services.NewUserService()}
}

// parseBatchIDs formdaki ids[] alanlarını sayıya çevirir; bozuk değerler atlanır.
func parseBatchIDs(c *fiber.Ctx) []uint {
	var raw []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		raw = form.Value["ids[]"]
	}
	if len(raw) == 0 {
		for _, v := range c.Request().PostArgs().PeekMulti("ids[]") {
			raw = append(raw, string(v))
		}
	}
	var ids []uint
	for _, s := range raw {
		if id, parseErr := strconv.ParseUint(s, 10, 32); parseErr == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// ListUsers filtreli ve sayfalı kullanıcı listesi.
func (h *AdminUserHandler) ListUsers(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.userService.GetUsersPaginated(c.UserContext(), params)
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":  "Kullanıcılar",
		"Result": result,
		"Params": params,
		"User":   middlewares.CurrentUser(c),
	}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		data[renderer.FlashErrorKeyView] = "Kullanıcılar listelenirken hata oluştu."
		data["Result"] = &queryparams.PaginatedResult{Data: []models.User{}, Meta: queryparams.PaginationMeta{}}
		configslog.Log.Error("Admin - ListUsers Error", zap.Error(err))
	}
	return renderer.Render(c, "admin/users/list", "layouts/admin_layout", data, http.StatusOK)
}

// UpdateRole hedef kullanıcının rolünü değiştirir; kurallar servis
// katmanındaki guard'da uygulanır.
func (h *AdminUserHandler) UpdateRole(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if actor == nil || err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	if err := h.userService.UpdateUserRole(c.UserContext(), actor.ID, uint(id), c.FormValue("role")); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kullanıcı rolü güncellendi.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// UpdateStatus kullanıcıyı banlar veya banını kaldırır.
func (h *AdminUserHandler) UpdateStatus(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if actor == nil || err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	if err := h.userService.UpdateUserStatus(c.UserContext(), actor.ID, uint(id), c.FormValue("status")); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kullanıcı durumu güncellendi.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// UpdateNickname hedef kullanıcının takma adını değiştirir.
func (h *AdminUserHandler) UpdateNickname(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if actor == nil || err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	if err := h.userService.UpdateNickname(c.UserContext(), actor.ID, uint(id), c.FormValue("nickname")); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Takma ad güncellendi.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// DeleteUser kullanıcıyı kartları ve yorumlarıyla birlikte siler.
func (h *AdminUserHandler) DeleteUser(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if actor == nil || err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	if err := h.userService.DeleteUser(c.UserContext(), actor.ID, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Kullanıcı silindi.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// BanBatch seçilen kullanıcıları toplu banlar; yöneticiler atlanır.
func (h *AdminUserHandler) BanBatch(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	if actor == nil {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	banned, err := h.userService.BanUsersBatch(c.UserContext(), actor.ID, parseBatchIDs(c))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
			fmt.Sprintf("%d kullanıcı banlandı.", banned))
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// DeleteBatch seçilen kullanıcıları toplu siler; yöneticiler atlanır.
func (h *AdminUserHandler) DeleteBatch(c *fiber.Ctx) error {
	actor := middlewares.CurrentUser(c)
	if actor == nil {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}

	deleted, err := h.userService.DeleteUsersBatch(c.UserContext(), actor.ID, parseBatchIDs(c))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
			fmt.Sprintf("%d kullanıcı silindi.", deleted))
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// ExportCSV filtreye uyan kullanıcıları CSV olarak indirir.
func (h *AdminUserHandler) ExportCSV(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()
	params.PerPage = queryparams.MaxPerPage
	params.Page = 1

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="kullanicilar_%s.csv"`, time.Now().Format("20060102")))

	w := csv.NewWriter(c.Response().BodyWriter())
	if err := w.Write([]string{"ID", "KullaniciAdi", "TakmaAd", "Rol", "Durum", "KayitTarihi"}); err != nil {
		return err
	}

	for {
		result, err := h.userService.GetUsersPaginated(c.UserContext(), params)
		if err != nil {
			configslog.Log.Error("Admin - ExportCSV (users) Error", zap.Error(err))
			return fiber.ErrInternalServerError
		}
		users, ok := result.Data.([]models.User)
		if !ok || len(users) == 0 {
			break
		}
		for _, u := range users {
			record := []string{
				strconv.FormatUint(uint64(u.ID), 10),
				u.Username,
				u.Nickname,
				u.Role,
				u.Status,
				u.CreatedAt.Format(time.RFC3339),
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

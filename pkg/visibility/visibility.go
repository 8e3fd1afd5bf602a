package visibility

import "pcard.link/models"

// Requester bir kartı görüntülemek isteyen tarafı tanımlar.
// Anonim istekler için Authenticated false bırakılır.
type Requester struct {
	UserID        uint
	IsAdmin       bool
	Authenticated bool
}

// RequesterFromUser session'dan gelen kullanıcıdan Requester üretir; nil anonimdir.
func RequesterFromUser(user *models.User) Requester {
	if user == nil {
		return Requester{}
	}
	return Requester{UserID: user.ID, IsAdmin: user.IsAdmin(), Authenticated: true}
}

// Allowed görünürlük durum makinesini uygular:
//
//	PUBLIC    → koşulsuz izin
//	LINK_ONLY → token shareToken ile birebir eşleşiyorsa, ya da sahibi/admin ise
//	PRIVATE   → yalnızca sahibi veya admin
//
// Bilinmeyen/boş görünürlük, görünürlük alanı eklenmeden önceki kayıtlarla
// uyumluluk için PUBLIC kabul edilir. Kaynağın varlığı (404) bu karardan
// bağımsız olarak önce kontrol edilmelidir.
func Allowed(card *models.Card, providedToken string, r Requester) bool {
	isOwnerOrAdmin := r.Authenticated && (r.IsAdmin || r.UserID == card.UserID)

	switch card.NormalizedVisibility() {
	case models.VisibilityLinkOnly:
		if providedToken != "" && providedToken == card.ShareToken {
			return true
		}
		return isOwnerOrAdmin
	case models.VisibilityPrivate:
		return isOwnerOrAdmin
	default:
		return true
	}
}

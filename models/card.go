package models

import (
	"encoding/json"
	"strings"
)

// Görünürlük kademeleri.
const (
	VisibilityPublic   = "PUBLIC"
	VisibilityLinkOnly = "LINK_ONLY"
	VisibilityPrivate  = "PRIVATE"
)

// Kart görseli yönleri.
const (
	OrientationHorizontal = "HORIZONTAL"
	OrientationVertical   = "VERTICAL"
)

// Card bir prodüser kartvizitinin ana kaydıdır.
// LinkID public erişim için opak bir anahtardır; ShareToken LINK_ONLY
// kartlara kimlik doğrulamasız erişim sağlayan yetenek belirtecidir.
type Card struct {
	BaseModel
	UserID     uint   `gorm:"index;not null"`
	Visibility string `gorm:"type:varchar(10);not null;default:'PUBLIC';index"`
	ShareToken string `gorm:"type:varchar(40)"`
	ShortCode  string `gorm:"type:varchar(10);uniqueIndex"`
	LinkID     string `gorm:"type:varchar(40);uniqueIndex;not null"`

	ProducerName     string `gorm:"type:varchar(100);not null"`
	Region           string `gorm:"type:varchar(50)"`
	IdolName         string `gorm:"type:varchar(100)"`
	CardFrontPath    string `gorm:"type:varchar(255)"`
	CardBackPath     string `gorm:"type:varchar(255)"`
	ImageOrientation string `gorm:"type:varchar(10);default:'HORIZONTAL'"`
	CustomSNS        string `gorm:"type:text"`

	// GORM İlişkileri
	Owner    User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments []Comment `gorm:"foreignKey:CardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// SnsLink kart üzerindeki özel sosyal medya bağlantısı.
type SnsLink struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NormalizedVisibility eski kayıtlar için boş/bilinmeyen görünürlüğü
// geriye dönük uyumluluk gereği PUBLIC sayar.
func (c *Card) NormalizedVisibility() string {
	switch strings.ToUpper(c.Visibility) {
	case VisibilityLinkOnly:
		return VisibilityLinkOnly
	case VisibilityPrivate:
		return VisibilityPrivate
	default:
		return VisibilityPublic
	}
}

// SnsLinks JSON olarak saklanan özel SNS bağlantılarını çözer.
// Bozuk veri görüntülemeyi engellememeli; hata durumunda boş liste döner.
func (c *Card) SnsLinks() []SnsLink {
	if c.CustomSNS == "" {
		return nil
	}
	var links []SnsLink
	if err := json.Unmarshal([]byte(c.CustomSNS), &links); err != nil {
		return nil
	}
	return links
}

// SetSnsLinks bağlantı listesini JSON'a çevirip CustomSNS alanına yazar.
func (c *Card) SetSnsLinks(links []SnsLink) error {
	if len(links) == 0 {
		c.CustomSNS = ""
		return nil
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return err
	}
	c.CustomSNS = string(raw)
	return nil
}

// EnsureShareArtifacts görünürlük gereği zorunlu olan ShareToken ve
// ShortCode alanlarını tembel ve idempotent şekilde üretir: mevcut değerler
// asla yeniden üretilmez. tokenFn ve codeFn üretici fonksiyonlardır.
// Yeni bir short code üretildiyse true döner (benzersizlik kontrolü çağırana aittir).
func (c *Card) EnsureShareArtifacts(tokenFn func() string, codeFn func() string) bool {
	vis := c.NormalizedVisibility()
	if vis == VisibilityLinkOnly && c.ShareToken == "" {
		c.ShareToken = tokenFn()
	}
	generatedCode := false
	if (vis == VisibilityPublic || vis == VisibilityLinkOnly) && c.ShortCode == "" {
		c.ShortCode = codeFn()
		generatedCode = true
	}
	return generatedCode
}

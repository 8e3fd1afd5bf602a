package models

// Comment bir kartviziti üzerindeki kullanıcı yorumudur.
// ParentID dolu ise bu bir yanıttır; ağaç yapısı okuma anında kurulur.
// Yazar bilgileri (username/nickname) kullanıcı silinse bile yorumun
// görüntülenebilmesi için denormalize edilmiştir.
type Comment struct {
	BaseModel
	CardID          uint   `gorm:"index;not null"`
	UserID          uint   `gorm:"index;not null"`
	Username        string `gorm:"type:varchar(30);not null"`
	Nickname        string `gorm:"type:varchar(50);not null"`
	Content         string `gorm:"type:text;not null"`
	ParentID        *uint  `gorm:"index"`
	ReplyToUsername string `gorm:"type:varchar(30)"`
	ReplyToNickname string `gorm:"type:varchar(50)"`

	// Replies okuma anında doldurulur, veritabanına yazılmaz.
	Replies []*Comment `gorm:"-"`
}

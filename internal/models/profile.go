package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// SocialLink is a single entry in a profile's link list.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SocialLinks is a custom type for storing the link list as JSONB.
type SocialLinks []SocialLink

// Value implements the driver.Valuer interface
func (l SocialLinks) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *SocialLinks) Scan(value interface{}) error {
	if value == nil {
		*l = SocialLinks{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Profile is a user's public page. It is created lazily on the first
// profile save, never at signup.
type Profile struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	UserID            uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Bio               string         `gorm:"type:text" json:"bio"`
	Hobbies           string         `gorm:"type:text" json:"hobbies"`
	SocialLinks       SocialLinks    `gorm:"type:jsonb;not null;default:'[]'" json:"social_links"`
	CustomHTML        string         `gorm:"type:text" json:"custom_html"`
	Theme             string         `gorm:"size:50;not null;default:'default'" json:"theme"`
	LikesCount        int            `gorm:"not null;default:0" json:"likes_count"`
	ViewsCount        int            `gorm:"not null;default:0" json:"views_count"`
	ProfilePictureURL string         `gorm:"size:255" json:"profile_picture_url"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

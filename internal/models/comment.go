package models

import "time"

// Comment is a comment on a profile. Threading is two levels deep: a root
// comment has ParentID nil, a reply points at a root comment on the same
// profile. Reply-to-reply is rejected in the service layer.
type Comment struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProfileID  uint      `gorm:"not null;index" json:"profile_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ParentID   *uint     `gorm:"index" json:"parent_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Profile Profile  `gorm:"foreignKey:ProfileID" json:"-"`
	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Parent  *Comment `gorm:"foreignKey:ParentID" json:"-"`
}

package models

import "time"

// ProfileLike records one user liking one profile.
// The (profile_id, user_id) pair is unique; the index is the concurrency
// guard against duplicate likes under concurrent requests.
type ProfileLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_profile_like_pair" json:"profile_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_profile_like_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (ProfileLike) TableName() string {
	return "profile_likes"
}

// CommentLike is the comment-scoped counterpart of ProfileLike.
type CommentLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_pair" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

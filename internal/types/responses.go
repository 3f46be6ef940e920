package types

import (
	"time"

	"github.com/personascape/backend/internal/models"
)

// UserResponse is the public shape of an account
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileResponse is the public shape of a profile page
type ProfileResponse struct {
	ID             uint               `json:"id"`
	UserID         uint               `json:"userId"`
	Username       string             `json:"username"`
	Bio            string             `json:"bio"`
	Hobbies        string             `json:"hobbies"`
	SocialLinks    models.SocialLinks `json:"socialLinks"`
	CustomHTML     string             `json:"customHtml"`
	Theme          string             `json:"theme"`
	LikesCount     int                `json:"likesCount"`
	ViewsCount     int                `json:"viewsCount"`
	ProfilePicture string             `json:"profilePicture"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// CommentResponse is one node of the comment tree. Replies is only
// populated on root comments.
type CommentResponse struct {
	ID         uint              `json:"id"`
	ProfileID  uint              `json:"profileId"`
	UserID     uint              `json:"userId"`
	Username   string            `json:"username"`
	ParentID   *uint             `json:"parentId"`
	Content    string            `json:"content"`
	LikesCount int               `json:"likesCount"`
	ReplyCount int               `json:"replyCount"`
	Replies    []CommentResponse `json:"replies,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Pagination describes the page window of a comment listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// CommentListResponse is the payload of the comment listing endpoint
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}

// LeaderboardEntry is one row of a likes or views ranking
type LeaderboardEntry struct {
	ProfileID      uint   `json:"profileId"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	LikesCount     int    `json:"likesCount"`
	ViewsCount     int    `json:"viewsCount"`
}

// ViewStats is the view-statistics payload. The owner-only breakdown
// fields are omitted for other requesters.
type ViewStats struct {
	ViewsCount         int  `json:"viewsCount"`
	UniqueViewers      *int `json:"uniqueViewers,omitempty"`
	AuthenticatedViews *int `json:"authenticatedViews,omitempty"`
	AnonymousViews     *int `json:"anonymousViews,omitempty"`
}

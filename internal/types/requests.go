package types

import "github.com/personascape/backend/internal/models"

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the editable profile fields. Nil pointers
// leave the stored value untouched.
type UpdateProfileRequest struct {
	Bio            *string             `json:"bio,omitempty"`
	Hobbies        *string             `json:"hobbies,omitempty"`
	SocialLinks    *models.SocialLinks `json:"socialLinks,omitempty"`
	CustomHTML     *string             `json:"customHtml,omitempty"`
	Theme          *string             `json:"theme,omitempty"`
	ProfilePicture *string             `json:"profilePicture,omitempty"`
}

// CreateCommentRequest represents the request body for posting a comment
type CreateCommentRequest struct {
	ProfileID uint   `json:"profileId" binding:"required"`
	Content   string `json:"content" binding:"required"`
	ParentID  *uint  `json:"parentId,omitempty"`
}

// UpdateCommentRequest represents the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

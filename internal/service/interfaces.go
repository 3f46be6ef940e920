package service

import (
	"context"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for profile operations
type IProfileService interface {
	GetByUsername(ctx context.Context, username string) (*models.Profile, *models.User, error)
	GetByID(ctx context.Context, profileID uint) (*models.Profile, error)
	Upsert(ctx context.Context, userID uint, req *types.UpdateProfileRequest) (*models.Profile, error)
	SetProfilePicture(ctx context.Context, userID uint, url string) (*models.Profile, error)
}

// ILikeService defines the interface for profile like operations
type ILikeService interface {
	LikeProfile(ctx context.Context, userID, profileID uint) (int, error)
	UnlikeProfile(ctx context.Context, userID, profileID uint) (int, error)
	HasLiked(ctx context.Context, userID, profileID uint) (bool, int, error)
	LikedProfiles(ctx context.Context, userID uint) ([]types.LeaderboardEntry, error)
}

// IViewService defines the interface for view counter operations
type IViewService interface {
	RecordView(ctx context.Context, username string, viewerID *uint, ip, userAgent string) (int, error)
	Stats(ctx context.Context, username string, requesterID *uint) (*types.ViewStats, error)
}

// ICommentService defines the interface for comment tree operations
type ICommentService interface {
	ListRootComments(ctx context.Context, profileID uint, page, limit int) (*types.CommentListResponse, error)
	Create(ctx context.Context, profileID, authorID uint, content string, parentID *uint) (*models.Comment, error)
	Update(ctx context.Context, commentID, actorID uint, content string) (*models.Comment, error)
	Delete(ctx context.Context, commentID, actorID uint) error
	ToggleLike(ctx context.Context, commentID, userID uint) (bool, int, error)
}

// ILeaderboardService defines the interface for ranking queries
type ILeaderboardService interface {
	ByLikes(ctx context.Context, limit int) ([]types.LeaderboardEntry, error)
	ByViews(ctx context.Context, limit int) ([]types.LeaderboardEntry, error)
}

var (
	_ IAuthService        = (*AuthService)(nil)
	_ IProfileService     = (*ProfileService)(nil)
	_ ILikeService        = (*LikeService)(nil)
	_ IViewService        = (*ViewService)(nil)
	_ ICommentService     = (*CommentService)(nil)
	_ ILeaderboardService = (*LeaderboardService)(nil)
)

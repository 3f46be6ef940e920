package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/types"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrEmptyContent     = errors.New("comment content cannot be empty")
	ErrParentNotFound   = errors.New("parent comment not found")
	ErrParentMismatch   = errors.New("parent comment belongs to a different profile")
	ErrReplyDepth       = errors.New("replies to replies are not allowed")
	ErrNotCommentAuthor = errors.New("only the author can edit this comment")
	ErrDeleteForbidden  = errors.New("only the author or profile owner can delete this comment")
)

const (
	defaultCommentLimit = 10
	maxCommentLimit     = 50
)

// CommentService handles the two-level comment tree and comment likes.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListRootComments returns one page of root comments, newest first, each
// carrying its replies in chronological order.
func (s *CommentService) ListRootComments(ctx context.Context, profileID uint, page, limit int) (*types.CommentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultCommentLimit
	}
	if limit > maxCommentLimit {
		limit = maxCommentLimit
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("profile_id = ? AND parent_id IS NULL", profileID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var roots []models.Comment
	if err := s.db.WithContext(ctx).Preload("User").
		Where("profile_id = ? AND parent_id IS NULL", profileID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&roots).Error; err != nil {
		return nil, err
	}

	rootIDs := make([]uint, len(roots))
	for i, c := range roots {
		rootIDs[i] = c.ID
	}

	repliesByParent := make(map[uint][]types.CommentResponse)
	if len(rootIDs) > 0 {
		var replies []models.Comment
		if err := s.db.WithContext(ctx).Preload("User").
			Where("parent_id IN ?", rootIDs).
			Order("created_at ASC, id ASC").
			Find(&replies).Error; err != nil {
			return nil, err
		}
		for _, r := range replies {
			repliesByParent[*r.ParentID] = append(repliesByParent[*r.ParentID], toCommentResponse(&r))
		}
	}

	comments := make([]types.CommentResponse, 0, len(roots))
	for i := range roots {
		resp := toCommentResponse(&roots[i])
		resp.Replies = repliesByParent[roots[i].ID]
		resp.ReplyCount = len(resp.Replies)
		comments = append(comments, resp)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &types.CommentListResponse{
		Comments: comments,
		Pagination: types.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(page*limit) < total,
		},
	}, nil
}

// Create posts a comment or a reply. A reply's parent must be a root
// comment on the same profile.
func (s *CommentService) Create(ctx context.Context, profileID, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if parentID != nil {
		var parent models.Comment
		if err := s.db.WithContext(ctx).First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.ProfileID != profileID {
			return nil, ErrParentMismatch
		}
		if parent.ParentID != nil {
			return nil, ErrReplyDepth
		}
	}

	comment := models.Comment{
		ProfileID: profileID,
		UserID:    authorID,
		ParentID:  parentID,
		Content:   content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update edits a comment's content. Author only.
func (s *CommentService) Update(ctx context.Context, commentID, actorID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, ErrNotCommentAuthor
	}

	comment.Content = content
	if err := s.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment. The author or the profile owner may delete;
// deleting a root comment cascades to its replies and their likes.
func (s *CommentService) Delete(ctx context.Context, commentID, actorID uint) error {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, comment.ProfileID).Error; err != nil {
		return err
	}
	if comment.UserID != actorID && profile.UserID != actorID {
		return ErrDeleteForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", comment.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		ids := append(replyIDs, comment.ID)
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if len(replyIDs) > 0 {
			if err := tx.Where("id IN ?", replyIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
}

// ToggleLike flips the actor's like on a comment and returns the
// post-operation state. Same counter discipline as profile likes.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (bool, int, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrCommentNotFound
		}
		return false, 0, err
	}

	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return tx.Model(&models.Comment{}).
				Where("id = ? AND likes_count > 0", commentID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error
		}

		like := models.CommentLike{CommentID: commentID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Raced with a concurrent toggle; treat as already liked.
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		return false, 0, err
	}

	if err := s.db.WithContext(ctx).Select("likes_count").First(&comment, commentID).Error; err != nil {
		return false, 0, err
	}
	return liked, comment.LikesCount, nil
}

func toCommentResponse(c *models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:         c.ID,
		ProfileID:  c.ProfileID,
		UserID:     c.UserID,
		Username:   c.User.Username,
		ParentID:   c.ParentID,
		Content:    c.Content,
		LikesCount: c.LikesCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

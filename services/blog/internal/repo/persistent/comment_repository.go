package persistent

import (
	"context"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
	ToggleLike(ctx context.Context, accountID, commentID string) (*entity.ToggleResult, error)
	LikedBy(ctx context.Context, accountID string, commentIDs []string) (map[string]bool, error)
	CountForPosts(ctx context.Context, postIDs []string) (int64, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]*entity.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := &models.Comment{
		ID:       comment.ID,
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(commentModel).Error; err != nil {
		return err
	}

	comment.ID = commentModel.ID
	comment.CreatedAt = commentModel.CreatedAt
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFound(err)
	}
	return ToCommentEntity(&comment), nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	var commentModels []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&commentModels).Error
	if err != nil {
		return nil, err
	}
	return ToCommentEntities(commentModels), nil
}

func (r *commentRepository) ToggleLike(ctx context.Context, accountID, commentID string) (*entity.ToggleResult, error) {
	return toggle(ctx, r.db, reaction{
		mark:      &models.CommentLike{AccountID: accountID, CommentID: commentID},
		markWhere: "account_id = ? AND comment_id = ?",
		markArgs:  []interface{}{accountID, commentID},
		counter:   &models.Comment{},
		counterID: commentID,
		column:    "likes_count",
	})
}

func (r *commentRepository) LikedBy(ctx context.Context, accountID string, commentIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if accountID == "" || len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("account_id = ? AND comment_id IN ?", accountID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *commentRepository) CountForPosts(ctx context.Context, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id IN ?", postIDs).Count(&count).Error
	return count, err
}

func (r *commentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}

func (r *commentRepository) Recent(ctx context.Context, limit int) ([]*entity.Comment, error) {
	var commentModels []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Limit(limit).Find(&commentModels).Error
	if err != nil {
		return nil, err
	}
	return ToCommentEntities(commentModels), nil
}

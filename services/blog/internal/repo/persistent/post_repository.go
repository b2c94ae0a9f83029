package persistent

import (
	"context"
	"strings"
	"time"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, int64, error)
	ToggleLike(ctx context.Context, accountID, postID string) (*entity.ToggleResult, error)
	ToggleFavorite(ctx context.Context, accountID, postID string) (*entity.ToggleResult, error)
	IsLiked(ctx context.Context, accountID, postID string) (bool, error)
	IsFavorited(ctx context.Context, accountID, postID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(postModel).Error; err != nil {
		return err
	}

	post.ID = postModel.ID
	post.Visibility = entity.Visibility(postModel.Visibility)
	post.CreatedAt = postModel.CreatedAt
	post.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, notFound(err)
	}
	return ToPostEntity(&post), nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	postModel.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: postModel.ID}).
		Select("title", "content", "content_html", "visibility", "category_id", "updated_at").
		Updates(postModel)
	if res.Error != nil {
		return res.Error
	}
	post.UpdatedAt = postModel.UpdatedAt
	return nil
}

// Delete removes the post together with its comments, comment likes, likes
// and favorites.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("comment_id IN ?", nonEmpty(commentIDs)).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostFavorite{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) List(ctx context.Context, filter entity.PostFilter) ([]*entity.Post, int64, error) {
	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.filtered(ctx, filter).
		Select("posts.*").
		Preload("Author").
		Preload("Category").
		Order(orderFor(filter.Sort))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var postModels []models.Post
	if err := query.Find(&postModels).Error; err != nil {
		return nil, 0, err
	}
	return ToPostEntities(postModels), total, nil
}

func (r *postRepository) filtered(ctx context.Context, filter entity.PostFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if scope := filter.Scope; scope != nil {
		switch {
		case scope.Anonymous():
			query = query.Where("posts.visibility = ?", entity.VisibilityPublic)
		case len(scope.Mutual) > 0:
			query = query.Where(
				"(posts.visibility = ? OR posts.author_id = ? OR (posts.visibility = ? AND posts.author_id IN ?))",
				entity.VisibilityPublic, scope.ViewerID, entity.VisibilityMutual, scope.MutualIDs(),
			)
		default:
			query = query.Where("(posts.visibility = ? OR posts.author_id = ?)", entity.VisibilityPublic, scope.ViewerID)
		}
	}

	if filter.AuthorID != "" {
		query = query.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.CategoryID != "" {
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	} else if filter.Uncategorized {
		query = query.Where("posts.category_id IS NULL")
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.
			Joins("LEFT JOIN accounts ON accounts.id = posts.author_id").
			Where("(LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(accounts.username) LIKE ?)", like, like, like)
	}

	return query
}

func orderFor(sort entity.PostSort) string {
	switch sort {
	case entity.SortCreated:
		return "posts.created_at DESC"
	case entity.SortUpdated:
		return "posts.updated_at DESC"
	default:
		return "posts.likes_count DESC, posts.created_at DESC"
	}
}

func (r *postRepository) ToggleLike(ctx context.Context, accountID, postID string) (*entity.ToggleResult, error) {
	return toggle(ctx, r.db, reaction{
		mark:      &models.PostLike{AccountID: accountID, PostID: postID},
		markWhere: "account_id = ? AND post_id = ?",
		markArgs:  []interface{}{accountID, postID},
		counter:   &models.Post{},
		counterID: postID,
		column:    "likes_count",
	})
}

func (r *postRepository) ToggleFavorite(ctx context.Context, accountID, postID string) (*entity.ToggleResult, error) {
	return toggle(ctx, r.db, reaction{
		mark:      &models.PostFavorite{AccountID: accountID, PostID: postID},
		markWhere: "account_id = ? AND post_id = ?",
		markArgs:  []interface{}{accountID, postID},
		counter:   &models.Post{},
		counterID: postID,
		column:    "favorites_count",
	})
}

func (r *postRepository) IsLiked(ctx context.Context, accountID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).
		Where("account_id = ? AND post_id = ?", accountID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) IsFavorited(ctx context.Context, accountID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostFavorite{}).
		Where("account_id = ? AND post_id = ?", accountID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

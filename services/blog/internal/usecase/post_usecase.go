package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"meow-site/pkg/logger"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"

	"github.com/google/uuid"
)

const (
	PostPageSize   = 10
	MaxTitleLength = 200
	MaxImageSize   = 5 << 20
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type PostInput struct {
	Title      string
	Content    string
	Visibility entity.Visibility
	CategoryID string
}

type ListQuery struct {
	Query string
	Sort  entity.PostSort
	Page  int
}

type ManuscriptQuery struct {
	CategoryID    string
	Uncategorized bool
}

type PostUseCase interface {
	Create(ctx context.Context, viewer entity.Viewer, input PostInput) (*entity.Post, error)
	Update(ctx context.Context, viewer entity.Viewer, postID string, input PostInput) (*entity.Post, error)
	Delete(ctx context.Context, viewer entity.Viewer, postID string) error
	Get(ctx context.Context, viewer entity.Viewer, postID string) (*entity.PostDetail, error)
	List(ctx context.Context, viewer entity.Viewer, query ListQuery) (*entity.PostPage, error)
	Manuscripts(ctx context.Context, viewer entity.Viewer, username string, query ManuscriptQuery) (*entity.Manuscripts, error)
	ToggleLike(ctx context.Context, viewer entity.Viewer, postID string) (*entity.ToggleResult, error)
	ToggleFavorite(ctx context.Context, viewer entity.Viewer, postID string) (*entity.ToggleResult, error)
	UploadImage(ctx context.Context, viewer entity.Viewer, filename, contentType string, size int64, body io.Reader) (string, string, error)
}

type postUseCase struct {
	postRepo     persistent.PostRepository
	categoryRepo persistent.CategoryRepository
	commentRepo  persistent.CommentRepository
	accountRepo  persistent.AccountRepository
	followRepo   persistent.FollowRepository
	visibility   VisibilityUseCase
	renderer     ContentRenderer
	media        MediaStore
	publisher    EventPublisher
	logger       *logger.Logger
	now          Clock
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	categoryRepo persistent.CategoryRepository,
	commentRepo persistent.CommentRepository,
	accountRepo persistent.AccountRepository,
	followRepo persistent.FollowRepository,
	visibility VisibilityUseCase,
	renderer ContentRenderer,
	media MediaStore,
	publisher EventPublisher,
	logger *logger.Logger,
	clock Clock,
) PostUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &postUseCase{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		commentRepo:  commentRepo,
		accountRepo:  accountRepo,
		followRepo:   followRepo,
		visibility:   visibility,
		renderer:     renderer,
		media:        media,
		publisher:    publisher,
		logger:       logger,
		now:          clock,
	}
}

func (uc *postUseCase) validate(ctx context.Context, ownerID string, input *PostInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return entity.Invalid("title", "title is required")
	}
	if utf8.RuneCountInString(input.Title) > MaxTitleLength {
		return entity.Invalid("title", fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	if strings.TrimSpace(input.Content) == "" {
		return entity.Invalid("content", "content is required")
	}
	if input.Visibility == "" {
		input.Visibility = entity.VisibilityPublic
	}
	if !input.Visibility.Valid() {
		return entity.Invalid("visibility", "visibility must be public, mutual or private")
	}

	if input.CategoryID != "" {
		category, err := uc.categoryRepo.GetByID(ctx, input.CategoryID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return entity.Invalid("category_id", "category does not exist")
			}
			return err
		}
		if category.OwnerID != ownerID {
			return entity.Invalid("category_id", "category belongs to another author")
		}
	}
	return nil
}

func (uc *postUseCase) Create(ctx context.Context, viewer entity.Viewer, input PostInput) (*entity.Post, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	if err := uc.validate(ctx, viewer.ID, &input); err != nil {
		return nil, err
	}

	html, err := uc.renderer.Render(input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to render content: %w", err)
	}

	post := &entity.Post{
		AuthorID:    viewer.ID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Content:     input.Content,
		ContentHTML: html,
		Visibility:  input.Visibility,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.logger.Info("Post %s created by %s", post.ID, viewer.ID)
	return post, nil
}

// owned loads a post the viewer may mutate.
func (uc *postUseCase) owned(ctx context.Context, viewer entity.Viewer, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanModify(post.AuthorID) {
		return nil, entity.ErrForbidden
	}
	return post, nil
}

func (uc *postUseCase) Update(ctx context.Context, viewer entity.Viewer, postID string, input PostInput) (*entity.Post, error) {
	post, err := uc.owned(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, post.AuthorID, &input); err != nil {
		return nil, err
	}

	html, err := uc.renderer.Render(input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to render content: %w", err)
	}

	post.Title = input.Title
	post.Content = input.Content
	post.ContentHTML = html
	post.Visibility = input.Visibility
	post.CategoryID = input.CategoryID
	if err := uc.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (uc *postUseCase) Delete(ctx context.Context, viewer entity.Viewer, postID string) error {
	post, err := uc.owned(ctx, viewer, postID)
	if err != nil {
		return err
	}
	if err := uc.postRepo.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if post.AuthorID != viewer.ID {
		uc.logger.Info("Administrator %s deleted post %q by %s", viewer.ID, post.Title, post.AuthorName)
	}
	return nil
}

// visiblePost loads a post and applies the visibility rule for the viewer.
func (uc *postUseCase) visiblePost(ctx context.Context, viewerID, postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	ok, err := uc.visibility.CanView(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entity.ErrNotVisible
	}
	return post, nil
}

func (uc *postUseCase) Get(ctx context.Context, viewer entity.Viewer, postID string) (*entity.PostDetail, error) {
	post, err := uc.visiblePost(ctx, viewer.ID, postID)
	if err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	detail := &entity.PostDetail{
		Post:      post,
		Comments:  comments,
		WordCount: uc.renderer.WordCount(post.Content),
		CanEdit:   viewer.CanModify(post.AuthorID),
	}
	if viewer.IsAnonymous() {
		return detail, nil
	}

	if detail.Liked, err = uc.postRepo.IsLiked(ctx, viewer.ID, post.ID); err != nil {
		return nil, err
	}
	if detail.Favorited, err = uc.postRepo.IsFavorited(ctx, viewer.ID, post.ID); err != nil {
		return nil, err
	}
	if viewer.ID != post.AuthorID {
		if detail.FollowingAuthor, err = uc.followRepo.Exists(ctx, viewer.ID, post.AuthorID); err != nil {
			return nil, err
		}
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	liked, err := uc.commentRepo.LikedBy(ctx, viewer.ID, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		c.Liked = liked[c.ID]
	}
	return detail, nil
}

func (uc *postUseCase) List(ctx context.Context, viewer entity.Viewer, query ListQuery) (*entity.PostPage, error) {
	scope, err := uc.visibility.VisibleScope(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	page, offset := pageOffset(query.Page, PostPageSize)
	posts, total, err := uc.postRepo.List(ctx, entity.PostFilter{
		Scope:  scope,
		Query:  strings.TrimSpace(query.Query),
		Sort:   query.Sort,
		Limit:  PostPageSize,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return entity.NewPostPage(posts, total, page, PostPageSize), nil
}

func (uc *postUseCase) Manuscripts(ctx context.Context, viewer entity.Viewer, username string, query ManuscriptQuery) (*entity.Manuscripts, error) {
	author, err := uc.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	scope, err := uc.visibility.VisibleScope(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	all, _, err := uc.postRepo.List(ctx, entity.PostFilter{Scope: scope, AuthorID: author.ID, Sort: entity.SortCreated})
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.ListByOwner(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	m := &entity.Manuscripts{
		Author:        author,
		IsOwner:       viewer.ID == author.ID,
		Uncategorized: &entity.CategoryStats{Name: "Uncategorized"},
	}
	stats := make(map[string]*entity.CategoryStats, len(categories))
	for _, c := range categories {
		s := &entity.CategoryStats{CategoryID: c.ID, Name: c.Name}
		stats[c.ID] = s
		m.Categories = append(m.Categories, s)
	}

	ids := make([]string, 0, len(all))
	for _, p := range all {
		words := uc.renderer.WordCount(p.Content)
		bucket := m.Uncategorized
		if s, ok := stats[p.CategoryID]; ok {
			bucket = s
		}
		bucket.PostCount++
		bucket.WordCount += words

		m.TotalWords += words
		m.TotalLikes += p.LikesCount
		m.TotalFavorites += p.FavoritesCount
		ids = append(ids, p.ID)

		switch {
		case query.Uncategorized && p.CategoryID != "":
		case query.CategoryID != "" && p.CategoryID != query.CategoryID:
		default:
			m.Posts = append(m.Posts, p)
		}
	}

	if m.TotalComments, err = uc.commentRepo.CountForPosts(ctx, ids); err != nil {
		return nil, err
	}
	if m.Followers, err = uc.followRepo.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if m.Following, err = uc.followRepo.CountFollowing(ctx, author.ID); err != nil {
		return nil, err
	}
	if !m.IsOwner {
		author.Email = ""
		author.Phone = ""
	}
	return m, nil
}

func (uc *postUseCase) ToggleLike(ctx context.Context, viewer entity.Viewer, postID string) (*entity.ToggleResult, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	post, err := uc.visiblePost(ctx, viewer.ID, postID)
	if err != nil {
		return nil, err
	}
	result, err := uc.postRepo.ToggleLike(ctx, viewer.ID, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	if result.Active && post.AuthorID != viewer.ID {
		publish(ctx, uc.publisher, uc.logger, queue.Event{
			Type:       queue.EventPostLiked,
			ActorID:    viewer.ID,
			SubjectID:  post.ID,
			Data:       map[string]interface{}{"author_id": post.AuthorID},
			OccurredAt: uc.now(),
		})
	}
	return result, nil
}

func (uc *postUseCase) ToggleFavorite(ctx context.Context, viewer entity.Viewer, postID string) (*entity.ToggleResult, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	post, err := uc.visiblePost(ctx, viewer.ID, postID)
	if err != nil {
		return nil, err
	}
	result, err := uc.postRepo.ToggleFavorite(ctx, viewer.ID, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return result, nil
}

// UploadImage stores an image for use inside a post and returns its URL with
// a Markdown snippet embedding it.
func (uc *postUseCase) UploadImage(ctx context.Context, viewer entity.Viewer, filename, contentType string, size int64, body io.Reader) (string, string, error) {
	if viewer.IsAnonymous() {
		return "", "", entity.ErrForbidden
	}
	if uc.media == nil {
		return "", "", fmt.Errorf("media storage is not configured")
	}
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", "", entity.Invalid("file", "only jpeg, png, gif and webp images are allowed")
	}
	if size > MaxImageSize {
		return "", "", entity.Invalid("file", "image must be at most 5MB")
	}

	key := fmt.Sprintf("posts/%s/%s%s", viewer.ID, uuid.New().String(), ext)
	url, err := uc.media.Upload(ctx, key, body, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload image: %v", err)
		return "", "", fmt.Errorf("failed to upload image")
	}

	alt := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if alt == "" || alt == "." {
		alt = "image"
	}
	return url, fmt.Sprintf("![%s](%s)", alt, url), nil
}

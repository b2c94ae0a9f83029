package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"meow-site/pkg/logger"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

const MinCommentLength = 2

type CommentUseCase interface {
	Create(ctx context.Context, viewer entity.Viewer, postID, content string) (*entity.Comment, error)
	Delete(ctx context.Context, viewer entity.Viewer, commentID string) (*entity.Comment, error)
	ToggleLike(ctx context.Context, viewer entity.Viewer, commentID string) (*entity.ToggleResult, error)
}

type commentUseCase struct {
	commentRepo persistent.CommentRepository
	postRepo    persistent.PostRepository
	visibility  VisibilityUseCase
	publisher   EventPublisher
	logger      *logger.Logger
	now         Clock
}

func NewCommentUseCase(
	commentRepo persistent.CommentRepository,
	postRepo persistent.PostRepository,
	visibility VisibilityUseCase,
	publisher EventPublisher,
	logger *logger.Logger,
	clock Clock,
) CommentUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &commentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		visibility:  visibility,
		publisher:   publisher,
		logger:      logger,
		now:         clock,
	}
}

func (uc *commentUseCase) visiblePost(ctx context.Context, viewerID, postID string) (*entity.Post, error) {
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

func (uc *commentUseCase) Create(ctx context.Context, viewer entity.Viewer, postID, content string) (*entity.Comment, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < MinCommentLength {
		return nil, entity.Invalid("content", fmt.Sprintf("comment must be at least %d characters", MinCommentLength))
	}

	post, err := uc.visiblePost(ctx, viewer.ID, postID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{PostID: post.ID, AuthorID: viewer.ID, Content: content}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if post.AuthorID != viewer.ID {
		publish(ctx, uc.publisher, uc.logger, queue.Event{
			Type:       queue.EventCommentCreated,
			ActorID:    viewer.ID,
			SubjectID:  comment.ID,
			Data:       map[string]interface{}{"post_id": post.ID, "author_id": post.AuthorID},
			OccurredAt: uc.now(),
		})
	}
	return comment, nil
}

// Delete removes a comment. Its author, the post's author and administrators
// may delete it.
func (uc *commentUseCase) Delete(ctx context.Context, viewer entity.Viewer, commentID string) (*entity.Comment, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !viewer.CanModify(comment.AuthorID) {
		post, err := uc.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return nil, err
		}
		if post.AuthorID != viewer.ID {
			return nil, entity.ErrForbidden
		}
	}

	if err := uc.commentRepo.Delete(ctx, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *commentUseCase) ToggleLike(ctx context.Context, viewer entity.Viewer, commentID string) (*entity.ToggleResult, error) {
	if viewer.IsAnonymous() {
		return nil, entity.ErrForbidden
	}
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.visiblePost(ctx, viewer.ID, comment.PostID); err != nil {
		return nil, err
	}
	return uc.commentRepo.ToggleLike(ctx, viewer.ID, comment.ID)
}

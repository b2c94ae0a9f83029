package usecase

import (
	"context"

	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

type VisibilityUseCase interface {
	CanView(ctx context.Context, post *entity.Post, viewerID string) (bool, error)
	VisibleScope(ctx context.Context, viewerID string) (*entity.VisibleScope, error)
}

type visibilityUseCase struct {
	followRepo persistent.FollowRepository
}

func NewVisibilityUseCase(followRepo persistent.FollowRepository) VisibilityUseCase {
	return &visibilityUseCase{followRepo: followRepo}
}

// CanView looks up both follow edges only when the post is mutual and the
// viewer is not its author.
func (uc *visibilityUseCase) CanView(ctx context.Context, post *entity.Post, viewerID string) (bool, error) {
	if viewerID == "" || post.AuthorID == viewerID || post.Visibility != entity.VisibilityMutual {
		return entity.CanView(post, viewerID, false, false), nil
	}

	forward, err := uc.followRepo.Exists(ctx, viewerID, post.AuthorID)
	if err != nil {
		return false, err
	}
	if !forward {
		return false, nil
	}
	backward, err := uc.followRepo.Exists(ctx, post.AuthorID, viewerID)
	if err != nil {
		return false, err
	}
	return entity.CanView(post, viewerID, forward, backward), nil
}

func (uc *visibilityUseCase) VisibleScope(ctx context.Context, viewerID string) (*entity.VisibleScope, error) {
	if viewerID == "" {
		return entity.NewVisibleScope("", nil, nil), nil
	}
	following, err := uc.followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	followers, err := uc.followRepo.FollowerIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return entity.NewVisibleScope(viewerID, following, followers), nil
}

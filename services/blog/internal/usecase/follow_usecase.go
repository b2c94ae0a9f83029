package usecase

import (
	"context"
	"fmt"

	"meow-site/pkg/logger"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

type FollowUseCase interface {
	Follow(ctx context.Context, followerID, targetID string) (*entity.FollowStatus, error)
	Unfollow(ctx context.Context, followerID, targetID string) (*entity.FollowStatus, error)
	IsMutual(ctx context.Context, a, b string) (bool, error)
	Status(ctx context.Context, viewerID, targetID string) (*entity.FollowStatus, error)
}

type followUseCase struct {
	accountRepo    persistent.AccountRepository
	followRepo     persistent.FollowRepository
	moderationRepo persistent.ModerationRepository
	publisher      EventPublisher
	logger         *logger.Logger
	now            Clock
}

func NewFollowUseCase(
	accountRepo persistent.AccountRepository,
	followRepo persistent.FollowRepository,
	moderationRepo persistent.ModerationRepository,
	publisher EventPublisher,
	logger *logger.Logger,
	clock Clock,
) FollowUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &followUseCase{
		accountRepo:    accountRepo,
		followRepo:     followRepo,
		moderationRepo: moderationRepo,
		publisher:      publisher,
		logger:         logger,
		now:            clock,
	}
}

func (uc *followUseCase) Follow(ctx context.Context, followerID, targetID string) (*entity.FollowStatus, error) {
	if followerID == targetID {
		return nil, entity.ErrSelfFollow
	}
	target, err := uc.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := uc.followRepo.Create(ctx, followerID, target.ID); err != nil {
		return nil, fmt.Errorf("failed to follow %s: %w", target.Username, err)
	}

	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:       queue.EventUserFollowed,
		ActorID:    followerID,
		SubjectID:  target.ID,
		OccurredAt: uc.now(),
	})

	return uc.Status(ctx, followerID, target.ID)
}

func (uc *followUseCase) Unfollow(ctx context.Context, followerID, targetID string) (*entity.FollowStatus, error) {
	if followerID == targetID {
		return nil, entity.ErrSelfFollow
	}
	removed, err := uc.followRepo.Delete(ctx, followerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}
	if !removed {
		return nil, entity.ErrNotFollowing
	}
	return uc.Status(ctx, followerID, targetID)
}

func (uc *followUseCase) IsMutual(ctx context.Context, a, b string) (bool, error) {
	if a == "" || b == "" || a == b {
		return false, nil
	}
	forward, err := uc.followRepo.Exists(ctx, a, b)
	if err != nil || !forward {
		return false, err
	}
	return uc.followRepo.Exists(ctx, b, a)
}

func (uc *followUseCase) Status(ctx context.Context, viewerID, targetID string) (*entity.FollowStatus, error) {
	target, err := uc.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	status := &entity.FollowStatus{}
	if viewerID != "" && viewerID != target.ID {
		if status.IsFollowing, err = uc.followRepo.Exists(ctx, viewerID, target.ID); err != nil {
			return nil, err
		}
		if status.IsFollowing {
			if status.IsMutual, err = uc.followRepo.Exists(ctx, target.ID, viewerID); err != nil {
				return nil, err
			}
		}
	}

	if status.FollowersCount, err = uc.followRepo.CountFollowers(ctx, target.ID); err != nil {
		return nil, err
	}
	if status.FollowingCount, err = uc.followRepo.CountFollowing(ctx, target.ID); err != nil {
		return nil, err
	}

	now := uc.now()
	state, err := reconcileState(ctx, uc.moderationRepo, target.Moderation, now)
	if err != nil {
		return nil, err
	}
	if state != nil {
		status.TargetMuted = state.IsCurrentlyMuted(now)
		status.TargetBanned = state.IsCurrentlyBanned(now)
	}
	return status, nil
}

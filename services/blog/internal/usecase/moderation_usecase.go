package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meow-site/pkg/logger"
	"meow-site/pkg/metrics"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

type ModerationUseCase interface {
	Mute(ctx context.Context, actorID, targetID string, durationHours *int, reason string) (*entity.Account, error)
	Unmute(ctx context.Context, actorID, targetID string) (*entity.Account, error)
	Ban(ctx context.Context, actorID, targetID string, durationDays *int, reason string) (*entity.Account, error)
	Unban(ctx context.Context, actorID, targetID string) (*entity.Account, error)
	Evaluate(ctx context.Context, accountID string) (*entity.ModerationState, error)
	Reconcile(ctx context.Context) (mutes, bans int64, err error)
}

type moderationUseCase struct {
	accountRepo    persistent.AccountRepository
	moderationRepo persistent.ModerationRepository
	publisher      EventPublisher
	logger         *logger.Logger
	now            Clock
}

func NewModerationUseCase(
	accountRepo persistent.AccountRepository,
	moderationRepo persistent.ModerationRepository,
	publisher EventPublisher,
	logger *logger.Logger,
	clock Clock,
) ModerationUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &moderationUseCase{
		accountRepo:    accountRepo,
		moderationRepo: moderationRepo,
		publisher:      publisher,
		logger:         logger,
		now:            clock,
	}
}

func (uc *moderationUseCase) Mute(ctx context.Context, actorID, targetID string, durationHours *int, reason string) (*entity.Account, error) {
	if durationHours != nil && *durationHours <= 0 {
		return nil, entity.Invalid("duration_hours", "must be a positive number of hours")
	}
	return uc.apply(ctx, actorID, targetID, queue.EventAccountMuted, func(state *entity.ModerationState, now time.Time) error {
		if state.IsCurrentlyMuted(now) {
			return entity.ErrAlreadySanctioned
		}
		state.Mute(now, durationHours, reason, actorID)
		return nil
	})
}

func (uc *moderationUseCase) Unmute(ctx context.Context, actorID, targetID string) (*entity.Account, error) {
	return uc.apply(ctx, actorID, targetID, queue.EventAccountUnmuted, func(state *entity.ModerationState, now time.Time) error {
		if !state.IsCurrentlyMuted(now) {
			return entity.ErrNotSanctioned
		}
		state.Unmute()
		return nil
	})
}

func (uc *moderationUseCase) Ban(ctx context.Context, actorID, targetID string, durationDays *int, reason string) (*entity.Account, error) {
	if durationDays != nil && *durationDays <= 0 {
		return nil, entity.Invalid("duration_days", "must be a positive number of days")
	}
	return uc.apply(ctx, actorID, targetID, queue.EventAccountBanned, func(state *entity.ModerationState, now time.Time) error {
		if state.IsCurrentlyBanned(now) {
			return entity.ErrAlreadySanctioned
		}
		state.Ban(now, durationDays, reason, actorID)
		return nil
	})
}

func (uc *moderationUseCase) Unban(ctx context.Context, actorID, targetID string) (*entity.Account, error) {
	return uc.apply(ctx, actorID, targetID, queue.EventAccountUnbanned, func(state *entity.ModerationState, now time.Time) error {
		if !state.IsCurrentlyBanned(now) {
			return entity.ErrNotSanctioned
		}
		state.Unban()
		return nil
	})
}

// apply runs a sanction command against the locked moderation row of the
// target after checking the actor may moderate it.
func (uc *moderationUseCase) apply(ctx context.Context, actorID, targetID, eventType string, change func(*entity.ModerationState, time.Time) error) (*entity.Account, error) {
	target, err := uc.authorize(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	state, err := uc.moderationRepo.Modify(ctx, target.ID, func(s *entity.ModerationState) error {
		return change(s, now)
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", eventType, target.Username, err)
	}
	target.Moderation = state

	metrics.ModerationActions.WithLabelValues(eventType).Inc()
	uc.logger.Info("Moderation %s applied to %s by %s", eventType, target.Username, actorID)

	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:      eventType,
		ActorID:   actorID,
		SubjectID: target.ID,
		Data: map[string]interface{}{
			"mute_until":  state.MuteUntil,
			"mute_reason": state.MuteReason,
			"ban_until":   state.BanUntil,
			"ban_reason":  state.BanReason,
		},
		OccurredAt: now,
	})

	return target, nil
}

func (uc *moderationUseCase) authorize(ctx context.Context, actorID, targetID string) (*entity.Account, error) {
	actor, err := uc.accountRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrForbidden
		}
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, entity.ErrForbidden
	}

	target, err := uc.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.ID || target.IsAdmin {
		return nil, entity.ErrProtectedAccount
	}
	return target, nil
}

func (uc *moderationUseCase) Evaluate(ctx context.Context, accountID string) (*entity.ModerationState, error) {
	return currentModeration(ctx, uc.moderationRepo, accountID, uc.now())
}

func (uc *moderationUseCase) Reconcile(ctx context.Context) (int64, int64, error) {
	mutes, bans, err := uc.moderationRepo.ClearAllExpired(ctx, uc.now())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to clear expired sanctions: %w", err)
	}
	metrics.SanctionsCleared.WithLabelValues(string(entity.SanctionMute)).Add(float64(mutes))
	metrics.SanctionsCleared.WithLabelValues(string(entity.SanctionBan)).Add(float64(bans))
	if mutes > 0 || bans > 0 {
		uc.logger.Info("Cleared %d expired mutes and %d expired bans", mutes, bans)
	}
	return mutes, bans, nil
}

package usecase

import (
	"context"
	"errors"

	"meow-site/pkg/logger"
	"meow-site/pkg/metrics"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

// GateUseCase decides whether a viewer may perform an action given their
// moderation state.
type GateUseCase interface {
	Check(ctx context.Context, viewer entity.Viewer, action entity.Action) (entity.Decision, error)
}

type gateUseCase struct {
	moderationRepo persistent.ModerationRepository
	logger         *logger.Logger
	now            Clock
}

func NewGateUseCase(moderationRepo persistent.ModerationRepository, logger *logger.Logger, clock Clock) GateUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &gateUseCase{moderationRepo: moderationRepo, logger: logger, now: clock}
}

func (uc *gateUseCase) Check(ctx context.Context, viewer entity.Viewer, action entity.Action) (entity.Decision, error) {
	if viewer.IsAnonymous() || viewer.IsAdmin {
		return uc.record(action, entity.Decision{Outcome: entity.Allowed}), nil
	}

	now := uc.now()
	state, err := currentModeration(ctx, uc.moderationRepo, viewer.ID, now)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return uc.record(action, entity.Decision{Outcome: entity.Allowed}), nil
		}
		return entity.Decision{}, err
	}

	decision := entity.Decide(false, state, action, now)
	if !decision.Allowed() {
		uc.logger.Info("Gate %s %s for %s", decision.Outcome, action, viewer.ID)
	}
	return uc.record(action, decision), nil
}

func (uc *gateUseCase) record(action entity.Action, d entity.Decision) entity.Decision {
	metrics.GateDecisions.WithLabelValues(string(action), string(d.Outcome)).Inc()
	return d
}

package usecase

import (
	"context"
	"io"
	"time"

	"meow-site/pkg/logger"
	"meow-site/pkg/metrics"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

// Clock returns the current time. Use cases take one so that sanction
// expiry can be tested at fixed instants.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

type EventPublisher interface {
	Publish(ctx context.Context, event queue.Event) error
}

type MediaStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type ContentRenderer interface {
	Render(source string) (string, error)
	WordCount(source string) int
	Preview(source string, limit int) string
}

type TokenIssuer interface {
	GenerateTokenWithTTL(userID, role string, ttl time.Duration) (string, error)
}

type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

func publish(ctx context.Context, publisher EventPublisher, log *logger.Logger, event queue.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish %s event: %v", event.Type, err)
	}
}

// currentModeration loads an account's moderation state and clears any
// expired sanction with a conditional update before returning it.
func currentModeration(ctx context.Context, repo persistent.ModerationRepository, accountID string, now time.Time) (*entity.ModerationState, error) {
	state, err := repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return reconcileState(ctx, repo, state, now)
}

func reconcileState(ctx context.Context, repo persistent.ModerationRepository, state *entity.ModerationState, now time.Time) (*entity.ModerationState, error) {
	if state == nil || !(state.MuteExpired(now) || state.BanExpired(now)) {
		return state, nil
	}

	mute, ban, err := repo.ClearExpired(ctx, state.AccountID, now)
	if err != nil {
		return nil, err
	}
	if mute {
		metrics.SanctionsCleared.WithLabelValues(string(entity.SanctionMute)).Inc()
	}
	if ban {
		metrics.SanctionsCleared.WithLabelValues(string(entity.SanctionBan)).Inc()
	}

	state.Reconcile(now)
	return state, nil
}

func pageOffset(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * size
}

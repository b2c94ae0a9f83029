package usecase

import (
	"context"
	"errors"
	"fmt"

	"meow-site/pkg/logger"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

const (
	AccountPageSize = 20

	recentAccounts = 3
	recentPosts    = 1
	recentComments = 2
)

type AdminUseCase interface {
	Dashboard(ctx context.Context, actorID string) (*entity.Dashboard, error)
	ListAccounts(ctx context.Context, actorID string, page int) (*entity.AccountPage, error)
	DeleteAccount(ctx context.Context, actorID, targetID string) (*entity.Account, error)
}

type adminUseCase struct {
	accountRepo    persistent.AccountRepository
	moderationRepo persistent.ModerationRepository
	postRepo       persistent.PostRepository
	commentRepo    persistent.CommentRepository
	categoryRepo   persistent.CategoryRepository
	publisher      EventPublisher
	logger         *logger.Logger
	now            Clock
}

func NewAdminUseCase(
	accountRepo persistent.AccountRepository,
	moderationRepo persistent.ModerationRepository,
	postRepo persistent.PostRepository,
	commentRepo persistent.CommentRepository,
	categoryRepo persistent.CategoryRepository,
	publisher EventPublisher,
	logger *logger.Logger,
	clock Clock,
) AdminUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &adminUseCase{
		accountRepo:    accountRepo,
		moderationRepo: moderationRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		categoryRepo:   categoryRepo,
		publisher:      publisher,
		logger:         logger,
		now:            clock,
	}
}

func (uc *adminUseCase) requireAdmin(ctx context.Context, actorID string) (*entity.Account, error) {
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
	return actor, nil
}

func (uc *adminUseCase) Dashboard(ctx context.Context, actorID string) (*entity.Dashboard, error) {
	if _, err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	d := &entity.Dashboard{}
	var err error
	if d.Accounts, err = uc.accountRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.Posts, err = uc.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.Comments, err = uc.commentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.Categories, err = uc.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if d.RecentAccounts, _, err = uc.accountRepo.List(ctx, recentAccounts, 0); err != nil {
		return nil, err
	}
	if d.RecentPosts, _, err = uc.postRepo.List(ctx, entity.PostFilter{Sort: entity.SortCreated, Limit: recentPosts}); err != nil {
		return nil, err
	}
	if d.RecentComments, err = uc.commentRepo.Recent(ctx, recentComments); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *adminUseCase) ListAccounts(ctx context.Context, actorID string, page int) (*entity.AccountPage, error) {
	if _, err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	page, offset := pageOffset(page, AccountPageSize)
	accounts, total, err := uc.accountRepo.List(ctx, AccountPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	now := uc.now()
	for _, a := range accounts {
		if a.Moderation, err = reconcileState(ctx, uc.moderationRepo, a.Moderation, now); err != nil {
			return nil, err
		}
	}

	return &entity.AccountPage{
		Accounts:   accounts,
		Total:      total,
		Page:       page,
		TotalPages: int((total + AccountPageSize - 1) / AccountPageSize),
	}, nil
}

func (uc *adminUseCase) DeleteAccount(ctx context.Context, actorID, targetID string) (*entity.Account, error) {
	actor, err := uc.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := uc.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID == actor.ID || target.IsAdmin {
		return nil, entity.ErrProtectedAccount
	}

	if err := uc.accountRepo.Delete(ctx, target.ID); err != nil {
		return nil, fmt.Errorf("failed to delete account %s: %w", target.Username, err)
	}

	uc.logger.Info("Account %s deleted by %s", target.Username, actor.Username)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:       queue.EventAccountDeleted,
		ActorID:    actor.ID,
		SubjectID:  target.ID,
		Data:       map[string]interface{}{"username": target.Username},
		OccurredAt: uc.now(),
	})
	return target, nil
}

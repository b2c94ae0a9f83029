package usecase

import (
	"context"
	"net/mail"
	"strings"

	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
)

type ProfileUpdate struct {
	DisplayName *string
	Email       *string
}

type ProfileUseCase interface {
	GetProfile(ctx context.Context, viewerID, username string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*entity.Account, error)
}

type profileUseCase struct {
	accountRepo persistent.AccountRepository
	followRepo  persistent.FollowRepository
	postRepo    persistent.PostRepository
}

func NewProfileUseCase(
	accountRepo persistent.AccountRepository,
	followRepo persistent.FollowRepository,
	postRepo persistent.PostRepository,
) ProfileUseCase {
	return &profileUseCase{accountRepo: accountRepo, followRepo: followRepo, postRepo: postRepo}
}

func (uc *profileUseCase) GetProfile(ctx context.Context, viewerID, username string) (*entity.Profile, error) {
	account, err := uc.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{Account: account, IsSelf: viewerID == account.ID}
	if profile.Followers, err = uc.followRepo.CountFollowers(ctx, account.ID); err != nil {
		return nil, err
	}
	if profile.Following, err = uc.followRepo.CountFollowing(ctx, account.ID); err != nil {
		return nil, err
	}
	if profile.PostCount, err = uc.postRepo.CountByAuthor(ctx, account.ID); err != nil {
		return nil, err
	}
	if viewerID != "" && !profile.IsSelf {
		if profile.IsFollowing, err = uc.followRepo.Exists(ctx, viewerID, account.ID); err != nil {
			return nil, err
		}
	}
	if !profile.IsSelf {
		account.Email = ""
		account.Phone = ""
	}
	return profile, nil
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*entity.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil {
		account.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Email != nil {
		if _, err := mail.ParseAddress(*update.Email); err != nil {
			return nil, entity.Invalid("email", "a valid email address is required")
		}
		account.Email = *update.Email
	}

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

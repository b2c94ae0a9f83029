package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"meow-site/pkg/logger"
	"meow-site/pkg/metrics"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username    string
	Email       string
	Phone       string
	DisplayName string
	Password    string
}

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*entity.Account, string, error)
	ResolveIdentity(ctx context.Context, identifier string) (*entity.Account, error)
	Authenticate(ctx context.Context, identifier, password string) (*entity.Account, error)
	Login(ctx context.Context, identifier, password string, remember bool) (*entity.Account, string, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
}

type authUseCase struct {
	accountRepo    persistent.AccountRepository
	moderationRepo persistent.ModerationRepository
	tokens         TokenIssuer
	sessions       SessionRevoker
	sessionTTL     time.Duration
	rememberTTL    time.Duration
	logger         *logger.Logger
	now            Clock
}

func NewAuthUseCase(
	accountRepo persistent.AccountRepository,
	moderationRepo persistent.ModerationRepository,
	tokens TokenIssuer,
	sessions SessionRevoker,
	sessionTTL, rememberTTL time.Duration,
	logger *logger.Logger,
	clock Clock,
) AuthUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &authUseCase{
		accountRepo:    accountRepo,
		moderationRepo: moderationRepo,
		tokens:         tokens,
		sessions:       sessions,
		sessionTTL:     sessionTTL,
		rememberTTL:    rememberTTL,
		logger:         logger,
		now:            clock,
	}
}

func (uc *authUseCase) Register(ctx context.Context, input RegisterInput) (*entity.Account, string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, "", entity.Invalid("username", "username is required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, "", entity.Invalid("email", "a valid email address is required")
	}
	if !entity.ValidPhone(input.Phone) {
		return nil, "", entity.ErrInvalidPhone
	}
	if len(input.Password) < entity.MinPasswordLength {
		return nil, "", entity.Invalid("password", fmt.Sprintf("password must be at least %d characters", entity.MinPasswordLength))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	account := &entity.Account{
		Username:     username,
		Email:        input.Email,
		Phone:        input.Phone,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.GenerateTokenWithTTL(account.ID, account.Role(), uc.sessionTTL)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	uc.logger.Info("Registered account %s", account.Username)
	return account, token, nil
}

// ResolveIdentity tries the identifier as a handle, then an email, then a
// phone number. The first match wins.
func (uc *authUseCase) ResolveIdentity(ctx context.Context, identifier string) (*entity.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, entity.ErrNoSuchIdentity
	}

	lookups := []func(context.Context, string) (*entity.Account, error){
		uc.accountRepo.GetByUsername,
		uc.accountRepo.GetByEmail,
		uc.accountRepo.GetByPhone,
	}
	for _, lookup := range lookups {
		account, err := lookup(ctx, identifier)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, entity.ErrNotFound) {
			return nil, err
		}
	}
	return nil, entity.ErrNoSuchIdentity
}

func (uc *authUseCase) Authenticate(ctx context.Context, identifier, password string) (*entity.Account, error) {
	account, err := uc.ResolveIdentity(ctx, identifier)
	if err != nil {
		uc.recordLogin(err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		uc.recordLogin(entity.ErrAuthFailure)
		return nil, entity.ErrAuthFailure
	}

	if !account.IsActive {
		uc.recordLogin(entity.ErrAccountInactive)
		return nil, entity.ErrAccountInactive
	}

	now := uc.now()
	state, err := reconcileState(ctx, uc.moderationRepo, account.Moderation, now)
	if err != nil {
		return nil, err
	}
	account.Moderation = state

	// A mute restricts writing only; the ban is the only sanction checked here.
	if decision := entity.Decide(account.IsAdmin, state, entity.ActionView, now); decision.Outcome == entity.Blocked {
		uc.recordLogin(entity.ErrAccountBanned)
		return nil, decision.Err()
	}

	uc.recordLogin(nil)
	return account, nil
}

func (uc *authUseCase) recordLogin(err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrNoSuchIdentity):
		result = "unknown_identity"
	case errors.Is(err, entity.ErrAuthFailure):
		result = "bad_password"
	case errors.Is(err, entity.ErrAccountInactive):
		result = "inactive"
	case errors.Is(err, entity.ErrAccountBanned):
		result = "banned"
	default:
		result = "error"
	}
	metrics.LoginAttempts.WithLabelValues(result).Inc()
}

func (uc *authUseCase) Login(ctx context.Context, identifier, password string, remember bool) (*entity.Account, string, error) {
	account, err := uc.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, "", err
	}

	ttl := uc.sessionTTL
	if remember {
		ttl = uc.rememberTTL
	}
	token, err := uc.tokens.GenerateTokenWithTTL(account.ID, account.Role(), ttl)
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	return account, token, nil
}

func (uc *authUseCase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if uc.sessions == nil {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, tokenID, expiresAt); err != nil {
		uc.logger.Error("Failed to revoke session %s: %v", tokenID, err)
		return fmt.Errorf("failed to end session")
	}
	return nil
}

func (uc *authUseCase) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return entity.ErrAuthFailure
	}
	if len(newPassword) < entity.MinPasswordLength {
		return entity.Invalid("new_password", fmt.Sprintf("password must be at least %d characters", entity.MinPasswordLength))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return fmt.Errorf("failed to change password")
	}
	account.PasswordHash = string(hashedPassword)
	return uc.accountRepo.Update(ctx, account)
}

func (uc *authUseCase) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account.Moderation, err = reconcileState(ctx, uc.moderationRepo, account.Moderation, uc.now())
	if err != nil {
		return nil, err
	}
	return account, nil
}

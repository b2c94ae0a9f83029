package entity

import (
	"regexp"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	MinPasswordLength = 6
)

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

type Account struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	DisplayName  string           `json:"display_name"`
	PasswordHash string           `json:"-"`
	IsAdmin      bool             `json:"is_admin"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Moderation   *ModerationState `json:"moderation,omitempty"`
}

func (a *Account) Role() string {
	if a.IsAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// Name is the display name, falling back to the handle.
func (a *Account) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Profile is an account as seen by another viewer.
type Profile struct {
	Account     *Account `json:"account"`
	Followers   int64    `json:"followers_count"`
	Following   int64    `json:"following_count"`
	PostCount   int64    `json:"post_count"`
	IsFollowing bool     `json:"is_following"`
	IsSelf      bool     `json:"is_self"`
}

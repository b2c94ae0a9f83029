package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Account struct {
	ID          string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username    string           `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email       string           `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Phone       *string          `gorm:"type:varchar(20);uniqueIndex" json:"phone,omitempty"`
	DisplayName string           `gorm:"type:varchar(50)" json:"display_name"`
	Password    string           `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin     bool             `gorm:"not null" json:"is_admin"`
	IsActive    bool             `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Moderation  *ModerationState `gorm:"foreignKey:AccountID" json:"moderation,omitempty"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// ModerationState is created together with its account and shares its key.
type ModerationState struct {
	AccountID  string     `gorm:"type:varchar(36);primaryKey" json:"account_id"`
	Muted      bool       `gorm:"not null" json:"muted"`
	MuteUntil  *time.Time `json:"mute_until"`
	MuteReason string     `gorm:"type:text" json:"mute_reason"`
	MutedBy    *string    `gorm:"type:varchar(36)" json:"muted_by"`
	Banned     bool       `gorm:"not null" json:"banned"`
	BanUntil   *time.Time `json:"ban_until"`
	BanReason  string     `gorm:"type:text" json:"ban_reason"`
	BannedBy   *string    `gorm:"type:varchar(36)" json:"banned_by"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

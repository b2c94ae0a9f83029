package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMutual  Visibility = "mutual"
	VisibilityPrivate Visibility = "private"
)

type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_category_owner_name" json:"owner_id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_owner_name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type Post struct {
	ID             string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	AuthorID       string     `gorm:"type:varchar(36);not null;index" json:"author_id"`
	CategoryID     *string    `gorm:"type:varchar(36);index" json:"category_id"`
	Title          string     `gorm:"type:varchar(200);not null" json:"title"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	ContentHTML    string     `gorm:"type:text" json:"content_html"`
	Visibility     Visibility `gorm:"type:varchar(10);not null;index" json:"visibility"`
	LikesCount     int        `gorm:"not null" json:"likes_count"`
	FavoritesCount int        `gorm:"not null" json:"favorites_count"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Author         *Account   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Category       *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPublic
	}
	return nil
}

type Comment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID     string    `gorm:"type:varchar(36);not null;index" json:"post_id"`
	AuthorID   string    `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	LikesCount int       `gorm:"not null" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Author     *Account  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

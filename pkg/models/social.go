package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	FollowerID  string    `gorm:"type:varchar(36);primaryKey" json:"follower_id"`
	FollowingID string    `gorm:"type:varchar(36);primaryKey;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type PostLike struct {
	AccountID string    `gorm:"type:varchar(36);primaryKey" json:"account_id"`
	PostID    string    `gorm:"type:varchar(36);primaryKey;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PostFavorite struct {
	AccountID string    `gorm:"type:varchar(36);primaryKey" json:"account_id"`
	PostID    string    `gorm:"type:varchar(36);primaryKey;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentLike struct {
	AccountID string    `gorm:"type:varchar(36);primaryKey" json:"account_id"`
	CommentID string    `gorm:"type:varchar(36);primaryKey;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every table model in dependency order, for AutoMigrate in
// development and tests.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&ModerationState{},
		&Category{},
		&Post{},
		&Comment{},
		&Follow{},
		&PostLike{},
		&PostFavorite{},
		&CommentLike{},
	}
}

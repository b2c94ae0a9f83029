package entity

import "time"

type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type FollowStatus struct {
	IsFollowing    bool  `json:"is_following"`
	IsMutual       bool  `json:"is_mutual"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	TargetMuted    bool  `json:"target_muted"`
	TargetBanned   bool  `json:"target_banned"`
}

type Dashboard struct {
	Accounts       int64      `json:"accounts"`
	Posts          int64      `json:"posts"`
	Comments       int64      `json:"comments"`
	Categories     int64      `json:"categories"`
	RecentAccounts []*Account `json:"recent_accounts"`
	RecentPosts    []*Post    `json:"recent_posts"`
	RecentComments []*Comment `json:"recent_comments"`
}

type AccountPage struct {
	Accounts   []*Account `json:"accounts"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}

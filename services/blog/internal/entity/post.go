package entity

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMutual  Visibility = "mutual"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityMutual, VisibilityPrivate:
		return true
	}
	return false
}

type Post struct {
	ID             string     `json:"id"`
	AuthorID       string     `json:"author_id"`
	AuthorName     string     `json:"author_username,omitempty"`
	CategoryID     string     `json:"category_id,omitempty"`
	CategoryName   string     `json:"category_name,omitempty"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	ContentHTML    string     `json:"content_html"`
	Visibility     Visibility `json:"visibility"`
	LikesCount     int        `json:"likes_count"`
	FavoritesCount int        `json:"favorites_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Category struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_username,omitempty"`
	Content    string    `json:"content"`
	LikesCount int       `json:"likes_count"`
	Liked      bool      `json:"liked"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostSort string

const (
	SortLikes   PostSort = "likes"
	SortCreated PostSort = "created"
	SortUpdated PostSort = "updated"
)

func ParsePostSort(s string) PostSort {
	switch PostSort(s) {
	case SortCreated, SortUpdated:
		return PostSort(s)
	}
	return SortLikes
}

// PostFilter narrows a post listing. Scope is required for listings shown to
// viewers; a nil scope means unrestricted (administrative counts only).
type PostFilter struct {
	Scope         *VisibleScope
	Query         string
	AuthorID      string
	CategoryID    string
	Uncategorized bool
	Sort          PostSort
	Limit         int
	Offset        int
}

type PostPage struct {
	Posts      []*Post `json:"posts"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

func NewPostPage(posts []*Post, total int64, page, pageSize int) *PostPage {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PostPage{Posts: posts, Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}

// PostDetail is a single post as rendered for a viewer.
type PostDetail struct {
	Post            *Post      `json:"post"`
	Comments        []*Comment `json:"comments"`
	WordCount       int        `json:"word_count"`
	Liked           bool       `json:"liked"`
	Favorited       bool       `json:"favorited"`
	FollowingAuthor bool       `json:"following_author"`
	CanEdit         bool       `json:"can_edit"`
}

type CategoryStats struct {
	CategoryID string `json:"category_id,omitempty"`
	Name       string `json:"name"`
	PostCount  int    `json:"post_count"`
	WordCount  int    `json:"word_count"`
}

// Manuscripts summarizes an author's posts as visible to the viewer.
type Manuscripts struct {
	Author         *Account         `json:"author"`
	IsOwner        bool             `json:"is_owner"`
	Posts          []*Post          `json:"posts"`
	Categories     []*CategoryStats `json:"categories"`
	Uncategorized  *CategoryStats   `json:"uncategorized"`
	TotalWords     int              `json:"total_words"`
	TotalLikes     int              `json:"total_likes"`
	TotalFavorites int              `json:"total_favorites"`
	TotalComments  int64            `json:"total_comments"`
	Followers      int64            `json:"followers_count"`
	Following      int64            `json:"following_count"`
}

type ToggleResult struct {
	Active bool `json:"active"`
	Count  int  `json:"count"`
}

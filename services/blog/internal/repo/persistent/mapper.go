package persistent

import (
	"time"

	"meow-site/pkg/models"
	"meow-site/services/blog/internal/entity"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func ToAccountEntity(m *models.Account) *entity.Account {
	if m == nil {
		return nil
	}

	return &entity.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		Phone:        deref(m.Phone),
		DisplayName:  m.DisplayName,
		PasswordHash: m.Password,
		IsAdmin:      m.IsAdmin,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Moderation:   ToModerationEntity(m.Moderation),
	}
}

func ToAccountModel(e *entity.Account) *models.Account {
	if e == nil {
		return nil
	}

	return &models.Account{
		ID:          e.ID,
		Username:    e.Username,
		Email:       e.Email,
		Phone:       optional(e.Phone),
		DisplayName: e.DisplayName,
		Password:    e.PasswordHash,
		IsAdmin:     e.IsAdmin,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToModerationEntity(m *models.ModerationState) *entity.ModerationState {
	if m == nil {
		return nil
	}

	return &entity.ModerationState{
		AccountID:  m.AccountID,
		Muted:      m.Muted,
		MuteUntil:  utc(m.MuteUntil),
		MuteReason: m.MuteReason,
		MutedBy:    deref(m.MutedBy),
		Banned:     m.Banned,
		BanUntil:   utc(m.BanUntil),
		BanReason:  m.BanReason,
		BannedBy:   deref(m.BannedBy),
	}
}

func ToModerationModel(e *entity.ModerationState) *models.ModerationState {
	if e == nil {
		return nil
	}

	return &models.ModerationState{
		AccountID:  e.AccountID,
		Muted:      e.Muted,
		MuteUntil:  utc(e.MuteUntil),
		MuteReason: e.MuteReason,
		MutedBy:    optional(e.MutedBy),
		Banned:     e.Banned,
		BanUntil:   utc(e.BanUntil),
		BanReason:  e.BanReason,
		BannedBy:   optional(e.BannedBy),
	}
}

// moderationColumns lists every mutable column so that cleared fields are
// written as NULL/false rather than skipped.
func moderationColumns(m *models.ModerationState) map[string]interface{} {
	return map[string]interface{}{
		"muted":       m.Muted,
		"mute_until":  m.MuteUntil,
		"mute_reason": m.MuteReason,
		"muted_by":    m.MutedBy,
		"banned":      m.Banned,
		"ban_until":   m.BanUntil,
		"ban_reason":  m.BanReason,
		"banned_by":   m.BannedBy,
	}
}

func ToPostEntity(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	post := &entity.Post{
		ID:             m.ID,
		AuthorID:       m.AuthorID,
		CategoryID:     deref(m.CategoryID),
		Title:          m.Title,
		Content:        m.Content,
		ContentHTML:    m.ContentHTML,
		Visibility:     entity.Visibility(m.Visibility),
		LikesCount:     m.LikesCount,
		FavoritesCount: m.FavoritesCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Author != nil {
		post.AuthorName = m.Author.Username
	}
	if m.Category != nil {
		post.CategoryName = m.Category.Name
	}
	return post
}

func ToPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	return &models.Post{
		ID:             e.ID,
		AuthorID:       e.AuthorID,
		CategoryID:     optional(e.CategoryID),
		Title:          e.Title,
		Content:        e.Content,
		ContentHTML:    e.ContentHTML,
		Visibility:     models.Visibility(e.Visibility),
		LikesCount:     e.LikesCount,
		FavoritesCount: e.FavoritesCount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToPostEntities(ms []models.Post) []*entity.Post {
	posts := make([]*entity.Post, len(ms))
	for i := range ms {
		posts[i] = ToPostEntity(&ms[i])
	}
	return posts
}

func ToCategoryEntity(m *models.Category) *entity.Category {
	if m == nil {
		return nil
	}

	return &entity.Category{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func ToCommentEntity(m *models.Comment) *entity.Comment {
	if m == nil {
		return nil
	}

	comment := &entity.Comment{
		ID:         m.ID,
		PostID:     m.PostID,
		AuthorID:   m.AuthorID,
		Content:    m.Content,
		LikesCount: m.LikesCount,
		CreatedAt:  m.CreatedAt,
	}
	if m.Author != nil {
		comment.AuthorName = m.Author.Username
	}
	return comment
}

func ToCommentEntities(ms []models.Comment) []*entity.Comment {
	comments := make([]*entity.Comment, len(ms))
	for i := range ms {
		comments[i] = ToCommentEntity(&ms[i])
	}
	return comments
}

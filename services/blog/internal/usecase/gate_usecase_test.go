package usecase

import (
	"context"
	"testing"

	"meow-site/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Check(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.account(t, "admin", true)
	muted := e.account(t, "muted", false)
	banned := e.account(t, "banned", false)
	clean := e.account(t, "clean", false)

	_, err := e.moderationUC.Mute(ctx, admin.ID, muted.ID, nil, "noise")
	require.NoError(t, err)
	_, err = e.moderationUC.Ban(ctx, admin.ID, banned.ID, nil, "abuse")
	require.NoError(t, err)

	tests := []struct {
		name   string
		viewer entity.Viewer
		action entity.Action
		want   entity.Outcome
	}{
		{"anonymous view", entity.Anonymous(), entity.ActionView, entity.Allowed},
		{"admin moderate", viewerOf(admin), entity.ActionModerate, entity.Allowed},
		{"clean create", viewerOf(clean), entity.ActionCreatePost, entity.Allowed},
		{"muted create post", viewerOf(muted), entity.ActionCreatePost, entity.Restricted},
		{"muted comment", viewerOf(muted), entity.ActionCreateComment, entity.Restricted},
		{"muted category", viewerOf(muted), entity.ActionManageCategory, entity.Restricted},
		{"muted upload", viewerOf(muted), entity.ActionUploadMedia, entity.Restricted},
		{"muted follow", viewerOf(muted), entity.ActionFollow, entity.Allowed},
		{"muted view", viewerOf(muted), entity.ActionView, entity.Allowed},
		{"banned view", viewerOf(banned), entity.ActionView, entity.Blocked},
		{"banned react", viewerOf(banned), entity.ActionReact, entity.Blocked},
		{"unknown account", entity.Viewer{ID: "missing"}, entity.ActionCreatePost, entity.Allowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := e.gate.Check(ctx, tt.viewer, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decision.Outcome)
		})
	}
}

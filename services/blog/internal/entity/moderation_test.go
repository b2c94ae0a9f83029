package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestModerationState_BanUnbanRoundTrip(t *testing.T) {
	state := NewModerationState("acc-1")

	state.Ban(t0, nil, "spam", "admin-1")
	assert.True(t, state.IsCurrentlyBanned(t0))
	assert.True(t, state.IsCurrentlyBanned(t0.AddDate(10, 0, 0)))
	assert.Nil(t, state.BanUntil)

	state.Unban()
	assert.False(t, state.IsCurrentlyBanned(t0))
	assert.Empty(t, state.BanReason)
	assert.Empty(t, state.BannedBy)
}

func TestModerationState_TimedBanExpiry(t *testing.T) {
	state := NewModerationState("acc-1")
	state.Ban(t0, intPtr(3), "abuse", "admin-1")

	deadline := t0.AddDate(0, 0, 3)
	assert.True(t, state.IsCurrentlyBanned(deadline.Add(-time.Second)))
	assert.False(t, state.IsCurrentlyBanned(deadline))
	assert.True(t, state.BanExpired(deadline))

	assert.True(t, state.Reconcile(deadline))
	assert.False(t, state.Banned)
	assert.Nil(t, state.BanUntil)

	// second evaluation changes nothing
	assert.False(t, state.Reconcile(deadline.Add(time.Hour)))
	assert.False(t, state.IsCurrentlyBanned(deadline.Add(time.Hour)))
}

func TestModerationState_TimedMute(t *testing.T) {
	state := NewModerationState("acc-1")
	state.Mute(t0, intPtr(1), "flooding", "admin-1")

	assert.True(t, state.IsCurrentlyMuted(t0.Add(30*time.Minute)))
	assert.False(t, state.IsCurrentlyMuted(t0.Add(61*time.Minute)))
	assert.Equal(t, t0.Add(time.Hour), *state.MuteUntil)

	state.Unmute()
	assert.False(t, state.Muted)
	assert.Empty(t, state.MuteReason)
}

func TestModerationState_ReconcileLeavesActiveSanctions(t *testing.T) {
	state := NewModerationState("acc-1")
	state.Mute(t0, intPtr(1), "short", "admin-1")
	state.Ban(t0, nil, "forever", "admin-1")

	changed := state.Reconcile(t0.Add(2 * time.Hour))
	assert.True(t, changed)
	assert.False(t, state.Muted)
	assert.True(t, state.Banned)
}

func TestDecide(t *testing.T) {
	muted := NewModerationState("m")
	muted.Mute(t0, nil, "be nice", "admin-1")

	banned := NewModerationState("b")
	banned.Ban(t0, nil, "spam", "admin-1")

	tests := []struct {
		name     string
		isAdmin  bool
		state    *ModerationState
		action   Action
		expected Outcome
	}{
		{"clean account", false, NewModerationState("c"), ActionCreatePost, Allowed},
		{"banned reading", false, banned, ActionView, Blocked},
		{"banned reacting", false, banned, ActionReact, Blocked},
		{"muted creating post", false, muted, ActionCreatePost, Restricted},
		{"muted commenting", false, muted, ActionCreateComment, Restricted},
		{"muted managing category", false, muted, ActionManageCategory, Restricted},
		{"muted uploading", false, muted, ActionUploadMedia, Restricted},
		{"muted liking", false, muted, ActionReact, Allowed},
		{"muted following", false, muted, ActionFollow, Allowed},
		{"admin with ban record", true, banned, ActionCreatePost, Allowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.isAdmin, tt.state, tt.action, t0.Add(time.Minute))
			assert.Equal(t, tt.expected, d.Outcome)
		})
	}
}

func TestDecision_Err(t *testing.T) {
	banned := NewModerationState("b")
	banned.Ban(t0, intPtr(1), "spam", "admin-1")

	d := Decide(false, banned, ActionView, t0)
	err := d.Err()
	assert.True(t, errors.Is(err, ErrAccountBanned))

	var sanction *SanctionError
	assert.True(t, errors.As(err, &sanction))
	assert.Equal(t, "spam", sanction.Reason)
	assert.Equal(t, "admin-1", sanction.By)
	assert.Contains(t, err.Error(), "spam")

	muted := NewModerationState("m")
	muted.Mute(t0, nil, "calm down", "admin-1")
	err = Decide(false, muted, ActionCreateComment, t0).Err()
	assert.True(t, errors.Is(err, ErrAccountMuted))

	assert.NoError(t, Decision{Outcome: Allowed}.Err())
}

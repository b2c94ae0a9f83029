package entity

import "time"

type SanctionKind string

const (
	SanctionMute SanctionKind = "mute"
	SanctionBan  SanctionKind = "ban"
)

// ModerationState holds the mute and ban flags of one account. A sanction
// with an Until in the past is treated as absent by every evaluation.
type ModerationState struct {
	AccountID  string     `json:"account_id"`
	Muted      bool       `json:"muted"`
	MuteUntil  *time.Time `json:"mute_until,omitempty"`
	MuteReason string     `json:"mute_reason,omitempty"`
	MutedBy    string     `json:"muted_by,omitempty"`
	Banned     bool       `json:"banned"`
	BanUntil   *time.Time `json:"ban_until,omitempty"`
	BanReason  string     `json:"ban_reason,omitempty"`
	BannedBy   string     `json:"banned_by,omitempty"`
}

func NewModerationState(accountID string) *ModerationState {
	return &ModerationState{AccountID: accountID}
}

func active(flag bool, until *time.Time, now time.Time) bool {
	if !flag {
		return false
	}
	return until == nil || now.Before(*until)
}

func expired(flag bool, until *time.Time, now time.Time) bool {
	return flag && until != nil && !now.Before(*until)
}

func (m *ModerationState) IsCurrentlyMuted(now time.Time) bool {
	return active(m.Muted, m.MuteUntil, now)
}

func (m *ModerationState) IsCurrentlyBanned(now time.Time) bool {
	return active(m.Banned, m.BanUntil, now)
}

// MuteExpired reports a stored mute whose deadline has passed.
func (m *ModerationState) MuteExpired(now time.Time) bool {
	return expired(m.Muted, m.MuteUntil, now)
}

func (m *ModerationState) BanExpired(now time.Time) bool {
	return expired(m.Banned, m.BanUntil, now)
}

// Mute restricts the account. A nil duration mutes permanently.
func (m *ModerationState) Mute(now time.Time, durationHours *int, reason, actorID string) {
	m.Muted = true
	m.MuteReason = reason
	m.MutedBy = actorID
	m.MuteUntil = nil
	if durationHours != nil {
		until := now.Add(time.Duration(*durationHours) * time.Hour)
		m.MuteUntil = &until
	}
}

func (m *ModerationState) Unmute() {
	m.Muted = false
	m.MuteUntil = nil
	m.MuteReason = ""
	m.MutedBy = ""
}

// Ban blocks the account. A nil duration bans permanently.
func (m *ModerationState) Ban(now time.Time, durationDays *int, reason, actorID string) {
	m.Banned = true
	m.BanReason = reason
	m.BannedBy = actorID
	m.BanUntil = nil
	if durationDays != nil {
		until := now.AddDate(0, 0, *durationDays)
		m.BanUntil = &until
	}
}

func (m *ModerationState) Unban() {
	m.Banned = false
	m.BanUntil = nil
	m.BanReason = ""
	m.BannedBy = ""
}

// Reconcile clears expired sanctions and reports whether anything changed.
func (m *ModerationState) Reconcile(now time.Time) bool {
	changed := false
	if m.MuteExpired(now) {
		m.Unmute()
		changed = true
	}
	if m.BanExpired(now) {
		m.Unban()
		changed = true
	}
	return changed
}

// Outcome of an authorization gate check.
type Outcome string

const (
	Allowed    Outcome = "allowed"
	Blocked    Outcome = "blocked"
	Restricted Outcome = "restricted"
)

type Decision struct {
	Outcome Outcome      `json:"outcome"`
	Kind    SanctionKind `json:"kind,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Until   *time.Time   `json:"until,omitempty"`
	By      string       `json:"by,omitempty"`
}

func (d Decision) Allowed() bool { return d.Outcome == Allowed }

// Err returns the sanction as an error, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return &SanctionError{Kind: d.Kind, Reason: d.Reason, Until: d.Until, By: d.By}
}

// Decide applies the gate rules to a moderation state: administrators pass,
// a ban blocks everything, a mute restricts content creation.
func Decide(isAdmin bool, state *ModerationState, action Action, now time.Time) Decision {
	if isAdmin || state == nil {
		return Decision{Outcome: Allowed}
	}
	if state.IsCurrentlyBanned(now) {
		return Decision{
			Outcome: Blocked,
			Kind:    SanctionBan,
			Reason:  state.BanReason,
			Until:   state.BanUntil,
			By:      state.BannedBy,
		}
	}
	if action.Restricted() && state.IsCurrentlyMuted(now) {
		return Decision{
			Outcome: Restricted,
			Kind:    SanctionMute,
			Reason:  state.MuteReason,
			Until:   state.MuteUntil,
			By:      state.MutedBy,
		}
	}
	return Decision{Outcome: Allowed}
}

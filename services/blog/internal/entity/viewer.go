package entity

// Viewer identifies who is making a request. The zero value is anonymous.
type Viewer struct {
	ID      string
	IsAdmin bool
}

func Anonymous() Viewer { return Viewer{} }

func (v Viewer) IsAnonymous() bool { return v.ID == "" }

// CanModify is the ownership rule: administrators and the owner may mutate a
// resource.
func (v Viewer) CanModify(ownerID string) bool {
	if v.IsAnonymous() {
		return false
	}
	return v.IsAdmin || v.ID == ownerID
}

type Action string

const (
	ActionView           Action = "view"
	ActionCreatePost     Action = "create_post"
	ActionEditPost       Action = "edit_post"
	ActionDeletePost     Action = "delete_post"
	ActionCreateComment  Action = "create_comment"
	ActionDeleteComment  Action = "delete_comment"
	ActionManageCategory Action = "manage_category"
	ActionUploadMedia    Action = "upload_media"
	ActionReact          Action = "react"
	ActionFollow         Action = "follow"
	ActionEditProfile    Action = "edit_profile"
	ActionModerate       Action = "moderate"
)

var restrictedActions = map[Action]bool{
	ActionCreatePost:     true,
	ActionCreateComment:  true,
	ActionManageCategory: true,
	ActionUploadMedia:    true,
}

// Restricted reports whether a mute blocks the action.
func (a Action) Restricted() bool {
	return restrictedActions[a]
}

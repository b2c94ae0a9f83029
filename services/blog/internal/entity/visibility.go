package entity

// VisibleScope is the set of posts a viewer may see, resolved once per
// request: public posts, the viewer's own posts, and mutual posts by authors
// the viewer mutually follows.
type VisibleScope struct {
	ViewerID string
	Mutual   map[string]struct{}
}

func NewVisibleScope(viewerID string, following, followers []string) *VisibleScope {
	scope := &VisibleScope{ViewerID: viewerID, Mutual: make(map[string]struct{})}
	if viewerID == "" {
		return scope
	}

	followerSet := make(map[string]struct{}, len(followers))
	for _, id := range followers {
		followerSet[id] = struct{}{}
	}
	for _, id := range following {
		if _, ok := followerSet[id]; ok {
			scope.Mutual[id] = struct{}{}
		}
	}
	return scope
}

func (s *VisibleScope) Anonymous() bool { return s.ViewerID == "" }

func (s *VisibleScope) MutualIDs() []string {
	ids := make([]string, 0, len(s.Mutual))
	for id := range s.Mutual {
		ids = append(ids, id)
	}
	return ids
}

// Allows evaluates the scope predicate for a single post.
func (s *VisibleScope) Allows(p *Post) bool {
	if p.Visibility == VisibilityPublic {
		return true
	}
	if s.Anonymous() {
		return false
	}
	if p.AuthorID == s.ViewerID {
		return true
	}
	if p.Visibility == VisibilityMutual {
		_, ok := s.Mutual[p.AuthorID]
		return ok
	}
	return false
}

// CanView is the per-item visibility rule given the two follow edges between
// viewer and author.
func CanView(p *Post, viewerID string, viewerFollowsAuthor, authorFollowsViewer bool) bool {
	if viewerID == "" {
		return p.Visibility == VisibilityPublic
	}
	if p.AuthorID == viewerID {
		return true
	}
	switch p.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityMutual:
		return viewerFollowsAuthor && authorFollowsViewer
	default:
		return false
	}
}

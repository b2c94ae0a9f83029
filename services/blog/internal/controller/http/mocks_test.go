package http

import (
	"context"
	"io"
	"time"

	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockGateUseCase struct {
	mock.Mock
}

func (m *MockGateUseCase) Check(ctx context.Context, viewer entity.Viewer, action entity.Action) (entity.Decision, error) {
	args := m.Called(viewer, action)
	return args.Get(0).(entity.Decision), args.Error(1)
}

var _ usecase.GateUseCase = (*MockGateUseCase)(nil)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Account, string, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.Account), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) ResolveIdentity(ctx context.Context, identifier string) (*entity.Account, error) {
	args := m.Called(identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, identifier, password string) (*entity.Account, error) {
	args := m.Called(identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, identifier, password string, remember bool) (*entity.Account, string, error) {
	args := m.Called(identifier, password, remember)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.Account), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	args := m.Called(accountID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthUseCase) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) Create(ctx context.Context, viewer entity.Viewer, input usecase.PostInput) (*entity.Post, error) {
	args := m.Called(viewer, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Update(ctx context.Context, viewer entity.Viewer, postID string, input usecase.PostInput) (*entity.Post, error) {
	args := m.Called(viewer, postID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Delete(ctx context.Context, viewer entity.Viewer, postID string) error {
	args := m.Called(viewer, postID)
	return args.Error(0)
}

func (m *MockPostUseCase) Get(ctx context.Context, viewer entity.Viewer, postID string) (*entity.PostDetail, error) {
	args := m.Called(viewer, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostDetail), args.Error(1)
}

func (m *MockPostUseCase) List(ctx context.Context, viewer entity.Viewer, query usecase.ListQuery) (*entity.PostPage, error) {
	args := m.Called(viewer, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

func (m *MockPostUseCase) Manuscripts(ctx context.Context, viewer entity.Viewer, username string, query usecase.ManuscriptQuery) (*entity.Manuscripts, error) {
	args := m.Called(viewer, username, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Manuscripts), args.Error(1)
}

func (m *MockPostUseCase) ToggleLike(ctx context.Context, viewer entity.Viewer, postID string) (*entity.ToggleResult, error) {
	args := m.Called(viewer, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ToggleResult), args.Error(1)
}

func (m *MockPostUseCase) ToggleFavorite(ctx context.Context, viewer entity.Viewer, postID string) (*entity.ToggleResult, error) {
	args := m.Called(viewer, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ToggleResult), args.Error(1)
}

func (m *MockPostUseCase) UploadImage(ctx context.Context, viewer entity.Viewer, filename, contentType string, size int64, body io.Reader) (string, string, error) {
	args := m.Called(viewer, filename, contentType, size)
	return args.String(0), args.String(1), args.Error(2)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

type MockModerationUseCase struct {
	mock.Mock
}

func (m *MockModerationUseCase) Mute(ctx context.Context, actorID, targetID string, durationHours *int, reason string) (*entity.Account, error) {
	args := m.Called(actorID, targetID, durationHours, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockModerationUseCase) Unmute(ctx context.Context, actorID, targetID string) (*entity.Account, error) {
	args := m.Called(actorID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockModerationUseCase) Ban(ctx context.Context, actorID, targetID string, durationDays *int, reason string) (*entity.Account, error) {
	args := m.Called(actorID, targetID, durationDays, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockModerationUseCase) Unban(ctx context.Context, actorID, targetID string) (*entity.Account, error) {
	args := m.Called(actorID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Account), args.Error(1)
}

func (m *MockModerationUseCase) Evaluate(ctx context.Context, accountID string) (*entity.ModerationState, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ModerationState), args.Error(1)
}

func (m *MockModerationUseCase) Reconcile(ctx context.Context) (int64, int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

var _ usecase.ModerationUseCase = (*MockModerationUseCase)(nil)

type MockFollowUseCase struct {
	mock.Mock
}

func (m *MockFollowUseCase) Follow(ctx context.Context, followerID, targetID string) (*entity.FollowStatus, error) {
	args := m.Called(followerID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowStatus), args.Error(1)
}

func (m *MockFollowUseCase) Unfollow(ctx context.Context, followerID, targetID string) (*entity.FollowStatus, error) {
	args := m.Called(followerID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowStatus), args.Error(1)
}

func (m *MockFollowUseCase) IsMutual(ctx context.Context, a, b string) (bool, error) {
	args := m.Called(a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowUseCase) Status(ctx context.Context, viewerID, targetID string) (*entity.FollowStatus, error) {
	args := m.Called(viewerID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FollowStatus), args.Error(1)
}

var _ usecase.FollowUseCase = (*MockFollowUseCase)(nil)

type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) Create(ctx context.Context, viewer entity.Viewer, postID, content string) (*entity.Comment, error) {
	args := m.Called(viewer, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) Delete(ctx context.Context, viewer entity.Viewer, commentID string) (*entity.Comment, error) {
	args := m.Called(viewer, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) ToggleLike(ctx context.Context, viewer entity.Viewer, commentID string) (*entity.ToggleResult, error) {
	args := m.Called(viewer, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ToggleResult), args.Error(1)
}

var _ usecase.CommentUseCase = (*MockCommentUseCase)(nil)

type MockCategoryUseCase struct {
	mock.Mock
}

func (m *MockCategoryUseCase) Create(ctx context.Context, viewer entity.Viewer, name string) (*entity.Category, error) {
	args := m.Called(viewer, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Rename(ctx context.Context, viewer entity.Viewer, categoryID, name string) (*entity.Category, error) {
	args := m.Called(viewer, categoryID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) Delete(ctx context.Context, viewer entity.Viewer, categoryID string) error {
	args := m.Called(viewer, categoryID)
	return args.Error(0)
}

func (m *MockCategoryUseCase) List(ctx context.Context, ownerID string) ([]*entity.Category, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Category), args.Error(1)
}

var _ usecase.CategoryUseCase = (*MockCategoryUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser marks the request as authenticated, as the auth middleware would.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Next()
	}
}

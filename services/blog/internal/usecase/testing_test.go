package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"meow-site/pkg/jwt"
	"meow-site/pkg/logger"
	"meow-site/pkg/markdown"
	"meow-site/pkg/models"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "password123"

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type memoryMedia struct {
	keys []string
}

func (m *memoryMedia) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	return "https://media.test/" + key, nil
}

type memorySessions struct {
	revoked map[string]time.Time
}

func (s *memorySessions) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.revoked[tokenID] = expiresAt
	return nil
}

type testEnv struct {
	clock    *fakeClock
	events   *recordingPublisher
	media    *memoryMedia
	sessions *memorySessions
	jwt      *jwt.Service

	accounts   persistent.AccountRepository
	moderation persistent.ModerationRepository
	follows    persistent.FollowRepository
	posts      persistent.PostRepository
	categories persistent.CategoryRepository
	comments   persistent.CommentRepository

	moderationUC ModerationUseCase
	gate         GateUseCase
	visibility   VisibilityUseCase
	follow       FollowUseCase
	auth         AuthUseCase
	profile      ProfileUseCase
	post         PostUseCase
	comment      CommentUseCase
	category     CategoryUseCase
	admin        AdminUseCase
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:uc_%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := logger.NewNop()
	e := &testEnv{
		clock:    &fakeClock{now: t0},
		events:   &recordingPublisher{},
		media:    &memoryMedia{},
		sessions: &memorySessions{revoked: make(map[string]time.Time)},
		jwt:      jwt.NewService("test-secret"),

		accounts:   persistent.NewAccountRepository(db),
		moderation: persistent.NewModerationRepository(db),
		follows:    persistent.NewFollowRepository(db),
		posts:      persistent.NewPostRepository(db),
		categories: persistent.NewCategoryRepository(db),
		comments:   persistent.NewCommentRepository(db),
	}

	clock := e.clock.Now
	renderer := markdown.New()

	e.moderationUC = NewModerationUseCase(e.accounts, e.moderation, e.events, log, clock)
	e.gate = NewGateUseCase(e.moderation, log, clock)
	e.visibility = NewVisibilityUseCase(e.follows)
	e.follow = NewFollowUseCase(e.accounts, e.follows, e.moderation, e.events, log, clock)
	e.auth = NewAuthUseCase(e.accounts, e.moderation, e.jwt, e.sessions, 12*time.Hour, 30*24*time.Hour, log, clock)
	e.profile = NewProfileUseCase(e.accounts, e.follows, e.posts)
	e.post = NewPostUseCase(e.posts, e.categories, e.comments, e.accounts, e.follows, e.visibility, renderer, e.media, e.events, log, clock)
	e.comment = NewCommentUseCase(e.comments, e.posts, e.visibility, e.events, log, clock)
	e.category = NewCategoryUseCase(e.categories)
	e.admin = NewAdminUseCase(e.accounts, e.moderation, e.posts, e.comments, e.categories, e.events, log, clock)
	return e
}

func (e *testEnv) account(t *testing.T, username string, admin bool) *entity.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	account := &entity.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsAdmin:      admin,
		IsActive:     true,
	}
	require.NoError(t, e.accounts.Create(context.Background(), account))
	return account
}

func (e *testEnv) publish(t *testing.T, author *entity.Account, visibility entity.Visibility, title string) *entity.Post {
	t.Helper()

	post, err := e.post.Create(context.Background(), viewerOf(author), PostInput{
		Title:      title,
		Content:    "Body of **" + title + "**",
		Visibility: visibility,
	})
	require.NoError(t, err)
	return post
}

func viewerOf(a *entity.Account) entity.Viewer {
	return entity.Viewer{ID: a.ID, IsAdmin: a.IsAdmin}
}

func intPtr(n int) *int { return &n }

package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meow-site/pkg/config"
	"meow-site/pkg/jwt"
	"meow-site/pkg/logger"
	"meow-site/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type session struct {
	Token   string `json:"token"`
	Account struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"account"`
}

func newTestApp(t *testing.T) (*App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:app_%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
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

	a := &App{
		cfg: &config.Config{
			HomePath:      "/",
			SessionTTL:    time.Hour,
			RememberMeTTL: 24 * time.Hour,
		},
		log:        logger.NewNop(),
		db:         db,
		jwtService: jwt.NewService("test-secret"),
	}
	return a, a.Router()
}

func call(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, router *gin.Engine, username, phone string) session {
	t.Helper()

	w := call(t, router, "POST", "/api/v1/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"phone":    phone,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var s session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func login(t *testing.T, router *gin.Engine, identifier string) session {
	t.Helper()

	w := call(t, router, "POST", "/api/v1/login", "", map[string]string{"identifier": identifier, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var s session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestRouter_Health(t *testing.T) {
	_, router := newTestApp(t)

	w := call(t, router, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ModerationFlow(t *testing.T) {
	a, router := newTestApp(t)

	alice := register(t, router, "alice", "13800138000")
	register(t, router, "root", "13900139000")
	require.NoError(t, a.db.Model(&models.Account{}).Where("username = ?", "root").Update("is_admin", true).Error)
	root := login(t, router, "root@example.com")

	w := call(t, router, "POST", "/api/v1/posts", alice.Token, map[string]string{"title": "Open", "content": "hello", "visibility": "public"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = call(t, router, "POST", "/api/v1/posts", alice.Token, map[string]string{"title": "Friends", "content": "secret", "visibility": "mutual"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, router, "GET", "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, float64(1), listing["total"])

	w = call(t, router, "POST", "/api/v1/admin/accounts/"+alice.Account.ID+"/mute", root.Token, map[string]interface{}{"duration_hours": 1, "reason": "flood"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, router, "POST", "/api/v1/posts", alice.Token, map[string]string{"title": "Again", "content": "more"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	var denial map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &denial))
	assert.Equal(t, true, denial["muted"])

	// Muted accounts still read.
	w = call(t, router, "GET", "/api/v1/me", alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, router, "POST", "/api/v1/admin/accounts/"+alice.Account.ID+"/ban", root.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, router, "GET", "/api/v1/me", alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, router, "POST", "/api/v1/login", "", map[string]string{"identifier": "13800138000", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_MemberCannotModerate(t *testing.T) {
	_, router := newTestApp(t)

	alice := register(t, router, "alice", "13800138000")
	bob := register(t, router, "bob", "13700137000")

	w := call(t, router, "POST", "/api/v1/admin/accounts/"+bob.Account.ID+"/ban", alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

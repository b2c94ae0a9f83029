package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"meow-site/pkg/logger"
	"meow-site/services/blog/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatedRouter(gate *MockGateUseCase, method string, action entity.Action) *gin.Engine {
	g := NewGate(gate, "/home", logger.NewNop())
	router := setupTestRouter()
	router.Handle(method, "/target", asUser("user-1", entity.RoleMember), g.Require(action), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

var banUntil = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

var banDecision = entity.Decision{
	Outcome: entity.Blocked,
	Kind:    entity.SanctionBan,
	Reason:  "spam",
	Until:   &banUntil,
	By:      "admin-1",
}

var muteDecision = entity.Decision{
	Outcome: entity.Restricted,
	Kind:    entity.SanctionMute,
	Reason:  "flood",
}

var member = entity.Viewer{ID: "user-1"}

func TestGate_Allowed(t *testing.T) {
	gate := new(MockGateUseCase)
	gate.On("Check", member, entity.ActionCreatePost).Return(entity.Decision{Outcome: entity.Allowed}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/target", nil)
	gatedRouter(gate, "POST", entity.ActionCreatePost).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	gate.AssertExpectations(t)
}

func TestGate_AsyncBan(t *testing.T) {
	gate := new(MockGateUseCase)
	gate.On("Check", member, entity.ActionReact).Return(banDecision, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/target", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	gatedRouter(gate, "POST", entity.ActionReact).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])
	assert.Equal(t, true, response["banned"])
	assert.Contains(t, response["message"], "spam")
}

func TestGate_AsyncMute(t *testing.T) {
	gate := new(MockGateUseCase)
	gate.On("Check", member, entity.ActionCreateComment).Return(muteDecision, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/target", nil)
	req.Header.Set("Accept", "application/json")
	gatedRouter(gate, "POST", entity.ActionCreateComment).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["muted"])
	assert.Nil(t, response["banned"])
	assert.Contains(t, response["message"], "flood")
}

func TestGate_FormSubmissionRedirects(t *testing.T) {
	gate := new(MockGateUseCase)
	gate.On("Check", member, entity.ActionCreatePost).Return(muteDecision, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/target", nil)
	gatedRouter(gate, "POST", entity.ActionCreatePost).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, noticeCookie, cookies[0].Name)
	notice, err := url.QueryUnescape(cookies[0].Value)
	require.NoError(t, err)
	assert.Contains(t, notice, "flood")
}

func TestGate_ReadRendersBanNotice(t *testing.T) {
	gate := new(MockGateUseCase)
	gate.On("Check", member, entity.ActionView).Return(banDecision, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/target", nil)
	gatedRouter(gate, "GET", entity.ActionView).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "banned", response["view"])
	assert.Equal(t, "spam", response["ban_reason"])
	assert.Equal(t, "admin-1", response["banned_by"])
	assert.Equal(t, "2024-06-01T00:00:00Z", response["ban_until"])
}

func TestGate_CheckFailure(t *testing.T) {
	gate := new(MockGateUseCase)
	gate.On("Check", member, entity.ActionView).Return(entity.Decision{}, errors.New("db down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/target", nil)
	gatedRouter(gate, "GET", entity.ActionView).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

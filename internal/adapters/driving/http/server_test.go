package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// Mock services for testing

type mockAuthService struct {
	authenticateFn  func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
	refreshTokenFn  func(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error)
	logoutFn        func(ctx context.Context, token string) error
	logoutAllFn     func(ctx context.Context, userID string) error
}

func (m *mockAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	if token == "good-token" {
		return &domain.AuthContext{UserID: "alice", Email: "alice@example.com", Role: domain.RoleMember, SessionID: "s1"}, nil
	}
	return nil, domain.ErrTokenInvalid
}

func (m *mockAuthService) RefreshToken(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
	if m.refreshTokenFn != nil {
		return m.refreshTokenFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) LogoutAll(ctx context.Context, userID string) error {
	if m.logoutAllFn != nil {
		return m.logoutAllFn(ctx, userID)
	}
	return nil
}

type mockSearchService struct {
	searchFn func(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error)
}

func (m *mockSearchService) Search(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, callerID, raw)
	}
	return &domain.UnifiedSearchResponse{WorkspaceID: raw.WorkspaceID}, nil
}

func newTestServer(auth *mockAuthService, search *mockSearchService, checks map[string]Pinger) *Server {
	if auth == nil {
		auth = &mockAuthService{}
	}
	if search == nil {
		search = &mockSearchService{}
	}
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	return NewServer(cfg, auth, search, checks, nil)
}

func do(t *testing.T, s *Server, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	rec := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, s, http.MethodGet, "/version", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.2.3"}`, rec.Body.String())
}

func TestReady(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	rec := do(t, newTestServer(nil, nil, map[string]Pinger{"postgres": ok, "redis": ok}), http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok","redis":"ok"}}`, rec.Body.String())

	rec = do(t, newTestServer(nil, nil, map[string]Pinger{"postgres": ok, "redis": down}), http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not ready","checks":{"postgres":"ok","redis":"unavailable"}}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(nil, nil, nil)
	do(t, s, http.MethodGet, "/health", "", "")

	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sercha_http_requests_total")
}

func TestLogin(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
			switch req.Password {
			case "right":
				return &domain.LoginResponse{Token: "tok", RefreshToken: "ref", ExpiresAt: time.Now().Add(time.Hour)}, nil
			case "disabled":
				return nil, domain.ErrUnauthorized
			case "boom":
				return nil, errors.New("db down")
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	s := newTestServer(auth, nil, nil)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"success", `{"email":"alice@example.com","password":"right"}`, http.StatusOK, ""},
		{"bad body", `{`, http.StatusBadRequest, "invalid request body"},
		{"wrong password", `{"email":"alice@example.com","password":"wrong"}`, http.StatusUnauthorized, "invalid credentials"},
		{"disabled", `{"email":"alice@example.com","password":"disabled"}`, http.StatusUnauthorized, "account disabled"},
		{"internal", `{"email":"alice@example.com","password":"boom"}`, http.StatusInternalServerError, "authentication failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/auth/login", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, rec))
				return
			}
			var resp domain.LoginResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "tok", resp.Token)
		})
	}
}

func TestRefresh(t *testing.T) {
	auth := &mockAuthService{
		refreshTokenFn: func(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
			if req.RefreshToken == "ref" {
				return &domain.LoginResponse{Token: "tok2"}, nil
			}
			return nil, domain.ErrTokenInvalid
		},
	}
	s := newTestServer(auth, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"ref"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/auth/refresh", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	var loggedOut, loggedOutUser string
	auth := &mockAuthService{
		logoutFn:    func(ctx context.Context, token string) error { loggedOut = token; return nil },
		logoutAllFn: func(ctx context.Context, userID string) error { loggedOutUser = userID; return nil },
	}
	s := newTestServer(auth, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/auth/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/auth/logout", "", "good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-token", loggedOut)

	rec = do(t, s, http.MethodPost, "/api/v1/auth/logout-all", "", "good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", loggedOutUser)
}

func TestGetMe(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/me", "", "good-token")
	require.Equal(t, http.StatusOK, rec.Code)

	var me domain.AuthContext
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.UserID)
}

func TestSearch_PassesParameters(t *testing.T) {
	var gotCaller string
	var gotRaw domain.RawSearchParams
	search := &mockSearchService{
		searchFn: func(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error) {
			gotCaller, gotRaw = callerID, raw
			return &domain.UnifiedSearchResponse{
				Query:         raw.Query,
				WorkspaceID:   raw.WorkspaceID,
				People:        []domain.PersonResult{},
				Channels:      []domain.ChannelResult{},
				Messages:      []domain.MessageResult{{Kind: domain.KindMessage, Message: &domain.Message{ID: "m1", Body: "launch"}}},
				Files:         []domain.FileResult{},
				Documents:     []domain.DocumentResult{},
				Conversations: []domain.ConversationResult{},
				TotalResults:  1,
			}, nil
		},
	}
	s := newTestServer(nil, search, nil)

	target := "/api/v1/workspaces/W1/search?q=launch&in=general&from=bob&before=2024-03-02&after=2024-02-01" +
		"&on=2024-03-01&has_file=true&has_link=1&is_dm=false&is_thread_reply=t&is_saved=true&is_pinned=true&file_type=pdf&limit=5"
	rec := do(t, s, http.MethodGet, target, "", "good-token")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "alice", gotCaller, "caller comes from the token, never from the query")
	assert.Equal(t, domain.RawSearchParams{
		WorkspaceID: "W1", Query: "launch", Channel: "general", From: "bob",
		Before: "2024-03-02", After: "2024-02-01", On: "2024-03-01",
		HasFile: "true", HasLink: "1", IsDirectMessage: "false", IsThreadReply: "t",
		IsSaved: "true", IsPinned: "true", FileType: "pdf", Limit: "5",
	}, gotRaw)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["total_results"])
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "message", messages[0].(map[string]interface{})["kind"])
	assert.Equal(t, []interface{}{}, body["people"], "empty kinds are arrays, not null")
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", fmt.Errorf("%w: limit must be a positive integer", domain.ErrInvalidInput), http.StatusBadRequest},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"upstream", &domain.UpstreamError{Source: "messages", Err: errors.New("connection reset")}, http.StatusBadGateway},
		{"deadline", &domain.UpstreamError{Source: "files", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &mockSearchService{
				searchFn: func(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error) {
					return nil, tt.err
				},
			}
			rec := do(t, newTestServer(nil, search, nil), http.MethodGet, "/api/v1/workspaces/W1/search?q=x", "", "good-token")
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestSearch_RequiresAuth(t *testing.T) {
	called := false
	search := &mockSearchService{
		searchFn: func(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error) {
			called = true
			return nil, nil
		},
	}
	s := newTestServer(nil, search, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/workspaces/W1/search?q=x", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/workspaces/W1/search?q=x", "", "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRecoverer(t *testing.T) {
	search := &mockSearchService{
		searchFn: func(ctx context.Context, callerID string, raw domain.RawSearchParams) (*domain.UnifiedSearchResponse, error) {
			panic("kaboom")
		},
	}
	rec := do(t, newTestServer(nil, search, nil), http.MethodGet, "/api/v1/workspaces/W1/search", "", "good-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

func TestNotFoundRoute(t *testing.T) {
	rec := do(t, newTestServer(nil, nil, nil), http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

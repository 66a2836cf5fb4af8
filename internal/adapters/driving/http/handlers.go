package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/logger"
)

// readyTimeout bounds each readiness probe
const readyTimeout = 2 * time.Second

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse reports each dependency's readiness
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks,omitempty"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings PostgreSQL and, when configured, Redis
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Checks: make(map[string]string, len(s.checks))}
	status := http.StatusOK

	for name, check := range s.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		err := check.Ping(ctx)
		cancel()
		if err != nil {
			logger.FromContext(r.Context()).Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "unavailable"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.cfg.Version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      User login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials or account disabled"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "account disabled")
		default:
			logger.FromContext(r.Context()).Error("authentication failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh godoc
// @Summary      Refresh token
// @Description  Exchange a refresh token for a new JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RefreshRequest  true  "Refresh token"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid refresh token"
// @Router       /auth/refresh [post]
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.RefreshToken(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogout godoc
// @Summary      Logout user
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.Logout(r.Context(), extractBearerToken(r)); err != nil {
		logger.FromContext(r.Context()).Error("logout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "logged out"})
}

// handleLogoutAll godoc
// @Summary      Logout everywhere
// @Description  Invalidate every session of the current user
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout-all [post]
func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if err := s.authService.LogoutAll(r.Context(), authCtx.UserID); err != nil {
		logger.FromContext(r.Context()).Error("logout all failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "logged out"})
}

// handleGetMe godoc
// @Summary      Current user
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AuthContext
// @Router       /me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetAuthContext(r.Context()))
}

// Search endpoints

// handleSearch godoc
// @Summary      Unified workspace search
// @Description  Searches people, channels, messages, files, documents and conversations the caller can see
// @Tags         Search
// @Produce      json
// @Security     BearerAuth
// @Param        workspaceID      path   string  true   "Workspace ID"
// @Param        q                query  string  false  "Free text"
// @Param        in               query  string  false  "Channel ID"
// @Param        from             query  string  false  "Sender name or email"
// @Param        before           query  string  false  "Exclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Param        after            query  string  false  "Exclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param        on               query  string  false  "Calendar day (YYYY-MM-DD)"
// @Param        has_file         query  bool    false  "Only messages with attachments"
// @Param        has_link         query  bool    false  "Only messages with links"
// @Param        is_dm            query  bool    false  "Only direct messages"
// @Param        is_thread_reply  query  bool    false  "Only messages with thread replies"
// @Param        is_saved         query  bool    false  "Only bookmarked messages"
// @Param        is_pinned        query  bool    false  "Only pinned messages"
// @Param        file_type        query  string  false  "File category or MIME type"
// @Param        limit            query  int     false  "Per-kind limit (default 20, max 100)"
// @Success      200  {object}  domain.UnifiedSearchResponse
// @Failure      400  {object}  ErrorResponse  "Invalid parameter"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      403  {object}  ErrorResponse  "Not a workspace member"
// @Failure      502  {object}  ErrorResponse  "A search source failed"
// @Failure      504  {object}  ErrorResponse  "Search timed out"
// @Router       /workspaces/{workspaceID}/search [get]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	q := r.URL.Query()

	raw := domain.RawSearchParams{
		WorkspaceID:     chi.URLParam(r, "workspaceID"),
		Query:           q.Get("q"),
		Channel:         q.Get("in"),
		From:            q.Get("from"),
		Before:          q.Get("before"),
		After:           q.Get("after"),
		On:              q.Get("on"),
		HasFile:         q.Get("has_file"),
		HasLink:         q.Get("has_link"),
		IsDirectMessage: q.Get("is_dm"),
		IsThreadReply:   q.Get("is_thread_reply"),
		IsSaved:         q.Get("is_saved"),
		IsPinned:        q.Get("is_pinned"),
		FileType:        q.Get("file_type"),
		Limit:           q.Get("limit"),
	}

	resp, err := s.searchService.Search(r.Context(), authCtx.UserID, raw)
	if err != nil {
		writeSearchError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeSearchError maps search failures onto HTTP statuses
func writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "not a member of this workspace")
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// Client went away; nothing useful to send.
		w.WriteHeader(499)
	case errors.Is(err, domain.ErrUpstreamFailure) && errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "search timed out")
	case errors.Is(err, domain.ErrUpstreamFailure):
		writeError(w, http.StatusBadGateway, "search source unavailable")
	default:
		logger.FromContext(r.Context()).Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

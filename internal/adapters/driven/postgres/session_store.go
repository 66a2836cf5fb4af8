package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const sessionColumns = `id, user_id, token, refresh_token, expires_at, created_at, user_agent, ip_address`

// SessionStore keeps sessions in PostgreSQL when no Redis is configured.
// Expired rows are invisible to every read, matching Redis key expiry.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save inserts or replaces a session
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			user_agent = EXCLUDED.user_agent,
			ip_address = EXCLUDED.ip_address
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.Token, session.RefreshToken,
		session.ExpiresAt, session.CreatedAt, session.UserAgent, session.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns a live session by ID
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.getBy(ctx, "id", id)
}

// GetByToken returns the live session holding the access token
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.getBy(ctx, "token", token)
}

// GetByRefreshToken returns the live session holding the refresh token
func (s *SessionStore) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if refreshToken == "" {
		return nil, domain.ErrSessionNotFound
	}
	return s.getBy(ctx, "refresh_token", refreshToken)
}

// Delete removes a session. A missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.exec(ctx, "delete session", `DELETE FROM sessions WHERE id = $1`, id)
}

func (s *SessionStore) DeleteByToken(ctx context.Context, token string) error {
	return s.exec(ctx, "delete session by token", `DELETE FROM sessions WHERE token = $1`, token)
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	return s.exec(ctx, "delete user sessions", `DELETE FROM sessions WHERE user_id = $1`, userID)
}

// ListByUser returns the user's live sessions, newest first
func (s *SessionStore) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// PurgeExpired deletes expired rows and reports how many went.
// Reads already skip them; this only reclaims space.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return result.RowsAffected()
}

// getBy looks a session up by one of the fixed column names above
func (s *SessionStore) getBy(ctx context.Context, column, value string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE ` + column + ` = $1 AND expires_at > NOW()`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) exec(ctx context.Context, op, query string, arg string) error {
	if _, err := s.db.ExecContext(ctx, query, arg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanSession(row scanner) (*domain.Session, error) {
	var session domain.Session
	err := row.Scan(&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.ExpiresAt, &session.CreatedAt, &session.UserAgent, &session.IPAddress)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

// DefaultKeyPrefix namespaces every key the store writes
const DefaultKeyPrefix = "sercha:"

// userSetTTL keeps a user's session index around longer than any single session
const userSetTTL = 30 * 24 * time.Hour

// SessionStore implements driven.SessionStore using Redis.
// Sessions expire through Redis TTLs derived from ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a Redis-backed SessionStore. An empty prefix uses DefaultKeyPrefix.
func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

// Connect parses a redis:// URL and verifies the server answers
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *SessionStore) sessionKey(id string) string { return s.prefix + "session:" + id }
func (s *SessionStore) tokenKey(token string) string { return s.prefix + "session:token:" + token }
func (s *SessionStore) refreshKey(token string) string { return s.prefix + "session:refresh:" + token }
func (s *SessionStore) userKey(userID string) string { return s.prefix + "session:user:" + userID }

// Save stores a session and its indexes. An already expired session is not stored.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(session.ID), data, ttl)
	pipe.Set(ctx, s.tokenKey(session.Token), session.ID, ttl)
	if session.RefreshToken != "" {
		pipe.Set(ctx, s.refreshKey(session.RefreshToken), session.ID, ttl)
	}
	pipe.SAdd(ctx, s.userKey(session.UserID), session.ID)
	pipe.Expire(ctx, s.userKey(session.UserID), userSetTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// GetByToken retrieves a session by access token
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.resolve(ctx, s.tokenKey(token))
}

// GetByRefreshToken retrieves a session by refresh token
func (s *SessionStore) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return s.resolve(ctx, s.refreshKey(refreshToken))
}

func (s *SessionStore) resolve(ctx context.Context, indexKey string) (*domain.Session, error) {
	id, err := s.client.Get(ctx, indexKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session index: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.deleteSession(ctx, session)
}

// DeleteByToken removes the session owning the access token
func (s *SessionStore) DeleteByToken(ctx context.Context, token string) error {
	session, err := s.GetByToken(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.deleteSession(ctx, session)
}

// DeleteByUser removes every session of the user
func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	if err := s.client.Del(ctx, s.userKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user session index: %w", err)
	}
	return nil
}

// ListByUser lists the user's live sessions and prunes expired ids from the index
func (s *SessionStore) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(ids))
	var stale []interface{}
	for _, id := range ids {
		session, err := s.Get(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if session.IsExpired() {
			stale = append(stale, id)
			continue
		}
		sessions = append(sessions, session)
	}

	if len(stale) > 0 {
		s.client.SRem(ctx, s.userKey(userID), stale...)
	}
	return sessions, nil
}

func (s *SessionStore) deleteSession(ctx context.Context, session *domain.Session) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(session.ID), s.tokenKey(session.Token))
	if session.RefreshToken != "" {
		pipe.Del(ctx, s.refreshKey(session.RefreshToken))
	}
	pipe.SRem(ctx, s.userKey(session.UserID), session.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PersonDirectory = (*UserStore)(nil)

const userColumns = `u.id, u.email, u.password_hash, u.name, u.title, u.avatar_url, u.role, u.active, u.created_at, u.updated_at, u.last_login_at`

// UserStore implements driven.PersonDirectory using PostgreSQL
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Save creates or updates a user
func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, title, avatar_url, role, active, created_at, updated_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			avatar_url = EXCLUDED.avatar_url,
			role = EXCLUDED.role,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at,
			last_login_at = EXCLUDED.last_login_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Title,
		user.AvatarURL,
		string(user.Role),
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
		NullTime(user.LastLoginAt),
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Find returns workspace members whose name or email contains the pattern
func (s *UserStore) Find(ctx context.Context, q domain.PersonQuery) ([]*domain.Person, error) {
	query, args := personFindSQL(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find people: %w", err)
	}
	defer rows.Close()

	people := []*domain.Person{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find people: %w", err)
	}
	return people, nil
}

func personFindSQL(q domain.PersonQuery) (string, []interface{}) {
	var c clauses
	c.add("wm.workspace_id = " + c.arg(q.WorkspaceID))
	c.matchAny(string(q.Text), "u.name", "u.email")

	query := `SELECT ` + userColumns + ` FROM users u JOIN workspace_members wm ON wm.user_id = u.id` +
		c.where() + ` ORDER BY u.name` + c.limit(q.Limit)
	return query, c.args
}

const identitySQL = `SELECT ` + userColumns + ` FROM users u
	JOIN workspace_members wm ON wm.user_id = u.id
	WHERE wm.workspace_id = $1 AND (lower(u.name) = lower($2) OR lower(u.email) = lower($2))
	ORDER BY lower(u.email) = lower($2) DESC, u.created_at, u.id
	LIMIT 1`

// FindByIdentity resolves an exact, case-insensitive name or email among workspace members
func (s *UserStore) FindByIdentity(ctx context.Context, workspaceID, value string) (*domain.Person, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, identitySQL, workspaceID, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find person by identity: %w", err)
	}
	return user, nil
}

// Get retrieves a user by ID
func (s *UserStore) Get(ctx context.Context, id string) (*domain.Person, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// GetByEmail retrieves a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email)
}

// UpdateLastLogin updates the last login timestamp
func (s *UserStore) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`
	result, err := s.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *UserStore) getOne(ctx context.Context, query string, arg string) (*domain.Person, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	var lastLoginAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Title,
		&user.AvatarURL,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	user.LastLoginAt = TimePtr(lastLoginAt)
	return &user, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freemusic/internal/domain"
	"freemusic/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	login TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	username TEXT NOT NULL,
	bio TEXT NULL,
	is_admin INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return ensureColumns(ctx, r.db, "users", map[string]string{
		"bio":      `ALTER TABLE users ADD COLUMN bio TEXT NULL`,
		"is_admin": `ALTER TABLE users ADD COLUMN is_admin INTEGER NOT NULL DEFAULT 0`,
	})
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (login, password_hash, username, bio, is_admin, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Login,
		user.PasswordHash,
		user.Username,
		nullableText(user.Bio),
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("login %q: %w", user.Login, repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, login, password_hash, username, bio, is_admin, created_at, updated_at
FROM users
WHERE login = ?`,
		login,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, login, password_hash, username, bio, is_admin, created_at, updated_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET password_hash = ?, username = ?, bio = ?, updated_at = ?
WHERE id = ?`,
		user.PasswordHash,
		user.Username,
		nullableText(user.Bio),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", user.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, login string, isAdmin bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET is_admin = ?, updated_at = ?
WHERE login = ?`,
		isAdmin,
		time.Now().UTC(),
		login,
	)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set admin rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %q: %w", login, repository.ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		user domain.User
		bio  sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&user.Username,
		&bio,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Bio = bio.String
	return &user, nil
}

func nullableText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

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

const createArtistsTable = `
CREATE TABLE IF NOT EXISTS artists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ArtistRepository struct {
	db *sql.DB
}

func NewArtistRepository(db *sql.DB) repository.ArtistRepository {
	return &ArtistRepository{db: db}
}

func (r *ArtistRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createArtistsTable); err != nil {
		return fmt.Errorf("create artists table: %w", err)
	}
	return nil
}

func (r *ArtistRepository) Create(ctx context.Context, artist *domain.Artist) (int64, error) {
	now := time.Now().UTC()
	artist.CreatedAt = now
	artist.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO artists (name, description, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		artist.Name,
		artist.Description,
		artist.CreatedAt,
		artist.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert artist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("artist last insert id: %w", err)
	}
	artist.ID = id
	return id, nil
}

func (r *ArtistRepository) Get(ctx context.Context, id int64) (*domain.Artist, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, description, created_at, updated_at
FROM artists
WHERE id = ?`,
		id,
	)

	var artist domain.Artist
	if err := row.Scan(&artist.ID, &artist.Name, &artist.Description, &artist.CreatedAt, &artist.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan artist: %w", err)
	}
	return &artist, nil
}

func (r *ArtistRepository) List(ctx context.Context) ([]domain.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, created_at, updated_at
FROM artists
ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := make([]domain.Artist, 0)
	for rows.Next() {
		var artist domain.Artist
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.Description, &artist.CreatedAt, &artist.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan artist row: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

func (r *ArtistRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete artist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete artist rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("artist %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

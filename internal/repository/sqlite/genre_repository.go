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

const createGenresTable = `
CREATE TABLE IF NOT EXISTS genres (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) repository.GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGenresTable); err != nil {
		return fmt.Errorf("create genres table: %w", err)
	}
	return nil
}

func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) (int64, error) {
	genre.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO genres (name, created_at)
VALUES (?, ?)`,
		genre.Name,
		genre.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert genre: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("genre last insert id: %w", err)
	}
	genre.ID = id
	return id, nil
}

func (r *GenreRepository) Get(ctx context.Context, id int64) (*domain.Genre, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, created_at
FROM genres
WHERE id = ?`,
		id,
	)

	var genre domain.Genre
	if err := row.Scan(&genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan genre: %w", err)
	}
	return &genre, nil
}

func (r *GenreRepository) List(ctx context.Context) ([]domain.Genre, error) {
	return r.query(ctx, `
SELECT id, name, created_at
FROM genres
ORDER BY name, id`)
}

// ListByTrack resolves the many-to-many links for a single track.
func (r *GenreRepository) ListByTrack(ctx context.Context, trackID int64) ([]domain.Genre, error) {
	return r.query(ctx, `
SELECT g.id, g.name, g.created_at
FROM genres g
JOIN track_genres tg ON tg.genre_id = g.id
WHERE tg.track_id = ?
ORDER BY g.name, g.id`,
		trackID,
	)
}

func (r *GenreRepository) query(ctx context.Context, query string, args ...any) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)
	for rows.Next() {
		var genre domain.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

func (r *GenreRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete genre rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("genre %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

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

const createAlbumsTable = `
CREATE TABLE IF NOT EXISTS albums (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	release_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type AlbumRepository struct {
	db *sql.DB
}

func NewAlbumRepository(db *sql.DB) repository.AlbumRepository {
	return &AlbumRepository{db: db}
}

func (r *AlbumRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAlbumsTable); err != nil {
		return fmt.Errorf("create albums table: %w", err)
	}
	return nil
}

func (r *AlbumRepository) Create(ctx context.Context, album *domain.Album) (int64, error) {
	now := time.Now().UTC()
	album.CreatedAt = now
	album.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO albums (artist_id, name, release_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		album.ArtistID,
		album.Name,
		album.ReleaseDate,
		album.CreatedAt,
		album.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert album: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("album last insert id: %w", err)
	}
	album.ID = id
	return id, nil
}

func (r *AlbumRepository) Get(ctx context.Context, id int64) (*domain.Album, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, artist_id, name, release_date, created_at, updated_at
FROM albums
WHERE id = ?`,
		id,
	)

	var album domain.Album
	if err := row.Scan(&album.ID, &album.ArtistID, &album.Name, &album.ReleaseDate, &album.CreatedAt, &album.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan album: %w", err)
	}
	return &album, nil
}

func (r *AlbumRepository) List(ctx context.Context) ([]domain.Album, error) {
	return r.query(ctx, `
SELECT id, artist_id, name, release_date, created_at, updated_at
FROM albums
ORDER BY release_date, id`)
}

func (r *AlbumRepository) ListByArtist(ctx context.Context, artistID int64) ([]domain.Album, error) {
	return r.query(ctx, `
SELECT id, artist_id, name, release_date, created_at, updated_at
FROM albums
WHERE artist_id = ?
ORDER BY release_date, id`,
		artistID,
	)
}

func (r *AlbumRepository) query(ctx context.Context, query string, args ...any) ([]domain.Album, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]domain.Album, 0)
	for rows.Next() {
		var album domain.Album
		if err := rows.Scan(&album.ID, &album.ArtistID, &album.Name, &album.ReleaseDate, &album.CreatedAt, &album.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan album row: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

func (r *AlbumRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete album rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("album %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

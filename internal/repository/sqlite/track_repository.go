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

const (
	createTracksTable = `
CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	album_id INTEGER NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	blob_id TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

	createTrackGenresTable = `
CREATE TABLE IF NOT EXISTS track_genres (
	track_id INTEGER NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
	genre_id INTEGER NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
	PRIMARY KEY (track_id, genre_id)
);
`
)

type TrackRepository struct {
	db *sql.DB
}

func NewTrackRepository(db *sql.DB) repository.TrackRepository {
	return &TrackRepository{db: db}
}

func (r *TrackRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTracksTable); err != nil {
		return fmt.Errorf("create tracks table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createTrackGenresTable); err != nil {
		return fmt.Errorf("create track_genres table: %w", err)
	}
	return ensureColumns(ctx, r.db, "tracks", map[string]string{
		"blob_id": `ALTER TABLE tracks ADD COLUMN blob_id TEXT NULL`,
	})
}

func (r *TrackRepository) CreateTx(ctx context.Context, tx *sql.Tx, track *domain.Track) (int64, error) {
	now := time.Now().UTC()
	track.CreatedAt = now
	track.UpdatedAt = now

	res, err := tx.ExecContext(ctx, `
INSERT INTO tracks (album_id, name, blob_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		track.AlbumID,
		track.Name,
		nullableText(track.BlobID),
		track.CreatedAt,
		track.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert track: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("track last insert id: %w", err)
	}
	track.ID = id
	return id, nil
}

func (r *TrackRepository) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete track rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("track %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *TrackRepository) Get(ctx context.Context, id int64) (*domain.Track, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, album_id, name, blob_id, created_at, updated_at
FROM tracks
WHERE id = ?`,
		id,
	)

	var (
		track  domain.Track
		blobID sql.NullString
	)
	if err := row.Scan(&track.ID, &track.AlbumID, &track.Name, &blobID, &track.CreatedAt, &track.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan track: %w", err)
	}
	track.BlobID = blobID.String
	return &track, nil
}

func (r *TrackRepository) List(ctx context.Context) ([]domain.Track, error) {
	return r.query(ctx, `
SELECT id, album_id, name, blob_id, created_at, updated_at
FROM tracks
ORDER BY created_at DESC, id`)
}

func (r *TrackRepository) ListByAlbum(ctx context.Context, albumID int64) ([]domain.Track, error) {
	return r.query(ctx, `
SELECT id, album_id, name, blob_id, created_at, updated_at
FROM tracks
WHERE album_id = ?
ORDER BY id`,
		albumID,
	)
}

func (r *TrackRepository) query(ctx context.Context, query string, args ...any) ([]domain.Track, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]domain.Track, 0)
	for rows.Next() {
		var (
			track  domain.Track
			blobID sql.NullString
		)
		if err := rows.Scan(&track.ID, &track.AlbumID, &track.Name, &blobID, &track.CreatedAt, &track.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}
		track.BlobID = blobID.String
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}
	return tracks, nil
}

// SetGenresTx replaces the genre links of a track inside the caller's transaction.
func (r *TrackRepository) SetGenresTx(ctx context.Context, tx *sql.Tx, trackID int64, genreIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM track_genres WHERE track_id = ?`, trackID); err != nil {
		return fmt.Errorf("clear track genres: %w", err)
	}
	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO track_genres (track_id, genre_id)
VALUES (?, ?)`,
			trackID, genreID,
		); err != nil {
			return fmt.Errorf("link genre %d to track %d: %w", genreID, trackID, err)
		}
	}
	return nil
}

// BlobIDs returns the set of blob ids referenced by any track.
func (r *TrackRepository) BlobIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT blob_id FROM tracks WHERE blob_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list track blob ids: %w", err)
	}
	defer rows.Close()

	ids := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blob id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blob ids: %w", err)
	}
	return ids, nil
}

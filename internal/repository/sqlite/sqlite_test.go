package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"freemusic/internal/domain"
)

// setupTestDB creates an in-memory sqlite database with all tables created.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	inits := []interface{ Init(context.Context) error }{
		NewUserRepository(db),
		NewArtistRepository(db),
		NewGenreRepository(db),
		NewAlbumRepository(db),
		NewTrackRepository(db),
		NewPendingBlobRepository(db),
	}
	for _, repo := range inits {
		if err := repo.Init(ctx); err != nil {
			t.Fatalf("failed to init repository: %v", err)
		}
	}

	return db
}

// seedArtistAlbum inserts one artist with one album and returns their ids.
func seedArtistAlbum(t *testing.T, db *sql.DB) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	artistID, err := NewArtistRepository(db).Create(ctx, &domain.Artist{Name: "Kino", Description: "post-punk"})
	if err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}
	albumID, err := NewAlbumRepository(db).Create(ctx, &domain.Album{ArtistID: artistID, Name: "Gruppa Krovi"})
	if err != nil {
		t.Fatalf("failed to create album: %v", err)
	}
	return artistID, albumID
}

// createTrack inserts a track with an optional blob id inside its own transaction.
func createTrack(t *testing.T, db *sql.DB, albumID int64, name, blobID string) int64 {
	t.Helper()
	ctx := context.Background()

	track := &domain.Track{AlbumID: albumID, Name: name, BlobID: blobID}
	repo := NewTrackRepository(db)
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := repo.CreateTx(ctx, tx, track)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create track: %v", err)
	}
	return track.ID
}

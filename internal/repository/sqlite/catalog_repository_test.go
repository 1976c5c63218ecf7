package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"freemusic/internal/domain"
	"freemusic/internal/repository"
)

func TestArtistRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateGetList", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db)

		id, err := repo.Create(ctx, &domain.Artist{Name: "Kino", Description: "post-punk"})
		if err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		got, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if got.Name != "Kino" || got.Description != "post-punk" {
			t.Errorf("unexpected artist: %+v", got)
		}

		artists, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 1 {
			t.Fatalf("expected 1 artist, got %d", len(artists))
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		db := setupTestDB(t)
		if _, err := NewArtistRepository(db).Get(ctx, 7); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		db := setupTestDB(t)
		artistID, albumID := seedArtistAlbum(t, db)
		trackID := createTrack(t, db, albumID, "Voyna", "blob-1")

		if err := NewArtistRepository(db).Delete(ctx, artistID); err != nil {
			t.Fatalf("failed to delete artist: %v", err)
		}

		if _, err := NewAlbumRepository(db).Get(ctx, albumID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("album should cascade away, got %v", err)
		}
		if _, err := NewTrackRepository(db).Get(ctx, trackID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("track should cascade away, got %v", err)
		}
	})
}

func TestAlbumRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("ListByArtist", func(t *testing.T) {
		db := setupTestDB(t)
		artistID, _ := seedArtistAlbum(t, db)

		otherID, err := NewArtistRepository(db).Create(ctx, &domain.Artist{Name: "Akvarium"})
		if err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}
		if _, err := NewAlbumRepository(db).Create(ctx, &domain.Album{ArtistID: otherID, Name: "Sinii Albom"}); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		albums, err := NewAlbumRepository(db).ListByArtist(ctx, artistID)
		if err != nil {
			t.Fatalf("failed to list albums: %v", err)
		}
		if len(albums) != 1 || albums[0].Name != "Gruppa Krovi" {
			t.Errorf("unexpected albums: %+v", albums)
		}
	})

	t.Run("DeleteCascadesToTracks", func(t *testing.T) {
		db := setupTestDB(t)
		_, albumID := seedArtistAlbum(t, db)
		trackID := createTrack(t, db, albumID, "Voyna", "")

		if err := NewAlbumRepository(db).Delete(ctx, albumID); err != nil {
			t.Fatalf("failed to delete album: %v", err)
		}
		if _, err := NewTrackRepository(db).Get(ctx, trackID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("track should cascade away, got %v", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		db := setupTestDB(t)
		if err := NewAlbumRepository(db).Delete(ctx, 5); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTrackRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateRequiresAlbum", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackRepository(db)

		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			_, err := repo.CreateTx(ctx, tx, &domain.Track{AlbumID: 42, Name: "Orphan"})
			return err
		})
		if err == nil {
			t.Fatal("creating a track without an album should violate the foreign key")
		}
	})

	t.Run("GenreLinks", func(t *testing.T) {
		db := setupTestDB(t)
		_, albumID := seedArtistAlbum(t, db)
		trackID := createTrack(t, db, albumID, "Voyna", "")

		genreRepo := NewGenreRepository(db)
		rockID, err := genreRepo.Create(ctx, &domain.Genre{Name: "Rock"})
		if err != nil {
			t.Fatalf("failed to create genre: %v", err)
		}
		punkID, err := genreRepo.Create(ctx, &domain.Genre{Name: "Punk"})
		if err != nil {
			t.Fatalf("failed to create genre: %v", err)
		}

		trackRepo := NewTrackRepository(db)
		err = WithTx(ctx, db, func(tx *sql.Tx) error {
			return trackRepo.SetGenresTx(ctx, tx, trackID, []int64{rockID, punkID})
		})
		if err != nil {
			t.Fatalf("failed to set genres: %v", err)
		}

		genres, err := genreRepo.ListByTrack(ctx, trackID)
		if err != nil {
			t.Fatalf("failed to list genres by track: %v", err)
		}
		if len(genres) != 2 {
			t.Fatalf("expected 2 genres, got %d", len(genres))
		}

		// deleting a genre removes only the link, not the track
		if err := genreRepo.Delete(ctx, punkID); err != nil {
			t.Fatalf("failed to delete genre: %v", err)
		}
		genres, err = genreRepo.ListByTrack(ctx, trackID)
		if err != nil {
			t.Fatalf("failed to list genres by track: %v", err)
		}
		if len(genres) != 1 || genres[0].Name != "Rock" {
			t.Errorf("unexpected genres after delete: %+v", genres)
		}
		if _, err := trackRepo.Get(ctx, trackID); err != nil {
			t.Fatalf("track should survive genre deletion: %v", err)
		}
	})

	t.Run("BlobIDs", func(t *testing.T) {
		db := setupTestDB(t)
		_, albumID := seedArtistAlbum(t, db)
		createTrack(t, db, albumID, "Voyna", "blob-1")
		createTrack(t, db, albumID, "Spokoinaya Noch", "")
		createTrack(t, db, albumID, "Legenda", "blob-2")

		ids, err := NewTrackRepository(db).BlobIDs(ctx)
		if err != nil {
			t.Fatalf("failed to list blob ids: %v", err)
		}
		if len(ids) != 2 {
			t.Fatalf("expected 2 blob ids, got %d", len(ids))
		}
		for _, want := range []string{"blob-1", "blob-2"} {
			if _, ok := ids[want]; !ok {
				t.Errorf("missing blob id %s", want)
			}
		}
	})

	t.Run("DeleteTx", func(t *testing.T) {
		db := setupTestDB(t)
		_, albumID := seedArtistAlbum(t, db)
		trackID := createTrack(t, db, albumID, "Voyna", "")

		repo := NewTrackRepository(db)
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			return repo.DeleteTx(ctx, tx, trackID)
		})
		if err != nil {
			t.Fatalf("failed to delete track: %v", err)
		}

		err = WithTx(ctx, db, func(tx *sql.Tx) error {
			return repo.DeleteTx(ctx, tx, trackID)
		})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPendingBlobRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("AddListRemove", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPendingBlobRepository(db)

		if err := repo.Add(ctx, &domain.PendingBlob{BlobID: "b1", Filename: "a.mp3"}); err != nil {
			t.Fatalf("failed to add pending blob: %v", err)
		}
		if err := repo.Add(ctx, &domain.PendingBlob{BlobID: "b1", Filename: "a.mp3"}); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		blobs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list pending blobs: %v", err)
		}
		if len(blobs) != 1 || blobs[0].BlobID != "b1" || blobs[0].Filename != "a.mp3" {
			t.Errorf("unexpected pending blobs: %+v", blobs)
		}

		if err := repo.Remove(ctx, "b1"); err != nil {
			t.Fatalf("failed to remove pending blob: %v", err)
		}
		blobs, err = repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list pending blobs: %v", err)
		}
		if len(blobs) != 0 {
			t.Errorf("ledger should be empty, got %+v", blobs)
		}
	})

	t.Run("RemoveTxRollsBack", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPendingBlobRepository(db)

		if err := repo.Add(ctx, &domain.PendingBlob{BlobID: "b1", Filename: "a.mp3"}); err != nil {
			t.Fatalf("failed to add pending blob: %v", err)
		}

		failure := errors.New("boom")
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			if err := repo.RemoveTx(ctx, tx, "b1"); err != nil {
				return err
			}
			return failure
		})
		if !errors.Is(err, failure) {
			t.Fatalf("expected injected failure, got %v", err)
		}

		blobs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list pending blobs: %v", err)
		}
		if len(blobs) != 1 {
			t.Fatal("rolled back removal should leave the ledger row")
		}
	})
}

func TestMigrationsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// a second Init run must not fail or duplicate columns
	repos := []interface{ Init(context.Context) error }{
		NewUserRepository(db),
		NewTrackRepository(db),
	}
	for _, repo := range repos {
		if err := repo.Init(ctx); err != nil {
			t.Fatalf("repeated init failed: %v", err)
		}
	}
}

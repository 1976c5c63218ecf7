package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"freemusic/internal/domain"
	"freemusic/internal/repository/sqlite"
	"freemusic/internal/storage"
)

// AddArtist creates a new artist. Admin only.
func (l *Library) AddArtist(ctx context.Context, sess *Session, name, description string) (*domain.Artist, error) {
	if err := authorize(sess, actionAddArtist); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateRange("name", name, nameMinLen, nameMaxLen); err != nil {
		return nil, err
	}
	if err := validateFreeText("description", description); err != nil {
		return nil, err
	}

	artist := &domain.Artist{Name: name, Description: description}
	if _, err := l.artists.Create(ctx, artist); err != nil {
		return nil, translateStore("add artist", err)
	}
	l.log.WithField("artist", name).Info("artist added")
	return artist, nil
}

// AddAlbum creates a new album under an existing artist. Admin only.
func (l *Library) AddAlbum(ctx context.Context, sess *Session, artistID int64, name string, releaseDate time.Time) (*domain.Album, error) {
	if err := authorize(sess, actionAddAlbum); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateRange("name", name, nameMinLen, nameMaxLen); err != nil {
		return nil, err
	}

	if _, err := l.artists.Get(ctx, artistID); err != nil {
		return nil, translateStore("add album", err)
	}

	album := &domain.Album{ArtistID: artistID, Name: name, ReleaseDate: releaseDate}
	if _, err := l.albums.Create(ctx, album); err != nil {
		return nil, translateStore("add album", err)
	}
	l.log.WithField("album", name).Info("album added")
	return album, nil
}

// AddGenre creates a new genre. Admin only.
func (l *Library) AddGenre(ctx context.Context, sess *Session, name string) (*domain.Genre, error) {
	if err := authorize(sess, actionAddGenre); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateRange("name", name, genreNameMinLen, genreNameMaxLen); err != nil {
		return nil, err
	}

	genre := &domain.Genre{Name: name}
	if _, err := l.genres.Create(ctx, genre); err != nil {
		return nil, translateStore("add genre", err)
	}
	l.log.WithField("genre", name).Info("genre added")
	return genre, nil
}

// AddTrack creates a new track under an existing album, optionally uploading
// its audio payload. The payload is staged in the pending-blob ledger and
// written to the blob store before the track row commits; the ledger row is
// removed in the same transaction that creates the track.
func (l *Library) AddTrack(ctx context.Context, sess *Session, albumID int64, name string, genreIDs []int64, audio io.Reader, filename string) (*domain.Track, error) {
	if err := authorize(sess, actionAddTrack); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateRange("name", name, nameMinLen, nameMaxLen); err != nil {
		return nil, err
	}

	if _, err := l.albums.Get(ctx, albumID); err != nil {
		return nil, translateStore("add track", err)
	}
	for _, genreID := range genreIDs {
		if _, err := l.genres.Get(ctx, genreID); err != nil {
			return nil, translateStore("add track", err)
		}
	}

	var blobID string
	if audio != nil {
		blobID = uuid.NewString()
		if err := l.pending.Add(ctx, &domain.PendingBlob{BlobID: blobID, Filename: filename}); err != nil {
			return nil, translateStore("add track", err)
		}
		if err := l.blobs.Put(ctx, blobID, audio, filename); err != nil {
			// nothing reached the store; drop the ledger row
			if rmErr := l.pending.Remove(ctx, blobID); rmErr != nil {
				l.log.WithError(rmErr).Warn("failed to drop pending blob row")
			}
			return nil, &StoreError{Op: "add track audio", Err: err}
		}
	}

	track := &domain.Track{AlbumID: albumID, Name: name, BlobID: blobID}
	err := sqlite.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		if _, err := l.tracks.CreateTx(ctx, tx, track); err != nil {
			return err
		}
		if len(genreIDs) > 0 {
			if err := l.tracks.SetGenresTx(ctx, tx, track.ID, genreIDs); err != nil {
				return err
			}
		}
		if blobID != "" {
			return l.pending.RemoveTx(ctx, tx, blobID)
		}
		return nil
	})
	if err != nil {
		if blobID != "" {
			// metadata commit failed after the blob was stored; prefer deleting
			// the orphan now, falling back to the startup sweep via the ledger
			if delErr := l.blobs.Delete(ctx, blobID); delErr != nil {
				l.log.WithError(delErr).Warn("orphaned blob left for reconciliation sweep")
			} else if rmErr := l.pending.Remove(ctx, blobID); rmErr != nil {
				l.log.WithError(rmErr).Warn("failed to drop pending blob row")
			}
		}
		return nil, translateStore("add track", err)
	}

	l.log.WithField("track", name).Info("track added")
	return track, nil
}

// DeleteArtist removes an artist, its albums and their tracks. The audio
// blobs of every affected track are deleted first; a blob-store failure
// aborts the metadata delete.
func (l *Library) DeleteArtist(ctx context.Context, sess *Session, id int64) error {
	if err := authorize(sess, actionDeleteArtist); err != nil {
		return err
	}
	if _, err := l.artists.Get(ctx, id); err != nil {
		return translateStore("delete artist", err)
	}

	albums, err := l.albums.ListByArtist(ctx, id)
	if err != nil {
		return translateStore("delete artist", err)
	}
	for _, album := range albums {
		if err := l.deleteAlbumBlobs(ctx, album.ID); err != nil {
			return err
		}
	}

	if err := l.artists.Delete(ctx, id); err != nil {
		return translateStore("delete artist", err)
	}
	l.log.WithField("artist_id", id).Info("artist deleted")
	return nil
}

// DeleteAlbum removes an album and its tracks, deleting their blobs first.
func (l *Library) DeleteAlbum(ctx context.Context, sess *Session, id int64) error {
	if err := authorize(sess, actionDeleteAlbum); err != nil {
		return err
	}
	if _, err := l.albums.Get(ctx, id); err != nil {
		return translateStore("delete album", err)
	}
	if err := l.deleteAlbumBlobs(ctx, id); err != nil {
		return err
	}
	if err := l.albums.Delete(ctx, id); err != nil {
		return translateStore("delete album", err)
	}
	l.log.WithField("album_id", id).Info("album deleted")
	return nil
}

func (l *Library) deleteAlbumBlobs(ctx context.Context, albumID int64) error {
	tracks, err := l.tracks.ListByAlbum(ctx, albumID)
	if err != nil {
		return translateStore("delete album tracks", err)
	}
	for _, track := range tracks {
		if track.BlobID == "" {
			continue
		}
		if err := l.blobs.Delete(ctx, track.BlobID); err != nil {
			return &StoreError{Op: "delete track audio", Err: err}
		}
	}
	return nil
}

// DeleteTrack removes a track and its audio blob as one logical operation.
// If the blob delete fails the metadata row is left untouched.
func (l *Library) DeleteTrack(ctx context.Context, sess *Session, id int64) error {
	if err := authorize(sess, actionDeleteTrack); err != nil {
		return err
	}

	track, err := l.tracks.Get(ctx, id)
	if err != nil {
		return translateStore("delete track", err)
	}

	if track.BlobID != "" {
		if err := l.blobs.Delete(ctx, track.BlobID); err != nil {
			return &StoreError{Op: "delete track audio", Err: err}
		}
	}

	err = sqlite.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		return l.tracks.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return translateStore("delete track", err)
	}
	l.log.WithField("track_id", id).Info("track deleted")
	return nil
}

// DeleteGenre removes a genre. Its link rows go with it; tracks survive.
func (l *Library) DeleteGenre(ctx context.Context, sess *Session, id int64) error {
	if err := authorize(sess, actionDeleteGenre); err != nil {
		return err
	}
	if err := l.genres.Delete(ctx, id); err != nil {
		return translateStore("delete genre", err)
	}
	l.log.WithField("genre_id", id).Info("genre deleted")
	return nil
}

// Readers require no authorization.

func (l *Library) Artists(ctx context.Context) ([]domain.Artist, error) {
	artists, err := l.artists.List(ctx)
	if err != nil {
		return nil, translateStore("list artists", err)
	}
	return artists, nil
}

func (l *Library) Artist(ctx context.Context, id int64) (*domain.Artist, error) {
	artist, err := l.artists.Get(ctx, id)
	if err != nil {
		return nil, translateStore("get artist", err)
	}
	return artist, nil
}

func (l *Library) Albums(ctx context.Context) ([]domain.Album, error) {
	albums, err := l.albums.List(ctx)
	if err != nil {
		return nil, translateStore("list albums", err)
	}
	return albums, nil
}

func (l *Library) Album(ctx context.Context, id int64) (*domain.Album, error) {
	album, err := l.albums.Get(ctx, id)
	if err != nil {
		return nil, translateStore("get album", err)
	}
	return album, nil
}

func (l *Library) AlbumsByArtist(ctx context.Context, artistID int64) ([]domain.Album, error) {
	albums, err := l.albums.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, translateStore("list albums by artist", err)
	}
	return albums, nil
}

func (l *Library) Tracks(ctx context.Context) ([]domain.Track, error) {
	tracks, err := l.tracks.List(ctx)
	if err != nil {
		return nil, translateStore("list tracks", err)
	}
	return tracks, nil
}

func (l *Library) Track(ctx context.Context, id int64) (*domain.Track, error) {
	track, err := l.tracks.Get(ctx, id)
	if err != nil {
		return nil, translateStore("get track", err)
	}
	return track, nil
}

func (l *Library) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := l.genres.List(ctx)
	if err != nil {
		return nil, translateStore("list genres", err)
	}
	return genres, nil
}

func (l *Library) Genre(ctx context.Context, id int64) (*domain.Genre, error) {
	genre, err := l.genres.Get(ctx, id)
	if err != nil {
		return nil, translateStore("get genre", err)
	}
	return genre, nil
}

func (l *Library) GenresByTrack(ctx context.Context, trackID int64) ([]domain.Genre, error) {
	genres, err := l.genres.ListByTrack(ctx, trackID)
	if err != nil {
		return nil, translateStore("list genres by track", err)
	}
	return genres, nil
}

// TrackAudio opens the stored audio payload of a track for playback.
func (l *Library) TrackAudio(ctx context.Context, trackID int64) (io.ReadCloser, string, error) {
	track, err := l.tracks.Get(ctx, trackID)
	if err != nil {
		return nil, "", translateStore("get track", err)
	}
	if track.BlobID == "" {
		return nil, "", ErrNotFound
	}
	rc, filename, err := l.blobs.Get(ctx, track.BlobID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", &StoreError{Op: "get track audio", Err: err}
	}
	return rc, filename, nil
}

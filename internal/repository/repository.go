package repository

import (
	"context"
	"database/sql"
	"errors"

	"freemusic/internal/domain"
)

var (
	// ErrNotFound is returned when a single-entity lookup has no match.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetAdmin(ctx context.Context, login string, isAdmin bool) error
}

// ArtistRepository defines persistence operations for Artist entities.
type ArtistRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, artist *domain.Artist) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Artist, error)
	List(ctx context.Context) ([]domain.Artist, error)
	Delete(ctx context.Context, id int64) error
}

// AlbumRepository defines persistence operations for Album entities.
type AlbumRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, album *domain.Album) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Album, error)
	List(ctx context.Context) ([]domain.Album, error)
	ListByArtist(ctx context.Context, artistID int64) ([]domain.Album, error)
	Delete(ctx context.Context, id int64) error
}

// TrackRepository defines persistence operations for Track entities. Creation
// and deletion run inside caller-owned transactions so that track rows, genre
// links and the pending-blob ledger commit or roll back together.
type TrackRepository interface {
	Init(ctx context.Context) error
	CreateTx(ctx context.Context, tx *sql.Tx, track *domain.Track) (int64, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error
	Get(ctx context.Context, id int64) (*domain.Track, error)
	List(ctx context.Context) ([]domain.Track, error)
	ListByAlbum(ctx context.Context, albumID int64) ([]domain.Track, error)
	SetGenresTx(ctx context.Context, tx *sql.Tx, trackID int64, genreIDs []int64) error
	BlobIDs(ctx context.Context) (map[string]struct{}, error)
}

// GenreRepository defines persistence operations for Genre entities.
type GenreRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, genre *domain.Genre) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Genre, error)
	List(ctx context.Context) ([]domain.Genre, error)
	ListByTrack(ctx context.Context, trackID int64) ([]domain.Genre, error)
	Delete(ctx context.Context, id int64) error
}

// PendingBlobRepository manages the write-ahead ledger for blob uploads.
type PendingBlobRepository interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, blob *domain.PendingBlob) error
	RemoveTx(ctx context.Context, tx *sql.Tx, blobID string) error
	Remove(ctx context.Context, blobID string) error
	List(ctx context.Context) ([]domain.PendingBlob, error)
}

package service

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"freemusic/internal/repository"
	"freemusic/internal/storage"
)

// Library is the session façade all presentation code calls into. It mediates
// every state change between the presentation layer and the two storage
// backends: the relational catalog and the audio blob store.
type Library struct {
	db      *sql.DB
	users   repository.UserRepository
	artists repository.ArtistRepository
	albums  repository.AlbumRepository
	tracks  repository.TrackRepository
	genres  repository.GenreRepository
	pending repository.PendingBlobRepository
	blobs   storage.Service
	log     *logrus.Logger
}

// Config bundles the collaborators a Library needs.
type Config struct {
	DB      *sql.DB
	Users   repository.UserRepository
	Artists repository.ArtistRepository
	Albums  repository.AlbumRepository
	Tracks  repository.TrackRepository
	Genres  repository.GenreRepository
	Pending repository.PendingBlobRepository
	Blobs   storage.Service
	Logger  *logrus.Logger
}

func NewLibrary(cfg Config) *Library {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Library{
		db:      cfg.DB,
		users:   cfg.Users,
		artists: cfg.Artists,
		albums:  cfg.Albums,
		tracks:  cfg.Tracks,
		genres:  cfg.Genres,
		pending: cfg.Pending,
		blobs:   cfg.Blobs,
		log:     log,
	}
}

// Init creates any missing tables and columns. There is no versioned
// migration history; initialization is idempotent.
func (l *Library) Init(ctx context.Context) error {
	inits := []func(context.Context) error{
		l.users.Init,
		l.artists.Init,
		l.genres.Init,
		l.albums.Init,
		l.tracks.Init,
		l.pending.Init,
	}
	for _, init := range inits {
		if err := init(ctx); err != nil {
			return translateStore("init schema", err)
		}
	}
	return nil
}

package domain

import "time"

// Artist represents a performer that owns zero or more albums.
type Artist struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Album belongs to exactly one artist and owns zero or more tracks.
type Album struct {
	ID          int64
	ArtistID    int64
	Name        string
	ReleaseDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Track belongs to exactly one album. BlobID references the audio payload in
// the blob store; it is empty until an upload completes.
type Track struct {
	ID        int64
	AlbumID   int64
	Name      string
	BlobID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Genre tags tracks through a many-to-many link.
type Genre struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// PendingBlob is a write-ahead ledger row staged before an audio payload is
// written to the blob store. Rows left behind by interrupted uploads are
// reconciled by the startup sweep.
type PendingBlob struct {
	BlobID    string
	Filename  string
	CreatedAt time.Time
}

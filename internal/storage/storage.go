package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrBlobNotFound is returned when a blob id is unknown to the store.
var ErrBlobNotFound = errors.New("blob not found")

// BlobInfo describes a stored audio payload.
type BlobInfo struct {
	ID           string
	Size         int64
	LastModified *time.Time
}

// Service stores opaque audio payloads addressed by caller-chosen ids. It is
// not transactionally linked to the relational store; the session façade
// reconciles the gap with a write-ahead ledger and a startup sweep.
type Service interface {
	// Put writes the payload under id. The original filename travels with the
	// blob and comes back from Get.
	Put(ctx context.Context, id string, r io.Reader, filename string) error
	// Get opens the payload for reading. Returns ErrBlobNotFound for unknown ids.
	Get(ctx context.Context, id string) (io.ReadCloser, string, error)
	// Delete removes the payload. Deleting an absent blob is a no-op.
	Delete(ctx context.Context, id string) error
	// List enumerates every stored blob.
	List(ctx context.Context) ([]BlobInfo, error)
}

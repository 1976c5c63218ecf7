package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"freemusic/internal/domain"
	"freemusic/internal/repository"
)

const createPendingBlobsTable = `
CREATE TABLE IF NOT EXISTS pending_blobs (
	blob_id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// PendingBlobRepository persists the write-ahead ledger rows staged before
// audio payloads are written to the blob store.
type PendingBlobRepository struct {
	db *sql.DB
}

func NewPendingBlobRepository(db *sql.DB) repository.PendingBlobRepository {
	return &PendingBlobRepository{db: db}
}

func (r *PendingBlobRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPendingBlobsTable); err != nil {
		return fmt.Errorf("create pending_blobs table: %w", err)
	}
	return nil
}

func (r *PendingBlobRepository) Add(ctx context.Context, blob *domain.PendingBlob) error {
	blob.CreatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO pending_blobs (blob_id, filename, created_at)
VALUES (?, ?, ?)`,
		blob.BlobID,
		blob.Filename,
		blob.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("pending blob %q: %w", blob.BlobID, repository.ErrConflict)
		}
		return fmt.Errorf("insert pending blob: %w", err)
	}
	return nil
}

func (r *PendingBlobRepository) RemoveTx(ctx context.Context, tx *sql.Tx, blobID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_blobs WHERE blob_id = ?`, blobID); err != nil {
		return fmt.Errorf("remove pending blob: %w", err)
	}
	return nil
}

func (r *PendingBlobRepository) Remove(ctx context.Context, blobID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_blobs WHERE blob_id = ?`, blobID); err != nil {
		return fmt.Errorf("remove pending blob: %w", err)
	}
	return nil
}

func (r *PendingBlobRepository) List(ctx context.Context) ([]domain.PendingBlob, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT blob_id, filename, created_at
FROM pending_blobs
ORDER BY created_at, blob_id`)
	if err != nil {
		return nil, fmt.Errorf("list pending blobs: %w", err)
	}
	defer rows.Close()

	blobs := make([]domain.PendingBlob, 0)
	for rows.Next() {
		var blob domain.PendingBlob
		if err := rows.Scan(&blob.BlobID, &blob.Filename, &blob.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending blob row: %w", err)
		}
		blobs = append(blobs, blob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending blobs: %w", err)
	}
	return blobs, nil
}

package service

import (
	"context"
)

// ReconcileBlobs is the startup sweep closing the gap between the relational
// store and the blob store. Ledger rows without a matching track mark
// interrupted uploads: their blobs are deleted and the rows pruned. Any blob
// the store holds that no track references is deleted as well.
func (l *Library) ReconcileBlobs(ctx context.Context) error {
	referenced, err := l.tracks.BlobIDs(ctx)
	if err != nil {
		return translateStore("reconcile blobs", err)
	}

	pending, err := l.pending.List(ctx)
	if err != nil {
		return translateStore("reconcile blobs", err)
	}

	var removed int
	for _, row := range pending {
		if _, ok := referenced[row.BlobID]; !ok {
			if err := l.blobs.Delete(ctx, row.BlobID); err != nil {
				l.log.WithError(err).WithField("blob_id", row.BlobID).Warn("failed to delete staged blob")
				continue
			}
			removed++
		}
		if err := l.pending.Remove(ctx, row.BlobID); err != nil {
			return translateStore("reconcile blobs", err)
		}
	}

	blobs, err := l.blobs.List(ctx)
	if err != nil {
		return &StoreError{Op: "reconcile blobs", Err: err}
	}
	for _, blob := range blobs {
		if _, ok := referenced[blob.ID]; ok {
			continue
		}
		if err := l.blobs.Delete(ctx, blob.ID); err != nil {
			l.log.WithError(err).WithField("blob_id", blob.ID).Warn("failed to delete orphaned blob")
			continue
		}
		removed++
	}

	if removed > 0 {
		l.log.WithField("removed", removed).Info("orphaned blobs reconciled")
	}
	return nil
}

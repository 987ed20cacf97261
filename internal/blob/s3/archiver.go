package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// SnapshotArchiver implements domain.SnapshotArchiver by serialising a
// leaderboard to JSON and uploading it to S3, keyed by group and day:
//
//	snapshots/{groupID}/2026-08-31.json
//
// A rerun on the same day overwrites that day's snapshot, which makes the
// digest job idempotent per day.
type SnapshotArchiver struct {
	writer domain.BlobWriter
}

// NewSnapshotArchiver creates a SnapshotArchiver that uploads through the
// given writer.
func NewSnapshotArchiver(writer domain.BlobWriter) *SnapshotArchiver {
	return &SnapshotArchiver{writer: writer}
}

// ArchiveLeaderboard uploads the leaderboard and returns the object path.
func (a *SnapshotArchiver) ArchiveLeaderboard(ctx context.Context, lb domain.Leaderboard) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(lb); err != nil {
		return "", fmt.Errorf("s3blob: marshal leaderboard %s: %w", lb.Group.ID, err)
	}

	path := snapshotPath(lb)
	if err := a.writer.Put(ctx, path, &buf, "application/json"); err != nil {
		return "", fmt.Errorf("s3blob: upload leaderboard %s: %w", lb.Group.ID, err)
	}

	return path, nil
}

// snapshotPath builds the S3 key for a leaderboard snapshot, partitioned by
// group and the UTC day it was generated.
func snapshotPath(lb domain.Leaderboard) string {
	return fmt.Sprintf("snapshots/%s/%s.json", lb.Group.ID, lb.GeneratedAt.UTC().Format("2006-01-02"))
}

// Compile-time interface check.
var _ domain.SnapshotArchiver = (*SnapshotArchiver)(nil)

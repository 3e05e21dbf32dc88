package storage

import (
	"context"
	"fmt"

	"carviz/pkg/records"
)

// DefaultBatchSize is the number of rows per insert transaction.
const DefaultBatchSize = 500

// Snapshot writes every row of t into repo. fields are the destination column
// names, positionally aligned with t.Columns.
func Snapshot(ctx context.Context, repo Repository, t *records.Table, fields []string, batchSize int) (int64, error) {
	if len(fields) != len(t.Columns) {
		return 0, fmt.Errorf("snapshot: %d fields for %d columns", len(fields), len(t.Columns))
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan []any, batchSize)
	go func() {
		defer close(in)
		for _, r := range t.Rows {
			row := make([]any, len(t.Columns))
			for i, c := range t.Columns {
				row[i] = r[c]
			}
			select {
			case in <- row:
			case <-ctx.Done():
				return
			}
		}
	}()

	n, err := LoadBatches(ctx, fields, in, batchSize, repo.CopyFrom)
	if err != nil {
		return n, fmt.Errorf("snapshot: %w", err)
	}
	return n, nil
}

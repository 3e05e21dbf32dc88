package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn inserts rows aligned to columns and returns the number inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn per non-empty batch. It returns the total reported by copyFn
// and the first error. A progress line is logged per flushed batch.
func LoadBatches(ctx context.Context, columns []string, in <-chan []any, batchSize int, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int
		batch   = make([][]any, 0, batchSize)
		start   = time.Now()
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			log.Printf("loader: insert failed after=%d total=%d err=%v", n, total, err)
			return err
		}
		batches++
		log.Printf("batch #%d: inserted=%d total=%d elapsed=%s", batches, n, total, time.Since(start).Truncate(time.Millisecond))
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case row, ok := <-in:
			if !ok {
				return total, flush()
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}

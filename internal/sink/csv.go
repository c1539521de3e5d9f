package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// CSV appends rows to a local flat file. The header row is written exactly
// once, when the destination is missing or empty; prior rows are never
// touched. A file lock guards against a second process appending to the same
// destination.
type CSV struct {
	mu     sync.Mutex
	path   string
	header Row
	lock   *flock.Flock
}

// NewCSV creates a CSV sink for the given path. The header defines the
// destination schema and is written on first use.
func NewCSV(path string, header Row) *CSV {
	return &CSV{
		path:   path,
		header: header,
		lock:   flock.New(path + ".lock"),
	}
}

// Append writes one row, creating the file and header when needed.
func (sink *CSV) Append(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()

	if err := sink.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %v", ErrWrite, sink.path, err)
	}
	defer func() {
		_ = sink.lock.Unlock()
	}()

	if dir := filepath.Dir(sink.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create log directory: %v", ErrWrite, err)
		}
	}

	file, err := os.OpenFile(sink.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrWrite, sink.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrWrite, sink.path, err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 && len(sink.header) > 0 {
		if err := writer.Write(sink.header); err != nil {
			return fmt.Errorf("%w: write header: %v", ErrWrite, err)
		}
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("%w: write row: %v", ErrWrite, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrWrite, sink.path, err)
	}
	return nil
}

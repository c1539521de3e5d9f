// Package sink provides append-only row destinations for workout logs. Every
// destination carries a fixed header and column schema; rows are immutable
// once appended.
package sink

import (
	"context"
	"errors"
)

// ErrAuth indicates a missing or rejected credential.
var ErrAuth = errors.New("sink: authorization failed")

// ErrWrite indicates an append that could not be written.
var ErrWrite = errors.New("sink: write failed")

// Row is one fixed-schema record. Columns are formatted to strings at the
// call site, so every sink sees the same ordered values.
type Row []string

// Sink appends rows to a single destination.
type Sink interface {
	Append(ctx context.Context, row Row) error
}

package fetch

import (
	"context"
	"io"
)

// Source is the capability the engine downloads through: a size probe plus
// ranged reads. Implementations retry transient failures internally; an
// error returned here is final.
type Source interface {
	// Probe returns the total size of the resource in bytes.
	Probe(ctx context.Context, url string) (int64, error)
	// OpenRange returns a stream of bytes [start, end] (inclusive).
	OpenRange(ctx context.Context, url string, start, end int64) (io.ReadCloser, error)
}

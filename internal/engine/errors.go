package engine

import (
	"errors"
	"fmt"
)

// ErrPaused is returned by Start when cancellation was requested. It travels
// the same error channel as real failures so callers can tell an intentional
// stop from a fault; the literal text matches the result reported upstream.
var ErrPaused = errors.New("Paused")

// SegmentError reports a fatal transport or file-write failure in one
// segment fetcher. It surfaces as the whole attempt's failure.
type SegmentError struct {
	Index int
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d transfer failed: %v", e.Index, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/parget/parget/internal/fetch"
	"github.com/parget/parget/internal/utils"
)

const (
	aggregateInterval = 100 * time.Millisecond
	emitInterval      = 50 * time.Millisecond
)

type Options struct {
	// Connections is the segment count for fresh plans (default 8).
	// Resumed plans keep the concurrency they were created with.
	Connections int
}

// Engine drives resumable segmented downloads through an injected Source,
// Registry and progress sink.
type Engine struct {
	source      fetch.Source
	registry    *Registry
	emit        EmitFunc
	connections int
}

func New(source fetch.Source, registry *Registry, emit EmitFunc, opts Options) *Engine {
	connections := opts.Connections
	if connections <= 0 {
		connections = DefaultConnections
	}
	if emit == nil {
		emit = func(Progress) {}
	}
	return &Engine{
		source:      source,
		registry:    registry,
		emit:        emit,
		connections: connections,
	}
}

// Cancel requests a cooperative pause of the download with the given id.
// Unknown ids are ignored.
func (e *Engine) Cancel(id string) {
	e.registry.Cancel(id)
}

// Start runs one download attempt to a terminal state. It returns nil on
// completion (output complete, state file removed), ErrPaused when Cancel
// was called (state persisted for resume), or the failure that ended the
// attempt. Re-invoking with the same output path resumes from the
// persisted state.
func (e *Engine) Start(ctx context.Context, id, url, outputPath string) error {
	log := utils.GetLogger("engine").With().Str("id", id).Logger()

	plan, err := LoadState(outputPath)
	if err != nil {
		return err
	}
	fresh := plan == nil
	if fresh {
		totalSize, err := e.source.Probe(ctx, url)
		if err != nil {
			return fmt.Errorf("error probing resource: %w", err)
		}
		if totalSize <= 0 {
			return fmt.Errorf("invalid total size %d reported for %s", totalSize, url)
		}
		plan = NewPlan(id, url, outputPath, totalSize, e.connections)
		log.Debug().Int64("size", totalSize).Int("segments", len(plan.Segments)).Msg("Built fresh download plan")
	} else {
		plan.ID = id
		log.Info().Int64("transferred", plan.Transferred()).Int64("size", plan.TotalSize).Msg("Resuming from persisted state")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %v", err)
	}
	if fresh {
		if err := SaveState(plan); err != nil {
			return err
		}
	}

	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.registry.Register(id, cancel)
	defer e.registry.Remove(id)

	counters := make([]*atomic.Int64, len(plan.Segments))
	resultCh := make(chan segmentResult, len(plan.Segments))
	var wg sync.WaitGroup
	for i := range plan.Segments {
		counters[i] = new(atomic.Int64)
		counters[i].Store(plan.Segments[i].Downloaded)
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			e.runSegment(attemptCtx, plan, index, counters[index], resultCh)
		}(i)
	}

	err = e.aggregate(attemptCtx, plan, counters, resultCh)
	switch {
	case errors.Is(err, ErrPaused):
		// Snapshot and persist. Fetchers observe the same signal on their
		// own; the attempt does not wait for them to fully stop, so a late
		// chunk may land after the snapshot. Acceptable for pause/resume.
		for i := range plan.Segments {
			plan.Segments[i].Downloaded = counters[i].Load()
		}
		if saveErr := SaveState(plan); saveErr != nil {
			return saveErr
		}
		log.Info().Int64("transferred", plan.Transferred()).Msg("Download paused, state persisted")
		return ErrPaused
	case err != nil:
		// First fatal segment error stops the whole attempt: cancel the
		// siblings and join them before surfacing it.
		cancel()
		wg.Wait()
		return err
	}

	wg.Wait()
	if err := RemoveState(outputPath); err != nil {
		log.Debug().Err(err).Msg("Error removing state file")
	}
	log.Info().Int64("size", plan.TotalSize).Str("output", outputPath).Msg("Download completed")
	return nil
}

// aggregate is the loop driving one attempt: every 100ms it sums the live
// segment counters, emits throttled progress and checks for completion,
// cancellation or a segment failure.
func (e *Engine) aggregate(ctx context.Context, plan *DownloadPlan, counters []*atomic.Int64, resultCh <-chan segmentResult) error {
	startTime := time.Now()
	var lastEmit time.Time
	ticker := time.NewTicker(aggregateInterval)
	defer ticker.Stop()

	for {
	drain:
		for {
			select {
			case res := <-resultCh:
				if res.err != nil {
					return &SegmentError{Index: res.index, Err: res.err}
				}
			default:
				break drain
			}
		}
		if ctx.Err() != nil {
			return ErrPaused
		}

		var transferred int64
		for _, counter := range counters {
			transferred += counter.Load()
		}
		if time.Since(lastEmit) >= emitInterval {
			elapsed := time.Since(startTime).Seconds()
			var rate float64
			if elapsed > 0 {
				rate = float64(transferred) / elapsed
			}
			e.emit(Progress{
				DownloadID:   plan.ID,
				Transferred:  uint64(transferred),
				TransferRate: rate,
				Percentage:   float64(transferred) * 100 / float64(plan.TotalSize),
			})
			lastEmit = time.Now()
		}
		if transferred >= plan.TotalSize {
			return nil
		}

		select {
		case <-ctx.Done():
			return ErrPaused
		case <-ticker.C:
		}
	}
}

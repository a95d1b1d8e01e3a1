package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/parget/parget/internal/utils"
)

type segmentResult struct {
	index int
	err   error
}

// runSegment downloads one segment into its disjoint window of the output
// file. The counter is pre-seeded with the resume offset and bumped per
// chunk, so the aggregator reads live progress. Cancellation is observed
// through ctx: the request body read unblocks within one chunk's latency
// and the fetcher exits cleanly with whatever it accumulated.
func (e *Engine) runSegment(ctx context.Context, plan *DownloadPlan, index int, counter *atomic.Int64, resultCh chan<- segmentResult) {
	log := utils.GetLogger("segment").With().Str("id", plan.ID).Int("segment", index).Logger()
	seg := plan.Segments[index]
	downloaded := counter.Load()
	if downloaded >= seg.Length() {
		log.Debug().Int64("size", downloaded).Msg("Segment already downloaded, skipping")
		resultCh <- segmentResult{index: index}
		return
	}
	if downloaded > 0 {
		log.Debug().Int64("size", downloaded).Int64("total", seg.Length()).Msg("Resuming incomplete segment")
	}

	body, err := e.source.OpenRange(ctx, plan.URL, seg.Start+downloaded, seg.End)
	if err != nil {
		if ctx.Err() != nil {
			resultCh <- segmentResult{index: index}
			return
		}
		resultCh <- segmentResult{index: index, err: err}
		return
	}
	defer body.Close()

	// Windows are disjoint, so concurrent WriteAt calls on separate
	// descriptors never overlap.
	file, err := os.OpenFile(plan.OutputPath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		resultCh <- segmentResult{index: index, err: fmt.Errorf("error opening output file: %v", err)}
		return
	}
	defer file.Close()

	offset := seg.Start + downloaded
	buffer := make([]byte, utils.DefaultBufferSize)
	for {
		bytesRead, readErr := body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := file.WriteAt(buffer[:bytesRead], offset); writeErr != nil {
				resultCh <- segmentResult{index: index, err: fmt.Errorf("error writing output file: %v", writeErr)}
				return
			}
			offset += int64(bytesRead)
			counter.Add(int64(bytesRead))
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			if ctx.Err() != nil {
				resultCh <- segmentResult{index: index}
				return
			}
			resultCh <- segmentResult{index: index, err: readErr}
			return
		}
	}

	if total := counter.Load(); total != seg.Length() {
		log.Debug().Int64("expected", seg.Length()).Int64("downloaded", total).Msg("Size mismatch on segment download")
		resultCh <- segmentResult{index: index, err: fmt.Errorf("size mismatch: expected %d bytes, got %d", seg.Length(), total)}
		return
	}
	log.Debug().Int64("size", seg.Length()).Msg("Segment download completed")
	resultCh <- segmentResult{index: index}
}

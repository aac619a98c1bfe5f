package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sound2text/sound2text/internal/audio"
	"github.com/sound2text/sound2text/internal/subtitle"
)

// per-chunk transcription outcome
type chunkResult struct {
	index    int
	language string
	segments []subtitle.Segment
	err      error
}

// WithChunks transcribes chunks through t with a bounded worker pool and
// reassembles the cues in chunk order, shifted to source-audio time. The
// first chunk failure cancels the remaining work.
func WithChunks(
	ctx context.Context,
	t Transcriber,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}
	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					res := transcribeChunk(ctx, t, chunk)
					if res.err != nil {
						cancel()
					}
					resultChan <- res
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for res := range resultChan {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("chunk %d failed: %w", res.index, res.err)
		}
		if res.err == nil {
			results = append(results, res)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].index < results[j].index
	})

	merged := &Result{Duration: chunks[len(chunks)-1].EndTime}
	for _, res := range results {
		merged.Segments = append(merged.Segments, res.segments...)
		if merged.Language == "" {
			merged.Language = res.language
		}
	}

	return merged, nil
}

// transcribes one chunk and shifts its cues by the chunk offset
func transcribeChunk(
	ctx context.Context,
	t Transcriber,
	chunk audio.ChunkInfo,
) chunkResult {
	res, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return chunkResult{index: chunk.Index, err: err}
	}

	shifted := make([]subtitle.Segment, len(res.Segments))
	for i, seg := range res.Segments {
		shifted[i] = subtitle.Segment{
			StartTime: seg.StartTime + chunk.StartTime,
			EndTime:   seg.EndTime + chunk.StartTime,
			Text:      seg.Text,
		}
	}

	return chunkResult{
		index:    chunk.Index,
		language: res.Language,
		segments: shifted,
	}
}

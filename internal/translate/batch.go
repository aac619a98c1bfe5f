package translate

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// one provider request translating a single batch
type batchFunc func(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error)

// splitBatches cuts items into request-sized slices
func splitBatches(items []TranslationItem, size int) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		batches = append(batches, items[i:min(i+size, len(items))])
	}
	return batches
}

// runBatches sends every batch through fn with up to concurrency workers and
// returns the combined results sorted by item index. The first batch failure
// cancels the remaining work.
func runBatches(
	ctx context.Context,
	batches [][]TranslationItem,
	concurrency int,
	fn batchFunc,
) ([]TranslationResult, error) {
	if len(batches) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = 3
	}
	if len(batches) == 1 {
		return fn(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		index   int
		results []TranslationResult
		err     error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-workChan:
					if !ok {
						return
					}
					results, err := fn(ctx, batches[idx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{
						index:   idx,
						results: results,
						err:     err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var allResults []TranslationResult
	var firstErr error
	for res := range resultChan {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("batch %d failed: %w", res.index, res.err)
		}
		if res.err == nil {
			allResults = append(allResults, res.results...)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

package translate

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
)

func TestSplitBatches(t *testing.T) {
	items := make([]TranslationItem, 5)
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: "t"}
	}

	tests := []struct {
		name      string
		items     []TranslationItem
		size      int
		wantSizes []int
	}{
		{"uneven split", items, 2, []int{2, 2, 1}},
		{"single batch", items, 50, []int{5}},
		{"exact split", items[:4], 2, []int{2, 2}},
		{"no items", nil, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := splitBatches(tt.items, tt.size)
			if len(batches) != len(tt.wantSizes) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.wantSizes))
			}
			for i, want := range tt.wantSizes {
				if len(batches[i]) != want {
					t.Errorf("batch %d size: got %d, want %d", i, len(batches[i]), want)
				}
			}
		})
	}
}

// echoes each item back with a marker, counting calls
func echoBatchFunc(calls *atomic.Int32) batchFunc {
	return func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
		calls.Add(1)
		results := make([]TranslationResult, len(items))
		for i, item := range items {
			results[i] = TranslationResult{Index: item.Index, Text: item.Text + "!"}
		}
		return results, nil
	}
}

func TestRunBatches(t *testing.T) {
	items := make([]TranslationItem, 7)
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: "t"}
	}

	var calls atomic.Int32
	results, err := runBatches(
		context.Background(),
		splitBatches(items, 2),
		3,
		echoBatchFunc(&calls),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls.Load() != 4 {
		t.Errorf("expected 4 batch calls, got %d", calls.Load())
	}
	if len(results) != 7 {
		t.Fatalf("expected 7 results, got %d", len(results))
	}

	// results come back sorted by item index regardless of batch completion order
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if r.Text != "t!" {
			t.Errorf("result %d text: got %q, want %q", i, r.Text, "t!")
		}
	}
}

func TestRunBatchesSingleBatch(t *testing.T) {
	items := []TranslationItem{{Index: 0, Text: "solo"}}

	var calls atomic.Int32
	results, err := runBatches(
		context.Background(),
		splitBatches(items, 50),
		3,
		echoBatchFunc(&calls),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 batch call, got %d", calls.Load())
	}
	if len(results) != 1 || results[0].Text != "solo!" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestRunBatchesEmpty(t *testing.T) {
	var calls atomic.Int32
	results, err := runBatches(context.Background(), nil, 3, echoBatchFunc(&calls))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if calls.Load() != 0 {
		t.Errorf("expected no batch calls, got %d", calls.Load())
	}
}

func TestRunBatchesFailure(t *testing.T) {
	items := make([]TranslationItem, 6)
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: "t"}
	}

	failing := func(ctx context.Context, batch []TranslationItem) ([]TranslationResult, error) {
		if batch[0].Index == 2 {
			return nil, errors.New("scripted failure")
		}
		results := make([]TranslationResult, len(batch))
		for i, item := range batch {
			results[i] = TranslationResult{Index: item.Index, Text: item.Text}
		}
		return results, nil
	}

	_, err := runBatches(context.Background(), splitBatches(items, 2), 1, failing)
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !strings.Contains(err.Error(), "batch 1 failed") {
		t.Errorf("error should name the failed batch: %v", err)
	}
}

package transcribe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sound2text/sound2text/internal/audio"
	"github.com/sound2text/sound2text/internal/subtitle"
)

// scripted Transcriber for pool tests
type fakeTranscriber struct {
	mu       sync.Mutex
	calls    int
	failPath string
}

func (f *fakeTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if audioPath == f.failPath {
		return nil, errors.New("scripted failure")
	}

	return &Result{
		Segments: []subtitle.Segment{
			{StartTime: 0, EndTime: time.Second, Text: audioPath},
		},
		Language: "en",
		Duration: time.Second,
	}, nil
}

func TestWithChunks(t *testing.T) {
	chunks := []audio.ChunkInfo{
		{Path: "a.mp3", Index: 0, StartTime: 0, EndTime: 10 * time.Minute},
		{Path: "b.mp3", Index: 1, StartTime: 10 * time.Minute, EndTime: 20 * time.Minute},
		{Path: "c.mp3", Index: 2, StartTime: 20 * time.Minute, EndTime: 25 * time.Minute},
	}

	fake := &fakeTranscriber{}
	result, err := WithChunks(context.Background(), fake, chunks, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(result.Segments))
	}

	// cues come back in chunk order regardless of completion order
	wantTexts := []string{"a.mp3", "b.mp3", "c.mp3"}
	for i, seg := range result.Segments {
		if seg.Text != wantTexts[i] {
			t.Errorf("segment %d text: got %q, want %q", i, seg.Text, wantTexts[i])
		}
	}

	// cue times are shifted by each chunk's offset
	if result.Segments[1].StartTime != 10*time.Minute {
		t.Errorf(
			"segment 1 start: got %v, want %v",
			result.Segments[1].StartTime,
			10*time.Minute,
		)
	}
	if result.Segments[2].EndTime != 20*time.Minute+time.Second {
		t.Errorf(
			"segment 2 end: got %v, want %v",
			result.Segments[2].EndTime,
			20*time.Minute+time.Second,
		)
	}

	if result.Duration != 25*time.Minute {
		t.Errorf("duration: got %v, want %v", result.Duration, 25*time.Minute)
	}
	if result.Language != "en" {
		t.Errorf("language: got %q, want %q", result.Language, "en")
	}
}

func TestWithChunksFailure(t *testing.T) {
	chunks := []audio.ChunkInfo{
		{Path: "a.mp3", Index: 0, StartTime: 0, EndTime: 10 * time.Minute},
		{Path: "b.mp3", Index: 1, StartTime: 10 * time.Minute, EndTime: 20 * time.Minute},
	}

	fake := &fakeTranscriber{failPath: "b.mp3"}
	_, err := WithChunks(context.Background(), fake, chunks, 1)
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !strings.Contains(err.Error(), "chunk 1") {
		t.Errorf("error should name the failed chunk: %v", err)
	}
}

func TestWithChunksEmpty(t *testing.T) {
	fake := &fakeTranscriber{}
	result, err := WithChunks(context.Background(), fake, nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Segments) != 0 {
		t.Errorf("expected no segments, got %d", len(result.Segments))
	}
	if fake.calls != 0 {
		t.Errorf("expected no transcriber calls, got %d", fake.calls)
	}
}

func TestWithChunksDefaultConcurrency(t *testing.T) {
	chunks := []audio.ChunkInfo{
		{Path: "a.mp3", Index: 0, StartTime: 0, EndTime: time.Minute},
	}

	fake := &fakeTranscriber{}
	result, err := WithChunks(context.Background(), fake, chunks, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(result.Segments))
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 transcriber call, got %d", fake.calls)
	}
}

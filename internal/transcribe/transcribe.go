package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/sound2text/sound2text/internal/audio"
	"github.com/sound2text/sound2text/internal/subtitle"
)

// the timed cues of one transcription run
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// Transcriber turns an audio file into timed text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcribers able to process pre-split chunks in parallel
type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*Result, error)
}

// hosted transcription backend
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"

	// historical name for the OpenAI backend
	ProviderWhisper Provider = "whisper"
)

type Options struct {
	Language           string // source language of the audio
	TranscriptLanguage string // output language for the transcript (default: "native")
	Model              string
	Prompt             string
	WordsPerEntry      int // words per cue; 0 keeps the provider's segments
}

// Factory builds the provider's Transcriber. The empty provider means
// OpenAI, and "whisper" is accepted as its older name.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI, ProviderWhisper, "":
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

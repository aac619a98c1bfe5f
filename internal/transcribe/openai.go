package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sound2text/sound2text/internal/audio"
	"github.com/sound2text/sound2text/internal/subtitle"
)

const defaultWhisperModel = "whisper-1"

// Whisper-backed Transcriber
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// word timing from a verbose_json response
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment from a verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Words    []whisperWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	t := &OpenAITranscriber{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   defaultWhisperModel,
		options: opts,
	}
	if opts.Model != "" {
		t.model = opts.Model
	}
	return t, nil
}

// transcribes a single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	duration, _ := audio.GetDuration(audioPath)

	if t.shouldUseTranslation() {
		return t.transcribeToEnglish(ctx, file, duration)
	}

	return t.transcribeNative(ctx, file, duration)
}

// the translations endpoint already outputs English
func (t *OpenAITranscriber) shouldUseTranslation() bool {
	lang := strings.ToLower(strings.TrimSpace(t.options.TranscriptLanguage))
	return lang == "english" || lang == "en"
}

func (t *OpenAITranscriber) transcribeToEnglish(
	ctx context.Context,
	file *os.File,
	duration time.Duration,
) (*Result, error) {
	params := openai.AudioTranslationNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	return &Result{
		Segments: t.cueSegments(resp.RawJSON(), resp.Text, duration),
		Language: "en",
		Duration: duration,
	}, nil
}

func (t *OpenAITranscriber) transcribeNative(
	ctx context.Context,
	file *os.File,
	duration time.Duration,
) (*Result, error) {
	granularities := []string{"segment"}
	if t.options.WordsPerEntry > 0 {
		granularities = append(granularities, "word")
	}

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: granularities,
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return &Result{
		Segments: t.cueSegments(resp.RawJSON(), resp.Text, duration),
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

// cueSegments turns the raw verbose_json payload into subtitle cues. Word
// timings produce word-group cues when requested; anything unusable degrades
// to coarser cues instead of failing the transcription.
func (t *OpenAITranscriber) cueSegments(
	rawJSON string,
	plainText string,
	fallbackDuration time.Duration,
) []subtitle.Segment {
	verbose, err := parseVerboseResponse(rawJSON)
	if err != nil {
		text := strings.TrimSpace(plainText)
		if text == "" {
			return nil
		}
		return []subtitle.Segment{{
			StartTime: 0,
			EndTime:   fallbackDuration,
			Text:      text,
		}}
	}

	if t.options.WordsPerEntry > 0 && len(verbose.Words) > 0 {
		if cues := alignPunctuatedCues(
			verbose.Segments,
			verbose.Words,
			t.options.WordsPerEntry,
		); len(cues) > 0 {
			return cues
		}
	}

	return verbose.segmentCues(fallbackDuration)
}

func parseVerboseResponse(rawJSON string) (*whisperVerboseResponse, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verbose whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verbose); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	return &verbose, nil
}

// segmentCues converts the segment list to cues, with a single cue spanning
// the whole clip when the response carried no segments
func (r *whisperVerboseResponse) segmentCues(
	fallbackDuration time.Duration,
) []subtitle.Segment {
	if len(r.Segments) == 0 {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			return nil
		}
		dur := fallbackDuration
		if r.Duration > 0 {
			dur = time.Duration(r.Duration * float64(time.Second))
		}
		return []subtitle.Segment{{StartTime: 0, EndTime: dur, Text: text}}
	}

	segments := make([]subtitle.Segment, 0, len(r.Segments))
	for _, seg := range r.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			StartTime: time.Duration(seg.Start * float64(time.Second)),
			EndTime:   time.Duration(seg.End * float64(time.Second)),
			Text:      text,
		})
	}

	return segments
}

// transcribes multiple chunks in parallel
func (t *OpenAITranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	return WithChunks(ctx, t, chunks, concurrency)
}

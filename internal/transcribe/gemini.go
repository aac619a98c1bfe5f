package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sound2text/sound2text/internal/audio"
	"github.com/sound2text/sound2text/internal/subtitle"
	"google.golang.org/genai"
)

const defaultGeminiTranscriptionModel = "gemini-2.5-flash"

// Gemini-backed Transcriber
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// segment in Gemini's JSON reply
type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func NewGeminiTranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	t := &GeminiTranscriber{
		client:  client,
		model:   defaultGeminiTranscriptionModel,
		options: opts,
	}
	if opts.Model != "" {
		t.model = opts.Model
	}
	return t, nil
}

// transcribes a single audio file
func (t *GeminiTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploaded, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploaded.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.transcriptionPrompt()),
		genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	reply, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := segmentsFromReply(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	duration, _ := audio.GetDuration(audioPath)

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

// transcribes multiple chunks in parallel
func (t *GeminiTranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	return WithChunks(ctx, t, chunks, concurrency)
}

func (t *GeminiTranscriber) transcriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are timestamps in seconds (as numbers). ")

	if t.options.Language != "" {
		fmt.Fprintf(&sb, "The audio is in %s. ", t.options.Language)
	}

	if t.options.TranscriptLanguage != "" && t.options.TranscriptLanguage != "native" {
		fmt.Fprintf(&sb, "Write the transcript in %s. ", t.options.TranscriptLanguage)
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// pulls the segment array out of a model reply
func segmentsFromReply(reply *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
	if reply == nil || len(reply.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, candidate := range reply.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	cleaned := cleanJSONResponse(text)
	parsed, err := extractTranscriptSegments(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, truncateString(cleaned, 200))
	}

	segments := make([]subtitle.Segment, 0, len(parsed))
	for _, ts := range parsed {
		segments = append(segments, subtitle.Segment{
			StartTime: time.Duration(ts.Start * float64(time.Second)),
			EndTime:   time.Duration(ts.End * float64(time.Second)),
			Text:      strings.TrimSpace(ts.Text),
		})
	}

	return segments, nil
}

// extractTranscriptSegments digs the segment array out of a reply that may
// bury it in prose or wrap it in an object. Candidates are tried left to
// right; the first array that decodes and validates wins.
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&raw); err != nil {
			continue
		}
		if segments, ok := segmentsFromValue(raw); ok {
			return segments, nil
		}
	}
	return nil, fmt.Errorf("no transcript segment array in response")
}

// tries a raw JSON value as a segment array, descending into wrapper objects
func segmentsFromValue(raw json.RawMessage) ([]transcriptSegment, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	switch raw[0] {
	case '[':
		var segments []transcriptSegment
		if err := json.Unmarshal(raw, &segments); err == nil && validateSegments(segments) {
			return segments, true
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err == nil {
			for _, value := range obj {
				if segments, ok := segmentsFromValue(value); ok {
					return segments, true
				}
			}
		}
	}

	return nil, false
}

// reports whether at least one segment carries usable data
func validateSegments(segments []transcriptSegment) bool {
	for _, seg := range segments {
		if seg.Text != "" || seg.Start != 0 || seg.End != 0 {
			return true
		}
	}
	return false
}

var fenceRegex = regexp.MustCompile("```(?:json)?\\s*")

// strips markdown code fences from a model reply
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = fenceRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// truncates a string for error messages
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

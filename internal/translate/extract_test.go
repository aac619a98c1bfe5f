package translate

import (
	"strings"
	"testing"
)

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"index": 0, "text": "こんにちは"},
				{"index": 1, "text": "さようなら"}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here is the translation:
			[
				{"index": 0, "text": "Bonjour"},
				{"index": 1, "text": "Au revoir"}
			]`,
			wantCount: 2,
		},
		{
			name: "valid array with trailing text",
			input: `[
				{"index": 0, "text": "Hola"}
			]
			I hope this helps!`,
			wantCount: 1,
		},
		{
			name: "wrapper object with results key",
			input: `{"results": [
				{"index": 0, "text": "Translated"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with translations key",
			input: `{"translations": [
				{"index": 0, "text": "Übersetzt"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with data key",
			input: `{"data": [
				{"index": 0, "text": "Переведено"}
			]}`,
			wantCount: 1,
		},
		{
			name: "wrapper object with unknown key",
			input: `{"output": [
				{"index": 0, "text": "Oversatt"}
			]}`,
			wantCount: 1,
		},
		{
			name: "nested wrapper object",
			input: `{"response": {"items": [
				{"index": 0, "text": "Nested"}
			]}}`,
			wantCount: 1,
		},
		{
			name: "complex preamble",
			input: `I translated the subtitles for you. Here is the JSON:

			[
				{"index": 0, "text": "First translation"},
				{"index": 1, "text": "Second translation"}
			]

			Let me know if you need anything else!`,
			wantCount: 2,
		},
		{
			name: "subtitle newline escape in text",
			input: `[
				{"index": 0, "text": "That's why they are fuming...\Nthese Babu and Pappu."}
			]`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"index": 0, "text": "incomplete"`,
			wantErr: true,
		},
		{
			name:    "array with empty text",
			input:   `[{"index": 0, "text": ""}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractTranslationResults(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestExtractTranslationResultsPreservesEscapes(t *testing.T) {
	input := `[{"index": 0, "text": "line one\Nline two"}]`

	results, err := extractTranslationResults(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if want := `line one\Nline two`; results[0].Text != want {
		t.Errorf("text: got %q, want %q", results[0].Text, want)
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", `plain text`, `plain text`},
		{"subtitle newline", `a\Nb`, `a\\Nb`},
		{"valid newline kept", `a\nb`, `a\nb`},
		{"valid quote kept", `a\"b`, `a\"b`},
		{"escaped backslash kept", `a\\b`, `a\\b`},
		{"already escaped newline kept", `a\\Nb`, `a\\Nb`},
		{"unicode escape kept", `aéb`, `aéb`},
		{"trailing backslash kept", `abc\`, `abc\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fixInvalidEscapes(tt.input); got != tt.want {
				t.Errorf("fixInvalidEscapes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"index": 0, "text": "hello"}]`,
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "plain code fence",
			input: "```\n[{\"index\": 0, \"text\": \"hello\"}]\n```",
			want:  `[{"index": 0, "text": "hello"}]`,
		},
		{
			name:  "leading and trailing whitespace",
			input: "  \n\n```json\n[{\"index\": 0}]\n```\n\n  ",
			want:  `[{"index": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateResults(t *testing.T) {
	tests := []struct {
		name    string
		results []TranslationResult
		want    bool
	}{
		{"empty slice", []TranslationResult{}, false},
		{"nil slice", nil, false},
		{"result with text", []TranslationResult{{Index: 0, Text: "hello"}}, true},
		{"result with empty text", []TranslationResult{{Index: 0, Text: ""}}, false},
		{
			"multiple results one valid",
			[]TranslationResult{
				{Index: 0, Text: ""},
				{Index: 1, Text: "valid"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateResults(tt.results); got != tt.want {
				t.Errorf("validateResults() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeResults(t *testing.T) {
	t.Run("fenced reply", func(t *testing.T) {
		text := "```json\n[{\"index\": 0, \"text\": \"hola\"}]\n```"
		results, err := decodeResults(text, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Text != "hola" {
			t.Errorf("text: got %q, want %q", results[0].Text, "hola")
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		text := `[{"index": 0, "text": "hola"}]`
		_, err := decodeResults(text, 2)
		if err == nil {
			t.Fatal("expected error but got none")
		}
		if !strings.Contains(err.Error(), "expected 2 results, got 1") {
			t.Errorf("error should report the count mismatch: %v", err)
		}
	})

	t.Run("unparseable reply", func(t *testing.T) {
		if _, err := decodeResults("sorry, I cannot do that", 1); err == nil {
			t.Fatal("expected error but got none")
		}
	})
}

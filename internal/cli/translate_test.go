package cli

import "testing"

func TestTranslatedOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lang  string
		want  string
	}{
		{"simple", "movie.srt", "japanese", "movie_japanese.srt"},
		{"language code", "movie.srt", "ja", "movie_ja.srt"},
		{"nested path", "subs/ep01.srt", "spanish", "subs/ep01_spanish.srt"},
		{"dotted name", "my.show.e01.srt", "french", "my.show.e01_french.srt"},
		{"no extension", "subtitles", "german", "subtitles_german"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translatedOutputPath(tt.input, tt.lang); got != tt.want {
				t.Errorf(
					"translatedOutputPath(%q, %q) = %q, want %q",
					tt.input,
					tt.lang,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestIsValidGeminiModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gemini-2.5-flash", true},
		{"gemini-2.5-pro", true},
		{"gemini-2.5-flash-lite", true},
		{"gemini-3-pro-preview", true},
		{"gemini-3-flash-preview", true},
		{"gemini-1.0-pro", false},
		{"gpt-5", false},
		{"", false},
		{"GEMINI-2.5-FLASH", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := isValidGeminiModel(tt.model); got != tt.want {
				t.Errorf(
					"isValidGeminiModel(%q) = %v, want %v",
					tt.model,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestIsValidOpenAIModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-5", true},
		{"gpt-5-mini", true},
		{"gpt-5-nano", true},
		{"gpt-5.2-pro", true},
		{"o1", true},
		{"o3-mini", true},
		{"gpt-4", false},
		{"gemini-2.5-flash", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := isValidOpenAIModel(tt.model); got != tt.want {
				t.Errorf(
					"isValidOpenAIModel(%q) = %v, want %v",
					tt.model,
					got,
					tt.want,
				)
			}
		})
	}
}

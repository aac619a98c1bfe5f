package cli

import "testing"

func TestAdjustedOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "movie.srt", "movie_adjusted.srt"},
		{"nested path", "subs/season1/ep01.srt", "subs/season1/ep01_adjusted.srt"},
		{"dotted name", "my.show.e01.srt", "my.show.e01_adjusted.srt"},
		{"uppercase extension", "movie.SRT", "movie_adjusted.SRT"},
		{"foreign extension", "movie.txt", "movie_adjusted.txt"},
		{"no extension", "subtitles", "subtitles_adjusted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adjustedOutputPath(tt.input); got != tt.want {
				t.Errorf(
					"adjustedOutputPath(%q) = %q, want %q",
					tt.input,
					got,
					tt.want,
				)
			}
		})
	}
}

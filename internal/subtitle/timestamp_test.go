package subtitle

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{
			name:  "midnight",
			input: "00:00:00,000",
			want:  0,
		},
		{
			name:  "one second",
			input: "00:00:01,000",
			want:  time.Second,
		},
		{
			name:  "full clock value",
			input: "01:02:03,456",
			want: time.Hour +
				2*time.Minute +
				3*time.Second +
				456*time.Millisecond,
		},
		{
			name:  "last representable instant",
			input: "23:59:59,999",
			want: 23*time.Hour +
				59*time.Minute +
				59*time.Second +
				999*time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestampRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing milliseconds", input: "00:00:01"},
		{name: "period separator", input: "00:00:01.000"},
		{name: "one digit hour", input: "0:00:01,000"},
		{name: "two digit milliseconds", input: "00:00:01,50"},
		{name: "four digit milliseconds", input: "00:00:01,5000"},
		{name: "letters", input: "00:00:0a,000"},
		{name: "hour past clock range", input: "24:00:00,000"},
		{name: "minute past clock range", input: "00:60:00,000"},
		{name: "second past clock range", input: "00:00:60,000"},
		{name: "trailing garbage", input: "00:00:01,000 "},
		{name: "negative hour", input: "-1:00:01,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.input)
			if err == nil {
				t.Fatalf("ParseTimestamp(%q) succeeded, want error", tt.input)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("ParseTimestamp(%q) error = %T, want *FormatError", tt.input, err)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{
			name:  "zero",
			input: 0,
			want:  "00:00:00,000",
		},
		{
			name:  "milliseconds only",
			input: 7 * time.Millisecond,
			want:  "00:00:00,007",
		},
		{
			name:  "full clock value",
			input: time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond,
			want:  "01:02:03,456",
		},
		{
			name:  "sub-millisecond truncates",
			input: time.Second + 500*time.Microsecond,
			want:  "00:00:01,000",
		},
		{
			name:  "negative clamps to zero",
			input: -time.Second,
			want:  "00:00:00,000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	inputs := []string{
		"00:00:00,000",
		"00:00:00,001",
		"00:00:59,999",
		"00:59:00,500",
		"12:34:56,789",
		"23:59:59,999",
	}

	for _, input := range inputs {
		d, err := ParseTimestamp(input)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", input, err)
		}
		if got := FormatTimestamp(d); got != input {
			t.Errorf("FormatTimestamp(ParseTimestamp(%q)) = %q", input, got)
		}
	}
}

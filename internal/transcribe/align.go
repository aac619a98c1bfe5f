package transcribe

import (
	"strings"
	"time"

	"github.com/sound2text/sound2text/internal/subtitle"
)

// alignPunctuatedCues rebuilds timed cues from Whisper's two parallel lists:
// word entries carry precise timing but stripped punctuation, segment text
// carries punctuation but coarse timing. Each cue takes its timing from a
// group of size words and its text from the matching slice of segment text.
func alignPunctuatedCues(
	segments []whisperSegment,
	words []whisperWord,
	size int,
) []subtitle.Segment {
	if len(segments) == 0 || len(words) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}

	var cues []subtitle.Segment

	// shared index so the master word list is walked exactly once
	wordIndex := 0

	for _, seg := range segments {
		segText := strings.TrimSpace(seg.Text)

		var segWords []whisperWord
		for wordIndex < len(words) && words[wordIndex].Start <= seg.End {
			if words[wordIndex].Start >= seg.Start {
				segWords = append(segWords, words[wordIndex])
			}
			wordIndex++
		}
		if len(segWords) == 0 {
			continue
		}

		cursor := 0
		for i := 0; i < len(segWords); i += size {
			group := segWords[i:min(i+size, len(segWords))]

			// the group's text runs up to where the next group's first
			// word appears; the last group takes the rest
			end := len(segText)
			if i+size < len(segWords) {
				next := segWords[i+size].Word
				if idx := strings.Index(segText[cursor:], next); idx >= 0 {
					end = cursor + idx
				}
			}

			text := strings.TrimSpace(segText[cursor:end])
			cursor = end

			if text == "" {
				continue
			}
			cues = append(cues, subtitle.Segment{
				StartTime: time.Duration(group[0].Start * float64(time.Second)),
				EndTime:   time.Duration(group[len(group)-1].End * float64(time.Second)),
				Text:      text,
			})
		}
	}

	return cues
}

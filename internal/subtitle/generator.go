package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultGenerator implements the Generator interface. It numbers
// entries from 1 in segment order, wraps long text onto two lines and
// splits segments that carry too much text or run too long.
type DefaultGenerator struct {
	MaxCharsPerLine  int
	MaxLinesPerEntry int
	MaxDuration      time.Duration
}

func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{
		MaxCharsPerLine:  42, // standard subtitle line length
		MaxLinesPerEntry: 2,  // most players support 2 lines
		MaxDuration:      7 * time.Second,
	}
}

// converts transcription segments to display entries
func (g *DefaultGenerator) Generate(segments []Segment) ([]Entry, error) {
	var entries []Entry

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if g.needsSplit(text, seg.EndTime-seg.StartTime) {
			entries = append(entries, g.splitSegment(seg, len(entries)+1)...)
			continue
		}

		entries = append(entries, Entry{
			Number: len(entries) + 1,
			Start:  seg.StartTime,
			End:    seg.EndTime,
			Text:   g.wrapText(text),
		})
	}

	return entries, nil
}

func (g *DefaultGenerator) maxRunes() int {
	return g.MaxCharsPerLine * g.MaxLinesPerEntry
}

func (g *DefaultGenerator) needsSplit(
	text string,
	duration time.Duration,
) bool {
	if utf8.RuneCountInString(text) > g.maxRunes() {
		return true
	}
	return duration > g.MaxDuration
}

// splits an oversized segment into several entries, dividing its words
// and its time span evenly
func (g *DefaultGenerator) splitSegment(seg Segment, firstNumber int) []Entry {
	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil
	}

	totalDuration := seg.EndTime - seg.StartTime
	totalRunes := utf8.RuneCountInString(strings.TrimSpace(seg.Text))

	numSplits := (totalRunes + g.maxRunes() - 1) / g.maxRunes()
	if numSplits < 1 {
		numSplits = 1
	}
	if durationSplits := int(totalDuration/g.MaxDuration) + 1; durationSplits > numSplits {
		numSplits = durationSplits
	}

	wordsPerSplit := (len(words) + numSplits - 1) / numSplits
	durationPerSplit := totalDuration / time.Duration(numSplits)

	var entries []Entry
	start := seg.StartTime

	for i := 0; i < numSplits && len(words) > 0; i++ {
		take := min(wordsPerSplit, len(words))
		part := words[:take]
		words = words[take:]

		end := start + durationPerSplit
		if len(words) == 0 {
			// the last split ends where the segment ended
			end = seg.EndTime
		}

		entries = append(entries, Entry{
			Number: firstNumber + i,
			Start:  start,
			End:    end,
			Text:   g.wrapText(strings.Join(part, " ")),
		})

		start = end
	}

	return entries
}

// wrapText breaks long text onto two lines at the word boundary
// closest to the middle
func (g *DefaultGenerator) wrapText(text string) string {
	text = strings.TrimSpace(text)
	runeCount := utf8.RuneCountInString(text)

	if runeCount <= g.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		if diff := abs(currentLen - middle); diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit > 0 && bestSplit < len(words) {
		return strings.Join(words[:bestSplit], " ") +
			"\n" +
			strings.Join(words[bestSplit:], " ")
	}

	return text
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timing line: two clock values joined by an arrow. The loose charset
// decides only that the line is SHAPED like a timing line; the strict
// codec validates the values afterwards.
var timingRegex = regexp.MustCompile(`^([0-9:,]+)\s*-->\s*([0-9:,]+)$`)

// Parse splits SubRip content into entries. Records are separated by a
// blank line. Two record shapes are accepted, tried in order: the
// numbered form (sequence line, timing line, text) and the unnumbered
// form (timing line, text), whose sequence number is synthesized from
// the record's position in the input. A record that fits neither
// shape, carries a malformed timestamp, or does not start before it
// ends is skipped, and the skip is reported as a Diagnostic. Surviving
// entries keep their input order and sequence numbers untouched.
func Parse(content string) ([]Entry, []Diagnostic) {
	records := strings.Split(strings.TrimSpace(content), "\n\n")

	var entries []Entry
	var diags []Diagnostic

	for i, record := range records {
		entry, err := parseRecord(record, i+1)
		if err != nil {
			diags = append(diags, Diagnostic{Record: i + 1, Message: err.Error()})
			continue
		}

		if entry.Start >= entry.End {
			diags = append(diags, Diagnostic{
				Record: i + 1,
				Message: fmt.Sprintf(
					"start %s is not before end %s",
					FormatTimestamp(entry.Start),
					FormatTimestamp(entry.End),
				),
			})
			continue
		}

		entries = append(entries, entry)
	}

	return entries, diags
}

// parseRecord tries the two accepted shapes in order. The first shape
// that matches structurally decides the outcome: a timestamp failing
// inside a matched shape skips the record instead of retrying the
// other shape.
func parseRecord(record string, position int) (Entry, error) {
	lines := strings.Split(record, "\n")

	if len(lines) >= 3 && isSequenceLine(lines[0]) && isTimingLine(lines[1]) {
		number, err := strconv.Atoi(lines[0])
		if err != nil {
			return Entry{}, fmt.Errorf("sequence number %q out of range", lines[0])
		}
		start, end, err := parseTimingLine(lines[1])
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			Number: number,
			Start:  start,
			End:    end,
			Text:   joinTextLines(lines[2:]),
		}, nil
	}

	if len(lines) >= 2 && isTimingLine(lines[0]) {
		start, end, err := parseTimingLine(lines[0])
		if err != nil {
			return Entry{}, err
		}
		return Entry{
			Number: position,
			Start:  start,
			End:    end,
			Text:   joinTextLines(lines[1:]),
		}, nil
	}

	return Entry{}, errors.New("record matches no known entry shape")
}

func isSequenceLine(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isTimingLine(line string) bool {
	return timingRegex.MatchString(line)
}

func parseTimingLine(line string) (time.Duration, time.Duration, error) {
	matches := timingRegex.FindStringSubmatch(line)
	if matches == nil {
		return 0, 0, fmt.Errorf("malformed timing line %q", line)
	}

	start, err := ParseTimestamp(matches[1])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(matches[2])
	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

func joinTextLines(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Overlaps reports every consecutive pair whose display windows
// overlap. Overlaps are surfaced for the caller to log, never
// corrected. Positions refer to the parsed entry list.
func Overlaps(entries []Entry) []Diagnostic {
	var diags []Diagnostic
	for i := 0; i+1 < len(entries); i++ {
		if entries[i].End > entries[i+1].Start {
			diags = append(diags, Diagnostic{
				Record: i + 1,
				Message: fmt.Sprintf(
					"overlapping timestamps between entries %d and %d",
					i+1,
					i+2,
				),
			})
		}
	}
	return diags
}

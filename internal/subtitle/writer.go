package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer renders entries in SubRip text form. Sequence numbers are
// written exactly as carried by the entries, in input order; nothing
// is renumbered or re-sorted. OmitNumbers drops the sequence line,
// the bare variant the parser also accepts.
type Writer struct {
	OmitNumbers bool
}

// Render produces the file content: one record per entry, each
// terminated by a blank line, the last one included.
func (w Writer) Render(entries []Entry) string {
	var sb strings.Builder
	for _, entry := range entries {
		if !w.OmitNumbers {
			sb.WriteString(fmt.Sprintf("%d\n", entry.Number))
		}

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(entry.Start),
			FormatTimestamp(entry.End)))

		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// WriteFile renders the entries to path, creating parent directories
// as needed.
func (w Writer) WriteFile(path string, entries []Entry) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(w.Render(entries)), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// Load reads a subtitle file and parses it. A UTF-8 BOM is stripped
// and CRLF line endings are normalized before parsing. Empty or
// whitespace-only files return ErrEmptyFile.
func Load(path string) ([]Entry, []Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	content := strings.TrimPrefix(string(data), "﻿")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	entries, diags := Parse(content)
	return entries, diags, nil
}

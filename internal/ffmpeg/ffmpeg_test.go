package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFFmpegPathHonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}

	t.Setenv(ffmpegPathEnv, fake)

	got, err := FFmpegPath()
	if err != nil {
		t.Fatalf("FFmpegPath returned error: %v", err)
	}
	if got != fake {
		t.Errorf("FFmpegPath = %q, want %q", got, fake)
	}
}

func TestFFmpegPathRejectsMissingOverride(t *testing.T) {
	t.Setenv(ffmpegPathEnv, filepath.Join(t.TempDir(), "missing"))

	if _, err := FFmpegPath(); err == nil {
		t.Error("expected error for missing override path")
	}
}

func TestFFprobePathHonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}

	t.Setenv(ffprobePathEnv, fake)

	got, err := FFprobePath()
	if err != nil {
		t.Fatalf("FFprobePath returned error: %v", err)
	}
	if got != fake {
		t.Errorf("FFprobePath = %q, want %q", got, fake)
	}
}

package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// env overrides take precedence over PATH lookup
const (
	ffmpegPathEnv  = "SOUND2TEXT_FFMPEG_PATH"
	ffprobePathEnv = "SOUND2TEXT_FFPROBE_PATH"
)

// FFmpegPath resolves the ffmpeg binary to invoke.
func FFmpegPath() (string, error) {
	return resolve("ffmpeg", ffmpegPathEnv)
}

// FFprobePath resolves the ffprobe binary to invoke.
func FFprobePath() (string, error) {
	return resolve("ffprobe", ffprobePathEnv)
}

func resolve(name, envVar string) (string, error) {
	if override := os.Getenv(envVar); override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("%s points at %q: %w", envVar, override, err)
		}
		return override, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH (install it or set %s)", name, envVar)
	}

	return path, nil
}

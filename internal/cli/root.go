package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sound2text/sound2text/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sound2text",
	Short: "AI-powered subtitle toolkit for audio and video",
	Long: `Sound2text turns speech into SubRip subtitles and keeps them readable.

It transcribes audio and video files using AI providers, repairs entries
that stay on screen too briefly, and translates existing subtitle files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// best-effort: load .env if present
		_ = godotenv.Load()
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code of the audio (e.g., en, es, fr)")
}

// resolveAPIKey prefers the flag value and falls back to envVar.
func resolveAPIKey(flagValue, envVar string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if value := os.Getenv(envVar); value != "" {
		return value, nil
	}
	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}

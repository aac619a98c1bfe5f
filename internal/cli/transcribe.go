package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sound2text/sound2text/internal/audio"
	"github.com/sound2text/sound2text/internal/subtitle"
	"github.com/sound2text/sound2text/internal/transcribe"
	"github.com/sound2text/sound2text/internal/video"
	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Transcribe an audio or video file into SRT subtitles",
	Long: `Transcribe the specified audio or video file using AI and write the
result as an SRT subtitle file.

The command accepts both audio files (mp3, wav, m4a, etc.) and video
files (mp4, mkv, etc.). For video files, audio is automatically
extracted before transcription.

By default each spoken word becomes its own subtitle entry with the
punctuation it carries in the transcript, timed to the word itself.
Use --words-per-entry to group several words per entry, or 0 to keep
the provider's own sentence segments. Long recordings can be split
into chunks and transcribed in parallel with --chunk-minutes.

Examples:
  sound2text transcribe video.mp4
  sound2text transcribe audio.mp3 --words-per-entry 3
  sound2text transcribe podcast.mp3 --provider gemini --chunk-minutes 1
  sound2text transcribe lecture.m4a --fix-durations -o lecture.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		StringP("provider", "p", "openai", "Transcription provider (openai, gemini)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	transcribeCmd.Flags().
		String("model", "", "Model to use for transcription (provider-specific default)")
	transcribeCmd.Flags().
		String("prompt", "", "Optional prompt to guide transcription style")
	transcribeCmd.Flags().
		String("transcript-language", "native", "Output language for the transcript (e.g., 'english', or 'native' for the spoken language)")
	transcribeCmd.Flags().
		IntP("words-per-entry", "w", 1, "Words per subtitle entry (0 keeps the provider's segments)")
	transcribeCmd.Flags().
		Bool("omit-numbers", false, "Write entries without sequence numbers")
	transcribeCmd.Flags().
		Bool("fix-durations", false, "Repair entries shorter than the minimum display duration")
	transcribeCmd.Flags().
		IntP("chunk-minutes", "d", 0, "Split audio into chunks of this many minutes (0 transcribes in one request)")
	transcribeCmd.Flags().
		Int("concurrency", 3, "Number of parallel transcription workers for chunked audio")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	transcriptLang, _ := cmd.Flags().GetString("transcript-language")
	wordsPerEntry, _ := cmd.Flags().GetInt("words-per-entry")
	omitNumbers, _ := cmd.Flags().GetBool("omit-numbers")
	fixDurations, _ := cmd.Flags().GetBool("fix-durations")
	chunkMinutes, _ := cmd.Flags().GetInt("chunk-minutes")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	provider := transcribe.Provider(providerStr)

	var keyEnv string
	switch provider {
	case transcribe.ProviderOpenAI, transcribe.ProviderWhisper, "":
		keyEnv = "OPENAI_API_KEY"
	case transcribe.ProviderGemini:
		keyEnv = "GEMINI_API_KEY"
	default:
		return fmt.Errorf(
			"unsupported provider %q: use openai or gemini",
			providerStr,
		)
	}

	apiKey, err := resolveAPIKey(apiKeyFlag, keyEnv)
	if err != nil {
		return err
	}

	if provider != transcribe.ProviderGemini &&
		!isValidOpenAITranscriptLanguage(transcriptLang) {
		return fmt.Errorf(
			"unsupported transcript language %q for the OpenAI provider: use 'native' or 'english' (the Gemini provider supports other languages)",
			transcriptLang,
		)
	}

	if wordsPerEntry < 0 {
		return fmt.Errorf(
			"words-per-entry cannot be negative, got %d",
			wordsPerEntry,
		)
	}
	if chunkMinutes < 0 {
		return fmt.Errorf(
			"chunk-minutes cannot be negative, got %d",
			chunkMinutes,
		)
	}
	if chunkMinutes > 0 && concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}

	if outputPath == "" {
		outputPath = subtitleOutputPath(mediaPath)
	}

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", outputPath,
		"provider", providerStr,
		"words_per_entry", wordsPerEntry,
	)

	tempDir, err := os.MkdirTemp("", "sound2text-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, "audio.mp3")
	compressionOpts := audio.DefaultCompressionOptions()

	if audio.IsVideoFile(mediaPath) {
		processor := video.NewProcessor()

		info, err := processor.Probe(ctx, mediaPath)
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}
		if !info.HasAudio {
			return fmt.Errorf("video has no audio stream: %s", mediaPath)
		}

		logger.Infow("Extracting audio from video",
			"codec", info.Codec,
			"duration", info.Duration.String(),
		)

		extractOpts := video.ExtractAudioOptions{
			Format:     compressionOpts.Format,
			SampleRate: compressionOpts.SampleRate,
			Channels:   compressionOpts.Channels,
			Bitrate:    compressionOpts.Bitrate,
		}
		if err := processor.ExtractAudio(ctx, mediaPath, audioPath, extractOpts); err != nil {
			return fmt.Errorf("failed to extract audio: %w", err)
		}
	} else {
		logger.Infow("Compressing audio for transcription")

		if err := audio.Compress(ctx, mediaPath, audioPath, compressionOpts); err != nil {
			return fmt.Errorf("failed to compress audio: %w", err)
		}
	}

	duration, err := audio.GetDuration(audioPath)
	if err != nil {
		return fmt.Errorf("failed to get audio duration: %w", err)
	}

	logger.Infow("Audio prepared",
		"duration", duration.String(),
	)

	transcribeOpts := transcribe.Options{
		Language:           language,
		TranscriptLanguage: transcriptLang,
		Model:              model,
		Prompt:             prompt,
		WordsPerEntry:      wordsPerEntry,
	}

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribeOpts)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	var result *transcribe.Result
	if chunkMinutes > 0 {
		chunkDir := filepath.Join(tempDir, "chunks")
		chunkDur := time.Duration(chunkMinutes) * time.Minute

		logger.Infow("Splitting audio into chunks",
			"chunk_duration", chunkDur.String(),
		)

		chunks, err := audio.ChunkAudio(ctx, audioPath, chunkDur, chunkDir, concurrency)
		if err != nil {
			return fmt.Errorf("failed to split audio: %w", err)
		}

		logger.Infow("Created audio chunks",
			"count", len(chunks),
		)
		logger.Infow("Transcribing audio",
			"concurrency", concurrency,
		)

		if concurrent, ok := transcriber.(transcribe.ConcurrentTranscriber); ok {
			result, err = concurrent.TranscribeWithChunks(ctx, chunks, concurrency)
		} else {
			result, err = transcribe.WithChunks(ctx, transcriber, chunks, concurrency)
		}
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}

		if err := audio.CleanupChunks(chunks); err != nil {
			logger.Warnw("Failed to remove chunk files",
				"error", err,
			)
		}
	} else {
		logger.Infow("Transcribing audio")

		result, err = transcriber.Transcribe(ctx, audioPath)
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
	)

	generator := subtitle.NewDefaultGenerator()
	entries, err := generator.Generate(result.Segments)
	if err != nil {
		return fmt.Errorf("failed to generate subtitles: %w", err)
	}

	if len(entries) == 0 {
		logger.Warnw("No speech detected in the audio")
		fmt.Println("No speech detected; nothing to write.")
		return nil
	}

	if fixDurations {
		mods := subtitle.AdjustShortDurations(entries, subtitle.DefaultAdjustOptions())
		logger.Infow("Repaired short entries",
			"modifications", len(mods),
		)
	}

	writer := subtitle.Writer{OmitNumbers: omitNumbers}
	if err := writer.WriteFile(outputPath, entries); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Duration: %s\n", duration.String())

	return nil
}

// subtitleOutputPath names the SRT file next to the media input.
func subtitleOutputPath(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".srt"
}

// the Whisper translation endpoint only targets English, so OpenAI
// transcripts either stay native or become English
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	}
	return false
}

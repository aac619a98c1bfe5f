package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sound2text/sound2text/internal/subtitle"
	"github.com/sound2text/sound2text/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate an SRT file to another language using AI",
	Long: `Translate an existing SRT subtitle file to another language using AI.

Entries are translated in batches; timing and sequence numbers are kept
untouched, only the text changes. The --overlay flag creates bilingual
subtitles with the translated text first, followed by the original text
on the next line.

Examples:
  sound2text translate video.srt --to japanese
  sound2text translate video.srt --to spanish --from english
  sound2text translate video.srt --to german --provider anthropic
  sound2text translate video.srt --to french --overlay -o bilingual.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("to", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		String("from", "", "Source language of the subtitles")
	translateCmd.Flags().
		StringP("provider", "p", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific default)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions passed to the translator")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 50, "Number of subtitle entries per API request")

	_ = translateCmd.MarkFlagRequired("to")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("to")
	inputLang, _ := cmd.Flags().GetString("from")
	providerStr, _ := cmd.Flags().GetString("provider")
	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	prompt, _ := cmd.Flags().GetString("prompt")
	overlay, _ := cmd.Flags().GetBool("overlay")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	if ext := strings.ToLower(filepath.Ext(subtitlePath)); ext != ".srt" {
		logger.Warnw("Input does not look like an SRT file",
			"extension", filepath.Ext(subtitlePath),
		)
	}

	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}

	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"source language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	provider := translate.Provider(providerStr)

	var keyEnv string
	switch provider {
	case translate.ProviderGemini:
		keyEnv = "GEMINI_API_KEY"
	case translate.ProviderOpenAI:
		keyEnv = "OPENAI_API_KEY"
	case translate.ProviderAnthropic:
		keyEnv = "ANTHROPIC_API_KEY"
	default:
		return fmt.Errorf(
			"unsupported provider %q: use gemini, openai, or anthropic",
			providerStr,
		)
	}

	apiKey, err := resolveAPIKey(apiKeyFlag, keyEnv)
	if err != nil {
		return err
	}

	if model != "" && !modelOverride {
		switch provider {
		case translate.ProviderGemini:
			if !isValidGeminiModel(model) {
				return fmt.Errorf(
					"unsupported Gemini model %q: valid models are %s (use --model-override to bypass)",
					model,
					strings.Join(geminiTranslationModels, ", "),
				)
			}
		case translate.ProviderOpenAI:
			if !isValidOpenAIModel(model) {
				return fmt.Errorf(
					"unsupported OpenAI model %q: valid models are %s (use --model-override to bypass)",
					model,
					strings.Join(openaiTranslationModels, ", "),
				)
			}
		}
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	if outputPath == "" {
		outputPath = translatedOutputPath(subtitlePath, targetLang)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"source_language", inputLang,
		"overlay", overlay,
		"model", model,
	)

	entries, diags, err := subtitle.Load(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	for _, diag := range diags {
		logger.Warnw("Skipping malformed record",
			"record", diag.Record,
			"reason", diag.Message,
		)
	}

	if len(entries) == 0 {
		return fmt.Errorf("%s: %w", subtitlePath, subtitle.ErrNoEntries)
	}

	logger.Infow("Parsed subtitle file",
		"entries", len(entries),
	)

	opts := translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
	}

	translator, err := translate.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	items := make([]translate.TranslationItem, len(entries))
	for i, entry := range entries {
		items[i] = translate.TranslationItem{
			Index: i,
			Text:  entry.Text,
		}
	}

	logger.Infow("Translating subtitles",
		"items", len(items),
		"concurrency", concurrency,
	)

	var results []translate.TranslationResult
	if concurrent, ok := translator.(translate.ConcurrentTranslator); ok {
		results, err = concurrent.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	logger.Infow("Translation complete",
		"results", len(results),
	)

	for _, result := range results {
		if result.Index < 0 || result.Index >= len(entries) {
			logger.Warnw("Skipping invalid result index",
				"index", result.Index,
				"max", len(entries)-1,
			)
			continue
		}

		if overlay {
			// translated + newline + original
			entries[result.Index].Text = result.Text + "\n" + entries[result.Index].Text
		} else {
			entries[result.Index].Text = result.Text
		}
	}

	logger.Infow("Writing output file")
	writer := subtitle.Writer{}
	if err := writer.WriteFile(outputPath, entries); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(entries))
	fmt.Printf("  Target language: %s\n", targetLang)
	if overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}

	return nil
}

// translatedOutputPath names the translated copy next to the input.
func translatedOutputPath(path, lang string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + lang + ext
}

// models the hosted providers currently serve; --model-override lets
// newer ones through
var (
	geminiTranslationModels = []string{
		"gemini-3-pro-preview",
		"gemini-3-flash-preview",
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	}
	openaiTranslationModels = []string{
		"o1",
		"o3-mini",
		"o1-pro",
		"o3",
		"gpt-5",
		"gpt-5-nano",
		"gpt-5-mini",
		"gpt-5-pro",
		"gpt-5.1",
		"gpt-5.2",
		"gpt-5.2-pro",
	}
)

func isValidGeminiModel(model string) bool {
	return slices.Contains(geminiTranslationModels, model)
}

func isValidOpenAIModel(model string) bool {
	return slices.Contains(openaiTranslationModels, model)
}

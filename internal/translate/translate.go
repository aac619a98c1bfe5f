package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// one subtitle text to translate, keyed by entry position
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// the translated text for one index
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Translator turns a set of items into their translations, one or more
// API requests per call.
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// translators able to run several batches in parallel
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// hosted translation backend
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

const DefaultBatchSize = 50

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request, DefaultBatchSize when zero
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Factory builds the provider's Translator. The target language must be set.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

const promptInstructions = `IMPORTANT INSTRUCTIONS:
1. Translate ONLY the text content, preserving the meaning.
2. Keep any formatting tags (like <i>, <b>, <font>) unchanged.
3. Preserve line breaks in the same positions.
4. Return ONLY a JSON array with the same structure.
5. Each object must have 'index' and 'text' fields.
6. The 'index' values must match the input indices exactly.
7. Do not add any explanation or markdown formatting.

`

// BuildPrompt renders the instruction block plus the items as indented
// JSON. Every provider sends the same prompt.
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		fmt.Fprintf(
			&sb,
			"Translate the following %s subtitle texts to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		)
	} else {
		fmt.Fprintf(
			&sb,
			"Translate the following subtitle texts to %s.\n\n",
			opts.TargetLanguage,
		)
	}

	sb.WriteString(promptInstructions)

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

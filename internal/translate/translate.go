package translate

import (
	"context"
	"fmt"
)

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for text translation
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// optional interface for translators that support concurrent batch processing
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Providers lists every supported provider name.
var Providers = []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic}

// items per API request when Options.BatchSize is unset
const DefaultBatchSize = 50

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

// creates Translator based on provider
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

// TranslateTexts translates texts positionally. Blank texts are passed
// through without a request, and every non-blank text must come back
// translated.
func TranslateTexts(
	ctx context.Context,
	translator Translator,
	texts []string,
	concurrency int,
) ([]string, error) {
	out := make([]string, len(texts))

	var items []TranslationItem
	for i, text := range texts {
		if isBlank(text) {
			out[i] = text
			continue
		}
		items = append(items, TranslationItem{Index: i, Text: text})
	}
	if len(items) == 0 {
		return out, nil
	}

	var (
		results []TranslationResult
		err     error
	)
	if ct, ok := translator.(ConcurrentTranslator); ok {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return nil, err
	}

	pending := make(map[int]bool, len(items))
	for _, item := range items {
		pending[item.Index] = true
	}
	for _, r := range results {
		if !pending[r.Index] {
			continue
		}
		out[r.Index] = r.Text
		delete(pending, r.Index)
	}
	if len(pending) > 0 {
		return nil, fmt.Errorf(
			"translation missing for %d of %d texts",
			len(pending),
			len(items),
		)
	}

	return out, nil
}

// Bilingual stacks each translation above its original, as one cue.
func Bilingual(translated, original []string) ([]string, error) {
	if len(translated) != len(original) {
		return nil, fmt.Errorf(
			"bilingual merge: %d translations for %d originals",
			len(translated),
			len(original),
		)
	}
	out := make([]string, len(original))
	for i := range original {
		switch {
		case isBlank(original[i]):
			out[i] = translated[i]
		case isBlank(translated[i]):
			out[i] = original[i]
		default:
			out[i] = translated[i] + "\n" + original[i]
		}
	}
	return out, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/sublane/internal/config"
	"github.com/mgpai22/sublane/internal/subtitle"
	"github.com/mgpai22/sublane/internal/translate"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate an existing subtitle file to another language using AI and
write the result as WebVTT with the original cue timings.

Supports SRT, VTT, and ASS/SSA input. ASS override tags are dropped;
only the dialogue text is translated.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  sublane translate video.srt --target-language japanese
  sublane translate video.ass --target-language ja --overlay
  sublane translate video.vtt -l english --target-language spanish -o translated.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of subtitle entries per API request")
	translateCmd.Flags().
		String("style", "", "Style name for the rendered events (default from config)")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()
	flags := cmd.Flags()

	targetLang, _ := flags.GetString("target-language")
	overlay, _ := flags.GetBool("overlay")
	apiKeyFlag, _ := flags.GetString("api-key")
	model, _ := flags.GetString("model")
	providerStr, _ := flags.GetString("provider")
	concurrency, _ := flags.GetInt("concurrency")
	batchSize, _ := flags.GetInt("batch-size")
	style, _ := flags.GetString("style")
	outputPath, _ := flags.GetString("output")
	inputLang, _ := flags.GetString("language")

	providerStr = strings.ToLower(flagOr(flags.Changed("provider"), providerStr, cfg.Translate.Provider))
	model = flagOr(flags.Changed("model"), model, cfg.Translate.Model)
	concurrency = flagOr(flags.Changed("concurrency"), concurrency, cfg.Translate.Concurrency)
	batchSize = flagOr(flags.Changed("batch-size"), batchSize, cfg.Translate.BatchSize)
	style = flagOr(flags.Changed("style"), style, cfg.Regions.Style)

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}

	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	apiKey, err := config.APIKey(providerStr, apiKeyFlag)
	if err != nil {
		return err
	}

	if outputPath == "" {
		suffix := targetLang
		if overlay {
			suffix += ".overlay"
		}
		outputPath = defaultOutputPath(subtitlePath, cfg.Output.Dir, suffix, subtitle.FormatVTT)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", overlay,
		"provider", providerStr,
		"model", model,
	)

	doc, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(doc.Events) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	logger.Infow("Parsed subtitle file",
		"entries", len(doc.Events),
		"format", doc.Format,
	)

	translator, err := translate.Factory(ctx, translate.Provider(providerStr), apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	original := documentTexts(doc)

	logger.Infow("Translating subtitles",
		"items", len(original),
		"concurrency", concurrency,
	)

	texts, err := translate.TranslateTexts(ctx, translator, original, concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	if overlay {
		if texts, err = translate.Bilingual(texts, original); err != nil {
			return err
		}
	}

	rendered, err := renderWithTexts(doc, texts, style)
	if err != nil {
		return err
	}

	logger.Infow("Writing output file")
	if err := subtitle.Save(outputPath, rendered); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(doc.Events))
	fmt.Printf("  Target language: %s\n", targetLang)
	if overlay {
		fmt.Printf("  Mode: bilingual overlay\n")
	}

	return nil
}

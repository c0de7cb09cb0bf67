package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/sublane/internal/audio"
	"github.com/mgpai22/sublane/internal/config"
	"github.com/mgpai22/sublane/internal/regions"
	"github.com/mgpai22/sublane/internal/subtitle"
	"github.com/mgpai22/sublane/internal/transcribe"
	"github.com/mgpai22/sublane/internal/translate"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Transcribe speech regions taken from an existing subtitle file",
	Long: `Generate subtitles for an audio or video file, reusing the cue timings
of an existing subtitle file.

Every cue becomes one or more speech regions (long cues are split at
--max-region-ms). Each region is cut from the audio and transcribed on its
own, in parallel. The transcripts can then be translated, optionally
keeping the original line under the translation.

Examples:
  sublane generate episode.mkv --from episode.ass
  sublane generate talk.mp3 --from talk.srt -f json --provider gemini
  sublane generate movie.mp4 --from movie.vtt --target-language english --bilingual`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		String("from", "", "Subtitle file (srt, vtt, ass) providing the cue timings (required)")
	generateCmd.Flags().
		StringP("format", "f", "vtt", "Output format (vtt, json, txt)")
	generateCmd.Flags().
		Int64("max-region-ms", regions.DefaultMaxRegionMs, "Longest region in milliseconds")
	generateCmd.Flags().
		String("provider", "openai", "Transcription provider (openai, gemini)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "Transcription API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	generateCmd.Flags().
		String("model", "", "Transcription model (provider-specific, uses sensible defaults)")
	generateCmd.Flags().
		Int("concurrency", 10, "Number of parallel cut and transcription workers")
	generateCmd.Flags().
		String("transcript-language", "native", "Output language for transcript (e.g., 'english', or 'native' for original language)")
	generateCmd.Flags().
		StringP("target-language", "t", "", "Translate transcripts to this language")
	generateCmd.Flags().
		Bool("bilingual", false, "Keep the original line under each translation")
	generateCmd.Flags().
		String("translate-provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	generateCmd.Flags().
		String("translate-api-key", "", "Translation API key (or set the provider's env var)")
	generateCmd.Flags().
		Int("max-line-chars", 42, "Wrap lines longer than this many characters (0 disables)")

	_ = generateCmd.MarkFlagRequired("from")
}

type generateSettings struct {
	format          subtitle.Format
	maxRegionMs     int64
	provider        transcribe.Provider
	apiKey          string
	model           string
	concurrency     int
	language        string
	transcriptLang  string
	targetLang      string
	bilingual       bool
	translateConfig config.Translate
	translateKey    string
	maxLineChars    int
}

func resolveGenerateSettings(cmd *cobra.Command) (generateSettings, error) {
	flags := cmd.Flags()
	var s generateSettings

	formatStr, _ := flags.GetString("format")
	maxRegionMs, _ := flags.GetInt64("max-region-ms")
	providerStr, _ := flags.GetString("provider")
	model, _ := flags.GetString("model")
	concurrency, _ := flags.GetInt("concurrency")
	language, _ := flags.GetString("language")
	targetLang, _ := flags.GetString("target-language")
	translateProvider, _ := flags.GetString("translate-provider")
	maxLineChars, _ := flags.GetInt("max-line-chars")

	s.transcriptLang, _ = flags.GetString("transcript-language")
	s.bilingual, _ = flags.GetBool("bilingual")

	format, err := subtitle.ParseFormat(flagOr(flags.Changed("format"), formatStr, cfg.Output.Format))
	if err != nil {
		return s, err
	}
	s.format = format

	s.maxRegionMs = flagOr(flags.Changed("max-region-ms"), maxRegionMs, cfg.Regions.MaxRegionMs)
	s.provider = transcribe.Provider(strings.ToLower(
		flagOr(flags.Changed("provider"), providerStr, cfg.Transcribe.Provider),
	))
	s.model = flagOr(flags.Changed("model"), model, cfg.Transcribe.Model)
	s.concurrency = flagOr(flags.Changed("concurrency"), concurrency, cfg.Transcribe.Concurrency)
	s.language = flagOr(flags.Changed("language"), language, cfg.Transcribe.Language)
	s.targetLang = flagOr(flags.Changed("target-language"), targetLang, cfg.Translate.TargetLanguage)
	s.maxLineChars = flagOr(flags.Changed("max-line-chars"), maxLineChars, cfg.Output.MaxLineChars)

	s.translateConfig = cfg.Translate
	s.translateConfig.Provider = strings.ToLower(
		flagOr(flags.Changed("translate-provider"), translateProvider, cfg.Translate.Provider),
	)

	if s.concurrency <= 0 {
		return s, fmt.Errorf("concurrency must be positive, got %d", s.concurrency)
	}
	if s.provider == transcribe.ProviderOpenAI && !isValidOpenAITranscriptLanguage(s.transcriptLang) {
		return s, fmt.Errorf(
			"openai can only transcribe to the spoken language or english, got %q",
			s.transcriptLang,
		)
	}
	if s.bilingual && s.targetLang == "" {
		return s, fmt.Errorf("--bilingual requires --target-language")
	}

	apiKeyFlag, _ := flags.GetString("api-key")
	if s.apiKey, err = config.APIKey(string(s.provider), apiKeyFlag); err != nil {
		return s, err
	}
	if s.targetLang != "" {
		keyFlag, _ := flags.GetString("translate-api-key")
		if s.translateKey, err = config.APIKey(s.translateConfig.Provider, keyFlag); err != nil {
			return s, err
		}
	}

	return s, nil
}

// Whisper translation only targets English
func isValidOpenAITranscriptLanguage(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "native", "english", "en":
		return true
	default:
		return false
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	subtitlePath, _ := cmd.Flags().GetString("from")
	outputPath, _ := cmd.Flags().GetString("output")

	s, err := resolveGenerateSettings(cmd)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(mediaPath, cfg.Output.Dir, s.targetLang, s.format)
	}

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"timings", subtitlePath,
		"output", outputPath,
		"format", s.format,
		"max_region_ms", s.maxRegionMs,
		"provider", s.provider,
		"concurrency", s.concurrency,
	)

	tempDir, err := os.MkdirTemp("", "sublane-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// flac keeps the per-region cuts lossless under -c copy
	logger.Infow("Preparing audio")
	audioPath := filepath.Join(tempDir, "audio.flac")
	if err := audio.Convert(ctx, mediaPath, audioPath, audio.DefaultConvertOptions()); err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}

	extractor := regions.NewExtractor(audio.NewProber(), documentReader{}, s.maxRegionMs, logger.Named("regions"))
	spans, err := extractor.ExtractFile(ctx, audioPath, subtitlePath)
	if err != nil {
		return err
	}
	if len(spans) == 0 {
		return fmt.Errorf("subtitle file %s has no usable cues", subtitlePath)
	}

	sliceOpts := audio.DefaultSliceOptions()
	sliceOpts.Concurrency = s.concurrency
	clips, err := audio.SliceRegions(ctx, audioPath, spans, filepath.Join(tempDir, "clips"), sliceOpts)
	if err != nil {
		return fmt.Errorf("failed to cut regions: %w", err)
	}

	logger.Infow("Cut audio regions", "count", len(clips))

	transcriber, err := transcribe.Factory(ctx, s.provider, s.apiKey, transcribe.Options{
		Language:           s.language,
		TranscriptLanguage: s.transcriptLang,
		Model:              s.model,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	texted, err := transcribe.TranscribeRegions(ctx, transcriber, clips, s.concurrency, logger.Named("transcribe"))
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	texts := texted.Texts()
	if s.targetLang != "" {
		texts, err = translateTexts(ctx, texts, s)
		if err != nil {
			return err
		}
	}

	for i := range texts {
		texts[i] = subtitle.WrapText(texts[i], s.maxLineChars)
	}

	result, err := spans.WithTexts(texts)
	if err != nil {
		return err
	}

	rendered, err := subtitle.Render(s.format, result)
	if err != nil {
		return fmt.Errorf("failed to render subtitles: %w", err)
	}
	if err := subtitle.Save(outputPath, rendered); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)
	fmt.Printf("  Regions: %d\n", len(result))
	if s.targetLang != "" {
		fmt.Printf("  Target language: %s\n", s.targetLang)
	}

	return nil
}

func translateTexts(ctx context.Context, texts []string, s generateSettings) ([]string, error) {
	translator, err := translate.Factory(
		ctx,
		translate.Provider(s.translateConfig.Provider),
		s.translateKey,
		translate.Options{
			InputLanguage:  s.language,
			TargetLanguage: s.targetLang,
			Model:          s.translateConfig.Model,
			BatchSize:      s.translateConfig.BatchSize,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Translating transcripts",
		"items", len(texts),
		"target_language", s.targetLang,
		"concurrency", s.translateConfig.Concurrency,
	)

	translated, err := translate.TranslateTexts(ctx, translator, texts, s.translateConfig.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if !s.bilingual {
		return translated, nil
	}
	return translate.Bilingual(translated, texts)
}

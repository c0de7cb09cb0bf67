package cli

import (
	"fmt"

	"github.com/mgpai22/sublane/internal/config"
	"github.com/mgpai22/sublane/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

// commands annotated with this key run without loading the config file
const skipConfigAnnotation = "sublane/skip-config"

var rootCmd = &cobra.Command{
	Use:   "sublane",
	Short: "Subtitle-driven speech region extraction and rendering",
	Long: `Sublane derives speech regions from the cue timings of an existing
subtitle file, cuts the matching audio, and renders regions or
transcribed text as WebVTT, JSON, or plain text.

Subtitle files in SRT, WebVTT, and ASS/SSA format are read.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
			logger = logging.NewLogger(verbose)
			c := config.Default()
			cfg = &c
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		level := logging.ParseLevel(cfg.Logging.Level)
		if verbose {
			level = zapcore.DebugLevel
		}
		logger = logging.New(level)

		if exists {
			logger.Debugw("Loaded config", "path", path)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/sublane/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}

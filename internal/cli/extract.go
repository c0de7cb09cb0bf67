package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/sublane/internal/audio"
	"github.com/mgpai22/sublane/internal/regions"
	"github.com/mgpai22/sublane/internal/video"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract the audio track that regions are cut from",
	Long: `Extract the audio track of a video into the flac file that "sublane regions"
and "sublane generate" work on. Without --format the output extension picks
the format (flac, wav, mp3, aac).

With --from the extracted audio is checked against a subtitle file and the
number of speech regions it yields is reported.

Examples:
  sublane extract episode.mkv
  sublane extract episode.mkv --from episode.ass
  sublane extract movie.mp4 -o movie.wav --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	defaults := video.DefaultExtractAudioOptions()
	extractCmd.Flags().
		StringP("format", "f", defaults.Format, "Output audio format (flac, wav, mp3, aac)")
	extractCmd.Flags().
		IntP("sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	extractCmd.Flags().
		IntP("channels", "c", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		StringP("bitrate", "b", "", "Bitrate for lossy formats (e.g., 128k, 320k)")
	extractCmd.Flags().
		String("from", "", "Subtitle file whose regions are checked against the extracted audio")
}

var validAudioFormats = map[string]bool{
	"flac": true,
	"wav":  true,
	"mp3":  true,
	"aac":  true,
}

// resolveExtractFormat picks the flag value when set, then a known
// extension of outputPath, then the flag default.
func resolveExtractFormat(changed bool, flagValue, outputPath string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if !changed && outputPath != "" {
		if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), "."); validAudioFormats[ext] {
			format = ext
		}
	}
	if !validAudioFormats[format] {
		return "", fmt.Errorf(
			"invalid format %q: supported formats are flac, wav, mp3, aac",
			format,
		)
	}
	return format, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	formatStr, _ := cmd.Flags().GetString("format")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	bitrate, _ := cmd.Flags().GetString("bitrate")
	subtitlePath, _ := cmd.Flags().GetString("from")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := resolveExtractFormat(cmd.Flags().Changed("format"), formatStr, outputPath)
	if err != nil {
		return err
	}
	if !audio.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected video file)", filepath.Ext(videoPath))
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "." + format
	}

	processor := video.NewProcessor()

	info, err := processor.GetInfo(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("failed to probe video: %w", err)
	}
	if !info.HasAudio {
		return fmt.Errorf("video has no audio track: %s", videoPath)
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"output", outputPath,
		"duration", info.Duration.String(),
		"format", format,
		"sample_rate", sampleRate,
		"channels", channels,
	)

	opts := video.DefaultExtractAudioOptions()
	opts.Format = format
	opts.SampleRate = sampleRate
	opts.Channels = channels
	opts.Bitrate = bitrate

	if err := processor.ExtractAudio(ctx, videoPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Audio extracted successfully: %s\n", absOutput)

	if subtitlePath == "" {
		return nil
	}

	extractor := regions.NewExtractor(audio.NewProber(), documentReader{}, cfg.Regions.MaxRegionMs, logger.Named("regions"))
	spans, err := extractor.ExtractFile(ctx, outputPath, subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to check regions: %w", err)
	}
	fmt.Printf("  Regions: %d (from %s)\n", len(spans), subtitlePath)

	return nil
}

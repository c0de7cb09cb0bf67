package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mgpai22/sublane/internal/audio"
	"github.com/mgpai22/sublane/internal/regions"
	"github.com/mgpai22/sublane/internal/subtitle"
	"github.com/mgpai22/sublane/internal/timeline"
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions [media_file]",
	Short: "Derive speech regions from an existing subtitle file",
	Long: `Read the cue timings of a subtitle file, split long cues into
regions of at most --max-region-ms, and render the regions without text.
Without --format the output extension (.vtt, .json, .txt) picks the format.

The media file is only probed for its duration, which bounds the last
split region.

Examples:
  sublane regions episode.flac --from episode.ass
  sublane regions movie.mkv --from movie.srt -o regions.json
  sublane regions talk.wav --from talk.vtt --max-region-ms 4000 --table`,
	Args: cobra.ExactArgs(1),
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)

	regionsCmd.Flags().
		String("from", "", "Subtitle file (srt, vtt, ass) providing the cue timings (required)")
	regionsCmd.Flags().
		StringP("format", "f", "vtt", "Output format (vtt, json, txt)")
	regionsCmd.Flags().
		Int64("max-region-ms", regions.DefaultMaxRegionMs, "Longest region in milliseconds")
	regionsCmd.Flags().
		Bool("table", false, "Print a summary table instead of the rendered regions")

	_ = regionsCmd.MarkFlagRequired("from")
}

func runRegions(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	subtitlePath, _ := cmd.Flags().GetString("from")
	formatStr, _ := cmd.Flags().GetString("format")
	maxRegionMs, _ := cmd.Flags().GetInt64("max-region-ms")
	showTable, _ := cmd.Flags().GetBool("table")
	outputPath, _ := cmd.Flags().GetString("output")

	formatStr = flagOr(cmd.Flags().Changed("format"), formatStr, cfg.Output.Format)
	if !cmd.Flags().Changed("format") && outputPath != "" {
		formatStr = string(subtitle.GetFormatFromExtension(outputPath))
	}
	maxRegionMs = flagOr(cmd.Flags().Changed("max-region-ms"), maxRegionMs, cfg.Regions.MaxRegionMs)

	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	extractor := regions.NewExtractor(audio.NewProber(), documentReader{}, maxRegionMs, logger.Named("regions"))
	spans, err := extractor.ExtractFile(ctx, mediaPath, subtitlePath)
	if err != nil {
		return err
	}

	if showTable {
		fmt.Println(regionTable(spans))
		if outputPath == "" {
			return nil
		}
	}

	rendered, err := subtitle.Render(format, spans)
	if err != nil {
		return fmt.Errorf("failed to render regions: %w", err)
	}

	if outputPath == "" {
		fmt.Println(rendered)
		return nil
	}

	if err := subtitle.Save(outputPath, rendered); err != nil {
		return fmt.Errorf("failed to write regions: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Regions written: %s\n", absOutput)
	fmt.Printf("  Regions: %d\n", len(spans))

	return nil
}

func regionTable(spans timeline.Plain) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Duration"})

	var total int64
	for i, iv := range spans {
		total += iv.DurationMs()
		tw.AppendRow(table.Row{
			i + 1,
			timeline.FormatSeconds(iv.StartMs),
			timeline.FormatSeconds(iv.EndMs),
			timeline.FormatSeconds(iv.DurationMs()),
		})
	}
	tw.AppendFooter(table.Row{"", "", "Total", timeline.FormatSeconds(total)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/sublane/internal/subtitle"
	"github.com/mgpai22/sublane/internal/timeline"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [subtitle_file]",
	Short: "Re-render a subtitle file's cue timings as WebVTT",
	Long: `Read an SRT, WebVTT, or ASS/SSA file and write its cues as WebVTT.

By default only the timings are kept and every cue is empty, which gives a
timing skeleton to fill in later. --with-text carries the cue text over.
Comment events in ASS files are rendered like any other event.

Examples:
  sublane render episode.ass
  sublane render movie.srt --with-text -o movie.vtt
  sublane render signs.ass --style Signs`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().
		Bool("with-text", false, "Keep the cue text instead of rendering empty cues")
	renderCmd.Flags().
		String("style", "", "Style name for the rendered events (default from config)")
}

func runRender(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]

	withText, _ := cmd.Flags().GetBool("with-text")
	style, _ := cmd.Flags().GetString("style")
	outputPath, _ := cmd.Flags().GetString("output")

	style = flagOr(cmd.Flags().Changed("style"), style, cfg.Regions.Style)

	doc, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	logger.Infow("Parsed subtitle file",
		"events", len(doc.Events),
		"format", doc.Format,
	)

	rendered, err := renderDocument(doc, withText, style)
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := subtitle.Save(outputPath, rendered); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles rendered successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(doc.Events))

	return nil
}

func renderDocument(doc *subtitle.Document, withText bool, style string) (string, error) {
	var texts []string
	if withText {
		texts = documentTexts(doc)
	}
	return renderWithTexts(doc, texts, style)
}

func renderWithTexts(doc *subtitle.Document, texts []string, style string) (string, error) {
	if len(doc.Events) == 0 {
		return "", &timeline.EmptyInputError{Renderer: "vtt"}
	}

	src, err := subtitle.FromDocument(doc, texts)
	if err != nil {
		return "", err
	}
	events, err := subtitle.BuildEvents(src, style)
	if err != nil {
		return "", err
	}
	return subtitle.VTT(events), nil
}

func documentTexts(doc *subtitle.Document) []string {
	texts := make([]string, len(doc.Events))
	for i, ev := range doc.Events {
		texts[i] = ev.Text
	}
	return texts
}

package subtitle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/sublane/internal/timeline"
)

// Render serializes tl in the requested output format.
func Render(format Format, tl timeline.Timeline) (string, error) {
	switch format {
	case FormatVTT:
		return RenderVTT(tl)
	case FormatJSON:
		return RenderJSON(tl)
	case FormatTXT:
		return RenderText(tl)
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// RenderVTT builds events from tl with the default style and writes
// them as a WebVTT document.
func RenderVTT(tl timeline.Timeline) (string, error) {
	if tl == nil || tl.Len() == 0 {
		return "", &timeline.EmptyInputError{Renderer: "vtt"}
	}
	events, err := BuildEvents(FromTimeline(tl), "")
	if err != nil {
		return "", err
	}
	return VTT(events), nil
}

// VTT writes already built events as a WebVTT document. Comment events
// are skipped and do not consume a cue number.
func VTT(events []Event) string {
	var sb strings.Builder

	sb.WriteString("WEBVTT\n\n")

	cue := 0
	for _, ev := range events {
		if ev.Comment {
			continue
		}
		cue++

		// cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", cue))

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(ev.Start),
			formatVTTTime(ev.End)))

		sb.WriteString(ev.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// milliseconds that marshal as float seconds ("0.0", "1.5")
type seconds int64

func (s seconds) MarshalJSON() ([]byte, error) {
	return []byte(timeline.FormatSeconds(int64(s))), nil
}

type jsonRegion struct {
	Start seconds `json:"start"`
	End   seconds `json:"end"`
}

type jsonCue struct {
	Start   seconds `json:"start"`
	End     seconds `json:"end"`
	Content string  `json:"content"`
}

// RenderJSON writes tl as an indented JSON array of objects with start
// and end in seconds, plus content for texted timelines.
func RenderJSON(tl timeline.Timeline) (string, error) {
	if tl == nil || tl.Len() == 0 {
		return "", &timeline.EmptyInputError{Renderer: "json"}
	}
	if err := tl.Validate(); err != nil {
		return "", err
	}

	var payload any
	switch v := tl.(type) {
	case timeline.Texted:
		cues := make([]jsonCue, len(v))
		for i, tt := range v {
			cues[i] = jsonCue{
				Start:   seconds(tt.StartMs),
				End:     seconds(tt.EndMs),
				Content: tt.Text,
			}
		}
		payload = cues
	case timeline.Plain:
		regions := make([]jsonRegion, len(v))
		for i, iv := range v {
			regions[i] = jsonRegion{
				Start: seconds(iv.StartMs),
				End:   seconds(iv.EndMs),
			}
		}
		payload = regions
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RenderText writes a texted timeline as one text per line. A plain
// timeline becomes "start end" records in seconds, each preceded by a
// newline, so the output opens with an empty line.
func RenderText(tl timeline.Timeline) (string, error) {
	if tl == nil || tl.Len() == 0 {
		return "", &timeline.EmptyInputError{Renderer: "txt"}
	}
	if err := tl.Validate(); err != nil {
		return "", err
	}

	switch v := tl.(type) {
	case timeline.Texted:
		return strings.Join(v.Texts(), "\n"), nil
	case timeline.Plain:
		var sb strings.Builder
		for _, iv := range v {
			sb.WriteString("\n")
			sb.WriteString(timeline.FormatSeconds(iv.StartMs))
			sb.WriteString(" ")
			sb.WriteString(timeline.FormatSeconds(iv.EndMs))
		}
		return sb.String(), nil
	}
	return "", nil
}

func formatVTTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// Save writes rendered output, creating parent directories.
func Save(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// output format based on file extension
func GetFormatFromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".txt":
		return FormatTXT
	default:
		return FormatVTT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatASS:
		return ".ass"
	case FormatJSON:
		return ".json"
	case FormatTXT:
		return ".txt"
	default:
		return ".vtt"
	}
}

// ParseFormat maps a user supplied name onto a renderable format.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if !format.Renderable() {
		return "", fmt.Errorf("unsupported format %q: use vtt, json, or txt", name)
	}
	return format, nil
}

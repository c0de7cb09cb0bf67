package subtitle

import (
	"time"
)

// DefaultStyle is attached to events when no style is requested.
const DefaultStyle = "Default"

// single normalized subtitle event
type Event struct {
	Start   time.Duration
	End     time.Duration
	Text    string
	Style   string
	Comment bool
}

// parsed subtitle document, in file order
type Document struct {
	Events []Event
	Format Format
}

// represents subtitle formats, both readable and renderable
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
)

// output formats the renderers support
var RenderFormats = []Format{FormatVTT, FormatJSON, FormatTXT}

// reports whether Render can produce the format
func (f Format) Renderable() bool {
	for _, rf := range RenderFormats {
		if f == rf {
			return true
		}
	}
	return false
}

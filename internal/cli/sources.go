package cli

import (
	"path/filepath"
	"strings"

	"github.com/mgpai22/sublane/internal/regions"
	"github.com/mgpai22/sublane/internal/subtitle"
)

// documentReader feeds parsed subtitle files to the region extractor.
type documentReader struct{}

func (documentReader) ReadEvents(path string) ([]regions.SourceEvent, error) {
	doc, err := subtitle.Open(path)
	if err != nil {
		return nil, err
	}
	return sourceEvents(doc), nil
}

func sourceEvents(doc *subtitle.Document) []regions.SourceEvent {
	out := make([]regions.SourceEvent, len(doc.Events))
	for i, ev := range doc.Events {
		out[i] = regions.SourceEvent{
			StartMs: ev.Start.Milliseconds(),
			EndMs:   ev.End.Milliseconds(),
			Comment: ev.Comment,
		}
	}
	return out
}

// flagOr returns the flag value when the user set it, else fallback.
func flagOr[T any](changed bool, value, fallback T) T {
	if changed {
		return value
	}
	return fallback
}

// defaultOutputPath places base.suffix.ext next to input, or under dir
// when one is configured.
func defaultOutputPath(input, dir, suffix string, format subtitle.Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	if suffix != "" {
		base += "." + suffix
	}
	return base + subtitle.GetExtensionForFormat(format)
}

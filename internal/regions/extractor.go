package regions

import (
	"context"
	"fmt"

	"github.com/mgpai22/sublane/internal/logging"
	"github.com/mgpai22/sublane/internal/timeline"
)

// reports the length of a decodable audio resource
type DurationProvider interface {
	DurationMs(ctx context.Context, audioPath string) (int64, error)
}

// reads the event timings of an existing subtitle document
type DocumentReader interface {
	ReadEvents(path string) ([]SourceEvent, error)
}

// Extractor binds Extract to its collaborators.
type Extractor struct {
	Durations   DurationProvider
	Reader      DocumentReader
	MaxRegionMs int64
	Logger      *logging.Logger
}

func NewExtractor(
	durations DurationProvider,
	reader DocumentReader,
	maxRegionMs int64,
	logger *logging.Logger,
) *Extractor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Extractor{
		Durations:   durations,
		Reader:      reader,
		MaxRegionMs: maxRegionMs,
		Logger:      logger,
	}
}

// ExtractFile derives speech regions for audioPath from the event
// timings of subtitlePath.
func (e *Extractor) ExtractFile(
	ctx context.Context,
	audioPath, subtitlePath string,
) (timeline.Plain, error) {
	duration, err := e.Durations.DurationMs(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	events, err := e.Reader.ReadEvents(subtitlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle events: %w", err)
	}

	regions, err := Extract(events, duration, e.MaxRegionMs)
	if err != nil {
		return nil, err
	}

	e.Logger.Infow("Extracted speech regions",
		"source_events", len(events),
		"regions", len(regions),
		"audio_duration_ms", duration,
	)

	return regions, nil
}

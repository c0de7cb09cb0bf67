package regions

import (
	"github.com/mgpai22/sublane/internal/timeline"
)

// DefaultMaxRegionMs caps a single speech region at six seconds.
const DefaultMaxRegionMs int64 = 6000

// event read from an existing subtitle document
type SourceEvent struct {
	StartMs int64
	EndMs   int64
	Comment bool
}

// Extract turns source events into speech regions. Comment events are
// skipped and events longer than maxRegionMs are split into
// maxRegionMs-long pieces plus a remainder. The span being split is
// clamped to audioDurationMs. A non-positive maxRegionMs selects
// DefaultMaxRegionMs.
func Extract(
	events []SourceEvent,
	audioDurationMs int64,
	maxRegionMs int64,
) (timeline.Plain, error) {
	if audioDurationMs < 0 {
		return nil, &timeline.ValidationError{
			Index:   -1,
			StartMs: 0,
			EndMs:   audioDurationMs,
			Reason:  "negative audio duration",
		}
	}
	if maxRegionMs <= 0 {
		maxRegionMs = DefaultMaxRegionMs
	}

	regions := make(timeline.Plain, 0, len(events))
	for i, ev := range events {
		if ev.Comment {
			continue
		}
		if err := checkEvent(i, ev); err != nil {
			return nil, err
		}

		duration := ev.EndMs - ev.StartMs
		if duration <= maxRegionMs {
			regions = append(regions, timeline.Interval{
				StartMs: ev.StartMs,
				EndMs:   ev.StartMs + duration,
			})
			continue
		}

		regions = appendSplit(regions, ev.StartMs, duration, audioDurationMs, maxRegionMs)
	}

	return regions, nil
}

// appendSplit covers remaining from start in maxRegionMs steps. The last
// piece takes whatever is left, which is zero when the clamp hit zero.
func appendSplit(
	regions timeline.Plain,
	start, remaining, audioDurationMs, maxRegionMs int64,
) timeline.Plain {
	if remaining > audioDurationMs {
		remaining = audioDurationMs
	}
	for remaining > maxRegionMs {
		regions = append(regions, timeline.Interval{
			StartMs: start,
			EndMs:   start + maxRegionMs,
		})
		remaining -= maxRegionMs
		start += maxRegionMs
	}
	return append(regions, timeline.Interval{
		StartMs: start,
		EndMs:   start + remaining,
	})
}

func checkEvent(index int, ev SourceEvent) error {
	switch {
	case ev.StartMs < 0 || ev.EndMs < 0:
		return &timeline.ValidationError{
			Index:   index,
			StartMs: ev.StartMs,
			EndMs:   ev.EndMs,
			Reason:  "negative timestamp",
		}
	case ev.EndMs < ev.StartMs:
		return &timeline.ValidationError{
			Index:   index,
			StartMs: ev.StartMs,
			EndMs:   ev.EndMs,
			Reason:  "end before start",
		}
	case ev.EndMs == ev.StartMs:
		return &timeline.ValidationError{
			Index:   index,
			StartMs: ev.StartMs,
			EndMs:   ev.EndMs,
			Reason:  "zero-length event",
		}
	}
	return nil
}

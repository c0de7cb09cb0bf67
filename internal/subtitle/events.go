package subtitle

import (
	"fmt"

	"github.com/mgpai22/sublane/internal/timeline"
)

// EventSource supplies event timing and text for BuildEvents.
// Construct one with FromTimeline or FromDocument.
type EventSource interface {
	events(style string) ([]Event, error)
}

type timelineSource struct {
	tl timeline.Timeline
}

// FromTimeline takes timing from each interval. Texted timelines also
// supply the text; Plain ones leave it empty.
func FromTimeline(tl timeline.Timeline) EventSource {
	return timelineSource{tl: tl}
}

func (s timelineSource) events(style string) ([]Event, error) {
	if s.tl == nil || s.tl.Len() == 0 {
		return nil, &timeline.EmptyInputError{Renderer: "events"}
	}
	if err := s.tl.Validate(); err != nil {
		return nil, err
	}

	switch tl := s.tl.(type) {
	case timeline.Texted:
		out := make([]Event, len(tl))
		for i, tt := range tl {
			out[i] = Event{
				Start: tt.Start(),
				End:   tt.End(),
				Text:  tt.Text,
				Style: style,
			}
		}
		return out, nil
	case timeline.Plain:
		out := make([]Event, len(tl))
		for i, iv := range tl {
			out[i] = Event{
				Start: iv.Start(),
				End:   iv.End(),
				Style: style,
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported timeline type %T", s.tl)
}

// document timings zipped with an optional replacement text per event
type documentSource struct {
	timings []Event
	texts   []string
}

// FromDocument takes timing positionally from doc's events. When texts
// is non-empty it must have one entry per event and replaces their text;
// otherwise every event gets empty text.
func FromDocument(doc *Document, texts []string) (EventSource, error) {
	var src []Event
	if doc != nil {
		src = doc.Events
	}
	if len(texts) > 0 && len(texts) != len(src) {
		return nil, &timeline.LengthMismatchError{
			Texts:  len(texts),
			Events: len(src),
		}
	}
	return documentSource{timings: src, texts: texts}, nil
}

func (s documentSource) events(style string) ([]Event, error) {
	if len(s.timings) == 0 {
		return nil, &timeline.EmptyInputError{Renderer: "events"}
	}
	out := make([]Event, len(s.timings))
	for i, ev := range s.timings {
		// comment flags are not carried over: every timing becomes a cue
		out[i] = Event{
			Start: ev.Start,
			End:   ev.End,
			Style: style,
		}
		if len(s.texts) > 0 {
			out[i].Text = s.texts[i]
		}
	}
	return out, nil
}

// BuildEvents produces a fresh event list from src. An empty style
// becomes DefaultStyle. A nil or empty source returns
// *timeline.EmptyInputError.
func BuildEvents(src EventSource, style string) ([]Event, error) {
	if style == "" {
		style = DefaultStyle
	}
	if src == nil {
		return nil, &timeline.EmptyInputError{Renderer: "events"}
	}
	return src.events(style)
}

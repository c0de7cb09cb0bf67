package timeline

import (
	"strconv"
	"strings"
	"time"
)

// single speech region on the shared timeline, in milliseconds
type Interval struct {
	StartMs int64
	EndMs   int64
}

// NewInterval returns an interval after checking 0 <= start < end.
func NewInterval(startMs, endMs int64) (Interval, error) {
	iv := Interval{StartMs: startMs, EndMs: endMs}
	if endMs == startMs {
		return Interval{}, &ValidationError{
			Index:   -1,
			StartMs: startMs,
			EndMs:   endMs,
			Reason:  "interval has zero length",
		}
	}
	if err := iv.check(-1); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (iv Interval) DurationMs() int64 {
	return iv.EndMs - iv.StartMs
}

func (iv Interval) Start() time.Duration {
	return time.Duration(iv.StartMs) * time.Millisecond
}

func (iv Interval) End() time.Duration {
	return time.Duration(iv.EndMs) * time.Millisecond
}

// check rejects negative or inverted intervals. Zero-length intervals
// pass: the region splitter can legitimately produce them.
func (iv Interval) check(index int) error {
	switch {
	case iv.StartMs < 0 || iv.EndMs < 0:
		return &ValidationError{
			Index:   index,
			StartMs: iv.StartMs,
			EndMs:   iv.EndMs,
			Reason:  "negative timestamp",
		}
	case iv.EndMs < iv.StartMs:
		return &ValidationError{
			Index:   index,
			StartMs: iv.StartMs,
			EndMs:   iv.EndMs,
			Reason:  "end before start",
		}
	}
	return nil
}

// interval annotated with transcribed or translated text
type TimedText struct {
	Interval
	Text string
}

// Timeline is an ordered run of either bare intervals (Plain) or
// intervals with text (Texted). The two shapes are never mixed.
type Timeline interface {
	Len() int
	Intervals() []Interval
	Validate() error
	sealed()
}

// timing-only timeline
type Plain []Interval

// timeline carrying one text per interval
type Texted []TimedText

func (p Plain) Len() int { return len(p) }

func (p Plain) Intervals() []Interval {
	out := make([]Interval, len(p))
	copy(out, p)
	return out
}

func (p Plain) Validate() error {
	for i, iv := range p {
		if err := iv.check(i); err != nil {
			return err
		}
	}
	return nil
}

func (Plain) sealed() {}

func (t Texted) Len() int { return len(t) }

func (t Texted) Intervals() []Interval {
	out := make([]Interval, len(t))
	for i, tt := range t {
		out[i] = tt.Interval
	}
	return out
}

func (t Texted) Texts() []string {
	out := make([]string, len(t))
	for i, tt := range t {
		out[i] = tt.Text
	}
	return out
}

func (t Texted) Validate() error {
	for i, tt := range t {
		if err := tt.check(i); err != nil {
			return err
		}
	}
	return nil
}

func (Texted) sealed() {}

// WithTexts pairs every interval with the text at the same position.
func (p Plain) WithTexts(texts []string) (Texted, error) {
	if len(texts) != len(p) {
		return nil, &LengthMismatchError{Texts: len(texts), Events: len(p)}
	}
	out := make(Texted, len(p))
	for i, iv := range p {
		out[i] = TimedText{Interval: iv, Text: texts[i]}
	}
	return out, nil
}

// FormatSeconds renders milliseconds as float seconds the way the
// legacy tooling printed them: shortest form, always with a fraction
// ("0.0", "1.5", "12.345").
func FormatSeconds(ms int64) string {
	s := strconv.FormatFloat(float64(ms)/1000.0, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

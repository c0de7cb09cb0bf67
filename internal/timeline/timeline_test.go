package timeline

import (
	"errors"
	"testing"
	"time"
)

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		end     int64
		wantErr bool
	}{
		{name: "valid", start: 0, end: 1000},
		{name: "zero length", start: 500, end: 500, wantErr: true},
		{name: "inverted", start: 2000, end: 1000, wantErr: true},
		{name: "negative start", start: -1, end: 1000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(tt.start, tt.end)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if iv.DurationMs() != tt.end-tt.start {
				t.Errorf("duration: got %d, want %d", iv.DurationMs(), tt.end-tt.start)
			}
		})
	}
}

func TestIntervalDurations(t *testing.T) {
	iv := Interval{StartMs: 1500, EndMs: 4250}
	if iv.Start() != 1500*time.Millisecond {
		t.Errorf("Start: got %v", iv.Start())
	}
	if iv.End() != 4250*time.Millisecond {
		t.Errorf("End: got %v", iv.End())
	}
}

func TestPlainValidateAllowsZeroLength(t *testing.T) {
	p := Plain{{StartMs: 0, EndMs: 1000}, {StartMs: 1000, EndMs: 1000}}
	if err := p.Validate(); err != nil {
		t.Errorf("zero-length interval should pass: %v", err)
	}
}

func TestTextedValidateReportsIndex(t *testing.T) {
	tx := Texted{
		{Interval: Interval{StartMs: 0, EndMs: 1000}, Text: "ok"},
		{Interval: Interval{StartMs: 3000, EndMs: 2000}, Text: "bad"},
	}
	err := tx.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if vErr.Index != 1 {
		t.Errorf("index: got %d, want 1", vErr.Index)
	}
}

func TestWithTexts(t *testing.T) {
	p := Plain{{StartMs: 0, EndMs: 1000}, {StartMs: 1000, EndMs: 2500}}

	tx, err := p.WithTexts([]string{"a", "b"})
	if err != nil {
		t.Fatalf("WithTexts: %v", err)
	}
	if tx[1].Text != "b" || tx[1].EndMs != 2500 {
		t.Errorf("unexpected pair: %+v", tx[1])
	}

	_, err = p.WithTexts([]string{"a"})
	var lErr *LengthMismatchError
	if !errors.As(err, &lErr) {
		t.Fatalf("expected *LengthMismatchError, got %v", err)
	}
	if lErr.Texts != 1 || lErr.Events != 2 {
		t.Errorf("unexpected counts: %+v", lErr)
	}
}

func TestIntervalsCopies(t *testing.T) {
	p := Plain{{StartMs: 0, EndMs: 1000}}
	ivs := p.Intervals()
	ivs[0].EndMs = 9999
	if p[0].EndMs != 1000 {
		t.Error("Intervals must not alias the timeline")
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0.0"},
		{1000, "1.0"},
		{1500, "1.5"},
		{2500, "2.5"},
		{12345, "12.345"},
		{1, "0.001"},
		{6000000, "6000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSeconds(tt.ms); got != tt.want {
				t.Errorf("FormatSeconds(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

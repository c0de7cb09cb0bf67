package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mgpai22/sublane/internal/timeline"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}

func TestParseProbeDuration(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    int64
		wantErr bool
	}{
		{
			name: "frame count",
			json: `{"streams":[{"codec_type":"audio","sample_rate":"16000","duration_ts":207999,"duration":"12.999938"}]}`,
			want: 12000,
		},
		{
			name: "skips video stream",
			json: `{"streams":[{"codec_type":"video","duration":"99.0"},{"codec_type":"audio","sample_rate":"44100","duration_ts":441000}]}`,
			want: 10000,
		},
		{
			name: "stream duration fallback",
			json: `{"streams":[{"codec_type":"audio","sample_rate":"48000","duration":"3.7"}]}`,
			want: 3000,
		},
		{
			name: "format duration fallback",
			json: `{"streams":[],"format":{"duration":"61.2"}}`,
			want: 61000,
		},
		{
			name: "short audio",
			json: `{"format":{"duration":"0.8"}}`,
			want: 0,
		},
		{
			name:    "no duration",
			json:    `{"streams":[{"codec_type":"audio","duration":"N/A"}],"format":{}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			json:    `ffprobe exploded`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProbeDuration([]byte(tt.json))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProberDurationMs(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "speech.wav")
	touch(t, audioPath)

	var gotArgs []string
	p := &Prober{
		ffprobePath: func() (string, error) { return "/bin/ffprobe", nil },
		run: func(_ context.Context, name string, args ...string) ([]byte, error) {
			if name != "/bin/ffprobe" {
				t.Errorf("unexpected binary %q", name)
			}
			gotArgs = args
			return []byte(`{"streams":[{"codec_type":"audio","sample_rate":"8000","duration_ts":16000}]}`), nil
		},
	}

	got, err := p.DurationMs(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("DurationMs: %v", err)
	}
	if got != 2000 {
		t.Errorf("got %d, want 2000", got)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != audioPath {
		t.Errorf("expected audio path as last argument, got %v", gotArgs)
	}
}

func TestProberErrors(t *testing.T) {
	p := &Prober{
		ffprobePath: func() (string, error) { return "ffprobe", nil },
		run: func(context.Context, string, ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		},
	}

	if _, err := p.DurationMs(context.Background(), filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}

	audioPath := filepath.Join(t.TempDir(), "speech.wav")
	touch(t, audioPath)
	if _, err := p.DurationMs(context.Background(), audioPath); err == nil {
		t.Error("expected error when ffprobe fails")
	}
}

type recordedCut struct {
	out        string
	start, dur float64
}

func TestSliceRegions(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "speech.flac")
	touch(t, audioPath)
	outDir := filepath.Join(dir, "clips")

	regions := timeline.Plain{
		{StartMs: 0, EndMs: 6000},
		{StartMs: 6000, EndMs: 12000},
		{StartMs: 12000, EndMs: 12000},
	}

	var (
		mu   sync.Mutex
		cuts = map[string]recordedCut{}
	)
	cut := func(in, out string, start, dur float64) error {
		if in != audioPath {
			t.Errorf("unexpected input %q", in)
		}
		mu.Lock()
		cuts[out] = recordedCut{out: out, start: start, dur: dur}
		mu.Unlock()
		return os.WriteFile(out, []byte("clip"), 0644)
	}

	opts := SliceOptions{Concurrency: 2, Padding: 250 * time.Millisecond}
	clips, err := sliceRegions(context.Background(), audioPath, regions, outDir, opts, cut)
	if err != nil {
		t.Fatalf("sliceRegions: %v", err)
	}

	if len(clips) != len(regions) {
		t.Fatalf("expected %d clips, got %d", len(regions), len(clips))
	}

	wantPaths := []string{
		filepath.Join(outDir, "speech-0000-0000.000-0006.250.flac"),
		filepath.Join(outDir, "speech-0001-0005.750-0012.250.flac"),
		"",
	}
	for i, clip := range clips {
		if clip.Index != i || clip.Region != regions[i] {
			t.Errorf("clip %d: unexpected %+v", i, clip)
		}
		if clip.Path != wantPaths[i] {
			t.Errorf("clip %d: got path %q, want %q", i, clip.Path, wantPaths[i])
		}
	}

	if len(cuts) != 2 {
		t.Fatalf("expected 2 cuts, got %d", len(cuts))
	}
	second := cuts[wantPaths[1]]
	if math.Abs(second.start-5.75) > 1e-9 || math.Abs(second.dur-6.5) > 1e-9 {
		t.Errorf("second cut: unexpected %+v", second)
	}

	if err := CleanupClips(clips); err != nil {
		t.Fatalf("CleanupClips: %v", err)
	}
	for _, p := range wantPaths[:2] {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("clip %s not removed", p)
		}
	}
}

func TestSliceRegionsDuplicateIntervals(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "a.flac")
	touch(t, audioPath)
	outDir := filepath.Join(dir, "clips")

	var (
		mu      sync.Mutex
		outputs []string
	)
	cut := func(in, out string, start, dur float64) error {
		mu.Lock()
		outputs = append(outputs, out)
		mu.Unlock()
		return os.WriteFile(out, []byte("clip"), 0644)
	}

	// styled ASS lines often share one timing
	regions := timeline.Plain{
		{StartMs: 1000, EndMs: 3000},
		{StartMs: 1000, EndMs: 3000},
	}
	clips, err := sliceRegions(context.Background(), audioPath, regions, outDir, SliceOptions{Concurrency: 2}, cut)
	if err != nil {
		t.Fatalf("sliceRegions: %v", err)
	}

	if clips[0].Path == "" || clips[0].Path == clips[1].Path {
		t.Fatalf("regions 0 and 1 share clip file %q", clips[0].Path)
	}
	if len(outputs) != 2 || outputs[0] == outputs[1] {
		t.Errorf("expected two distinct cut outputs, got %v", outputs)
	}

	if err := CleanupClips(clips); err != nil {
		t.Fatalf("CleanupClips: %v", err)
	}
}

func TestSliceRegionsCutFailure(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "speech.flac")
	touch(t, audioPath)

	cut := func(in, out string, start, dur float64) error {
		if start > 1 {
			return errors.New("ffmpeg failed")
		}
		return os.WriteFile(out, []byte("clip"), 0644)
	}

	regions := timeline.Plain{{StartMs: 0, EndMs: 1000}, {StartMs: 5000, EndMs: 6000}}
	_, err := sliceRegions(context.Background(), audioPath, regions, dir, SliceOptions{Concurrency: 1}, cut)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSliceRegionsRejectsInvalidRegions(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "speech.flac")
	touch(t, audioPath)

	cut := func(string, string, float64, float64) error {
		t.Error("cut should not be called")
		return nil
	}

	regions := timeline.Plain{{StartMs: 2000, EndMs: 1000}}
	_, err := sliceRegions(context.Background(), audioPath, regions, dir, SliceOptions{}, cut)

	var vErr *timeline.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSliceRegionsCancelled(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "speech.flac")
	touch(t, audioPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cut := func(string, string, float64, float64) error { return nil }
	_, err := sliceRegions(ctx, audioPath, timeline.Plain{{StartMs: 0, EndMs: 1000}}, dir, SliceOptions{}, cut)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConvertArgs(t *testing.T) {
	args := convertArgs(DefaultConvertOptions())
	if args["acodec"] != "flac" {
		t.Errorf("expected flac codec, got %v", args["acodec"])
	}
	if args["ar"] != 16000 || args["ac"] != 1 {
		t.Errorf("unexpected sample rate/channels: %v", args)
	}
	if _, ok := args["b:a"]; ok {
		t.Error("flac output should not set a bitrate")
	}

	mp3 := convertArgs(ConvertOptions{Format: "mp3", Bitrate: "64k"})
	if mp3["acodec"] != "libmp3lame" || mp3["b:a"] != "64k" {
		t.Errorf("unexpected mp3 args: %v", mp3)
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"movie.MKV", true},
		{"talk.flac", true},
		{"song.mp3", true},
		{"subs.srt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsMediaFile(tt.path); got != tt.want {
			t.Errorf("IsMediaFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

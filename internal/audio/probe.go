package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"

	ffmpegbin "github.com/mgpai22/sublane/internal/ffmpeg"
)

// runs a binary and returns its stdout
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, err
	}
	return out.Bytes(), nil
}

// Prober reports audio durations using ffprobe.
type Prober struct {
	run         commandRunner
	ffprobePath func() (string, error)
}

func NewProber() *Prober {
	return &Prober{
		run:         execRunner,
		ffprobePath: ffmpegbin.FFprobePath,
	}
}

// JSON output from ffprobe -show_streams -show_format
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	DurationTS int64  `json:"duration_ts"`
	Duration   string `json:"duration"`
}

// DurationMs returns the length of the first audio stream in whole
// seconds, expressed in milliseconds. Partial seconds are dropped, the
// same way a frame count divided by the frame rate truncates.
func (p *Prober) DurationMs(ctx context.Context, audioPath string) (int64, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", audioPath)
	}

	ffprobePath, err := p.ffprobePath()
	if err != nil {
		return 0, err
	}

	out, err := p.run(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		audioPath,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeDuration(out)
}

func parseProbeDuration(data []byte) (int64, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		rate, err := strconv.ParseInt(stream.SampleRate, 10, 64)
		if err == nil && rate > 0 && stream.DurationTS > 0 {
			return (stream.DurationTS / rate) * 1000, nil
		}
		if secs, ok := parseSeconds(stream.Duration); ok {
			return wholeSecondsMs(secs), nil
		}
		break
	}

	if secs, ok := parseSeconds(probe.Format.Duration); ok {
		return wholeSecondsMs(secs), nil
	}
	return 0, fmt.Errorf("ffprobe reported no duration")
}

func parseSeconds(s string) (float64, bool) {
	if s == "" || s == "N/A" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	return secs, true
}

func wholeSecondsMs(secs float64) int64 {
	return int64(math.Floor(secs)) * 1000
}

package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/sublane/internal/ffmpeg"
	"github.com/mgpai22/sublane/internal/timeline"
)

// one speech region cut out of the source audio
type Clip struct {
	Index  int
	Region timeline.Interval
	// empty for zero-length regions, which are never cut
	Path string
}

// settings for audio conversion
type ConvertOptions struct {
	Format     string // Output format (flac, mp3, aac, wav)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate for lossy formats (e.g., "64k")
}

// defaults for speech recognition input
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{
		Format:     "flac",
		SampleRate: 16000,
		Channels:   1,
	}
}

// Convert re-encodes inputPath (audio or video) into an audio-only file.
func Convert(
	ctx context.Context,
	inputPath, outputPath string,
	opts ConvertOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, convertArgs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	return nil
}

func convertArgs(opts ConvertOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "", // No video
		"y":  "", // Overwrite output
	}
	if opts.SampleRate > 0 {
		kwargs["ar"] = opts.SampleRate
	}
	if opts.Channels > 0 {
		kwargs["ac"] = opts.Channels
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
	case "aac":
		kwargs["acodec"] = "aac"
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	default:
		kwargs["acodec"] = "flac"
	}
	if opts.Bitrate != "" && (opts.Format == "mp3" || opts.Format == "aac") {
		kwargs["b:a"] = opts.Bitrate
	}

	return kwargs
}

// SliceOptions controls how regions are cut.
type SliceOptions struct {
	// If Concurrency is 0 or negative, 10 workers are used.
	Concurrency int
	// context kept around each region; the start is only moved back
	// when the region begins later than Padding
	Padding time.Duration
}

func DefaultSliceOptions() SliceOptions {
	return SliceOptions{
		Concurrency: 10,
		Padding:     250 * time.Millisecond,
	}
}

// cuts [start, start+dur) seconds of in into out
type cutFunc func(in, out string, start, dur float64) error

func ffmpegCut(ffmpegPath string) cutFunc {
	return func(in, out string, start, dur float64) error {
		kwargs := ffmpeg.KwArgs{
			"ss": start,
			"t":  dur,
			"y":  "",
			"c":  "copy", // Copy codec for speed
		}
		return ffmpeg.Input(in).
			Output(out, kwargs).
			OverWriteOutput().
			SetFfmpegPath(ffmpegPath).
			Run()
	}
}

// SliceRegions cuts every non-empty region of audioPath into its own
// file under outputDir, keeping the source container. Clips come back
// in region order.
func SliceRegions(
	ctx context.Context,
	audioPath string,
	regions timeline.Plain,
	outputDir string,
	opts SliceOptions,
) ([]Clip, error) {
	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}
	return sliceRegions(ctx, audioPath, regions, outputDir, opts, ffmpegCut(ffmpegPath))
}

type sliceJob struct {
	index        int
	startSeconds float64
	endSeconds   float64
	clipPath     string
}

func sliceRegions(
	ctx context.Context,
	audioPath string,
	regions timeline.Plain,
	outputDir string,
	opts SliceOptions,
	cut cutFunc,
) ([]Clip, error) {
	if err := regions.Validate(); err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	baseName := strings.TrimSuffix(
		filepath.Base(audioPath),
		filepath.Ext(audioPath),
	)
	ext := filepath.Ext(audioPath)
	padding := opts.Padding.Seconds()

	clips := make([]Clip, len(regions))
	var jobs []sliceJob
	for i, region := range regions {
		clips[i] = Clip{Index: i, Region: region}
		if region.DurationMs() == 0 {
			continue
		}

		startSeconds := float64(region.StartMs) / 1000
		endSeconds := float64(region.EndMs) / 1000
		if startSeconds > padding {
			startSeconds -= padding
		}
		endSeconds += padding

		jobs = append(jobs, sliceJob{
			index:        i,
			startSeconds: startSeconds,
			endSeconds:   endSeconds,
			clipPath: filepath.Join(
				outputDir,
				fmt.Sprintf("%s-%04d-%08.3f-%08.3f%s", baseName, i, startSeconds, endSeconds, ext),
			),
		})
	}

	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)

	// semaphore to limit concurrency
	sem := make(chan struct{}, concurrency)

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		mu.Lock()
		hasErr := firstErr != nil
		mu.Unlock()
		if hasErr {
			break
		}

		wg.Add(1)
		go func(j sliceJob) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			err := cut(audioPath, j.clipPath, j.startSeconds, j.endSeconds-j.startSeconds)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to cut region %d: %w", j.index, err)
				}
				return
			}
			clips[j.index].Path = j.clipPath
		}(job)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		_ = CleanupClips(clips)
		return nil, err
	}
	if firstErr != nil {
		_ = CleanupClips(clips)
		return nil, firstErr
	}

	return clips, nil
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// removes all clip files
func CleanupClips(clips []Clip) error {
	var lastErr error
	for _, clip := range clips {
		if clip.Path == "" {
			continue
		}
		if err := os.Remove(clip.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}

package transcribe

import (
	"context"
	"fmt"
	"sync"

	"github.com/mgpai22/sublane/internal/audio"
	"github.com/mgpai22/sublane/internal/logging"
	"github.com/mgpai22/sublane/internal/timeline"
)

// transcription of one speech clip
type Result struct {
	Text     string
	Language string
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Providers lists every supported provider name.
var Providers = []Provider{ProviderGemini, ProviderOpenAI}

// transcription options
type Options struct {
	Language           string // Source language of audio
	TranscriptLanguage string // Output language for transcript (default: "native")
	Model              string
	Prompt             string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// holds the result of transcribing a clip
type clipResult struct {
	Index int
	Text  string
	Error error
}

// TranscribeRegions transcribes every clip with up to concurrency
// parallel requests and pairs the texts with the clip regions. Clips
// without a file get empty text. The first failure cancels the rest.
func TranscribeRegions(
	ctx context.Context,
	t Transcriber,
	clips []audio.Clip,
	concurrency int,
	logger *logging.Logger,
) (timeline.Texted, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if len(clips) == 0 {
		return timeline.Texted{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.Clip)
	resultChan := make(chan clipResult, len(clips))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case clip, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					text, err := transcribeClip(ctx, t, clip)
					if err != nil {
						cancel()
					}
					resultChan <- clipResult{
						Index: clip.Index,
						Text:  text,
						Error: err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, clip := range clips {
			select {
			case <-ctx.Done():
				return
			case workChan <- clip:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]clipResult, 0, len(clips))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"region %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
			logger.Debugw("Region transcribed",
				"region", result.Index,
				"done", len(results),
				"total", len(clips),
			)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if len(results) != len(clips) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("transcribed %d of %d regions", len(results), len(clips))
	}

	// results arrive out of order
	texts := make(map[int]string, len(results))
	for _, r := range results {
		texts[r.Index] = r.Text
	}

	texted := make(timeline.Texted, len(clips))
	for i, clip := range clips {
		texted[i] = timeline.TimedText{
			Interval: clip.Region,
			Text:     texts[clip.Index],
		}
	}

	return texted, nil
}

func transcribeClip(ctx context.Context, t Transcriber, clip audio.Clip) (string, error) {
	if clip.Path == "" {
		return "", nil
	}
	result, err := t.Transcribe(ctx, clip.Path)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

package cli

import (
	"testing"

	"github.com/mgpai22/sublane/internal/config"
	"github.com/mgpai22/sublane/internal/subtitle"
	"github.com/mgpai22/sublane/internal/transcribe"
)

func TestIsValidOpenAITranscriptLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		// Valid cases
		{"", true},
		{"native", true},
		{"Native", true},
		{" native ", true},
		{"english", true},
		{"ENGLISH", true},
		{"en", true},
		{" en ", true},

		// Invalid cases - non-English languages
		{"spanish", false},
		{"japanese", false},
		{"es", false},
		{"ja", false},
		{"zh", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := isValidOpenAITranscriptLanguage(tt.lang)
			if got != tt.want {
				t.Errorf(
					"isValidOpenAITranscriptLanguage(%q) = %v, want %v",
					tt.lang,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestResolveGenerateSettingsMergesConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

	c := config.Default()
	c.Output.Format = "json"
	c.Regions.MaxRegionMs = 4000
	c.Transcribe.Provider = "gemini"
	c.Translate.Provider = "anthropic"
	c.Translate.BatchSize = 20
	cfg = &c

	if err := generateCmd.ParseFlags([]string{
		"--from", "episode.ass",
		"--max-region-ms", "2500",
		"--target-language", "english",
		"--bilingual",
		"--concurrency", "4",
	}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	s, err := resolveGenerateSettings(generateCmd)
	if err != nil {
		t.Fatalf("resolveGenerateSettings failed: %v", err)
	}

	if s.format != subtitle.FormatJSON {
		t.Errorf("format should come from config, got %q", s.format)
	}
	if s.maxRegionMs != 2500 {
		t.Errorf("max region flag should win, got %d", s.maxRegionMs)
	}
	if s.provider != transcribe.ProviderGemini || s.apiKey != "gemini-key" {
		t.Errorf("unexpected transcription provider %q with key %q", s.provider, s.apiKey)
	}
	if s.concurrency != 4 {
		t.Errorf("concurrency flag should win, got %d", s.concurrency)
	}
	if !s.bilingual || s.targetLang != "english" {
		t.Errorf("unexpected translation target %q (bilingual=%v)", s.targetLang, s.bilingual)
	}
	if s.translateConfig.Provider != "anthropic" || s.translateKey != "anthropic-key" {
		t.Errorf("unexpected translation provider %q with key %q", s.translateConfig.Provider, s.translateKey)
	}
	if s.translateConfig.BatchSize != 20 {
		t.Errorf("batch size should come from config, got %d", s.translateConfig.BatchSize)
	}
	if s.maxLineChars != c.Output.MaxLineChars {
		t.Errorf("line width should come from config, got %d", s.maxLineChars)
	}
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Regions controls how subtitle events become speech regions.
type Regions struct {
	MaxRegionMs int64  `toml:"max_region_ms" validate:"gt=0"`
	Style       string `toml:"style"`
}

// Output controls rendering.
type Output struct {
	Format       string `toml:"format" validate:"oneof=vtt json txt"`
	Dir          string `toml:"dir"`
	MaxLineChars int    `toml:"max_line_chars" validate:"gte=0"`
}

// Transcribe configures speech-to-text for sliced regions.
type Transcribe struct {
	Provider    string `toml:"provider" validate:"oneof=openai gemini"`
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	Concurrency int    `toml:"concurrency" validate:"gte=1,lte=64"`
}

// Translate configures optional translation of transcribed text.
type Translate struct {
	Provider       string `toml:"provider" validate:"oneof=gemini openai anthropic"`
	Model          string `toml:"model"`
	TargetLanguage string `toml:"target_language"`
	BatchSize      int    `toml:"batch_size" validate:"gte=1,lte=500"`
	Concurrency    int    `toml:"concurrency" validate:"gte=1,lte=64"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Config encapsulates all configuration values for sublane.
type Config struct {
	Regions    Regions    `toml:"regions"`
	Output     Output     `toml:"output"`
	Transcribe Transcribe `toml:"transcribe"`
	Translate  Translate  `toml:"translate"`
	Logging    Logging    `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Regions: Regions{
			MaxRegionMs: 6000,
			Style:       "Default",
		},
		Output: Output{
			Format:       "vtt",
			MaxLineChars: 42,
		},
		Transcribe: Transcribe{
			Provider:    "openai",
			Concurrency: 10,
		},
		Translate: Translate{
			Provider:    "gemini",
			BatchSize:   50,
			Concurrency: 3,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sublane/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing
// file is not an error; defaults are returned instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("sublane.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Regions.Style = strings.TrimSpace(c.Regions.Style)
	if c.Regions.Style == "" {
		c.Regions.Style = "Default"
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Dir != "" {
		dir, err := expandPath(c.Output.Dir)
		if err != nil {
			return fmt.Errorf("output dir: %w", err)
		}
		c.Output.Dir = dir
	}

	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	c.Transcribe.Model = strings.TrimSpace(c.Transcribe.Model)
	c.Transcribe.Language = strings.TrimSpace(c.Transcribe.Language)

	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	c.Translate.Model = strings.TrimSpace(c.Translate.Model)
	c.Translate.TargetLanguage = strings.TrimSpace(c.Translate.TargetLanguage)

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldKey(fe)+": "+describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

// maps Config.Output.Format to output.format
func fieldKey(fe validator.FieldError) string {
	ns := strings.TrimPrefix(fe.StructNamespace(), "Config.")
	parts := strings.Split(ns, ".")
	for i, part := range parts {
		parts[i] = toSnakeCase(part)
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func toSnakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			// MaxRegionMs -> max_region_ms
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

var apiKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// APIKey returns flagValue when set, else the provider's environment
// variable.
func APIKey(provider, flagValue string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	envName, ok := apiKeyEnv[strings.ToLower(provider)]
	if !ok {
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
	if key := strings.TrimSpace(os.Getenv(envName)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"%s API key required: use --api-key flag or set %s environment variable",
		provider,
		envName,
	)
}

package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// scanner limit for long ASS dialogue lines
const maxLineBytes = 1024 * 1024

// Open reads a subtitle document. The format comes from the file
// extension, or from the content when the extension is unknown.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}

	format, err := DetectFormat(path, data)
	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(data), format)
}

// Parse reads a document of a known format.
func Parse(r io.Reader, format Format) (*Document, error) {
	var (
		events []Event
		err    error
	)
	switch format {
	case FormatSRT:
		events, err = parseSRT(r)
	case FormatVTT:
		events, err = parseVTT(r)
	case FormatASS:
		events, err = parseASS(r)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return &Document{Events: events, Format: format}, nil
}

// DetectFormat picks a readable format from the extension, falling
// back to sniffing the content.
func DetectFormat(path string, content []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	case ".ass", ".ssa":
		return FormatASS, nil
	}

	text := strings.TrimPrefix(string(content), "\ufeff")
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "WEBVTT"):
		return FormatVTT, nil
	case strings.Contains(text, "[Script Info]"), strings.Contains(text, "[Events]"):
		return FormatASS, nil
	case strings.Contains(text, "-->"):
		return FormatSRT, nil
	}

	return "", fmt.Errorf(
		"unsupported subtitle format: %s",
		filepath.Ext(path),
	)
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

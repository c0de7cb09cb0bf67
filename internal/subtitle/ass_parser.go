package subtitle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var assLeadingTagsRegex = regexp.MustCompile(`^(\{[^}]*\})+`)

// column positions resolved from the [Events] Format line
type assColumns struct {
	count int
	start int
	end   int
	style int
	text  int
}

func newASSColumns(formatLine string) (assColumns, error) {
	cols := assColumns{start: -1, end: -1, style: -1, text: -1}

	fields := strings.Split(strings.TrimPrefix(formatLine, "Format:"), ",")
	cols.count = len(fields)
	for i, field := range fields {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "style":
			cols.style = i
		case "text":
			cols.text = i
		}
	}

	if cols.text == -1 {
		return cols, fmt.Errorf("ASS file missing Text column in Format line")
	}
	if cols.start == -1 || cols.end == -1 {
		return cols, fmt.Errorf("ASS file missing Start/End columns in Format line")
	}
	return cols, nil
}

func parseASS(r io.Reader) ([]Event, error) {
	scanner := newScanner(r)

	var events []Event
	var cols *assColumns
	inEvents := false
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(strings.Trim(trimmed, "[]"))
			inEvents = section == "events"
			continue
		}
		if !inEvents {
			continue
		}

		if strings.HasPrefix(trimmed, "Format:") {
			parsed, err := newASSColumns(trimmed)
			if err != nil {
				return nil, err
			}
			cols = &parsed
			continue
		}

		comment := strings.HasPrefix(trimmed, "Comment:")
		if !comment && !strings.HasPrefix(trimmed, "Dialogue:") {
			continue
		}
		if cols == nil {
			return nil, fmt.Errorf(
				"ASS event at line %d precedes the Format line",
				lineNum,
			)
		}

		content := trimmed[strings.Index(trimmed, ":")+1:]
		event, err := cols.parseEvent(strings.TrimSpace(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse event at line %d: %w", lineNum, err)
		}
		event.Comment = comment
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}

	if cols == nil {
		return nil, fmt.Errorf(
			"ASS file missing Format line in [Events] section",
		)
	}

	return events, nil
}

func (c assColumns) parseEvent(content string) (Event, error) {
	parts := splitASSFields(content, c.count)
	if len(parts) < c.count {
		return Event{}, fmt.Errorf(
			"expected %d fields, got %d",
			c.count,
			len(parts),
		)
	}

	start, err := parseASSTimestamp(parts[c.start])
	if err != nil {
		return Event{}, fmt.Errorf("invalid start %q: %w", parts[c.start], err)
	}
	end, err := parseASSTimestamp(parts[c.end])
	if err != nil {
		return Event{}, fmt.Errorf("invalid end %q: %w", parts[c.end], err)
	}

	event := Event{
		Start: start,
		End:   end,
		Text:  plainASSText(parts[c.text]),
	}
	if c.style >= 0 {
		event.Style = strings.TrimSpace(parts[c.style])
	}
	return event, nil
}

// splitASSFields splits on commas, leaving any commas inside the last
// (Text) field alone.
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", numFields)
}

func extractLeadingTags(text string) (string, string) {
	match := assLeadingTagsRegex.FindString(text)
	if match == "" {
		return "", text
	}
	return match, text[len(match):]
}

// plainASSText drops leading override tags and turns \N line breaks into
// newlines.
func plainASSText(text string) string {
	_, text = extractLeadingTags(text)
	text = strings.ReplaceAll(text, "\\N", "\n")
	return strings.ReplaceAll(text, "\\n", "\n")
}

// parseASSTimestamp reads H:MM:SS.cc
func parseASSTimestamp(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected H:MM:SS.cc")
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}

	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, fmt.Errorf("expected fractional seconds")
	}
	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, err
	}

	// centiseconds in well-formed files, milliseconds tolerated
	frac := secParts[1]
	if len(frac) > 3 {
		frac = frac[:3]
	}
	fracValue, err := strconv.Atoi(frac)
	if err != nil {
		return 0, err
	}
	var fracDur time.Duration
	switch len(frac) {
	case 1:
		fracDur = time.Duration(fracValue) * 100 * time.Millisecond
	case 2:
		fracDur = time.Duration(fracValue) * 10 * time.Millisecond
	default:
		fracDur = time.Duration(fracValue) * time.Millisecond
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		fracDur, nil
}

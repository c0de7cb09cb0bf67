package timeline

import "fmt"

// malformed interval: negative, inverted or (for NewInterval) empty
type ValidationError struct {
	// position in the input sequence, -1 when not part of a sequence
	Index   int
	StartMs int64
	EndMs   int64
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf(
			"invalid interval (%d, %d): %s",
			e.StartMs,
			e.EndMs,
			e.Reason,
		)
	}
	return fmt.Sprintf(
		"invalid interval %d (%d, %d): %s",
		e.Index,
		e.StartMs,
		e.EndMs,
		e.Reason,
	)
}

// text list and source document disagree on length
type LengthMismatchError struct {
	Texts  int
	Events int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf(
		"text list has %d entries but source has %d events",
		e.Texts,
		e.Events,
	)
}

// renderer invoked with nothing to render
type EmptyInputError struct {
	Renderer string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s renderer: empty input", e.Renderer)
}

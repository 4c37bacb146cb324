package blf

import (
	"errors"
	"fmt"
)

// Returned by Extract when the buffer has no "_blf" marker at all. This is
// the normal outcome for any file that isn't a container.
var ErrNotAContainer = errors.New("No _blf marker found, not a container")

// A Processor was asked to decide about a file without a Session to ask
var ErrNoSession = errors.New("No decision session set")

// A fixed length read went past the end of the buffer. Only ReadField
// produces this; the extractor turns it into a TruncatedContainerError.
type OutOfBoundsError struct {
	Offset int
	Length int
	Size   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("Read of %d bytes at 0x%X out of bounds (buffer is %d bytes)",
		e.Length, e.Offset, e.Size)
}

// The container marker was there but the buffer is too short to hold the
// fixed metadata fields. Usually a partial download or a foreign file that
// happens to contain "_blf".
type TruncatedContainerError struct {
	Field  string
	Offset int
	Length int
	Size   int
}

func (e *TruncatedContainerError) Error() string {
	return fmt.Sprintf("Container truncated: field %s needs 0x%X bytes at 0x%X, buffer is only %d bytes",
		e.Field, e.Length, e.Offset, e.Size)
}

// A screenshot container without a JPEG start or end marker after the
// container marker
type PatternNotFoundError struct {
	Pattern string
	From    int
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("Pattern %s not found after offset %d", e.Pattern, e.From)
}

// A non-image container without the stop sequence after the container marker
type StopSequenceNotFoundError struct {
	From int
}

func (e *StopSequenceNotFoundError) Error() string {
	return fmt.Sprintf("Stop sequence %s not found after offset %d", StopSequence, e.From)
}

// Whether the error means "valid container, but the payload couldn't be
// located". These are worth reporting but never stop a batch.
func IsPayloadMissing(err error) bool {
	var pnf *PatternNotFoundError
	var snf *StopSequenceNotFoundError
	return errors.As(err, &pnf) || errors.As(err, &snf)
}

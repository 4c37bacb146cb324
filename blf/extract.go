package blf

import (
	"encoding/hex"
)

// Where the payload lives inside the original buffer: [Start, End)
type ExtractionResult struct {
	Start     int
	End       int
	Kind      ContentKind
	Extension string
}

func (r *ExtractionResult) Length() int {
	return r.End - r.Start
}

// The payload as a sub-slice of data (no copy). data must be the buffer the
// result was computed from.
func (r *ExtractionResult) Payload(data []byte) []byte {
	return data[r.Start:r.End]
}

// Like Payload but the caller owns the returned bytes
func (r *ExtractionResult) CopyPayload(data []byte) []byte {
	result := make([]byte, r.Length())
	copy(result, data[r.Start:r.End])
	return result
}

// Everything Extract learned about one buffer. Result is nil when the kind
// is unknown or the payload boundaries couldn't be found.
type Extraction struct {
	Metadata     ContainerMetadata
	Kind         ContentKind
	MarkerOffset int
	Result       *ExtractionResult
}

// Computes the payload range for a kind, given the container marker offset
type rangeRule func(data []byte, marker int) (int, int, error)

var rangeRules = map[ContentKind]rangeRule{
	KindGameType:    stopSequenceRange,
	KindMapVariant:  stopSequenceRange,
	KindTheaterFilm: stopSequenceRange,
	KindScreenshot:  jpegRange,
}

// The embedded JPEG, from the JFIF start of image through the end of image
// marker (inclusive)
func jpegRange(data []byte, marker int) (int, int, error) {
	start, ok := FindPattern(data, JpegStartPattern, marker)
	if !ok {
		return 0, 0, &PatternNotFoundError{Pattern: hex.EncodeToString(JpegStartPattern), From: marker}
	}
	end, ok := FindPattern(data, JpegEndPattern, start)
	if !ok {
		return 0, 0, &PatternNotFoundError{Pattern: hex.EncodeToString(JpegEndPattern), From: start}
	}
	return start, end + len(JpegEndPattern), nil
}

// From the container marker through the stop sequence and its footer
func stopSequenceRange(data []byte, marker int) (int, int, error) {
	stop, ok := FindASCII(data, StopSequence, marker)
	if !ok {
		return 0, 0, &StopSequenceNotFoundError{From: marker}
	}
	end := stop + len(StopSequence) + StopSequencePadding
	if end > len(data) {
		// Footer cut short; take what's there
		end = len(data)
	}
	return marker, end, nil
}

// Classify the buffer and locate its payload. data is only read, never kept.
//
// Errors:
//   - ErrNotAContainer: no marker, nothing else was read
//   - *TruncatedContainerError: too short for the metadata fields
//   - *PatternNotFoundError, *StopSequenceNotFoundError: the extraction is
//     still returned (metadata and kind filled in, Result nil)
//
// An unknown header type is not an error: the extraction comes back with a
// nil Result.
func Extract(data []byte) (*Extraction, error) {
	marker, ok := FindASCII(data, MagicMarker, 0)
	if !ok {
		return nil, ErrNotAContainer
	}
	meta, err := ParseMetadata(data)
	if err != nil {
		return nil, err
	}
	result := &Extraction{
		Metadata:     *meta,
		Kind:         meta.Kind(),
		MarkerOffset: marker,
	}
	rule, ok := rangeRules[result.Kind]
	if !ok {
		return result, nil
	}
	start, end, err := rule(data, marker)
	if err != nil {
		return result, err
	}
	result.Result = &ExtractionResult{
		Start:     start,
		End:       end,
		Kind:      result.Kind,
		Extension: result.Kind.Extension(),
	}
	return result, nil
}

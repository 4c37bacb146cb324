package blf

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Answers from a list, in order, and remembers what it was asked about
type scriptedDecider struct {
	answers []Response
	asked   []string
}

func (d *scriptedDecider) Decide(file string, ext *Extraction) (Response, error) {
	if len(d.answers) == 0 {
		return ResponseNo, errors.New("Out of answers")
	}
	d.asked = append(d.asked, file)
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer, nil
}

func testExtraction(headerType string) *Extraction {
	meta := sampleMetadata(headerType)
	ext := &Extraction{Metadata: *meta, Kind: meta.Kind(), MarkerOffset: 0}
	if ext.Kind != KindUnknown {
		ext.Result = &ExtractionResult{Start: 0, End: 10, Kind: ext.Kind, Extension: ext.Kind.Extension()}
	}
	return ext
}

func TestParseResponse(t *testing.T) {
	expected := map[string]Response{
		"y": ResponseYes, "Y": ResponseYes, "yes\n": ResponseYes, " YES ": ResponseYes,
		"a": ResponseAllOfKind, "A\r\n": ResponseAllOfKind, "all": ResponseAllOfKind,
		"i": ResponseIgnoreAll, "I": ResponseIgnoreAll, "ignore": ResponseIgnoreAll,
		"n": ResponseNo, "no": ResponseNo, "": ResponseNo, "maybe": ResponseNo, "q": ResponseNo,
	}
	for input, response := range expected {
		assert.Equal(t, response, ParseResponse(input), "input %q", input)
	}
	for _, r := range []Response{ResponseNo, ResponseYes, ResponseAllOfKind, ResponseIgnoreAll} {
		assert.Equal(t, r, ParseResponse(r.String()))
	}
}

func TestParseDecision(t *testing.T) {
	for _, d := range []Decision{DecisionAsk, DecisionAlwaysConvert, DecisionAlwaysSkip} {
		parsed, err := ParseDecision(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	parsed, err := ParseDecision("Never")
	require.NoError(t, err)
	assert.Equal(t, DecisionAlwaysSkip, parsed)
	parsed, err = ParseDecision("")
	require.NoError(t, err)
	assert.Equal(t, DecisionAsk, parsed)
	_, err = ParseDecision("sometimes")
	assert.Error(t, err)
}

func TestSession_SingleAnswers(t *testing.T) {
	decider := &scriptedDecider{answers: []Response{ResponseYes, ResponseNo, ResponseYes}}
	session := NewSession(decider)
	ext := testExtraction("mpvr")

	for i, expected := range []bool{true, false, true} {
		convert, err := session.ShouldConvert("file", ext)
		require.NoError(t, err)
		assert.Equal(t, expected, convert, "answer %d", i)
	}
	assert.Len(t, decider.asked, 3)
	assert.Empty(t, session.Decisions)
}

func TestSession_AllOfKind(t *testing.T) {
	decider := &scriptedDecider{answers: []Response{ResponseAllOfKind, ResponseNo}}
	session := NewSession(decider)
	gametype := testExtraction("mpvr")

	for i := 0; i < 5; i++ {
		convert, err := session.ShouldConvert("gt", gametype)
		require.NoError(t, err)
		assert.True(t, convert)
	}
	assert.Len(t, decider.asked, 1)
	assert.Equal(t, DecisionAlwaysConvert, session.Decisions[KindGameType])

	// Other kinds are still asked about
	convert, err := session.ShouldConvert("map", testExtraction("mvar"))
	require.NoError(t, err)
	assert.False(t, convert)
	assert.Equal(t, []string{"gt", "map"}, decider.asked)
}

func TestSession_IgnoreAll(t *testing.T) {
	decider := &scriptedDecider{answers: []Response{ResponseIgnoreAll, ResponseYes}}
	session := NewSession(decider)

	convert, err := session.ShouldConvert("shot1", testExtraction("scnc"))
	require.NoError(t, err)
	assert.False(t, convert)
	convert, err = session.ShouldConvert("shot2", testExtraction("scnc"))
	require.NoError(t, err)
	assert.False(t, convert)
	assert.Equal(t, DecisionAlwaysSkip, session.Decisions[KindScreenshot])

	convert, err = session.ShouldConvert("film", testExtraction("athr"))
	require.NoError(t, err)
	assert.True(t, convert)
	assert.Equal(t, []string{"shot1", "film"}, decider.asked)
}

func TestSession_PresetDecisions(t *testing.T) {
	session := NewSession(nil)
	session.Decisions[KindTheaterFilm] = DecisionAlwaysConvert
	session.Decisions[KindMapVariant] = DecisionAlwaysSkip

	convert, err := session.ShouldConvert("film", testExtraction("athr"))
	require.NoError(t, err)
	assert.True(t, convert)
	convert, err = session.ShouldConvert("map", testExtraction("mvar"))
	require.NoError(t, err)
	assert.False(t, convert)

	// Nobody to ask
	_, err = session.ShouldConvert("gt", testExtraction("mpvr"))
	assert.Error(t, err)
}

func TestSession_UnknownNeverOffered(t *testing.T) {
	decider := &scriptedDecider{answers: []Response{ResponseYes}}
	session := NewSession(decider)
	convert, err := session.ShouldConvert("what", testExtraction("zzzz"))
	require.NoError(t, err)
	assert.False(t, convert)
	assert.Empty(t, decider.asked)
}

func TestSession_DeciderError(t *testing.T) {
	session := NewSession(&scriptedDecider{})
	_, err := session.ShouldConvert("gt", testExtraction("mpvr"))
	assert.Error(t, err)
	assert.Empty(t, session.Decisions)
}

func TestFixedDecider(t *testing.T) {
	session := NewSession(&FixedDecider{Response: ResponseYes})
	for _, tag := range []string{"mpvr", "mvar", "athr", "scnc", "mpvr"} {
		convert, err := session.ShouldConvert(tag, testExtraction(tag))
		require.NoError(t, err)
		assert.True(t, convert, tag)
	}
	assert.Empty(t, session.Decisions)
}

func TestConsolePrompter(t *testing.T) {
	in := strings.NewReader("y\nN\n a \nwhatever\ni")
	var out bytes.Buffer
	prompter := NewConsolePrompter(in, &out)
	ext := testExtraction("mpvr")

	expected := []Response{ResponseYes, ResponseNo, ResponseAllOfKind, ResponseNo, ResponseIgnoreAll}
	for i, e := range expected {
		r, err := prompter.Decide("file", ext)
		require.NoError(t, err, "prompt %d", i)
		assert.Equal(t, e, r, "prompt %d", i)
	}
	assert.Equal(t, strings.Repeat(ConsolePromptText, len(expected)), out.String())

	// Input exhausted reads as no
	r, err := prompter.Decide("file", ext)
	require.NoError(t, err)
	assert.Equal(t, ResponseNo, r)
}

func TestConsolePrompter_ClosedInput(t *testing.T) {
	var out bytes.Buffer
	session := NewSession(NewConsolePrompter(strings.NewReader(""), &out))
	for _, tag := range []string{"mpvr", "scnc", "mpvr"} {
		convert, err := session.ShouldConvert(tag, testExtraction(tag))
		require.NoError(t, err, tag)
		assert.False(t, convert, tag)
	}
	assert.Empty(t, session.Decisions)
}

package x12

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiters(t *testing.T) {
	delims, err := DetectDelimiters([]byte(sampleFile()))
	require.NoError(t, err)
	assert.Equal(t, '*', delims.Element)
	assert.Equal(t, ':', delims.SubElement)
	assert.Equal(t, '~', delims.Segment)
}

func TestDetectDelimitersLeadingWhitespace(t *testing.T) {
	delims, err := DetectDelimiters([]byte("\n  " + sampleFile()))
	require.NoError(t, err)
	assert.Equal(t, '*', delims.Element)
	assert.Equal(t, '~', delims.Segment)
}

func TestDetectDelimitersNonstandard(t *testing.T) {
	content := strings.ReplaceAll(sampleFile(), "*", "|")
	content = strings.ReplaceAll(content, "~", "!")
	content = strings.ReplaceAll(content, ":", ">")

	delims, err := DetectDelimiters([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, '|', delims.Element)
	assert.Equal(t, '>', delims.SubElement)
	assert.Equal(t, '!', delims.Segment)
}

func TestDetectDelimitersTooShort(t *testing.T) {
	_, err := DetectDelimiters([]byte("ISA*00*TRUNCATED~"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestDetectDelimitersMissingHeader(t *testing.T) {
	_, err := DetectDelimiters([]byte(strings.Repeat("GS*HC*X~", 40)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestReadSegments(t *testing.T) {
	msg, err := Read([]byte(sampleFile()))
	require.NoError(t, err)

	segments := msg.Segments()
	require.NotEmpty(t, segments)
	assert.Equal(t, "ISA", segments[0].ID())
	assert.Equal(t, "IEA", segments[len(segments)-1].ID())
	// ISA + GS + ST + body + SE + GE + IEA
	assert.Len(t, segments, len(sampleBody())+6)
}

func TestReadStripsLineBreaks(t *testing.T) {
	// Terminators only, no line structure at all.
	oneLine := strings.ReplaceAll(sampleFile(), "\n", "")
	msg, err := Read([]byte(oneLine))
	require.NoError(t, err)
	assert.Len(t, msg.Segments(), len(sampleBody())+6)
}

func TestReadRoundTrip(t *testing.T) {
	msg, err := Read([]byte(sampleFile()))
	require.NoError(t, err)

	again, err := Read([]byte(msg.String()))
	require.NoError(t, err)
	assert.Equal(t, msg.Segments(), again.Segments())
	assert.Equal(t, msg.Delimiters, again.Delimiters)
}

func TestRawSegmentAccessors(t *testing.T) {
	segment := RawSegment{"NM1", "85", "2", "CLINIC"}
	assert.Equal(t, "NM1", segment.ID())
	assert.Equal(t, "CLINIC", segment.Get(3))
	assert.Equal(t, "", segment.Get(9))
	assert.Equal(t, "", segment.Get(-1))
	assert.Equal(t, "", RawSegment{}.ID())
}

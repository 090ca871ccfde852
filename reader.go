package x12

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInput indicates the document could not be read at all. It is the only
// failure that stops the pipeline before tokenization.
var ErrInput = errors.New("input error")

var (
	ErrTooShort      = errors.New("document too short to contain an ISA header")
	ErrMissingHeader = errors.New("document does not begin with an ISA header")
)

// Delimiters holds the three structural separators detected from the ISA
// header. They are fixed for the whole document.
type Delimiters struct {
	Element    rune `json:"element"`
	SubElement rune `json:"subElement"`
	Segment    rune `json:"segment"`
}

// RawSegment is one tokenized segment: an ordered list of element strings,
// where the first element is the segment identifier.
type RawSegment []string

// ID returns the segment identifier (the first element), or an empty
// string for an empty segment.
func (s RawSegment) ID() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Get returns the element at the given index, or an empty string when the
// segment has no element at that position.
func (s RawSegment) Get(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	return s[i]
}

// RawMessage is the tokenized form of a document: the detected delimiters
// plus the ordered segment sequence every validator and the transformer
// consume.
type RawMessage struct {
	Delimiters Delimiters
	segments   []RawSegment
}

// Segments returns the ordered segment sequence.
func (r *RawMessage) Segments() []RawSegment {
	return r.segments
}

// String re-joins the segments using the detected delimiters. Tokenizing
// the result yields an identical segment sequence.
func (r *RawMessage) String() string {
	var b strings.Builder
	for _, segment := range r.segments {
		for i, element := range segment {
			if i > 0 {
				b.WriteRune(r.Delimiters.Element)
			}
			b.WriteString(element)
		}
		b.WriteRune(r.Delimiters.Segment)
	}
	return b.String()
}

// DetectDelimiters extracts the element separator, sub-element separator
// and segment terminator from the fixed-width ISA header record. The
// element and sub-element separators sit at fixed byte offsets; the
// segment terminator is the last non-whitespace character of the header
// record, which is isolated at the first line break since real-world
// inputs sometimes carry incidental line breaks before the terminator.
func DetectDelimiters(data []byte) (Delimiters, error) {
	var d Delimiters
	text := strings.TrimLeftFunc(string(data), unicode.IsSpace)

	runes := []rune(text)
	if len(runes) < isaByteCount {
		return d, fmt.Errorf(
			"%w: %w (expected at least %d characters, got %d)",
			ErrInput, ErrTooShort, isaByteCount, len(runes),
		)
	}
	if !strings.HasPrefix(text, isaSegmentId) {
		return d, fmt.Errorf("%w: %w", ErrInput, ErrMissingHeader)
	}

	d.Element = runes[isaElementSeparatorIndex]
	d.SubElement = runes[isaSubElementSeparatorIndex]

	headerEnd := strings.IndexRune(text[isaByteCount:], '\n')
	headerRecord := text
	if headerEnd != -1 {
		headerRecord = text[:isaByteCount+headerEnd]
	}
	headerRecord = strings.TrimSpace(headerRecord)
	headerRunes := []rune(headerRecord)
	d.Segment = headerRunes[len(headerRunes)-1]

	if d.Segment == d.Element {
		return d, fmt.Errorf(
			"%w: segment terminator %q cannot be the same as the element separator",
			ErrInput, d.Segment,
		)
	}
	return d, nil
}

// Read tokenizes the given document into a RawMessage. The only possible
// failure is delimiter detection; tokenization itself is purely
// mechanical. Line breaks are stripped before splitting because the
// segment terminator, not the line structure, is authoritative.
func Read(data []byte) (*RawMessage, error) {
	delims, err := DetectDelimiters(data)
	if err != nil {
		return nil, err
	}

	text := strings.NewReplacer("\r", "", "\n", "").Replace(string(data))
	msg := &RawMessage{Delimiters: delims}

	fragments := strings.Split(text, string(delims.Segment))
	msg.segments = make([]RawSegment, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		msg.segments = append(
			msg.segments,
			strings.Split(fragment, string(delims.Element)),
		)
	}
	return msg, nil
}

package edifact

import "strings"

// Service characters declared by the UNA segment.
const (
	ComponentSeparator = ':'
	ElementSeparator   = '+'
	DecimalMark        = '.'
	ReleaseCharacter   = '?'
	SegmentTerminator  = '\''

	// ServiceStringAdvice is the literal UNA segment. The space is the
	// reserved filler position.
	ServiceStringAdvice = "UNA:+.? '"
)

// Segment is one EDIFACT segment: a tag followed by data elements.
// Each element is already rendered, composite elements included.
type Segment struct {
	Tag      string
	Elements []string
}

// NewSegment builds a segment from its tag and rendered elements.
func NewSegment(tag string, elements ...string) Segment {
	return Segment{Tag: tag, Elements: elements}
}

// String renders the segment with its terminator, e.g. "BGM+220+PO1+9'".
func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(s.Tag)
	for _, el := range s.Elements {
		b.WriteByte(ElementSeparator)
		b.WriteString(el)
	}
	b.WriteByte(SegmentTerminator)
	return b.String()
}

// Composite joins component data elements with the component separator.
func Composite(components ...string) string {
	return strings.Join(components, string(ComponentSeparator))
}

var releaser = strings.NewReplacer(
	"?", "??",
	"'", "?'",
	"+", "?+",
	":", "?:",
)

// Escape prefixes every service character in s with the release character.
func Escape(s string) string {
	return releaser.Replace(s)
}

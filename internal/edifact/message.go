package edifact

import "strings"

// Layout selects how segments are joined when a message is rendered.
type Layout int

const (
	// LayoutLines puts every segment on its own line.
	LayoutLines Layout = iota
	// LayoutCompact writes the interchange as one line; the segment
	// terminator is the only delimiter.
	LayoutCompact
)

// ParseLayout maps a line-breaks flag to a Layout.
func ParseLayout(lineBreaks bool) Layout {
	if lineBreaks {
		return LayoutLines
	}
	return LayoutCompact
}

// Message is an encoded ORDERS interchange with its bookkeeping counters.
type Message struct {
	// Segments holds every segment from UNA to UNZ, terminators included.
	Segments []string

	// InterchangeRef (UNB, UNZ) and MessageRef (UNH, UNT) carry the same
	// drawn value.
	InterchangeRef int
	MessageRef     int

	// LineCount is the number of LIN groups, as reported by CNT.
	LineCount int

	// SegmentCount is the value written in UNT.
	SegmentCount int
}

// Text renders the message using layout.
func (m *Message) Text(layout Layout) string {
	if layout == LayoutCompact {
		return strings.Join(m.Segments, "")
	}
	return strings.Join(m.Segments, "\n")
}

// String renders the message one segment per line.
func (m *Message) String() string {
	return m.Text(LayoutLines)
}

// Find returns every segment starting with tag, in message order.
func (m *Message) Find(tag string) []string {
	var out []string
	prefix := tag + string(ElementSeparator)
	for _, s := range m.Segments {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out
}

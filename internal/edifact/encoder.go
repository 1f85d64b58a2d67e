// =============================================================================
// XML to EDIFACT Converter - EDIFACT Encoder
// =============================================================================
//
// This module maps a parsed purchase order to an EDIFACT ORDERS D.96A
// (EAN008) interchange. The segment order is fixed and must not change;
// trading partners validate positions and qualifiers strictly.
//
// SEGMENT LAYOUT:
//
//   UNA:+.? '                                     service string advice
//   UNB+UNOC:2+<sender>:14+<receiver>:14+<yymmdd>:<hhmm>+<ref>++ORDERS'
//   UNH+<ref>+ORDERS:D:96A:UN:EAN008'
//   BGM+220+<order number>+9'
//   DTM+137:<order date>:102'
//   FTX+ZZZ+++<free text>'
//   NAD+BY|DP|SU+<gln>::9++<name>+<street>+<city>++<postal>+<country>'
//   RFF+API:47362'
//   CUX+2:<currency>:9'
//   TDT+12++:'
//   -- per line ------------------------------------------------------------
//   LIN+<n>++<ean>:EN'
//   PIA+1+:IN::92'
//   PIA+1+<receiver code>:SA::91'
//   IMD+F++:::<description>'
//   QTY+21:<quantity .2f>:<uom>'
//   DTM+2:<delivery date>:102'
//   PRI+AAA:<net price>::::<uom>'
//   ------------------------------------------------------------------------
//   UNS+S'
//   CNT+2:<line count>'
//   UNT+<segment count>+<ref>'
//   UNZ+1+<ref>'
//
// The encoder never fails: absent fields render as empty strings.
//
// =============================================================================

package edifact

import (
	"strconv"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/types"
)

// =============================================================================
// FIXED CODES
// =============================================================================

const (
	SyntaxIdentifier = "UNOC"
	SyntaxVersion    = "2"
	MailboxQualifier = "14"
	MessageType      = "ORDERS"
	MessageVersion   = "D"
	MessageRelease   = "96A"
	ControlAgency    = "UN"
	AssociationCode  = "EAN008"
	DefaultReference = "API:47362"
)

const (
	dateLayout = "060102"
	timeLayout = "1504"

	// dateFormatCCYYMMDD is the DTM format code; the date itself is passed
	// through unchanged.
	dateFormatCCYYMMDD = "102"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures an Encoder. Zero-valued fields fall back to the
// defaults returned by DefaultOptions.
type Options struct {
	// References supplies the interchange/message reference number.
	References ReferenceSource

	// Clock supplies the UNB preparation date and time.
	Clock Clock

	// Parties holds the NAD address blocks keyed by role.
	Parties Parties

	// CountRule computes the UNT segment count.
	CountRule CountRule

	// Layout controls line breaks between segments.
	Layout Layout

	// EscapeRelease prefixes service characters inside data values with
	// the release character. Off by default to keep output byte-compatible
	// with existing consumers.
	EscapeRelease bool

	// OrderReference is the RFF reference, qualifier and number.
	OrderReference string
}

// DefaultOptions returns options that reproduce the reference output.
func DefaultOptions() Options {
	return Options{
		References:     RandomReferences{},
		Clock:          SystemClock{},
		Parties:        DefaultParties(),
		CountRule:      LegacyCount,
		Layout:         LayoutLines,
		OrderReference: DefaultReference,
	}
}

// =============================================================================
// ENCODER
// =============================================================================

// Encoder turns OrderDocuments into ORDERS messages. It holds no mutable
// state of its own and is safe for concurrent use when its ReferenceSource
// is.
type Encoder struct {
	opts Options
}

// New creates an Encoder.
func New(opts Options) *Encoder {
	def := DefaultOptions()
	if opts.References == nil {
		opts.References = def.References
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	if opts.Parties == nil {
		opts.Parties = def.Parties
	}
	if opts.CountRule.count == nil {
		opts.CountRule = def.CountRule
	}
	if opts.OrderReference == "" {
		opts.OrderReference = def.OrderReference
	}
	return &Encoder{opts: opts}
}

// Options returns the effective options.
func (e *Encoder) Options() Options {
	return e.opts
}

// Encode returns the rendered message for doc.
func (e *Encoder) Encode(doc *types.OrderDocument) string {
	return e.Build(doc).Text(e.opts.Layout)
}

// Encode renders doc with DefaultOptions.
func Encode(doc *types.OrderDocument) string {
	return New(DefaultOptions()).Encode(doc)
}

// Build maps doc to its segments and counters. A nil doc is encoded as an
// order with empty fields and no lines.
func (e *Encoder) Build(doc *types.OrderDocument) *Message {
	if doc == nil {
		doc = &types.OrderDocument{}
	}
	h := doc.Header

	ref := e.opts.References.NextReference()
	refText := strconv.Itoa(ref)
	now := e.opts.Clock.Now()

	msg := &Message{
		InterchangeRef: ref,
		MessageRef:     ref,
		Segments:       make([]string, 0, 16+7*len(doc.Lines)),
	}
	add := func(tag string, elements ...string) {
		msg.Segments = append(msg.Segments, NewSegment(tag, elements...).String())
	}

	// Interchange and message headers.
	msg.Segments = append(msg.Segments, ServiceStringAdvice)
	add("UNB",
		Composite(SyntaxIdentifier, SyntaxVersion),
		Composite(e.text(h.SenderMailboxId), MailboxQualifier),
		Composite(e.text(h.ReceiverMailboxId), MailboxQualifier),
		Composite(now.Format(dateLayout), now.Format(timeLayout)),
		refText,
		"",
		MessageType,
	)
	add("UNH", refText, Composite(MessageType, MessageVersion, MessageRelease, ControlAgency, AssociationCode))

	// Order header.
	add("BGM", "220", e.text(h.OrderNumber), "9")
	add("DTM", Composite("137", e.text(h.OrderDate), dateFormatCCYYMMDD))
	add("FTX", "ZZZ", "", "", e.text(h.FreeTextField))

	glns := map[PartyRole]string{
		RoleBuyer:         h.GLNBuyer,
		RoleDeliveryParty: h.GLNShipTo,
		RoleSupplier:      h.GLNSupplier,
	}
	for _, role := range PartyRoles {
		p := e.opts.Parties[role]
		add("NAD",
			string(role),
			Composite(e.text(glns[role]), "", "9"),
			"",
			e.text(p.Name),
			e.text(p.Street),
			e.text(p.City),
			"",
			e.text(p.PostalCode),
			e.text(p.Country),
		)
	}

	add("RFF", e.opts.OrderReference)
	add("CUX", Composite("2", e.text(h.Currency), "9"))
	add("TDT", "12", "", Composite("", ""))

	// Detail lines, numbered by position.
	for i, line := range doc.Lines {
		uom := e.text(line.ItemOrderedQuantityUom)

		add("LIN", strconv.Itoa(i+1), "", Composite(e.text(line.ItemEanBarcode), "EN"))
		add("PIA", "1", Composite("", "IN", "", "92"))
		add("PIA", "1", Composite(e.text(line.ItemReceiverCode), "SA", "", "91"))
		add("IMD", "F", "", Composite("", "", "", e.text(line.ItemDescription)))
		add("QTY", Composite("21", FormatQuantity(line.ItemOrderedQuantity), uom))
		add("DTM", Composite("2", e.text(h.DeliveryDate), dateFormatCCYYMMDD))
		add("PRI", Composite("AAA", e.text(line.ItemNetPrice), "", "", "", uom))
	}
	msg.LineCount = len(doc.Lines)

	// Summary and trailers.
	add("UNS", "S")
	add("CNT", Composite("2", strconv.Itoa(msg.LineCount)))

	msg.SegmentCount = e.opts.CountRule.SegmentCount(len(msg.Segments))
	add("UNT", strconv.Itoa(msg.SegmentCount), refText)
	add("UNZ", "1", refText)

	return msg
}

func (e *Encoder) text(s string) string {
	if e.opts.EscapeRelease {
		return Escape(s)
	}
	return s
}

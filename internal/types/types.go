// =============================================================================
// XML to EDIFACT Converter - Shared Types
// =============================================================================
//
// This package contains the in-memory order representation shared by the
// reader, the validator and the encoder. Types defined here are used by:
//   - orderxml   (produces them)
//   - validation (inspects them)
//   - edifact    (consumes them)
//   - converter  (passes them along)
//
// An OrderDocument is created fresh for every input file and is never
// modified after the reader returns it.
//
// =============================================================================

package types

// =============================================================================
// ORDER TYPES
// =============================================================================

// OrderHeader holds the document-level fields of a purchase order.
// Every field is taken verbatim from the source document. An element that
// was absent from the source is represented by an empty string.
type OrderHeader struct {
	// SenderMailboxId and ReceiverMailboxId are the EDI routing identifiers
	// written into the UNB interchange header.
	SenderMailboxId   string
	ReceiverMailboxId string

	// OrderNumber is the buyer's purchase order number (BGM).
	OrderNumber string

	// OrderDate must already be in EDIFACT date form; it is not reformatted.
	OrderDate string

	// FreeTextField is carried in the FTX segment.
	FreeTextField string

	// GLNBuyer, GLNShipTo and GLNSupplier are Global Location Numbers
	// for the BY, DP and SU parties.
	GLNBuyer    string
	GLNShipTo   string
	GLNSupplier string

	// Currency is an ISO 4217 code (CUX).
	Currency string

	// DeliveryDate is repeated in the DTM segment of every line.
	DeliveryDate string
}

// OrderLine is a single detail line. Line numbers are positional: the
// first OrderLine of a document is line 1.
type OrderLine struct {
	ItemEanBarcode         string
	ItemReceiverCode       string
	ItemDescription        string
	ItemOrderedQuantity    string
	ItemOrderedQuantityUom string
	ItemNetPrice           string
}

// OrderDocument is a parsed purchase order: one header plus its lines in
// document order.
type OrderDocument struct {
	Header OrderHeader
	Lines  []OrderLine
}

// LineCount returns the number of detail lines.
func (d *OrderDocument) LineCount() int {
	if d == nil {
		return 0
	}
	return len(d.Lines)
}

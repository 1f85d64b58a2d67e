// =============================================================================
// XML to EDIFACT Converter - Order Document Reader
// =============================================================================
//
// This module parses a purchase-order XML document into a types.OrderDocument.
//
// EXPECTED INPUT:
//
//   <Order>                                  <!-- Root element (any name) -->
//     <OrderHeader>                          <!-- Flat field bag -->
//       <SenderMailboxId>1234</SenderMailboxId>
//       <OrderNumber>PO1</OrderNumber>
//       ...
//     </OrderHeader>
//     <OrderDetails>
//       <Detail>                             <!-- Zero or more line items -->
//         <ItemEanBarcode>5941234000037</ItemEanBarcode>
//         ...
//       </Detail>
//     </OrderDetails>
//   </Order>
//
// RULES:
//   - No namespace or schema is enforced, only well-formedness.
//   - An absent field element becomes an empty string.
//   - A missing OrderHeader or OrderDetails element makes the document
//     malformed. An OrderDetails element with no Detail children is legal.
//   - The only error kind returned is ErrMalformedDocument.
//
// =============================================================================

package orderxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/types"
)

// ErrMalformedDocument is returned, possibly wrapped, for every document that
// is absent, unreadable or not well-formed.
var ErrMalformedDocument = errors.New("malformed document")

// MalformedDocumentError describes why a document was rejected.
type MalformedDocumentError struct {
	Reason string
	Cause  error
}

func (e *MalformedDocumentError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrMalformedDocument, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformedDocument, e.Reason, e.Cause)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Cause }

// Is reports ErrMalformedDocument as a match so callers can use errors.Is.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

func malformed(cause error, reason string) error {
	return &MalformedDocumentError{Reason: reason, Cause: cause}
}

// =============================================================================
// XML MAPPING
// =============================================================================

// document mirrors the XML layout. When an element is repeated only its
// first occurrence counts: the first OrderHeader, the first OrderDetails
// and the first copy of every field.
type document struct {
	XMLName xml.Name
	Headers []header  `xml:"OrderHeader"`
	Details []details `xml:"OrderDetails"`
}

// firstText holds the text of the first occurrence of an element.
type firstText struct {
	value string
	set   bool
}

func (f *firstText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	if !f.set {
		f.value, f.set = s, true
	}
	return nil
}

type header struct {
	SenderMailboxId   firstText `xml:"SenderMailboxId"`
	ReceiverMailboxId firstText `xml:"ReceiverMailboxId"`
	OrderNumber       firstText `xml:"OrderNumber"`
	OrderDate         firstText `xml:"OrderDate"`
	FreeTextField     firstText `xml:"FreeTextField"`
	GLNBuyer          firstText `xml:"GLNBuyer"`
	GLNShipTo         firstText `xml:"GLNShipTo"`
	GLNSupplier       firstText `xml:"GLNSupplier"`
	Currency          firstText `xml:"Currency"`
	DeliveryDate      firstText `xml:"DeliveryDate"`
}

type details struct {
	Lines []detail `xml:"Detail"`
}

type detail struct {
	ItemEanBarcode         firstText `xml:"ItemEanBarcode"`
	ItemReceiverCode       firstText `xml:"ItemReceiverCode"`
	ItemDescription        firstText `xml:"ItemDescription"`
	ItemOrderedQuantity    firstText `xml:"ItemOrderedQuantity"`
	ItemOrderedQuantityUom firstText `xml:"ItemOrderedQuantityUom"`
	ItemNetPrice           firstText `xml:"ItemNetPrice"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// ReadFile opens the file at path and parses it with Read.
//
// A missing or unreadable file is reported as ErrMalformedDocument, the same
// as a document that cannot be parsed.
func ReadFile(path string) (*types.OrderDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, malformed(errors.Wrap(err, "open"), "source is absent or unreadable")
	}
	defer f.Close()

	return Read(f)
}

// Read parses a purchase-order document from r.
//
// PARAMETERS:
//   - r: A byte stream that should contain one XML document.
//
// RETURNS:
//   - The parsed OrderDocument.
//   - An error matching ErrMalformedDocument if the stream is nil, empty,
//     unreadable, not well-formed, or lacks OrderHeader/OrderDetails.
func Read(r io.Reader) (*types.OrderDocument, error) {
	if r == nil {
		return nil, malformed(nil, "source is absent")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, malformed(errors.Wrap(err, "read"), "source is unreadable")
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed(nil, "document is empty")
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(err, "document is not well-formed")
	}

	if err := ensureNoTrailingContent(dec); err != nil {
		return nil, malformed(err, "document is not well-formed")
	}

	if len(doc.Headers) == 0 {
		return nil, malformed(nil, fmt.Sprintf("<%s> has no OrderHeader element", doc.XMLName.Local))
	}
	if len(doc.Details) == 0 {
		return nil, malformed(nil, fmt.Sprintf("<%s> has no OrderDetails element", doc.XMLName.Local))
	}

	return doc.toOrder(), nil
}

// ensureNoTrailingContent consumes the rest of the stream after the root
// element. Only whitespace, comments and processing instructions may follow.
func ensureNoTrailingContent(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text after root element")
			}
		case xml.StartElement:
			return errors.Errorf("second root element <%s>", t.Name.Local)
		case xml.Directive:
			return errors.New("directive after root element")
		}
	}
}

// charsetReader decodes documents that declare a non UTF-8 encoding,
// e.g. <?xml version="1.0" encoding="windows-1250"?>.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, errors.Wrapf(err, "charset %q", label)
	}
	if enc == nil {
		return nil, errors.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func (d *document) toOrder() *types.OrderDocument {
	h := d.Headers[0]
	lines := d.Details[0].Lines
	order := &types.OrderDocument{
		Header: types.OrderHeader{
			SenderMailboxId:   h.SenderMailboxId.value,
			ReceiverMailboxId: h.ReceiverMailboxId.value,
			OrderNumber:       h.OrderNumber.value,
			OrderDate:         h.OrderDate.value,
			FreeTextField:     h.FreeTextField.value,
			GLNBuyer:          h.GLNBuyer.value,
			GLNShipTo:         h.GLNShipTo.value,
			GLNSupplier:       h.GLNSupplier.value,
			Currency:          h.Currency.value,
			DeliveryDate:      h.DeliveryDate.value,
		},
		Lines: make([]types.OrderLine, 0, len(lines)),
	}

	for _, l := range lines {
		order.Lines = append(order.Lines, types.OrderLine{
			ItemEanBarcode:         l.ItemEanBarcode.value,
			ItemReceiverCode:       l.ItemReceiverCode.value,
			ItemDescription:        l.ItemDescription.value,
			ItemOrderedQuantity:    l.ItemOrderedQuantity.value,
			ItemOrderedQuantityUom: l.ItemOrderedQuantityUom.value,
			ItemNetPrice:           l.ItemNetPrice.value,
		})
	}

	return order
}

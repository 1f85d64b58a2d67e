package orderxml_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/orderxml"
)

const sampleOrder = `<?xml version="1.0" encoding="UTF-8"?>
<Order>
  <OrderHeader>
    <SenderMailboxId>1234</SenderMailboxId>
    <ReceiverMailboxId>5678</ReceiverMailboxId>
    <OrderNumber>PO1</OrderNumber>
    <OrderDate>240101</OrderDate>
    <FreeTextField></FreeTextField>
    <GLNBuyer>5941234000003</GLNBuyer>
    <GLNShipTo>5941234000010</GLNShipTo>
    <GLNSupplier>5941234000027</GLNSupplier>
    <Currency>RON</Currency>
    <DeliveryDate>240105</DeliveryDate>
  </OrderHeader>
  <OrderDetails>
    <Detail>
      <ItemEanBarcode>5941234000034</ItemEanBarcode>
      <ItemReceiverCode>SKU1</ItemReceiverCode>
      <ItemDescription>Widget</ItemDescription>
      <ItemOrderedQuantity>10</ItemOrderedQuantity>
      <ItemOrderedQuantityUom>PCE</ItemOrderedQuantityUom>
      <ItemNetPrice>19.99</ItemNetPrice>
    </Detail>
    <Detail>
      <ItemEanBarcode>5941234000041</ItemEanBarcode>
      <ItemReceiverCode>SKU2</ItemReceiverCode>
    </Detail>
  </OrderDetails>
</Order>
`

func TestRead_ParsesHeaderAndLinesInOrder(t *testing.T) {
	doc, err := orderxml.Read(strings.NewReader(sampleOrder))
	require.NoError(t, err)

	require.Equal(t, "1234", doc.Header.SenderMailboxId)
	require.Equal(t, "5678", doc.Header.ReceiverMailboxId)
	require.Equal(t, "PO1", doc.Header.OrderNumber)
	require.Equal(t, "240101", doc.Header.OrderDate)
	require.Equal(t, "", doc.Header.FreeTextField)
	require.Equal(t, "5941234000027", doc.Header.GLNSupplier)
	require.Equal(t, "RON", doc.Header.Currency)
	require.Equal(t, "240105", doc.Header.DeliveryDate)

	require.Len(t, doc.Lines, 2)
	require.Equal(t, "5941234000034", doc.Lines[0].ItemEanBarcode)
	require.Equal(t, "10", doc.Lines[0].ItemOrderedQuantity)
	require.Equal(t, "19.99", doc.Lines[0].ItemNetPrice)
	require.Equal(t, "SKU2", doc.Lines[1].ItemReceiverCode)
}

func TestRead_AbsentFieldsBecomeEmpty(t *testing.T) {
	doc, err := orderxml.Read(strings.NewReader(sampleOrder))
	require.NoError(t, err)

	second := doc.Lines[1]
	require.Empty(t, second.ItemDescription)
	require.Empty(t, second.ItemOrderedQuantity)
	require.Empty(t, second.ItemOrderedQuantityUom)
	require.Empty(t, second.ItemNetPrice)
}

func TestRead_ZeroDetailLines(t *testing.T) {
	doc, err := orderxml.Read(strings.NewReader(
		`<Order><OrderHeader><OrderNumber>PO9</OrderNumber></OrderHeader><OrderDetails/></Order>`))
	require.NoError(t, err)
	require.Equal(t, "PO9", doc.Header.OrderNumber)
	require.Equal(t, 0, doc.LineCount())
}

func TestRead_KeepsTextVerbatim(t *testing.T) {
	doc, err := orderxml.Read(strings.NewReader(
		`<Order><OrderHeader><FreeTextField> deliver &amp; call </FreeTextField></OrderHeader><OrderDetails/></Order>`))
	require.NoError(t, err)
	require.Equal(t, " deliver & call ", doc.Header.FreeTextField)
}

func TestRead_DecodesDeclaredCharset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<Order><OrderHeader/><OrderDetails><Detail><ItemDescription>Caf\xe9</ItemDescription></Detail></OrderDetails></Order>"

	doc, err := orderxml.Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "Café", doc.Lines[0].ItemDescription)
}

func TestRead_AcceptsByteOrderMark(t *testing.T) {
	doc, err := orderxml.Read(strings.NewReader("\xEF\xBB\xBF<Order><OrderHeader/><OrderDetails/></Order>"))
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestRead_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"whitespace only":   "  \n\t ",
		"not xml":           "UNA:+.? '",
		"unclosed root":     "<Order><OrderHeader></OrderHeader><OrderDetails>",
		"mismatched tags":   "<Order><OrderHeader></OrderDetails></Order>",
		"missing header":    "<Order><OrderDetails/></Order>",
		"missing details":   "<Order><OrderHeader/></Order>",
		"second root":       "<Order><OrderHeader/><OrderDetails/></Order><Order/>",
		"trailing text":     "<Order><OrderHeader/><OrderDetails/></Order>garbage",
		"unknown charset":   `<?xml version="1.0" encoding="x-no-such-charset"?><Order><OrderHeader/><OrderDetails/></Order>`,
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := orderxml.Read(strings.NewReader(src))
			require.Nil(t, doc)
			require.Error(t, err)
			require.True(t, errors.Is(err, orderxml.ErrMalformedDocument), "got %v", err)

			var mde *orderxml.MalformedDocumentError
			require.ErrorAs(t, err, &mde)
			require.NotEmpty(t, mde.Reason)
		})
	}
}

func TestRead_NilReader(t *testing.T) {
	_, err := orderxml.Read(nil)
	require.ErrorIs(t, err, orderxml.ErrMalformedDocument)
}

func TestRead_TrailingCommentIsAllowed(t *testing.T) {
	_, err := orderxml.Read(strings.NewReader("<Order><OrderHeader/><OrderDetails/></Order>\n<!-- exported -->\n"))
	require.NoError(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PO1.XML")
	require.NoError(t, os.WriteFile(path, []byte(sampleOrder), 0644))

	doc, err := orderxml.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, doc.LineCount())

	_, err = orderxml.ReadFile(filepath.Join(dir, "missing.XML"))
	require.ErrorIs(t, err, orderxml.ErrMalformedDocument)
}

func TestRead_RepeatedElementsUseFirstOccurrence(t *testing.T) {
	const doubled = `<Order>
  <OrderHeader>
    <OrderNumber>A</OrderNumber>
    <OrderNumber>B</OrderNumber>
    <Currency>RON</Currency>
  </OrderHeader>
  <OrderHeader>
    <OrderNumber>C</OrderNumber>
    <OrderDate>240101</OrderDate>
  </OrderHeader>
  <OrderDetails>
    <Detail>
      <ItemEanBarcode>111</ItemEanBarcode>
      <ItemEanBarcode>222</ItemEanBarcode>
    </Detail>
  </OrderDetails>
  <OrderDetails>
    <Detail><ItemEanBarcode>333</ItemEanBarcode></Detail>
    <Detail><ItemEanBarcode>444</ItemEanBarcode></Detail>
  </OrderDetails>
</Order>`

	doc, err := orderxml.Read(strings.NewReader(doubled))
	require.NoError(t, err)

	require.Equal(t, "A", doc.Header.OrderNumber)
	require.Equal(t, "RON", doc.Header.Currency)
	require.Equal(t, "", doc.Header.OrderDate)

	require.Len(t, doc.Lines, 1)
	require.Equal(t, "111", doc.Lines[0].ItemEanBarcode)
}

package edifact_test

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/edifact"
	"github.com/ginjaninja78/XML-to-EDIFACT-conversion/internal/types"
)

var fixedNow = time.Date(2024, time.January, 2, 15, 4, 0, 0, time.Local)

func sampleDocument() *types.OrderDocument {
	return &types.OrderDocument{
		Header: types.OrderHeader{
			SenderMailboxId:   "1234",
			ReceiverMailboxId: "5678",
			OrderNumber:       "PO1",
			OrderDate:         "240101",
			Currency:          "RON",
			GLNBuyer:          "5941234000003",
			GLNShipTo:         "5941234000010",
			GLNSupplier:       "5941234000027",
			DeliveryDate:      "240105",
			FreeTextField:     "",
		},
		Lines: []types.OrderLine{{
			ItemEanBarcode:         "5941234000034",
			ItemReceiverCode:       "SKU1",
			ItemDescription:        "Widget",
			ItemOrderedQuantity:    "10",
			ItemOrderedQuantityUom: "PCE",
			ItemNetPrice:           "19.99",
		}},
	}
}

func newTestEncoder(opts edifact.Options, refs ...int) *edifact.Encoder {
	if len(refs) == 0 {
		refs = []int{4711001}
	}
	opts.References = edifact.NewSequenceReferences(refs...)
	opts.Clock = edifact.FixedClock{Time: fixedNow}
	return edifact.New(opts)
}

const goldenMessage = `UNA:+.? '
UNB+UNOC:2+1234:14+5678:14+240102:1504+4711001++ORDERS'
UNH+4711001+ORDERS:D:96A:UN:EAN008'
BGM+220+PO1+9'
DTM+137:240101:102'
FTX+ZZZ+++'
NAD+BY+5941234000003::9++BRICOSTORE ROMANIA S.A.+Calea Giulesti, Nr. 1-3, Sector 6+BUCURESTI++060251+RO'
NAD+DP+5941234000010::9++DEPOZIT BANEASA \ 1616+Soseaua Bucuresti-Ploiesti, nr. 42-+BUCURESTI++013696+RO'
NAD+SU+5941234000027::9++STANLEY BLACK & DECKER ROMANIA SRL +TURTURELELOR, PHOENICIA BUSSINESS C+BUCURESTI++30881+RO'
RFF+API:47362'
CUX+2:RON:9'
TDT+12++:'
LIN+1++5941234000034:EN'
PIA+1+:IN::92'
PIA+1+SKU1:SA::91'
IMD+F++:::Widget'
QTY+21:10.00:PCE'
DTM+2:240105:102'
PRI+AAA:19.99::::PCE'
UNS+S'
CNT+2:1'
UNT+19+4711001'
UNZ+1+4711001'`

func TestEncode_GoldenMessage(t *testing.T) {
	enc := newTestEncoder(edifact.Options{})
	require.Equal(t, goldenMessage, enc.Encode(sampleDocument()))
}

func TestBuild_EndToEndSegments(t *testing.T) {
	msg := newTestEncoder(edifact.Options{}).Build(sampleDocument())

	require.Equal(t, []string{"LIN+1++5941234000034:EN'"}, msg.Find("LIN"))
	require.Equal(t, []string{"QTY+21:10.00:PCE'"}, msg.Find("QTY"))
	require.Equal(t, []string{"CNT+2:1'"}, msg.Find("CNT"))
	require.Equal(t, 1, msg.LineCount)
	require.Equal(t, 19, msg.SegmentCount)
}

func TestBuild_FixedSegmentOrder(t *testing.T) {
	doc := sampleDocument()
	doc.Lines = append(doc.Lines, doc.Lines[0], doc.Lines[0])

	msg := newTestEncoder(edifact.Options{}).Build(doc)

	want := []string{"UNA", "UNB", "UNH", "BGM", "DTM", "FTX", "NAD", "NAD", "NAD", "RFF", "CUX", "TDT"}
	for i := 0; i < 3; i++ {
		want = append(want, "LIN", "PIA", "PIA", "IMD", "QTY", "DTM", "PRI")
	}
	want = append(want, "UNS", "CNT", "UNT", "UNZ")

	got := make([]string, len(msg.Segments))
	for i, s := range msg.Segments {
		got[i] = s[:3]
	}
	require.Equal(t, want, got)

	for i, lin := range msg.Find("LIN") {
		require.True(t, strings.HasPrefix(lin, "LIN+"+strconv.Itoa(i+1)+"++"), lin)
	}
	nads := msg.Find("NAD")
	require.True(t, strings.HasPrefix(nads[0], "NAD+BY+"))
	require.True(t, strings.HasPrefix(nads[1], "NAD+DP+"))
	require.True(t, strings.HasPrefix(nads[2], "NAD+SU+"))
}

func TestBuild_CountersForNLines(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 25} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			doc := sampleDocument()
			doc.Lines = nil
			for i := 0; i < n; i++ {
				doc.Lines = append(doc.Lines, sampleDocument().Lines[0])
			}

			msg := newTestEncoder(edifact.Options{}).Build(doc)

			require.Len(t, msg.Find("LIN"), n)
			require.Equal(t, []string{"CNT+2:" + strconv.Itoa(n) + "'"}, msg.Find("CNT"))

			// Everything emitted before UNT, minus two.
			emitted := len(msg.Segments) - 2
			require.Equal(t, emitted-2, msg.SegmentCount)
			require.Equal(t, "UNT+"+strconv.Itoa(emitted-2)+"+4711001'", msg.Segments[len(msg.Segments)-2])
		})
	}
}

func TestBuild_ZeroLinesIsComplete(t *testing.T) {
	doc := sampleDocument()
	doc.Lines = nil

	msg := newTestEncoder(edifact.Options{}).Build(doc)

	require.Equal(t, edifact.ServiceStringAdvice, msg.Segments[0])
	require.Equal(t, "UNZ+1+4711001'", msg.Segments[len(msg.Segments)-1])
	require.Equal(t, []string{"CNT+2:0'"}, msg.Find("CNT"))
	require.Equal(t, []string{"UNT+12+4711001'"}, msg.Find("UNT"))
	require.Empty(t, msg.Find("LIN"))
}

func TestBuild_NilDocument(t *testing.T) {
	msg := newTestEncoder(edifact.Options{}).Build(nil)

	require.Equal(t, []string{"BGM+220++9'"}, msg.Find("BGM"))
	require.Equal(t, []string{"CNT+2:0'"}, msg.Find("CNT"))
	require.Equal(t, []string{"NAD+BY+::9++BRICOSTORE ROMANIA S.A.+Calea Giulesti, Nr. 1-3, Sector 6+BUCURESTI++060251+RO'"},
		msg.Find("NAD")[:1])
}

func TestBuild_ReferenceSharedByAllFourSegments(t *testing.T) {
	msg := newTestEncoder(edifact.Options{}, 1234567).Build(sampleDocument())

	require.Equal(t, 1234567, msg.InterchangeRef)
	require.Equal(t, msg.InterchangeRef, msg.MessageRef)
	require.Contains(t, msg.Find("UNB")[0], "+1234567++ORDERS'")
	require.Equal(t, "UNH+1234567+ORDERS:D:96A:UN:EAN008'", msg.Find("UNH")[0])
	require.True(t, strings.HasSuffix(msg.Find("UNT")[0], "+1234567'"))
	require.Equal(t, "UNZ+1+1234567'", msg.Find("UNZ")[0])
}

func TestEncode_TwiceDiffersOnlyInReferences(t *testing.T) {
	enc := newTestEncoder(edifact.Options{}, 1111111, 2222222)

	first := enc.Encode(sampleDocument())
	second := enc.Encode(sampleDocument())

	require.NotEqual(t, first, second)
	require.Equal(t, first, strings.ReplaceAll(second, "2222222", "1111111"))
	require.Equal(t, 4, strings.Count(first, "1111111"))
}

func TestEncode_RandomReferencesInRange(t *testing.T) {
	enc := edifact.New(edifact.Options{Clock: edifact.FixedClock{Time: fixedNow}})

	for i := 0; i < 200; i++ {
		msg := enc.Build(sampleDocument())
		require.GreaterOrEqual(t, msg.InterchangeRef, edifact.MinReference)
		require.LessOrEqual(t, msg.InterchangeRef, edifact.MaxReference)
		require.Len(t, strconv.Itoa(msg.InterchangeRef), 7)
	}
}

func TestEncode_UsesClockForInterchangeHeader(t *testing.T) {
	at := time.Date(2025, time.December, 31, 9, 7, 59, 0, time.Local)
	enc := edifact.New(edifact.Options{
		References: edifact.NewSequenceReferences(7654321),
		Clock:      edifact.FixedClock{Time: at},
	})

	msg := enc.Build(sampleDocument())
	require.Equal(t, "UNB+UNOC:2+1234:14+5678:14+251231:0907+7654321++ORDERS'", msg.Find("UNB")[0])
}

func TestEncode_StandardCountRule(t *testing.T) {
	enc := newTestEncoder(edifact.Options{CountRule: edifact.StandardCount})
	msg := enc.Build(sampleDocument())

	require.Equal(t, 20, msg.SegmentCount)

	// UNH through UNT inclusive.
	var unh, unt int
	for i, s := range msg.Segments {
		switch s[:3] {
		case "UNH":
			unh = i
		case "UNT":
			unt = i
		}
	}
	require.Equal(t, unt-unh+1, msg.SegmentCount)
}

func TestEncode_CompactLayout(t *testing.T) {
	enc := newTestEncoder(edifact.Options{Layout: edifact.LayoutCompact})
	out := enc.Encode(sampleDocument())

	require.NotContains(t, out, "\n")
	require.Equal(t, strings.ReplaceAll(goldenMessage, "\n", ""), out)
}

func TestEncode_EscapeRelease(t *testing.T) {
	doc := sampleDocument()
	doc.Header.FreeTextField = "call 10:00 + ask for O'Neil?"

	plain := newTestEncoder(edifact.Options{}).Build(doc)
	require.Equal(t, []string{"FTX+ZZZ+++call 10:00 + ask for O'Neil?'"}, plain.Find("FTX"))

	escaped := newTestEncoder(edifact.Options{EscapeRelease: true}).Build(doc)
	require.Equal(t, []string{"FTX+ZZZ+++call 10?:00 ?+ ask for O?'Neil??'"}, escaped.Find("FTX"))
	// Fixed codes are never escaped.
	require.Equal(t, []string{"RFF+API:47362'"}, escaped.Find("RFF"))
}

func TestEncode_CustomPartiesAndReference(t *testing.T) {
	parties := edifact.DefaultParties().Merge(edifact.Parties{
		edifact.RoleSupplier: {Name: "ACME SRL", Street: "Str. Exemplu 1", City: "CLUJ", PostalCode: "400000", Country: "RO"},
	})
	enc := newTestEncoder(edifact.Options{Parties: parties, OrderReference: "ON:777"})
	msg := enc.Build(sampleDocument())

	nads := msg.Find("NAD")
	require.Len(t, nads, 3)
	assert.Equal(t, "NAD+SU+5941234000027::9++ACME SRL+Str. Exemplu 1+CLUJ++400000+RO'", nads[2])
	assert.Contains(t, nads[0], "BRICOSTORE ROMANIA S.A.")
	assert.Equal(t, []string{"RFF+ON:777'"}, msg.Find("RFF"))
}

func TestEncode_QuantityAndPriceRendering(t *testing.T) {
	doc := sampleDocument()
	doc.Lines[0].ItemOrderedQuantity = "3.1"
	doc.Lines[0].ItemNetPrice = "19.990"

	msg := newTestEncoder(edifact.Options{}).Build(doc)
	require.Equal(t, []string{"QTY+21:3.10:PCE'"}, msg.Find("QTY"))
	// Prices are written exactly as supplied.
	require.Equal(t, []string{"PRI+AAA:19.990::::PCE'"}, msg.Find("PRI"))
}

func TestEncoder_ConcurrentUse(t *testing.T) {
	enc := edifact.New(edifact.Options{Clock: edifact.FixedClock{Time: fixedNow}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := enc.Build(sampleDocument())
			assert.Len(t, msg.Find("LIN"), 1)
		}()
	}
	wg.Wait()
}

func TestPackageEncode(t *testing.T) {
	out := edifact.Encode(sampleDocument())
	require.True(t, strings.HasPrefix(out, "UNA:+.? '\nUNB+UNOC:2+1234:14+5678:14+"))
	require.Contains(t, out, "\nUNT+19+")
}

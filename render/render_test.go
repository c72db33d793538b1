package render

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/trp/internal/blocktest"
	"github.com/tsawler/trp/model"
	"github.com/tsawler/trp/resolver"
)

var tableBox = blocktest.Box(0.1, 0.2, 0.8, 0.3)

func makePage(t *testing.T, b *blocktest.Builder) *model.Page {
	t.Helper()
	logger, _ := test.NewNullLogger()
	doc, err := model.NewDocument(b.Blocks(), resolver.WithLogger(logger))
	require.NoError(t, err)
	page, err := doc.PageNumber(1)
	require.NoError(t, err)
	return page
}

// makeMergedRowTable builds a 3x3 table with a header row and a second row
// merged across all columns
func makeMergedRowTable(t *testing.T) *model.Table {
	t.Helper()
	b := blocktest.New()
	b.Page()
	tableID, cells := b.Grid(tableBox, [][]string{
		{"Item", "Qty", "Price"},
		{"Shipping, handling", "", ""},
		{"Widget", "2", "9.99"},
	})
	for _, id := range cells[0] {
		b.Block(id).EntityTypes = []types.EntityType{types.EntityTypeColumnHeader}
	}
	merged := b.MergedCell(2, 1, 1, 3, blocktest.Box(0.1, 0.3, 0.8, 0.1), cells[1]...)
	b.Relate(tableID, types.RelationshipTypeMergedCell, merged)
	b.Caption(tableID, types.BlockTypeTableTitle, "Order", blocktest.Box(0.1, 0.15, 0.3, 0.03))

	table, err := makePage(t, b).TableAt(0)
	require.NoError(t, err)
	return table
}

func TestTableGrid(t *testing.T) {
	grid := TableGrid(makeMergedRowTable(t))
	assert.Equal(t, [][]string{
		{"Item", "Qty", "Price"},
		{"Shipping, handling", "", ""},
		{"Widget", "2", "9.99"},
	}, grid)
}

func TestTableMarkdown(t *testing.T) {
	got := TableMarkdown(makeMergedRowTable(t))
	want := "| Item | Qty | Price |\n" +
		"|---|---|---|\n" +
		"| Shipping, handling |  |  |\n" +
		"| Widget | 2 | 9.99 |\n"
	assert.Equal(t, want, got)
}

func TestTableMarkdownEscapesPipes(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Grid(tableBox, [][]string{{"a|b"}})
	table, _ := makePage(t, b).TableAt(0)
	assert.Equal(t, "| a\\|b |\n|---|\n", TableMarkdown(table))
}

func TestTableMarkdownEmpty(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Table(tableBox, nil, nil)
	table, _ := makePage(t, b).TableAt(0)
	assert.Equal(t, "", TableMarkdown(table))
}

func TestTableCSV(t *testing.T) {
	got, err := TableCSV(makeMergedRowTable(t))
	require.NoError(t, err)
	assert.Equal(t, "Item,Qty,Price\n\"Shipping, handling\",,\nWidget,2,9.99\n", got)
}

func TestTableHTML(t *testing.T) {
	got, err := HTML(makeMergedRowTable(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<table><caption>Order</caption><tbody>"))
	assert.Contains(t, got, "<tr><th>Item</th><th>Qty</th><th>Price</th></tr>")
	assert.Contains(t, got, `<td colspan="3">Shipping, handling</td>`)
	assert.Contains(t, got, "<tr><td>Widget</td><td>2</td><td>9.99</td></tr>")
}

func TestTableHTMLRowSpan(t *testing.T) {
	b := blocktest.New()
	b.Page()
	tableID, cells := b.Grid(tableBox, [][]string{{"Region", "Q1"}, {"", "Q2"}})
	merged := b.MergedCell(1, 1, 2, 1, blocktest.Box(0.1, 0.2, 0.4, 0.3), cells[0][0], cells[1][0])
	b.Relate(tableID, types.RelationshipTypeMergedCell, merged)
	table, _ := makePage(t, b).TableAt(0)

	got, err := HTML(table)
	require.NoError(t, err)
	assert.Contains(t, got, `<tr><td rowspan="2">Region</td><td>Q1</td></tr><tr><td>Q2</td></tr>`)
}

func TestPageHTMLWithLayout(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Layout(types.BlockTypeLayoutHeader, blocktest.Box(0.1, 0.01, 0.8, 0.02),
		b.Line("ACME Corp", blocktest.Box(0.1, 0.01, 0.8, 0.02)))
	b.Layout(types.BlockTypeLayoutTitle, blocktest.Box(0.1, 0.05, 0.8, 0.05),
		b.Line("Shopping <list>", blocktest.Box(0.1, 0.05, 0.8, 0.05)))
	entry := b.Layout(types.BlockTypeLayoutText, blocktest.Box(0.1, 0.2, 0.8, 0.03),
		b.Line("Apples", blocktest.Box(0.1, 0.2, 0.8, 0.03)))
	b.Layout(types.BlockTypeLayoutList, blocktest.Box(0.1, 0.2, 0.8, 0.03), entry)
	b.Layout(types.BlockTypeLayoutPageNumber, blocktest.Box(0.45, 0.95, 0.1, 0.02),
		b.Line("3", blocktest.Box(0.45, 0.95, 0.1, 0.02)))

	got, err := HTML(makePage(t, b))
	require.NoError(t, err)
	want := `<div class="page" data-page="1">` +
		`<div class="header-el">ACME Corp</div>` +
		`<h1>Shopping &lt;list&gt;</h1>` +
		`<ul><li><p>Apples</p></li></ul>` +
		`<div class="page-num">3</div>` +
		`</div>`
	assert.Equal(t, want, got)
}

func TestPageHTMLWithoutLayout(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Line("Invoice", blocktest.Box(0.1, 0.05, 0.2, 0.03))
	b.Field("Name:", "Jane", blocktest.Box(0.1, 0.1, 0.4, 0.03))
	sel := b.Selection(types.SelectionStatusSelected, blocktest.Box(0.5, 0.2, 0.02, 0.02))
	b.Key("Paid", blocktest.Box(0.1, 0.2, 0.3, 0.03), b.Value(blocktest.Box(0.5, 0.2, 0.02, 0.02), sel))

	got, err := HTML(makePage(t, b))
	require.NoError(t, err)
	assert.Contains(t, got, "<p>Invoice</p>")
	assert.Contains(t, got, `<div class="field"><label>Name:</label><input type="text" disabled="" value="Jane"/></div>`)
	assert.Contains(t, got, `<input type="checkbox" disabled="" checked=""/>`)
}

func TestDocumentHTML(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Line("one", blocktest.Box(0.1, 0.1, 0.2, 0.03))
	b.Page()
	b.Line("two", blocktest.Box(0.1, 0.1, 0.2, 0.03))
	logger, _ := test.NewNullLogger()
	doc, err := model.NewDocument(b.Blocks(), resolver.WithLogger(logger))
	require.NoError(t, err)

	got, err := HTML(doc)
	require.NoError(t, err)
	assert.Equal(t, `<html><body>`+
		`<div class="page" data-page="1"><p>one</p></div>`+
		`<div class="page" data-page="2"><p>two</p></div>`+
		`</body></html>`, got)
}

func TestNodeUnsupported(t *testing.T) {
	_, err := Node(42)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMarkdown(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Line("Invoice", blocktest.Box(0.1, 0.05, 0.2, 0.03))
	b.Grid(tableBox, [][]string{{"a", "b"}, {"1", "2"}})
	b.Field("Total:", "3", blocktest.Box(0.1, 0.6, 0.4, 0.03))

	got := Markdown(makePage(t, b))
	assert.Equal(t, "Invoice\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n**Total:** 3", got)
}

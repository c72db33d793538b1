package model

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/trp/internal/blocktest"
	"github.com/tsawler/trp/resolver"
)

var fieldBox = blocktest.Box(0.1, 0.1, 0.4, 0.03)

func TestFormFields(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Field("Name:", "Jane Doe", fieldBox)
	b.Field("Date of birth:", "1990-01-01", blocktest.Box(0.1, 0.2, 0.4, 0.03))
	b.Key("Signature:", blocktest.Box(0.1, 0.3, 0.4, 0.03))
	form := firstPage(t, makeDocument(t, b)).Form()

	require.Equal(t, 3, form.FieldCount())
	fields := form.Fields()
	assert.Equal(t, "Name:", fields[0].KeyText())
	assert.Equal(t, "Jane Doe", fields[0].ValueText())
	assert.Equal(t, "Name:: Jane Doe", fields[0].Text())
	assert.Nil(t, fields[2].Value)
	assert.Equal(t, "", fields[2].ValueText())
}

func TestFieldConfidence(t *testing.T) {
	b := blocktest.New()
	b.Page()
	keyID := b.Field("Name:", "Jane", fieldBox)
	b.Block(keyID).Confidence = aws.Float32(80)
	valueID := resolver.RelatedIDs(b.Block(keyID), types.RelationshipTypeValue)[0]
	b.Block(valueID).Confidence = aws.Float32(90)

	field := firstPage(t, makeDocument(t, b)).Form().Fields()[0]
	assert.InDelta(t, 85, field.Confidence(), 1e-6)
	assert.Equal(t, keyID, field.ID())
	assert.Equal(t, types.BlockTypeKeyValueSet, field.BlockType())
}

func TestFieldByKey(t *testing.T) {
	b := blocktest.New()
	b.Page()
	low := b.Field("Total", "10.00", fieldBox)
	b.Block(low).Confidence = aws.Float32(50)
	b.Field("Total", "12.00", blocktest.Box(0.1, 0.5, 0.4, 0.03))
	b.Field("Subtotal", "9.00", blocktest.Box(0.1, 0.6, 0.4, 0.03))
	form := firstPage(t, makeDocument(t, b)).Form()

	best := form.FieldByKey("Total")
	require.NotNil(t, best)
	assert.Equal(t, "12.00", best.ValueText())
	assert.Nil(t, form.FieldByKey("total"))
	assert.Nil(t, form.FieldByKey("Missing"))
}

func TestSearchFieldsByKey(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Field("Total", "10.00", fieldBox)
	b.Field("Subtotal", "9.00", blocktest.Box(0.1, 0.5, 0.4, 0.03))
	b.Field("Tax", "1.00", blocktest.Box(0.1, 0.6, 0.4, 0.03))
	form := firstPage(t, makeDocument(t, b)).Form()

	tests := []struct {
		query string
		want  int
	}{
		{"total", 2},
		{"TOTAL", 2},
		{"sub", 1},
		{"x", 1},
		{"none", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Len(t, form.SearchFieldsByKey(tt.query), tt.want)
		})
	}
}

func TestKeyWithSeveralValues(t *testing.T) {
	b := blocktest.New()
	b.Page()
	first := b.Value(fieldBox, b.Word("one", fieldBox))
	second := b.Value(fieldBox, b.Word("two", fieldBox))
	b.Key("Choice:", fieldBox, first, second)
	page := firstPage(t, makeDocument(t, b))

	field := page.Form().Fields()[0]
	assert.Equal(t, "one", field.ValueText())

	var found bool
	for _, w := range page.Warnings() {
		if w.Code == resolver.CodeAmbiguousValue {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValueWithSelection(t *testing.T) {
	b := blocktest.New()
	b.Page()
	sel := b.Selection(types.SelectionStatusSelected, fieldBox)
	b.Key("Married", fieldBox, b.Value(fieldBox, sel))
	field := firstPage(t, makeDocument(t, b)).Form().Fields()[0]
	assert.Equal(t, "SELECTED", field.ValueText())
	assert.Empty(t, field.Value.Words())
}

func TestPageContentOrder(t *testing.T) {
	b := blocktest.New()
	b.Page()
	b.Line("Invoice", blocktest.Box(0.1, 0.05, 0.2, 0.03))
	b.Grid(tableBox, [][]string{{"a"}})
	b.Field("Name:", "Jane", fieldBox)
	b.Line("Thank you", blocktest.Box(0.1, 0.9, 0.2, 0.03))
	content := firstPage(t, makeDocument(t, b)).Content()

	require.Len(t, content, 4)
	assert.IsType(t, &Line{}, content[0])
	assert.IsType(t, &Table{}, content[1])
	assert.IsType(t, &Field{}, content[2])
	assert.IsType(t, &Line{}, content[3])
}

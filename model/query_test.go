package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/trp/internal/blocktest"
)

func makeQueryPage(t *testing.T) *Page {
	t.Helper()
	b := blocktest.New()
	b.Page()
	b.Query("What is the invoice number?", "INVOICE_NO",
		b.QueryResult("INV-001", 71), b.QueryResult("INV-100", 93), b.QueryResult("INV-010", 93))
	b.Query("Who is the customer?", "CUSTOMER", b.QueryResult("Acme Ltd", 88))
	b.Query("What is the due date?", "")
	return firstPage(t, makeDocument(t, b))
}

func TestQueryResults(t *testing.T) {
	page := makeQueryPage(t)
	q := page.Queries().ByAlias("INVOICE_NO")
	require.NotNil(t, q)

	assert.Equal(t, "What is the invoice number?", q.Text())
	assert.Equal(t, 3, q.ResultCount())

	top, ok := q.TopResult()
	require.True(t, ok)
	assert.Equal(t, "INV-100", top.Text())

	sorted := q.ResultsByConfidence()
	require.Len(t, sorted, 3)
	assert.Equal(t, "INV-100", sorted[0].Text())
	assert.Equal(t, "INV-010", sorted[1].Text())
	assert.Equal(t, "INV-001", sorted[2].Text())

	// block order is untouched by sorting
	assert.Equal(t, "INV-001", q.Results()[0].Text())
}

func TestUnansweredQuery(t *testing.T) {
	queries := makeQueryPage(t).Queries()

	assert.Len(t, queries.Queries(false), 3)
	assert.Len(t, queries.Queries(true), 2)

	q := queries.ByQuestion("What is the due date?")
	require.NotNil(t, q)
	assert.Equal(t, "", q.Alias())
	_, ok := q.TopResult()
	assert.False(t, ok)
}

func TestQueryLookup(t *testing.T) {
	queries := makeQueryPage(t).Queries()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"alias exact", len(queries.SearchByAlias("CUSTOMER")), 1},
		{"alias folded", len(queries.SearchByAlias("invoice")), 1},
		{"alias skips empty", len(queries.SearchByAlias("")), 2},
		{"question folded", len(queries.SearchByQuestion("WHAT IS")), 2},
		{"question none", len(queries.SearchByQuestion("total")), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Nil(t, queries.ByAlias(""))
	assert.Nil(t, queries.ByAlias("customer"))
	assert.Nil(t, queries.ByQuestion(""))
}

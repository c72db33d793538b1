package model

import (
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"golang.org/x/text/cases"

	"github.com/tsawler/trp/resolver"
)

// QueryResult is one answer to a query
type QueryResult struct {
	blockEntity
}

func (r *QueryResult) Text() string { return aws.ToString(r.block.Text) }

// Query is a question asked in the analysis request, with its answers
type Query struct {
	blockEntity
	results []*QueryResult
}

func (q *Query) link(p *Page) error {
	answers, err := p.Related(q, types.RelationshipTypeAnswer, resolver.Only(types.BlockTypeQueryResult))
	for _, a := range answers {
		q.results = append(q.results, a.(*QueryResult))
	}
	return err
}

// Text returns the question
func (q *Query) Text() string {
	if q.block.Query == nil {
		return ""
	}
	return aws.ToString(q.block.Query.Text)
}

// Alias returns the alias given in the request, or ""
func (q *Query) Alias() string {
	if q.block.Query == nil {
		return ""
	}
	return aws.ToString(q.block.Query.Alias)
}

// Results returns the answers in block order
func (q *Query) Results() []*QueryResult {
	return append([]*QueryResult(nil), q.results...)
}

// ResultCount returns the number of answers
func (q *Query) ResultCount() int {
	return len(q.results)
}

// TopResult returns the most confident answer. The first of equally
// confident answers wins.
func (q *Query) TopResult() (*QueryResult, bool) {
	var top *QueryResult
	for _, r := range q.results {
		if top == nil || r.Confidence() > top.Confidence() {
			top = r
		}
	}
	return top, top != nil
}

// ResultsByConfidence returns the answers from most to least confident
func (q *Query) ResultsByConfidence() []*QueryResult {
	out := q.Results()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence() > out[j].Confidence()
	})
	return out
}

// QueryCollection is the set of queries on one or more pages
type QueryCollection struct {
	queries []*Query
}

// NewQueryCollection groups queries
func NewQueryCollection(queries []*Query) *QueryCollection {
	return &QueryCollection{queries: queries}
}

// Queries returns the queries. With skipUnanswered, queries without any
// result are left out.
func (c *QueryCollection) Queries(skipUnanswered bool) []*Query {
	var out []*Query
	for _, q := range c.queries {
		if skipUnanswered && len(q.results) == 0 {
			continue
		}
		out = append(out, q)
	}
	return out
}

// ByAlias returns the first query with exactly this alias, or nil
func (c *QueryCollection) ByAlias(alias string) *Query {
	if alias == "" {
		return nil
	}
	for _, q := range c.queries {
		if q.Alias() == alias {
			return q
		}
	}
	return nil
}

// ByQuestion returns the first query with exactly this question, or nil
func (c *QueryCollection) ByQuestion(question string) *Query {
	if question == "" {
		return nil
	}
	for _, q := range c.queries {
		if q.Text() == question {
			return q
		}
	}
	return nil
}

// SearchByAlias returns the queries whose alias contains s, ignoring case
func (c *QueryCollection) SearchByAlias(s string) []*Query {
	return c.search(s, (*Query).Alias)
}

// SearchByQuestion returns the queries whose question contains s, ignoring case
func (c *QueryCollection) SearchByQuestion(s string) []*Query {
	return c.search(s, (*Query).Text)
}

func (c *QueryCollection) search(s string, field func(*Query) string) []*Query {
	folder := cases.Fold()
	needle := folder.String(s)
	var out []*Query
	for _, q := range c.queries {
		v := field(q)
		if v != "" && strings.Contains(folder.String(v), needle) {
			out = append(out, q)
		}
	}
	return out
}

var (
	_ WithBlock      = (*Query)(nil)
	_ WithText       = (*Query)(nil)
	_ WithConfidence = (*QueryResult)(nil)
	_ WithText       = (*QueryResult)(nil)
)

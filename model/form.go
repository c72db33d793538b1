package model

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"golang.org/x/text/cases"

	"github.com/tsawler/trp/geometry"
	"github.com/tsawler/trp/resolver"
)

// Key is the label half of a form field
type Key struct {
	blockEntity
	words  []*Word
	values []*Value
}

func (k *Key) link(p *Page) error {
	children, err := p.Related(k, types.RelationshipTypeChild, resolver.Filter{
		Kinds:    []types.BlockType{types.BlockTypeWord},
		Expected: []types.BlockType{types.BlockTypeSelectionElement},
	})
	if err != nil {
		return err
	}
	for _, c := range children {
		k.words = append(k.words, c.(*Word))
	}

	values, err := p.Related(k, types.RelationshipTypeValue, resolver.Only(types.BlockTypeKeyValueSet))
	for _, v := range values {
		if value, ok := v.(*Value); ok {
			k.values = append(k.values, value)
		}
	}
	return err
}

func (k *Key) Words() []*Word { return append([]*Word(nil), k.words...) }
func (k *Key) Text() string   { return WordsText(k) }

// Value is the content half of a form field
type Value struct {
	blockEntity
	content []Entity
}

func (v *Value) link(p *Page) error {
	content, err := p.Related(v, types.RelationshipTypeChild, resolver.Only(
		types.BlockTypeWord, types.BlockTypeSelectionElement, types.BlockTypeSignature))
	v.content = content
	return err
}

// Content returns the words, selection elements and signatures of the value
func (v *Value) Content() []Entity { return append([]Entity(nil), v.content...) }

// Words returns only the words of the value
func (v *Value) Words() []*Word { return wordsOf(v.content) }

// Text joins the value content with spaces; selection elements render as
// their status.
func (v *Value) Text() string { return ContentText(v) }

// Field pairs a key with its value. It takes its identity and position
// from the key.
type Field struct {
	Key   *Key
	Value *Value // nil when the key has no value
}

func newField(p *Page, k *Key) *Field {
	f := &Field{Key: k}
	if len(k.values) > 1 {
		p.warn(resolver.Warning{
			Code:      resolver.CodeAmbiguousValue,
			BlockID:   k.ID(),
			BlockType: k.BlockType(),
			Message: fmt.Sprintf("key %q (%s) has %d values; using the first",
				k.Text(), k.ID(), len(k.values)),
		})
	}
	if len(k.values) > 0 {
		f.Value = k.values[0]
	}
	return f
}

func (f *Field) ID() string                  { return f.Key.ID() }
func (f *Field) BlockType() types.BlockType  { return f.Key.BlockType() }
func (f *Field) Block() *types.Block         { return f.Key.Block() }
func (f *Field) Geometry() geometry.Geometry { return f.Key.Geometry() }
func (f *Field) BBox() geometry.BBox         { return f.Key.BBox() }
func (f *Field) SetConfidence(c float64)     { f.Key.SetConfidence(c) }

// Confidence is the mean confidence of the key and, when present, the value
func (f *Field) Confidence() float64 {
	scores := []float64{f.Key.Confidence()}
	if f.Value != nil {
		scores = append(scores, f.Value.Confidence())
	}
	return Aggregate(scores, Mean)
}

// KeyText returns the key text
func (f *Field) KeyText() string             { return f.Key.Text() }

// ValueText returns the value text, or "" when there is no value
func (f *Field) ValueText() string {
	if f.Value == nil {
		return ""
	}
	return f.Value.Text()
}

// Text renders the field as "key: value"
func (f *Field) Text() string {
	return f.KeyText() + ": " + f.ValueText()
}

// Form is the set of fields on one or more pages
type Form struct {
	fields []*Field
}

// NewForm groups fields into a form
func NewForm(fields []*Field) *Form {
	return &Form{fields: fields}
}

// Fields returns the fields in block order
func (f *Form) Fields() []*Field {
	return append([]*Field(nil), f.fields...)
}

// FieldCount returns the number of fields
func (f *Form) FieldCount() int {
	return len(f.fields)
}

// FieldByKey returns the highest-confidence field whose key text matches
// exactly, or nil
func (f *Form) FieldByKey(key string) *Field {
	var best *Field
	for _, field := range f.fields {
		if field.KeyText() != key {
			continue
		}
		if best == nil || field.Confidence() > best.Confidence() {
			best = field
		}
	}
	return best
}

// SearchFieldsByKey returns every field whose key text contains the query,
// compared case-insensitively
func (f *Form) SearchFieldsByKey(query string) []*Field {
	folder := cases.Fold()
	needle := folder.String(query)
	var out []*Field
	for _, field := range f.fields {
		if strings.Contains(folder.String(field.KeyText()), needle) {
			out = append(out, field)
		}
	}
	return out
}

var (
	_ WithBlock      = (*Key)(nil)
	_ WithWords      = (*Key)(nil)
	_ WithText       = (*Key)(nil)
	_ WithContent    = (*Value)(nil)
	_ WithText       = (*Value)(nil)
	_ WithBlock      = (*Field)(nil)
	_ WithGeometry   = (*Field)(nil)
	_ WithConfidence = (*Field)(nil)
	_ WithText       = (*Field)(nil)
)

package model

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/tsawler/trp/resolver"
)

// Word is a single recognised word
type Word struct {
	blockEntity
}

func (w *Word) Text() string { return aws.ToString(w.block.Text) }

// SetText overwrites the word text in the underlying block
func (w *Word) SetText(s string) {
	w.block.Text = aws.String(s)
}

// TextType reports whether the word is printed or handwritten
func (w *Word) TextType() types.TextType { return w.block.TextType }

// SetTextType overwrites the text type in the underlying block
func (w *Word) SetTextType(t types.TextType) {
	w.block.TextType = t
}

// IsHandwritten reports whether the word was recognised as handwriting
func (w *Word) IsHandwritten() bool {
	return w.block.TextType == types.TextTypeHandwriting
}

// Line is a line of text composed of words. The declared line text comes
// from the service and may differ from the joined word texts.
type Line struct {
	blockEntity
	words []*Word
}

func (l *Line) link(p *Page) error {
	children, err := p.Related(l, types.RelationshipTypeChild, resolver.Only(types.BlockTypeWord))
	if err != nil {
		return err
	}
	l.words = make([]*Word, 0, len(children))
	for _, c := range children {
		l.words = append(l.words, c.(*Word))
	}
	return nil
}

// Text returns the declared line text
func (l *Line) Text() string { return aws.ToString(l.block.Text) }

// SetText overwrites the declared line text. Word texts are unchanged.
func (l *Line) SetText(s string) {
	l.block.Text = aws.String(s)
}

// Words returns the line's words in order
func (l *Line) Words() []*Word {
	return append([]*Word(nil), l.words...)
}

// WordCount returns the number of words
func (l *Line) WordCount() int {
	return len(l.words)
}

// WordAt returns the word at a 0-based index
func (l *Line) WordAt(i int) (*Word, error) {
	if err := checkIndex("word", i, len(l.words)); err != nil {
		return nil, err
	}
	return l.words[i], nil
}

// WordsText joins the word texts with spaces
func (l *Line) WordsText() string {
	return WordsText(l)
}

// SelectionElement is a checkbox or radio button
type SelectionElement struct {
	blockEntity
}

// Status returns the selection status
func (s *SelectionElement) Status() types.SelectionStatus { return s.block.SelectionStatus }

// IsSelected reports whether the element is checked
func (s *SelectionElement) IsSelected() bool {
	return s.block.SelectionStatus == types.SelectionStatusSelected
}

// Text returns the status name, SELECTED or NOT_SELECTED
func (s *SelectionElement) Text() string { return string(s.block.SelectionStatus) }

// Signature is a detected signature region
type Signature struct {
	blockEntity
}

var (
	_ WithBlock      = (*Word)(nil)
	_ WithGeometry   = (*Word)(nil)
	_ WithConfidence = (*Word)(nil)
	_ WithText       = (*Word)(nil)

	_ WithBlock      = (*Line)(nil)
	_ WithGeometry   = (*Line)(nil)
	_ WithConfidence = (*Line)(nil)
	_ WithText       = (*Line)(nil)
	_ WithWords      = (*Line)(nil)

	_ WithGeometry   = (*SelectionElement)(nil)
	_ WithConfidence = (*SelectionElement)(nil)
	_ WithText       = (*SelectionElement)(nil)

	_ WithGeometry   = (*Signature)(nil)
	_ WithConfidence = (*Signature)(nil)
)

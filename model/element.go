package model

import (
	"math"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/tsawler/trp/geometry"
	"github.com/tsawler/trp/resolver"
)

// Entity is any value built from exactly one block
type Entity = resolver.Entity

// WithBlock is implemented by entities that expose their underlying block
type WithBlock interface {
	Entity
	Block() *types.Block
}

// WithGeometry is implemented by entities with a position on the page
type WithGeometry interface {
	Geometry() geometry.Geometry
	BBox() geometry.BBox
}

// WithConfidence is implemented by entities carrying a service confidence
// score in [0, 100]
type WithConfidence interface {
	Confidence() float64
	SetConfidence(c float64)
}

// WithText is implemented by entities with a text form
type WithText interface {
	Text() string
}

// WithWords is implemented by entities whose children are words
type WithWords interface {
	Words() []*Word
}

// WithContent is implemented by entities holding a mixed list of children
type WithContent interface {
	Content() []Entity
}

// blockEntity is embedded by every single-block entity. The block pointer
// refers into the caller's block slice, so setters write through.
type blockEntity struct {
	block *types.Block
}

func (e blockEntity) ID() string                 { return aws.ToString(e.block.Id) }
func (e blockEntity) BlockType() types.BlockType { return e.block.BlockType }
func (e blockEntity) Block() *types.Block        { return e.block }

// Geometry converts the block geometry. It is recomputed per call.
func (e blockEntity) Geometry() geometry.Geometry {
	return geometry.FromTextract(e.block.Geometry)
}

// BBox returns the block bounding box
func (e blockEntity) BBox() geometry.BBox {
	return e.Geometry().BoundingBox
}

// Confidence returns the block confidence, 0 when absent
func (e blockEntity) Confidence() float64 {
	return float64(aws.ToFloat32(e.block.Confidence))
}

// SetConfidence overwrites the block confidence
func (e blockEntity) SetConfidence(c float64) {
	e.block.Confidence = aws.Float32(float32(c))
}

// RawBlock wraps a block the model has no dedicated type for, so that
// references to it still resolve.
type RawBlock struct {
	blockEntity
}

// AggregationMethod selects how several confidence scores are combined
type AggregationMethod int

const (
	Mean AggregationMethod = iota
	GeometricMean
	HarmonicMean
	Max
	Min
	Mode
)

func (m AggregationMethod) String() string {
	switch m {
	case GeometricMean:
		return "geometric-mean"
	case HarmonicMean:
		return "harmonic-mean"
	case Max:
		return "max"
	case Min:
		return "min"
	case Mode:
		return "mode"
	default:
		return "mean"
	}
}

// Aggregate combines values with the given method. It returns 0 for no
// values. Mode picks the most frequent value, the smallest on a tie.
func Aggregate(values []float64, method AggregationMethod) float64 {
	if len(values) == 0 {
		return 0
	}
	n := float64(len(values))

	switch method {
	case GeometricMean:
		var sum float64
		for _, v := range values {
			if v <= 0 {
				return 0
			}
			sum += math.Log(v)
		}
		return math.Exp(sum / n)
	case HarmonicMean:
		var sum float64
		for _, v := range values {
			if v <= 0 {
				return 0
			}
			sum += 1 / v
		}
		return n / sum
	case Max:
		out := values[0]
		for _, v := range values[1:] {
			out = math.Max(out, v)
		}
		return out
	case Min:
		out := values[0]
		for _, v := range values[1:] {
			out = math.Min(out, v)
		}
		return out
	case Mode:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		best, bestCount := sorted[0], 0
		for i := 0; i < len(sorted); {
			j := i
			for j < len(sorted) && sorted[j] == sorted[i] {
				j++
			}
			if j-i > bestCount {
				best, bestCount = sorted[i], j-i
			}
			i = j
		}
		return best
	default:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / n
	}
}

// WordsText joins the texts of an entity's words with single spaces
func WordsText(e WithWords) string {
	words := e.Words()
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text()
	}
	return strings.Join(texts, " ")
}

// ContentText joins the text forms of an entity's children with single
// spaces. Children without a text form are skipped.
func ContentText(e WithContent) string {
	var texts []string
	for _, c := range e.Content() {
		if t, ok := c.(WithText); ok {
			texts = append(texts, t.Text())
		}
	}
	return strings.Join(texts, " ")
}

// OCRConfidence aggregates the confidence of an entity's words
func OCRConfidence(e WithWords, method AggregationMethod) float64 {
	words := e.Words()
	scores := make([]float64, len(words))
	for i, w := range words {
		scores[i] = w.Confidence()
	}
	return Aggregate(scores, method)
}

func wordsOf(content []Entity) []*Word {
	var out []*Word
	for _, c := range content {
		if w, ok := c.(*Word); ok {
			out = append(out, w)
		}
	}
	return out
}

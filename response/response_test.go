package response

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleJSON = `{
  "DocumentMetadata": {"Pages": 1},
  "AnalyzeDocumentModelVersion": "1.0",
  "Blocks": [
    {"Id": "p1", "BlockType": "PAGE", "Geometry": {"BoundingBox": {"Left": 0, "Top": 0, "Width": 1, "Height": 1}},
     "Relationships": [{"Type": "CHILD", "Ids": ["l1"]}]},
    {"Id": "l1", "BlockType": "LINE", "Text": "Hello", "Confidence": 99.5,
     "Relationships": [{"Type": "CHILD", "Ids": ["w1"]}]},
    {"Id": "w1", "BlockType": "WORD", "Text": "Hello", "TextType": "PRINTED", "Confidence": 99.5}
  ]
}`

func block(id string, bt types.BlockType) types.Block {
	return types.Block{Id: aws.String(id), BlockType: bt}
}

func fragment(version string, status types.JobStatus, blocks ...types.Block) *Response {
	return &Response{
		DocumentMetadata:            &types.DocumentMetadata{Pages: aws.Int32(1)},
		AnalyzeDocumentModelVersion: version,
		JobStatus:                   status,
		Blocks:                      blocks,
	}
}

func quietCombine(fragments ...*Response) (*Response, error) {
	logger, _ := test.NewNullLogger()
	return Combine(fragments, WithLogger(logger))
}

func TestDecodeSingle(t *testing.T) {
	fragments, err := Decode(strings.NewReader(singleJSON))
	require.NoError(t, err)
	require.Len(t, fragments, 1)

	r := fragments[0]
	require.Len(t, r.Blocks, 3)
	assert.Equal(t, types.BlockTypePage, r.Blocks[0].BlockType)
	assert.Equal(t, "Hello", aws.ToString(r.Blocks[1].Text))
	assert.InDelta(t, 99.5, aws.ToFloat32(r.Blocks[1].Confidence), 1e-6)
	assert.Equal(t, []string{"w1"}, r.Blocks[1].Relationships[0].Ids)
	assert.Equal(t, types.TextTypePrinted, r.Blocks[2].TextType)
	assert.InDelta(t, 1.0, r.Blocks[0].Geometry.BoundingBox.Width, 1e-6)
	assert.Equal(t, 1, r.PageCount())
	assert.Equal(t, "1.0", r.AnalyzeDocumentModelVersion)
}

func TestDecodeArray(t *testing.T) {
	input := `[{"Blocks": [{"Id": "a", "BlockType": "PAGE"}], "JobStatus": "SUCCEEDED", "NextToken": "t"},
	           {"Blocks": [{"Id": "b", "BlockType": "PAGE"}], "JobStatus": "SUCCEEDED"}]`
	fragments, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.True(t, fragments[0].Truncated())
	assert.False(t, fragments[1].Truncated())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("   "))
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = Decode(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	first := fragment("1.0", types.JobStatusSucceeded, block("p1", types.BlockTypePage), block("l1", types.BlockTypeLine))
	first.NextToken = "more"
	first.Warnings = []types.Warning{{ErrorCode: aws.String("W1")}}
	second := fragment("1.0", types.JobStatusSucceeded, block("p2", types.BlockTypePage))
	second.DocumentMetadata.Pages = aws.Int32(2)
	second.Warnings = []types.Warning{{ErrorCode: aws.String("W2")}}

	got, err := quietCombine(first, second)
	require.NoError(t, err)

	require.Len(t, got.Blocks, 3)
	assert.Equal(t, "p2", aws.ToString(got.Blocks[2].Id))
	assert.Equal(t, 2, got.PageCount())
	assert.Equal(t, "1.0", got.AnalyzeDocumentModelVersion)
	assert.Equal(t, types.JobStatusSucceeded, got.JobStatus)
	assert.Len(t, got.Warnings, 2)
	assert.Empty(t, got.NextToken)
	assert.Empty(t, got.Notes())
	assert.NoError(t, got.Validate())
}

func TestCombineErrors(t *testing.T) {
	text := &Response{DetectDocumentTextModelVersion: "1.0", Blocks: []types.Block{block("p", types.BlockTypePage)}}

	tests := []struct {
		name      string
		fragments []*Response
		want      error
	}{
		{"no fragments", nil, ErrNoContent},
		{"mixed types", []*Response{fragment("1.0", "", block("p", types.BlockTypePage)), text}, ErrMixedAnalysisTypes},
		{"failed job", []*Response{fragment("1.0", types.JobStatusFailed)}, ErrJobFailed},
		{"partial failure", []*Response{fragment("1.0", types.JobStatus("PARTIALLY_FAILED"))}, ErrJobFailed},
		{"inconsistent status", []*Response{
			fragment("1.0", types.JobStatusSucceeded),
			fragment("1.0", types.JobStatusPartialSuccess),
		}, ErrInconsistentJobStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietCombine(tt.fragments...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCombineNotes(t *testing.T) {
	first := fragment("1.0", types.JobStatusSucceeded, block("p1", types.BlockTypePage))
	first.StatusMessage = "short"
	second := fragment("2.0", types.JobStatusSucceeded)
	second.StatusMessage = "a much longer message"
	second.NextToken = "next"

	logger, hook := test.NewNullLogger()
	got, err := Combine([]*Response{first, second}, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, "1.0", got.AnalyzeDocumentModelVersion)
	assert.Equal(t, "a much longer message", got.StatusMessage)
	assert.Equal(t, "next", got.NextToken)
	assert.True(t, got.Truncated())

	notes := got.Notes()
	require.Len(t, notes, 4)
	assert.Contains(t, notes[0], "has no blocks")
	assert.Contains(t, notes[1], "inconsistent model versions 1.0 and 2.0")
	assert.Contains(t, notes[2], "status messages")
	assert.Contains(t, notes[3], "truncated")
	assert.Len(t, hook.AllEntries(), 4)
}

func TestCombineTextDetection(t *testing.T) {
	got, err := quietCombine(&Response{
		DetectDocumentTextModelVersion: "1.0",
		Blocks:                         []types.Block{block("p", types.BlockTypePage)},
	})
	require.NoError(t, err)
	assert.True(t, got.IsTextDetection())
	assert.Empty(t, got.AnalyzeDocumentModelVersion)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&Response{}).Validate(), ErrNoContent)
	assert.NoError(t, fragment("1.0", "", block("p", types.BlockTypePage)).Validate())
}

func TestFromSDKOutputs(t *testing.T) {
	blocks := []types.Block{block("p", types.BlockTypePage)}

	analyze := FromAnalyzeDocument(&textract.AnalyzeDocumentOutput{
		Blocks:                      blocks,
		AnalyzeDocumentModelVersion: aws.String("1.0"),
	})
	assert.Equal(t, "1.0", analyze.AnalyzeDocumentModelVersion)
	assert.False(t, analyze.IsTextDetection())

	job := FromGetDocumentAnalysis(&textract.GetDocumentAnalysisOutput{
		Blocks:    blocks,
		JobStatus: types.JobStatusSucceeded,
		NextToken: aws.String("t"),
	})
	assert.Equal(t, types.JobStatusSucceeded, job.JobStatus)
	assert.True(t, job.Truncated())

	detect := FromDetectDocumentText(&textract.DetectDocumentTextOutput{
		Blocks:                         blocks,
		DetectDocumentTextModelVersion: aws.String("1.0"),
	})
	assert.True(t, detect.IsTextDetection())

	detectJob := FromGetDocumentTextDetection(&textract.GetDocumentTextDetectionOutput{
		Blocks:        blocks,
		StatusMessage: aws.String("ok"),
	})
	assert.Equal(t, "ok", detectJob.StatusMessage)
	assert.Len(t, detectJob.Blocks, 1)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte(singleJSON), 0o600))

	logger, _ := test.NewNullLogger()
	resp, err := Open(path, WithLogger(logger))
	require.NoError(t, err)
	assert.Len(t, resp.Blocks, 3)

	_, err = Open(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"Blocks": []}`), 0o600))
	_, err = Open(empty, WithLogger(logger))
	assert.ErrorIs(t, err, ErrNoContent)
}

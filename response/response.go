package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

var (
	// ErrNoContent is returned when there are no fragments or no blocks
	ErrNoContent = errors.New("response has no content")

	// ErrMixedAnalysisTypes is returned when document analysis and text
	// detection results are combined
	ErrMixedAnalysisTypes = errors.New("response mixes document analysis and text detection results")

	// ErrJobFailed is returned when a fragment reports a failed job
	ErrJobFailed = errors.New("analysis job failed")

	// ErrInconsistentJobStatus is returned when fragments disagree on the job status
	ErrInconsistentJobStatus = errors.New("inconsistent job status")
)

// Response is one analysis result, or several fragments of a paginated
// result combined. Field names follow the service JSON so a saved response
// decodes directly.
type Response struct {
	DocumentMetadata               *types.DocumentMetadata `json:"DocumentMetadata,omitempty"`
	Blocks                         []types.Block           `json:"Blocks,omitempty"`
	AnalyzeDocumentModelVersion    string                  `json:"AnalyzeDocumentModelVersion,omitempty"`
	DetectDocumentTextModelVersion string                  `json:"DetectDocumentTextModelVersion,omitempty"`
	JobStatus                      types.JobStatus         `json:"JobStatus,omitempty"`
	StatusMessage                  string                  `json:"StatusMessage,omitempty"`
	Warnings                       []types.Warning         `json:"Warnings,omitempty"`
	NextToken                      string                  `json:"NextToken,omitempty"`

	notes []string
}

// FromAnalyzeDocument wraps a synchronous document analysis result
func FromAnalyzeDocument(out *textract.AnalyzeDocumentOutput) *Response {
	return &Response{
		DocumentMetadata:            out.DocumentMetadata,
		Blocks:                      out.Blocks,
		AnalyzeDocumentModelVersion: aws.ToString(out.AnalyzeDocumentModelVersion),
	}
}

// FromGetDocumentAnalysis wraps one page of an asynchronous document
// analysis result
func FromGetDocumentAnalysis(out *textract.GetDocumentAnalysisOutput) *Response {
	return &Response{
		DocumentMetadata:            out.DocumentMetadata,
		Blocks:                      out.Blocks,
		AnalyzeDocumentModelVersion: aws.ToString(out.AnalyzeDocumentModelVersion),
		JobStatus:                   out.JobStatus,
		StatusMessage:               aws.ToString(out.StatusMessage),
		Warnings:                    out.Warnings,
		NextToken:                   aws.ToString(out.NextToken),
	}
}

// FromDetectDocumentText wraps a synchronous text detection result
func FromDetectDocumentText(out *textract.DetectDocumentTextOutput) *Response {
	return &Response{
		DocumentMetadata:               out.DocumentMetadata,
		Blocks:                         out.Blocks,
		DetectDocumentTextModelVersion: aws.ToString(out.DetectDocumentTextModelVersion),
	}
}

// FromGetDocumentTextDetection wraps one page of an asynchronous text
// detection result
func FromGetDocumentTextDetection(out *textract.GetDocumentTextDetectionOutput) *Response {
	return &Response{
		DocumentMetadata:               out.DocumentMetadata,
		Blocks:                         out.Blocks,
		DetectDocumentTextModelVersion: aws.ToString(out.DetectDocumentTextModelVersion),
		JobStatus:                      out.JobStatus,
		StatusMessage:                  aws.ToString(out.StatusMessage),
		Warnings:                       out.Warnings,
		NextToken:                      aws.ToString(out.NextToken),
	}
}

// Decode reads a saved response. The input is either one response object
// or an array of fragments of the same result.
func Decode(r io.Reader) ([]*Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoContent
	}

	if data[0] == '[' {
		var fragments []*Response
		if err := json.Unmarshal(data, &fragments); err != nil {
			return nil, fmt.Errorf("failed to decode response fragments: %w", err)
		}
		return fragments, nil
	}

	var single Response
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return []*Response{&single}, nil
}

// Load decodes, combines and validates a saved response
func Load(r io.Reader, opts ...Option) (*Response, error) {
	fragments, err := Decode(r)
	if err != nil {
		return nil, err
	}
	resp, err := Combine(fragments, opts...)
	if err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return resp, nil
}

// Open loads a saved response from a file
func Open(filename string, opts ...Option) (*Response, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	resp, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return resp, nil
}

// PageCount returns the page count reported in the document metadata
func (r *Response) PageCount() int {
	if r.DocumentMetadata == nil {
		return 0
	}
	return int(aws.ToInt32(r.DocumentMetadata.Pages))
}

// IsTextDetection reports whether the response comes from text detection
// rather than document analysis
func (r *Response) IsTextDetection() bool {
	return r.DetectDocumentTextModelVersion != "" && r.AnalyzeDocumentModelVersion == ""
}

// Truncated reports whether the service had more results to page through
func (r *Response) Truncated() bool {
	return r.NextToken != ""
}

// Validate checks the response has blocks
func (r *Response) Validate() error {
	if len(r.Blocks) == 0 {
		return ErrNoContent
	}
	return nil
}

// Notes returns the recoverable inconsistencies found while combining
// fragments
func (r *Response) Notes() []string {
	return append([]string(nil), r.notes...)
}

package response

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/sirupsen/logrus"
)

type options struct {
	logger logrus.FieldLogger
}

// Option configures Combine
type Option func(*options)

// WithLogger sets the logger notes are reported to. The default is the
// logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type analysisType int

const (
	analysisUnknown analysisType = iota
	analysisDocument
	analysisText
)

// Combine merges the fragments of one paginated result into a single
// response. Blocks are concatenated in fragment order.
//
// Mixed analysis types, a failed job and disagreeing job statuses are
// errors. Differing model versions keep the first, differing status
// messages keep the longest; both are noted, as are fragments without
// blocks and a next token on the last fragment.
func Combine(fragments []*Response, opts ...Option) (*Response, error) {
	o := options{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(fragments) == 0 {
		return nil, ErrNoContent
	}

	out := &Response{}
	note := func(i int, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		out.notes = append(out.notes, msg)
		o.logger.WithField("fragment", i).Warn(msg)
	}

	var (
		kind      analysisType
		version   string
		pages     int32
		haveMeta  bool
		jobStatus types.JobStatus
	)
	for i, f := range fragments {
		if f == nil {
			note(i, "fragment %d is empty", i)
			continue
		}
		if len(f.Blocks) == 0 {
			note(i, "fragment %d has no blocks", i)
		}
		out.Blocks = append(out.Blocks, f.Blocks...)

		if f.DocumentMetadata != nil {
			haveMeta = true
			if n := aws.ToInt32(f.DocumentMetadata.Pages); n > pages {
				pages = n
			}
		}

		for _, fv := range []struct {
			kind    analysisType
			version string
		}{
			{analysisDocument, f.AnalyzeDocumentModelVersion},
			{analysisText, f.DetectDocumentTextModelVersion},
		} {
			if fv.version == "" {
				continue
			}
			if kind != analysisUnknown && kind != fv.kind {
				return nil, fmt.Errorf("fragment %d: %w", i, ErrMixedAnalysisTypes)
			}
			kind = fv.kind
			switch {
			case version == "":
				version = fv.version
			case version != fv.version:
				note(i, "inconsistent model versions %s and %s; keeping %s", version, fv.version, version)
			}
		}

		if f.JobStatus != "" {
			if strings.Contains(strings.ToUpper(string(f.JobStatus)), "FAIL") {
				return nil, fmt.Errorf("fragment %d: %w with status %s", i, ErrJobFailed, f.JobStatus)
			}
			if jobStatus != "" && jobStatus != f.JobStatus {
				return nil, fmt.Errorf("fragment %d: %w: %s and %s", i, ErrInconsistentJobStatus, jobStatus, f.JobStatus)
			}
			jobStatus = f.JobStatus
		}

		if f.StatusMessage != "" {
			switch {
			case out.StatusMessage == "":
				out.StatusMessage = f.StatusMessage
			case out.StatusMessage != f.StatusMessage:
				note(i, "multiple status messages; keeping the longest")
				if len(f.StatusMessage) > len(out.StatusMessage) {
					out.StatusMessage = f.StatusMessage
				}
			}
		}

		out.Warnings = append(out.Warnings, f.Warnings...)
	}

	if haveMeta {
		out.DocumentMetadata = &types.DocumentMetadata{Pages: aws.Int32(pages)}
	}
	switch kind {
	case analysisText:
		out.DetectDocumentTextModelVersion = version
	default:
		out.AnalyzeDocumentModelVersion = version
	}
	out.JobStatus = jobStatus

	last := len(fragments) - 1
	if f := fragments[last]; f != nil && f.NextToken != "" {
		out.NextToken = f.NextToken
		note(last, "response has a next token; content may be truncated")
	}

	return out, nil
}

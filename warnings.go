package trp

import (
	"fmt"
	"strings"

	"github.com/tsawler/trp/resolver"
)

// Warning is a non-fatal issue found while reading a result. Page is 0 for
// issues that concern the whole response.
type Warning struct {
	Page    int
	Code    string
	Message string
}

// CodeResponse marks inconsistencies between the fragments of a response
const CodeResponse = "response"

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

func fromResolver(ws []resolver.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		msg := w.Message
		if msg == "" {
			msg = string(w.Code)
		}
		out[i] = Warning{Page: w.Page, Code: string(w.Code), Message: msg}
	}
	return out
}

func fromNotes(notes []string) []Warning {
	out := make([]Warning, len(notes))
	for i, n := range notes {
		out[i] = Warning{Code: CodeResponse, Message: n}
	}
	return out
}

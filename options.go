package trp

import (
	"github.com/sirupsen/logrus"

	"github.com/tsawler/trp/config"
)

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Region filtering
	excludeHeaders bool
	excludeFooters bool

	// Line ordering
	inReadingOrder bool
	useLayout      bool

	// Parser settings
	config config.Config
	strict bool
	logger logrus.FieldLogger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:  nil, // nil means all pages
		config: config.Default(),
		logger: logrus.StandardLogger(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}

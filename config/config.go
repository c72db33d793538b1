// Package config loads parser settings from YAML files and the environment.
//
// A settings file only needs the values it changes:
//
//	reading_order:
//	  column_overlap_threshold: 0.75
//	footer:
//	  max_margin: 0.1
//	references:
//	  missing_reference: error
//	use_layout: true
//
// Environment variables prefixed TRP_ override the file; see [Config.ApplyEnv].
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/trp/layout"
	"github.com/tsawler/trp/resolver"
)

// Config holds every tunable of the parser
type Config struct {
	ReadingOrder layout.ReadingOrderConfig `yaml:"reading_order"`
	Header       layout.HeaderFooterConfig `yaml:"header"`
	Footer       layout.HeaderFooterConfig `yaml:"footer"`
	References   References                `yaml:"references"`

	// UseLayout orders lines by layout items when the response has them
	UseLayout bool `yaml:"use_layout"`
}

// References sets how the block registry treats references it cannot follow
type References struct {
	// MissingReference is the policy for ids not present on the page:
	// ignore, warn or error.
	// Default: warn
	MissingReference string `yaml:"missing_reference"`

	// UnexpectedKind is the policy for references to blocks of a type the
	// parser does not expect there.
	// Default: warn
	UnexpectedKind string `yaml:"unexpected_kind"`

	// MaxDepth bounds the nesting of layout items.
	// Default: 100
	MaxDepth int `yaml:"max_depth"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		ReadingOrder: layout.DefaultReadingOrderConfig(),
		Header:       layout.DefaultHeaderFooterConfig(),
		Footer:       layout.DefaultHeaderFooterConfig(),
		References: References{
			MissingReference: resolver.PolicyWarn.String(),
			UnexpectedKind:   resolver.PolicyWarn.String(),
			MaxDepth:         100,
		},
	}
}

// Load reads a settings file. Values absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML settings over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from TRP_* environment variables. Unset or
// malformed variables leave the current value.
//
//	TRP_READING_ORDER_COLUMN_OVERLAP_THRESHOLD
//	TRP_READING_ORDER_COLUMN_MULTILINE_UNION_THRESHOLD
//	TRP_READING_ORDER_PARAGRAPH_VERTICAL_DISTANCE_TOLERANCE
//	TRP_READING_ORDER_PARAGRAPH_LINE_HEIGHT_TOLERANCE
//	TRP_READING_ORDER_PARAGRAPH_INDENT_THRESHOLD
//	TRP_HEADER_MAX_MARGIN, TRP_HEADER_MIN_GAP
//	TRP_FOOTER_MAX_MARGIN, TRP_FOOTER_MIN_GAP
//	TRP_MISSING_REFERENCE_POLICY, TRP_UNEXPECTED_KIND_POLICY, TRP_MAX_DEPTH
//	TRP_USE_LAYOUT
func (c *Config) ApplyEnv() {
	ro := &c.ReadingOrder
	ro.ColumnOverlapThreshold = envFloat("TRP_READING_ORDER_COLUMN_OVERLAP_THRESHOLD", ro.ColumnOverlapThreshold)
	ro.ColumnMultilineUnionThreshold = envFloat("TRP_READING_ORDER_COLUMN_MULTILINE_UNION_THRESHOLD", ro.ColumnMultilineUnionThreshold)
	ro.ParagraphVerticalDistanceTolerance = envFloat("TRP_READING_ORDER_PARAGRAPH_VERTICAL_DISTANCE_TOLERANCE", ro.ParagraphVerticalDistanceTolerance)
	ro.ParagraphLineHeightTolerance = envFloat("TRP_READING_ORDER_PARAGRAPH_LINE_HEIGHT_TOLERANCE", ro.ParagraphLineHeightTolerance)
	ro.ParagraphIndentThreshold = envFloat("TRP_READING_ORDER_PARAGRAPH_INDENT_THRESHOLD", ro.ParagraphIndentThreshold)

	c.Header.MaxMargin = envFloat("TRP_HEADER_MAX_MARGIN", c.Header.MaxMargin)
	c.Header.MinGap = envFloat("TRP_HEADER_MIN_GAP", c.Header.MinGap)
	c.Footer.MaxMargin = envFloat("TRP_FOOTER_MAX_MARGIN", c.Footer.MaxMargin)
	c.Footer.MinGap = envFloat("TRP_FOOTER_MIN_GAP", c.Footer.MinGap)

	c.References.MissingReference = envOr("TRP_MISSING_REFERENCE_POLICY", c.References.MissingReference)
	c.References.UnexpectedKind = envOr("TRP_UNEXPECTED_KIND_POLICY", c.References.UnexpectedKind)
	c.References.MaxDepth = envInt("TRP_MAX_DEPTH", c.References.MaxDepth)

	c.UseLayout = envBool("TRP_USE_LAYOUT", c.UseLayout)
}

// Validate checks every value is in range
func (c Config) Validate() error {
	ro := c.ReadingOrder
	for _, f := range []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"reading_order.column_overlap_threshold", ro.ColumnOverlapThreshold, 0, 1},
		{"reading_order.column_multiline_union_threshold", ro.ColumnMultilineUnionThreshold, 0, 1},
		{"reading_order.paragraph_vertical_distance_tolerance", ro.ParagraphVerticalDistanceTolerance, 0, 10},
		{"reading_order.paragraph_line_height_tolerance", ro.ParagraphLineHeightTolerance, 0, 10},
		{"reading_order.paragraph_indent_threshold", ro.ParagraphIndentThreshold, 0, 1},
		{"header.max_margin", c.Header.MaxMargin, 0, 1},
		{"header.min_gap", c.Header.MinGap, 0, 100},
		{"footer.max_margin", c.Footer.MaxMargin, 0, 1},
		{"footer.min_gap", c.Footer.MinGap, 0, 100},
	} {
		if f.value < f.min || f.value > f.max {
			return fmt.Errorf("%s must be between %g and %g, got %g", f.name, f.min, f.max, f.value)
		}
	}

	if _, err := resolver.ParsePolicy(c.References.MissingReference); err != nil {
		return fmt.Errorf("references.missing_reference: %w", err)
	}
	if _, err := resolver.ParsePolicy(c.References.UnexpectedKind); err != nil {
		return fmt.Errorf("references.unexpected_kind: %w", err)
	}
	if c.References.MaxDepth <= 0 {
		return fmt.Errorf("references.max_depth must be positive, got %d", c.References.MaxDepth)
	}
	return nil
}

// ResolverOptions converts the reference settings into registry options
func (c Config) ResolverOptions() ([]resolver.Option, error) {
	missing, err := resolver.ParsePolicy(c.References.MissingReference)
	if err != nil {
		return nil, fmt.Errorf("references.missing_reference: %w", err)
	}
	unexpected, err := resolver.ParsePolicy(c.References.UnexpectedKind)
	if err != nil {
		return nil, fmt.Errorf("references.unexpected_kind: %w", err)
	}

	opts := []resolver.Option{
		resolver.WithMissingReferencePolicy(missing),
		resolver.WithUnexpectedKindPolicy(unexpected),
	}
	if c.References.MaxDepth > 0 {
		opts = append(opts, resolver.WithMaxDepth(c.References.MaxDepth))
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

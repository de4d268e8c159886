package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"valyurag/internal/secret"
)

// SearchType restricts a search to web sources, proprietary sources, or both.
type SearchType string

const (
	SearchTypeWeb         SearchType = "web"
	SearchTypeProprietary SearchType = "proprietary"
	SearchTypeAll         SearchType = "all"
)

// SearchTypes lists the accepted literals in declaration order.
var SearchTypes = []SearchType{SearchTypeWeb, SearchTypeProprietary, SearchTypeAll}

// ExtractEffort controls how thoroughly the content API extracts pages.
type ExtractEffort string

const (
	ExtractEffortNormal ExtractEffort = "normal"
	ExtractEffortHigh   ExtractEffort = "high"
	ExtractEffortAuto   ExtractEffort = "auto"
)

var ExtractEfforts = []ExtractEffort{ExtractEffortNormal, ExtractEffortHigh, ExtractEffortAuto}

// ResponseLengthPresets lists the named response-length literals.
var ResponseLengthPresets = []string{"short", "medium", "large", "max"}

// ResponseLength is either a named preset or a positive character count.
// The zero value means "not set".
type ResponseLength struct {
	Preset string
	Chars  int
}

// IsSet reports whether a response length was configured.
func (l ResponseLength) IsSet() bool {
	return l.Preset != "" || l.Chars != 0
}

func (l ResponseLength) String() string {
	if l.Preset != "" {
		return l.Preset
	}
	if l.Chars != 0 {
		return strconv.Itoa(l.Chars)
	}
	return ""
}

// MarshalJSON writes the preset as a string or the count as a number.
func (l ResponseLength) MarshalJSON() ([]byte, error) {
	if l.Preset != "" {
		return json.Marshal(l.Preset)
	}
	if l.Chars != 0 {
		return json.Marshal(l.Chars)
	}
	return []byte("null"), nil
}

// SummaryKind tags the variant held by a Summary.
type SummaryKind int

const (
	SummaryNone SummaryKind = iota
	SummaryDefault
	SummaryInstruction
	SummarySchema
)

func (k SummaryKind) String() string {
	switch k {
	case SummaryDefault:
		return "default"
	case SummaryInstruction:
		return "instruction"
	case SummarySchema:
		return "schema"
	default:
		return "none"
	}
}

// MaxSummaryInstruction is the longest accepted instruction, in characters.
const MaxSummaryInstruction = 500

// Summary describes whether and how fetched content is summarized or extracted.
type Summary struct {
	Kind        SummaryKind
	Instruction string
	Schema      map[string]any
}

// DefaultSummary asks for the API's standard summary.
func DefaultSummary() Summary {
	return Summary{Kind: SummaryDefault}
}

// SummaryWithInstruction asks for a summary following a custom instruction.
func SummaryWithInstruction(s string) Summary {
	return Summary{Kind: SummaryInstruction, Instruction: s}
}

// SummaryWithSchema asks for structured extraction matching a JSON schema.
func SummaryWithSchema(schema map[string]any) Summary {
	return Summary{Kind: SummarySchema, Schema: schema}
}

// IsSet reports whether a summary directive is in effect.
func (s Summary) IsSet() bool {
	return s.Kind != SummaryNone
}

// MarshalJSON writes true, the instruction string, or the schema object.
func (s Summary) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SummaryDefault:
		return []byte("true"), nil
	case SummaryInstruction:
		return json.Marshal(s.Instruction)
	case SummarySchema:
		return json.Marshal(s.Schema)
	default:
		return []byte("null"), nil
	}
}

// SearchConfig configures the search adapter. It is validated once and never mutated afterwards.
type SearchConfig struct {
	APIKey             secret.Credential
	BaseURL            string
	TopK               int
	SearchType         SearchType
	RelevanceThreshold float64
	MaxPrice           int
	Timeout            time.Duration
}

// ContentConfig configures the content adapter.
type ContentConfig struct {
	APIKey         secret.Credential
	BaseURL        string
	Timeout        time.Duration
	ExtractEffort  ExtractEffort
	ResponseLength ResponseLength
	Summary        Summary
}

const (
	DefaultBaseURL            = "https://api.valyu.network"
	DefaultTopK               = 10
	DefaultSearchType         = SearchTypeAll
	DefaultRelevanceThreshold = 0.5
	DefaultMaxPrice           = 100
	DefaultTimeout            = 30 * time.Second
)

// DefaultSearchConfig returns the adapter defaults with the credential read from VALYU_API_KEY.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		APIKey:             secret.FromEnvVar(secret.DefaultEnvVar),
		BaseURL:            DefaultBaseURL,
		TopK:               DefaultTopK,
		SearchType:         DefaultSearchType,
		RelevanceThreshold: DefaultRelevanceThreshold,
		MaxPrice:           DefaultMaxPrice,
		Timeout:            DefaultTimeout,
	}
}

// DefaultContentConfig returns the content defaults: no effort, length or summary directive.
func DefaultContentConfig() ContentConfig {
	return ContentConfig{
		APIKey:  secret.FromEnvVar(secret.DefaultEnvVar),
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

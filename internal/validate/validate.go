// Package validate checks and normalizes adapter configuration before any request is built.
package validate

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"valyurag/internal/domain"
	"valyurag/internal/secret"
)

// Search validates cfg and returns a normalized copy. A zero APIKey reads VALYU_API_KEY.
func Search(cfg domain.SearchConfig) (domain.SearchConfig, error) {
	cfg.APIKey = apiKey(cfg.APIKey)
	if err := credential(cfg.APIKey); err != nil {
		return domain.SearchConfig{}, err
	}

	base, err := BaseURL(cfg.BaseURL)
	if err != nil {
		return domain.SearchConfig{}, err
	}
	cfg.BaseURL = base

	if cfg.TopK <= 0 {
		return domain.SearchConfig{}, invalid("top_k", "must be a positive integer, got %d", cfg.TopK)
	}
	if !slices.Contains(domain.SearchTypes, cfg.SearchType) {
		return domain.SearchConfig{}, invalid("search_type", "must be one of %s, got %q", joinLiterals(domain.SearchTypes), cfg.SearchType)
	}
	if math.IsNaN(cfg.RelevanceThreshold) || cfg.RelevanceThreshold < 0 || cfg.RelevanceThreshold > 1 {
		return domain.SearchConfig{}, invalid("relevance_threshold", "must lie in [0, 1], got %v", cfg.RelevanceThreshold)
	}
	if cfg.MaxPrice <= 0 {
		return domain.SearchConfig{}, invalid("max_price", "must be positive, got %d", cfg.MaxPrice)
	}
	if cfg.Timeout <= 0 {
		return domain.SearchConfig{}, invalid("timeout", "must be positive, got %s", cfg.Timeout)
	}

	return cfg, nil
}

// Content validates cfg and returns a normalized copy.
func Content(cfg domain.ContentConfig) (domain.ContentConfig, error) {
	cfg.APIKey = apiKey(cfg.APIKey)
	if err := credential(cfg.APIKey); err != nil {
		return domain.ContentConfig{}, err
	}

	base, err := BaseURL(cfg.BaseURL)
	if err != nil {
		return domain.ContentConfig{}, err
	}
	cfg.BaseURL = base

	if cfg.Timeout <= 0 {
		return domain.ContentConfig{}, invalid("timeout", "must be positive, got %s", cfg.Timeout)
	}
	if cfg.ExtractEffort != "" && !slices.Contains(domain.ExtractEfforts, cfg.ExtractEffort) {
		return domain.ContentConfig{}, invalid("extract_effort", "must be one of %s, got %q", joinLiterals(domain.ExtractEfforts), cfg.ExtractEffort)
	}
	if err := responseLength(cfg.ResponseLength); err != nil {
		return domain.ContentConfig{}, err
	}
	if err := summary(cfg.Summary); err != nil {
		return domain.ContentConfig{}, err
	}

	return cfg, nil
}

// BaseURL checks that raw is an absolute http(s) URL and trims trailing slashes.
// An empty value selects domain.DefaultBaseURL.
func BaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultBaseURL, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", &domain.ConfigurationError{Field: "base_url", Reason: "not a valid URL", Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", invalid("base_url", "must be an absolute http(s) URL, got %q", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// MaxResponseChars is the largest accepted character count.
const MaxResponseChars = math.MaxInt32

// ParseResponseLength converts a loosely typed value (YAML or JSON) into a ResponseLength.
// nil yields the unset value.
func ParseResponseLength(v any) (domain.ResponseLength, error) {
	var l domain.ResponseLength
	switch t := v.(type) {
	case nil:
		return l, nil
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			l.Chars = n
		} else {
			l.Preset = t
		}
	case int:
		l.Chars = t
	case int64:
		if t <= 0 || t > MaxResponseChars {
			return l, invalid("response_length", "must be between 1 and %d, got %d", MaxResponseChars, t)
		}
		l.Chars = int(t)
	case float64:
		if t != math.Trunc(t) {
			return l, invalid("response_length", "must be an integer, got %v", t)
		}
		if t <= 0 || t > MaxResponseChars {
			return l, invalid("response_length", "must be between 1 and %d, got %v", MaxResponseChars, t)
		}
		l.Chars = int(t)
	default:
		return l, invalid("response_length", "unsupported value of type %T", v)
	}
	if l.Preset == "" && l.Chars <= 0 {
		return domain.ResponseLength{}, invalid("response_length", "must be positive, got %d", l.Chars)
	}
	if err := responseLength(l); err != nil {
		return domain.ResponseLength{}, err
	}
	return l, nil
}

// ParseSummary converts a loosely typed value into a Summary: nil or false for none,
// true for the default summary, a string instruction, or a schema object.
func ParseSummary(v any) (domain.Summary, error) {
	var s domain.Summary
	switch t := v.(type) {
	case nil:
	case bool:
		if t {
			s = domain.DefaultSummary()
		}
	case string:
		s = domain.SummaryWithInstruction(t)
	case map[string]any:
		s = domain.SummaryWithSchema(t)
	default:
		return s, invalid("summary", "must be a boolean, a string or an object, got %T", v)
	}
	if err := summary(s); err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

func responseLength(l domain.ResponseLength) error {
	if l.Preset != "" {
		if l.Chars != 0 {
			return invalid("response_length", "set either a preset or a character count, not both")
		}
		if !slices.Contains(domain.ResponseLengthPresets, l.Preset) {
			return invalid("response_length", "must be one of %s or a positive integer, got %q", strings.Join(domain.ResponseLengthPresets, ", "), l.Preset)
		}
		return nil
	}
	if l.Chars < 0 {
		return invalid("response_length", "must be positive, got %d", l.Chars)
	}
	if l.Chars > MaxResponseChars {
		return invalid("response_length", "must not exceed %d, got %d", MaxResponseChars, l.Chars)
	}
	return nil
}

// Seconds converts a whole number of seconds into a Duration, rejecting values
// that would overflow. Sign checks are left to Search and Content.
func Seconds(field string, n int) (time.Duration, error) {
	if int64(n) > math.MaxInt64/int64(time.Second) {
		return 0, invalid(field, "%d seconds is out of range", n)
	}
	return time.Duration(n) * time.Second, nil
}

func summary(s domain.Summary) error {
	switch s.Kind {
	case domain.SummaryInstruction:
		if strings.TrimSpace(s.Instruction) == "" {
			return invalid("summary", "instruction must not be empty")
		}
		if n := utf8.RuneCountInString(s.Instruction); n > domain.MaxSummaryInstruction {
			return invalid("summary", "instruction exceeds %d characters (%d)", domain.MaxSummaryInstruction, n)
		}
	case domain.SummarySchema:
		if s.Schema == nil {
			return invalid("summary", "schema must be an object")
		}
	}
	return nil
}

// apiKey falls back to secret.DefaultEnvVar when no credential was configured.
func apiKey(c secret.Credential) secret.Credential {
	if c.IsZero() {
		return secret.FromEnvVar(secret.DefaultEnvVar)
	}
	return c
}

func credential(c secret.Credential) error {
	if _, err := c.Resolve(); err != nil {
		return &domain.ConfigurationError{Field: "api_key", Reason: err.Error(), Err: err}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return &domain.ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func joinLiterals[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

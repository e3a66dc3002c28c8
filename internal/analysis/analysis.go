// Package analysis converts arbitrarily-shaped AI screening output into a
// canonical report that is always renderable. Normalization is total: it
// never fails, it degrades.
package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Raw is the shape the upstream analysis arrived in. Absent is modeled as a
// nil Raw so the normalizer's branches stay exhaustive.
type Raw interface {
	raw()
}

// Structured is an analysis that is already an object.
type Structured map[string]any

func (Structured) raw() {}

// Text is an analysis delivered as a text blob that may embed a JSON object.
type Text string

func (Text) raw() {}

// FromValue classifies a decoded JSON value into the Raw union. Empty or
// nil values mean the analysis is absent.
func FromValue(v any) Raw {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return Structured(val)
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return Text(val)
	default:
		return Text(fmt.Sprintf("%v", val))
	}
}

// Report is the canonical screening report. Every field is optional; an
// absent field means its section is simply not rendered.
type Report struct {
	Summary      string   `json:"summary,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

// Normalize produces a Report for any Raw value. Absent input yields an
// absent report; everything else yields a non-nil report, worst case a
// summary holding the original text.
func Normalize(raw Raw) *Report {
	switch v := raw.(type) {
	case nil:
		return nil
	case Structured:
		return fromStructured(v)
	case Text:
		return fromText(string(v))
	default:
		return &Report{Summary: fmt.Sprintf("%v", raw)}
	}
}

func fromStructured(data map[string]any) *Report {
	var report Report
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &report,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err == nil && decoder.Decode(data) == nil {
		return &report
	}

	// The decoder choked on some field shape. Fall back to field-by-field
	// coercion so the report is still produced.
	return &Report{
		Summary:      coerceString(data["summary"]),
		Roles:        coerceStrings(data["roles"]),
		Skills:       coerceStrings(data["skills"]),
		Improvements: coerceStrings(data["improvements"]),
	}
}

// fromText scans the blob for an embedded object using a greedy bracket
// span: first "{" to last "}", without balancing braces. When the span does
// not parse, the original text becomes the summary so it is never lost.
func fromText(text string) *Report {
	if span, ok := bracketSpan(text); ok {
		var data map[string]any
		if err := json.Unmarshal([]byte(span), &data); err == nil {
			return fromStructured(data)
		}
	}

	return &Report{Summary: text}
}

func bracketSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return val
	case []any:
		// Order is kept exactly as received; no de-duplication or sorting.
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, coerceString(item))
		}
		return items
	default:
		return []string{coerceString(v)}
	}
}

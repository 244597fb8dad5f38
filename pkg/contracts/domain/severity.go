package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the ordered accident severity category.
// The ordinal encoding (Slight < Serious < Fatal) is part of the cache
// schema and must not be reordered.
type Severity int32

const (
	SeveritySlight  Severity = 0
	SeveritySerious Severity = 1
	SeverityFatal   Severity = 2
)

var severityLabels = [...]string{"Slight", "Serious", "Fatal"}

// SeverityOrder lists all severity labels from least to most severe.
var SeverityOrder = []string{"Slight", "Serious", "Fatal"}

// String returns the canonical label for the severity level.
func (s Severity) String() string {
	if s < SeveritySlight || s > SeverityFatal {
		return fmt.Sprintf("Severity(%d)", int32(s))
	}
	return severityLabels[s]
}

// Valid reports whether the severity is one of the three known levels.
func (s Severity) Valid() bool {
	return s >= SeveritySlight && s <= SeverityFatal
}

// ParseSeverity maps a raw severity label onto its ordered category.
// Matching is case-insensitive and tolerant of surrounding whitespace.
func ParseSeverity(label string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "slight":
		return SeveritySlight, true
	case "serious":
		return SeveritySerious, true
	case "fatal":
		return SeverityFatal, true
	}
	return 0, false
}

// MarshalJSON renders the severity as its label so API payloads stay
// readable; the ordinal form is an on-disk concern only.
func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown severity ordinal %d", int32(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either a label or an ordinal.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		parsed, ok := ParseSeverity(label)
		if !ok {
			return fmt.Errorf("unknown severity label %q", label)
		}
		*s = parsed
		return nil
	}
	var ordinal int32
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return fmt.Errorf("severity must be a label or ordinal: %w", err)
	}
	parsed := Severity(ordinal)
	if !parsed.Valid() {
		return fmt.Errorf("severity ordinal %d out of range", ordinal)
	}
	*s = parsed
	return nil
}

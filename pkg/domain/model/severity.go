package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Severity represents an issue severity level
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// Label returns the display label with the first letter capitalized
func (s Severity) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s)[:1]) + string(s)[1:]
}

// Rank returns the ordering weight of the severity. Higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// IsValid checks if the severity is one of the known levels
func (s Severity) IsValid() bool {
	return s.Rank() > 0
}

// ParseSeverity parses a severity string, case-insensitively
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", goerr.New("invalid severity", goerr.V("severity", v))
	}
	return s, nil
}

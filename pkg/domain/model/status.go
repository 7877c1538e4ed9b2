package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Status represents the lifecycle state of an issue
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is one of the known states
func (s Status) IsValid() bool {
	return s == StatusOpen || s == StatusResolved
}

// ParseStatus parses a status string, case-insensitively
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", goerr.New("invalid status", goerr.V("status", v))
	}
	return s, nil
}

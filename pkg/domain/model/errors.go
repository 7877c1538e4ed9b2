package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrUserNotFound    = goerr.New("user not found")
	ErrSessionNotFound = goerr.New("session not found")
	ErrIssueNotFound   = goerr.New("issue not found")
	ErrEmailTaken      = goerr.New("email is already registered")
	ErrNoSummary       = goerr.New("no analytics summary available to export")
	ErrPermission      = goerr.New("operation not permitted for this role")
)

package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrInvalidCommand      = errors.New("invalid command")
	ErrInvalidTickCount    = errors.New("invalid tick count")

	// Profile errors
	ErrInvalidUsername        = errors.New("username is required")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrUpstreamNotConfigured  = errors.New("upstream credentials not configured")
	ErrUpstreamUnavailable    = errors.New("upstream request failed")
	ErrUpstreamBadRequest     = errors.New("upstream rejected the query")
	ErrUpstreamInvalidPayload = errors.New("upstream returned an unexpected payload")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")
)

// UpstreamError carries the status and message reported by an external API.
// It matches Kind with errors.Is, or ErrUpstreamUnavailable when Kind is nil.
type UpstreamError struct {
	Service string
	Status  int
	Message string
	Kind    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	return ErrUpstreamUnavailable
}

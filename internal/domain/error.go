package domain

import "errors"

var (
	// Pipeline errors. Each stage returns its own sentinel so the facade can
	// pick the user-facing phrasing without inspecting messages.
	ErrNoLinkFound    = errors.New("no marketplace link found in message")
	ErrNoProductID    = errors.New("no plausible product id in url")
	ErrLinkGeneration = errors.New("affiliate link generation failed")
	ErrSynthesis      = errors.New("coin discount link synthesis failed")
	ErrDetailNotFound = errors.New("product detail not found")
)

package services

import "fmt"

// AuthError means the OAuth2 token exchange failed. The token cache stays
// empty; the chat turn degrades to "no flight data".
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed: %v", e.Err)
	}
	return fmt.Sprintf("auth failed (%d): %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SearchError means the upstream flight-offer search failed (transport error
// or non-2xx). Status and Body carry the upstream response for diagnostics.
type SearchError struct {
	Status int
	Body   string
	Err    error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flight search failed: %v", e.Err)
	}
	return fmt.Sprintf("flight search failed (%d): %s", e.Status, e.Body)
}

func (e *SearchError) Unwrap() error { return e.Err }

// ConversionError means the currency-rate source was unreachable or returned
// garbage. Never surfaced to the user; prices stay in their original currency.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("rate lookup failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// GenerationError means the text oracle failed. There is no fallback prose
// path, so this one fails the whole request.
type GenerationError struct {
	Status int
	Body   string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("text generation failed: %v", e.Err)
	}
	return fmt.Sprintf("text generation failed (%d): %s", e.Status, e.Body)
}

func (e *GenerationError) Unwrap() error { return e.Err }

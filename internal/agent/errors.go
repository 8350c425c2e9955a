package agent

import (
	"errors"
	"fmt"

	"webagent/internal/scraper"
	"webagent/internal/store"
)

// Kind is the machine-readable failure category. Every operation
// failure carries one, so callers can map it to a transport status
// without parsing messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindCorruptRecord
	KindScrape
	KindTimeout
	KindLLMUnavailable
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCorruptRecord:
		return "corrupt_record"
	case KindScrape:
		return "scrape_error"
	case KindTimeout:
		return "timeout"
	case KindLLMUnavailable:
		return "llm_unavailable"
	case KindStorage:
		return "storage_error"
	default:
		return "internal"
	}
}

// Error is a structured operation failure: a category plus a human
// message. No operation lets anything else escape its boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure category from any error returned by the
// service.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// storeError maps store-layer failures onto the taxonomy. NotFound and
// CorruptRecord stay distinct for diagnostics even when a transport
// surfaces them identically.
func storeError(err error, id string) *Error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return wrapError(KindNotFound, err, "agent %s not found", id)
	case errors.Is(err, store.ErrCorruptRecord):
		return wrapError(KindCorruptRecord, err, "stored data for agent %s is unreadable", id)
	default:
		return wrapError(KindStorage, err, "storage failure for agent %s", id)
	}
}

// scrapeError maps scraper failures, keeping timeouts distinct.
func scrapeError(err error, url string) *Error {
	if errors.Is(err, scraper.ErrTimeout) {
		return wrapError(KindTimeout, err, "scraping %s timed out", url)
	}
	return wrapError(KindScrape, err, "failed to scrape %s", url)
}

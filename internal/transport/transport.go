// Package transport issues GET requests and decodes JSON bodies.
//
// Two backends implement the same Getter contract: an OS-level HTTP
// stack for native builds and the browser's fetch capability for
// js/wasm builds. Build tags select the backend at compile time, so
// callers never reference either implementation directly.
package transport

import (
	"context"
	"fmt"
)

// Getter fetches a URL and decodes its JSON body into v.
type Getter interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Kind classifies a transport failure.
type Kind int

const (
	// KindNetwork covers connection and timeout failures.
	KindNetwork Kind = iota
	// KindStatus covers non-2xx HTTP responses.
	KindStatus
	// KindDecode covers JSON body decode failures.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every Getter. Status is set
// only when Kind is KindStatus.
type Error struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("transport: unexpected status %d", e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("transport: %s failure", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

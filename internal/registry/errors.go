package registry

import "fmt"

// Kind enumerates the error taxonomy the registry core can raise. The HTTP
// status mapping lives at the handler boundary (internal/api), not here —
// this package has no HTTP dependency.
type Kind int

const (
	// KindNotFound means the requested blob or manifest is absent.
	KindNotFound Kind = iota
	// KindStorageIO means the underlying filesystem failed.
	KindStorageIO
	// KindDigestMismatch means computed and expected digests disagree.
	KindDigestMismatch
	// KindParseDigest means a digest string failed to parse.
	KindParseDigest
	// KindParseManifest means manifest bytes are not valid JSON, or lack
	// a usable media type.
	KindParseManifest
	// KindContentLengthMalformed means a Content-Length header value was
	// not a valid integer.
	KindContentLengthMalformed
	// KindNotSupported means a recognized-but-unimplemented protocol
	// feature was requested (chunked upload, ranged PATCH, non-empty
	// finalize body).
	KindNotSupported
	// KindAuthRequired means credentials were missing or rejected.
	KindAuthRequired
	// KindIncomingReadFailed means the client's request stream aborted.
	KindIncomingReadFailed
	// KindLocalWriteFailed means writing to local staging failed.
	KindLocalWriteFailed
)

// Error is the registry's error type. Every error that crosses a component
// boundary (storage, auth, handler) is one of these so the handler layer
// can convert it to a response without inspecting wrapped causes.
type Error struct {
	Kind    Kind
	Feature string // populated for KindNotSupported
	Cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return "missing item"
	case KindStorageIO:
		return fmt.Sprintf("storage I/O error: %v", e.Cause)
	case KindDigestMismatch:
		return "digest mismatch"
	case KindParseDigest:
		return fmt.Sprintf("could not parse digest: %v", e.Cause)
	case KindParseManifest:
		return fmt.Sprintf("could not parse manifest: %v", e.Cause)
	case KindContentLengthMalformed:
		return fmt.Sprintf("invalid content length value: %v", e.Cause)
	case KindNotSupported:
		return fmt.Sprintf("feature not supported: %s", e.Feature)
	case KindAuthRequired:
		return "authentication required"
	case KindIncomingReadFailed:
		return "failed to read incoming data stream"
	case KindLocalWriteFailed:
		return "local write failed"
	default:
		return "registry error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a plain Error of the given kind with no cause.
func NewError(kind Kind) *Error { return &Error{Kind: kind} }

// Wrap builds an Error of the given kind, recording cause for logging.
func Wrap(kind Kind, cause error) *Error { return &Error{Kind: kind, Cause: cause} }

// NotSupported builds a KindNotSupported error naming the missing feature.
func NotSupported(feature string) *Error { return &Error{Kind: KindNotSupported, Feature: feature} }

package appdata

import (
	"errors"
	"fmt"
)

var (
	// ErrEnvironment is returned when the environment variable naming the
	// app data root is unset or empty.
	ErrEnvironment = errors.New("app data root is not available")

	// ErrIO wraps filesystem failures while checking, reading or writing app data.
	ErrIO = errors.New("app data i/o failed")

	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("app data could not be decoded")

	// ErrConfigurationMissing is returned by ModsDir when the platform has
	// not been chosen yet.
	ErrConfigurationMissing = errors.New("platform is not set")

	// ErrInvalidPlatform is returned by ModsDir for a Platform value outside
	// the known variants.
	ErrInvalidPlatform = errors.New("platform is not recognized")
)

// DecodeErrorKind classifies why a snapshot failed to decode.
type DecodeErrorKind int

const (
	// ErrUnexpectedEnd means the input ended inside a tag or value.
	ErrUnexpectedEnd DecodeErrorKind = iota + 1
	// ErrMalformed means the bytes were well formed but a value was
	// rejected, such as an out of range platform.
	ErrMalformed
	// ErrTypeMismatch means a known field carried an unexpected wire type.
	ErrTypeMismatch
	// ErrInvalidEncoding means the bytes themselves are invalid: an
	// overlong varint, a bad field number or wire type, or text that is
	// not UTF-8.
	ErrInvalidEncoding
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ErrUnexpectedEnd:
		return "unexpected end of input"
	case ErrMalformed:
		return "malformed input"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrInvalidEncoding:
		return "invalid encoding"
	default:
		return fmt.Sprintf("DecodeErrorKind(%d)", int(k))
	}
}

// DecodeError describes a failed snapshot decode.
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("decoding app data at offset %d: %s", e.Offset, e.Kind)
	}
	return fmt.Sprintf("decoding app data at offset %d: %s: %s", e.Offset, e.Kind, e.Msg)
}

// Is reports ErrDecode as a match so callers need not know the concrete type.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IsCorruption reports whether err is one of the decode failures that Read
// heals by resetting the snapshot: truncation and rejected values. Type
// mismatches and invalid encodings are returned to the caller instead.
func IsCorruption(err error) bool {
	var de *DecodeError
	if !errors.As(err, &de) {
		return false
	}
	return de.Kind == ErrUnexpectedEnd || de.Kind == ErrMalformed
}

package itemserial

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrFormat indicates a serial whose framing is wrong: a bad tag byte,
	// a bad sentinel, or a field that reads past the end of the body.
	ErrFormat = errors.New("invalid serial format")

	// ErrTruncated indicates a bit read past the end of a buffer.
	ErrTruncated = errors.New("truncated bit buffer")

	// ErrIntegrity indicates a checksum mismatch.
	ErrIntegrity = errors.New("checksum mismatch")

	// ErrUnknownCategory indicates a category the catalog does not carry.
	ErrUnknownCategory = errors.New("unknown catalog category")

	// ErrNotParsed indicates a header operation on a serial that is not
	// in the Parsed state.
	ErrNotParsed = errors.New("serial not parsed")

	// ErrLevelRange indicates a level that does not fit the level field.
	ErrLevelRange = errors.New("level out of range")

	// ErrInvalidCatalog indicates a catalog that cannot be built.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrUnsupportedCompression indicates an unknown compression name.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrMissingCodec indicates a catalog operation without a codec.
	ErrMissingCodec = errors.New("missing codec")

	// ErrInvalidText indicates text that is not a wrapped serial.
	ErrInvalidText = errors.New("invalid serial text")
)

// FormatError reports a structural problem with one serial.
// It wraps ErrFormat, and also the more specific sentinel in Err when set.
type FormatError struct {
	Err   error  // Specific sentinel (ErrTruncated) or nil
	Field string // Field being read when the problem was found
	Cause error  // Underlying error or description
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: field %s: %v", ErrFormat.Error(), e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: field %s", ErrFormat.Error(), e.Field)
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

// IntegrityError reports a checksum mismatch between the stored and the
// recomputed value.
type IntegrityError struct {
	Stored   uint16
	Computed uint16
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: stored %#04x, computed %#04x", ErrIntegrity.Error(), e.Stored, e.Computed)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

// CatalogError reports a catalog construction or loading failure.
type CatalogError struct {
	Err      error    // Underlying sentinel error (ErrInvalidCatalog, ErrUnknownCategory, ...)
	Category Category // Category involved, if any
	Cause    error    // Original error
}

func (e *CatalogError) Error() string {
	switch {
	case e.Category != "" && e.Cause != nil:
		return fmt.Sprintf("%s: category %s: %v", e.Err.Error(), e.Category, e.Cause)
	case e.Category != "":
		return fmt.Sprintf("%s: category %s", e.Err.Error(), e.Category)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// newFormatError creates a FormatError for a field.
func newFormatError(field string, cause error) error {
	fe := &FormatError{Field: field, Cause: cause}
	if errors.Is(cause, ErrTruncated) {
		fe.Err = ErrTruncated
	}
	return fe
}

// newCatalogError creates a CatalogError.
func newCatalogError(sentinel error, category Category, cause error) error {
	return &CatalogError{
		Err:      sentinel,
		Category: category,
		Cause:    cause,
	}
}

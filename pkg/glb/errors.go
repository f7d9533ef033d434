package glb

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package wraps exactly one of them.
var (
	// ErrFormat reports a malformed container or metadata document.
	ErrFormat = errors.New("glb: format error")
	// ErrValidation reports metadata that is well formed but cannot be turned into a drawable.
	ErrValidation = errors.New("glb: validation error")
	// ErrOutOfRange reports index data that cannot be narrowed to 16 bits without loss.
	ErrOutOfRange = errors.New("glb: out of range")
)

// Container errors.
var (
	ErrInvalidMagic       = fmt.Errorf("%w: invalid magic, expected 'glTF'", ErrFormat)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrFormat)
	ErrTruncated          = fmt.Errorf("%w: truncated data", ErrFormat)
	ErrMissingMetadata    = fmt.Errorf("%w: missing JSON chunk", ErrFormat)
	ErrDuplicateChunk     = fmt.Errorf("%w: duplicate chunk", ErrFormat)
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func outOfRangef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrOutOfRange}, args...)...)
}

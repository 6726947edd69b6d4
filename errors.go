package wad

import (
	"errors"

	"github.com/hexrift/wad/internal/plan"
)

// Archive-level errors. These are the only failures Extract propagates to
// the caller; everything per-chunk is absorbed into the skip count.
var (
	// ErrBadSignature is returned when the leading two bytes are not "RW".
	ErrBadSignature = errors.New("wad: bad signature")

	// ErrUnsupportedVersion is returned for major versions outside 1-3.
	ErrUnsupportedVersion = errors.New("wad: unsupported major version")

	// ErrTruncated is returned when the header or chunk table ends before
	// its declared extent.
	ErrTruncated = errors.New("wad: truncated archive")
)

// Per-chunk errors, surfaced through the event stream rather than the
// job's return value.
var (
	// ErrUnsupportedCodec marks the legacy satellite compression type,
	// which the format itself documents as unsupported.
	ErrUnsupportedCodec = errors.New("wad: satellite compression is not supported")

	// ErrUnknownCodec is returned for compression nibbles above the known
	// range. Parsing accepts them; decompression rejects them.
	ErrUnknownCodec = errors.New("wad: unknown compression type")

	// ErrUnsafePath is returned when a chunk's resolved name escapes the
	// output root.
	ErrUnsafePath = plan.ErrUnsafePath
)

package wad

import (
	"log/slog"

	"github.com/hexrift/wad/codec"
	"github.com/hexrift/wad/internal/fsio"
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithLookup supplies hash dictionaries for name resolution. Ignored
// when a bulk resolver is also configured and succeeds.
func WithLookup(lookup Lookup) Option {
	return func(x *Extractor) {
		x.lookup = lookup
	}
}

// WithResolver supplies a bulk name resolver, preferred over the lookup
// tables. A failing resolver degrades to the lookup with a warning
// rather than aborting the job.
func WithResolver(r Resolver) Option {
	return func(x *Extractor) {
		x.resolver = r
	}
}

// WithFilter restricts extraction to chunks the predicate accepts. The
// predicate sees chunks after name resolution.
func WithFilter(keep func(*Chunk) bool) Option {
	return func(x *Extractor) {
		x.filter = keep
	}
}

// WithEvents registers the event consumer. fn may be called from
// multiple goroutines and must not block.
func WithEvents(fn EventFunc) Option {
	return func(x *Extractor) {
		x.events = fn
	}
}

// WithLogger sets the logger for engine diagnostics. Logging is disabled
// by default.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Extractor) {
		x.logger = logger
	}
}

// WithReplaceExisting controls whether existing destination files are
// overwritten. Default true; when false, existing targets count as
// skipped.
func WithReplaceExisting(replace bool) Option {
	return func(x *Extractor) {
		x.replaceExisting = replace
	}
}

// WithDecompressWorkers sets the decompression pool size. Values below 1
// are ignored.
func WithDecompressWorkers(n int) Option {
	return func(x *Extractor) {
		if n >= 1 {
			x.decompressWorkers = n
		}
	}
}

// WithWriteSlots sets the write-stage semaphore capacity, bounding how
// many decompressed payloads may await or undergo writing at once.
// Values below 1 are ignored.
func WithWriteSlots(n int) Option {
	return func(x *Extractor) {
		if n >= 1 {
			x.writeSlots = n
		}
	}
}

// WithResolveCadence sets how many records batched name resolution
// processes between scheduler yields. Zero selects the default; values
// below the floor are raised to it.
func WithResolveCadence(n int) Option {
	return func(x *Extractor) {
		x.resolveCadence = n
	}
}

// WithCodecProvider replaces the decoder provider, letting callers share
// one provider (and its zstd decoder memory limit) across jobs.
func WithCodecProvider(p *codec.Provider) Option {
	return func(x *Extractor) {
		if p != nil {
			x.provider = p
		}
	}
}

// WithFS replaces the filesystem adapter. Intended for tests and
// embedders with virtualized storage.
func WithFS(fs fsio.FS) Option {
	return func(x *Extractor) {
		if fs != nil {
			x.fs = fs
		}
	}
}

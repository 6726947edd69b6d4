package wad

import "fmt"

// EventKind classifies extraction events.
type EventKind int

const (
	// EventProgress reports write completions, throttled to roughly five
	// per second plus one final event.
	EventProgress EventKind = iota

	// EventWarning reports a recoverable oddity (short read, size
	// mismatch) on a chunk that still extracted.
	EventWarning

	// EventFallbackNamed reports a chunk written under its hex hash
	// because its resolved name was unusable.
	EventFallbackNamed

	// EventSkipped reports a chunk that was not written.
	EventSkipped
)

// String returns the short diagnostic name for the kind.
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventWarning:
		return "warning"
	case EventFallbackNamed:
		return "fallback-named"
	case EventSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is one notification from a running extraction. Which fields are
// populated depends on Kind: progress events carry Written/Total,
// chunk-scoped events carry Path and Hash.
type Event struct {
	Kind EventKind

	// Path is the destination relative to the output root, when known.
	Path string

	// Hash is the chunk's 16-hex identity.
	Hash string

	// Written and Total count chunks, not bytes.
	Written int
	Total   int

	Message string
}

// EventFunc receives extraction events. It may be called concurrently
// from pipeline goroutines and must not block; the engine never waits on
// a consumer.
type EventFunc func(Event)

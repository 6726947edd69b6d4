package wad

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/hexrift/wad/sniff"
)

// Resolution cadence for the batched variant: how many records are
// processed between scheduler yields. Large tables (hundreds of
// thousands of chunks) otherwise monopolize a goroutine.
const (
	defaultResolveCadence = 1200
	minResolveCadence     = 256
)

// Lookup maps table names to per-table hash dictionaries
// (lowercase 16-hex identity to display path).
type Lookup map[string]map[string]string

// Resolver resolves hex identities to display paths in bulk. Results are
// positional; an empty string leaves the chunk unresolved. Implemented
// by embedding hosts that keep hash tables in a database or service.
type Resolver func(hexes []string) ([]string, error)

// ResolveNames replaces hex chunk identities with display paths found in
// lookup, then stable-sorts the table by name. Hex keys are matched
// case-insensitively. Chunks absent from every dictionary stay on their
// hex identity.
func ResolveNames(a *Archive, lookup Lookup) {
	for i := range a.Chunks {
		resolveChunk(&a.Chunks[i], lookup)
	}
	sortChunks(a)
}

// ResolveNamesBatched is ResolveNames with cooperative scheduling:
// every cadence records it checks ctx and yields. cadence values below
// the floor are raised to it; zero selects the default.
func ResolveNamesBatched(ctx context.Context, a *Archive, lookup Lookup, cadence int) error {
	if cadence <= 0 {
		cadence = defaultResolveCadence
	}
	if cadence < minResolveCadence {
		cadence = minResolveCadence
	}
	for i := range a.Chunks {
		if i > 0 && i%cadence == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
		}
		resolveChunk(&a.Chunks[i], lookup)
	}
	sortChunks(a)
	return nil
}

// ResolveWith resolves every chunk through a bulk resolver, then
// stable-sorts the table. The resolver sees each chunk's hex identity
// exactly once, in table order.
func ResolveWith(a *Archive, resolve Resolver) error {
	hexes := make([]string, len(a.Chunks))
	for i := range a.Chunks {
		hexes[i] = a.Chunks[i].HexHash()
	}
	names, err := resolve(hexes)
	if err != nil {
		return fmt.Errorf("wad: bulk resolve: %w", err)
	}
	if len(names) != len(hexes) {
		return fmt.Errorf("wad: bulk resolve returned %d names for %d chunks", len(names), len(hexes))
	}
	for i := range a.Chunks {
		if names[i] != "" {
			applyName(&a.Chunks[i], names[i])
		}
	}
	sortChunks(a)
	return nil
}

func resolveChunk(c *Chunk, lookup Lookup) {
	if c.Resolved() {
		return
	}
	hex := strings.ToLower(c.Hash)
	for _, table := range lookup {
		if name := table[hex]; name != "" {
			applyName(c, name)
			return
		}
	}
}

// applyName swaps a chunk from hex identity to display path, keeping the
// hex for fallback naming and the sidecar.
func applyName(c *Chunk, name string) {
	c.PathHashHex = strings.ToLower(c.Hash)
	c.Hash = name
	if ext := sniff.Path(name); ext != "" {
		c.Extension = ext
	}
}

func sortChunks(a *Archive) {
	slices.SortStableFunc(a.Chunks, func(x, y Chunk) int {
		return strings.Compare(x.Hash, y.Hash)
	})
}

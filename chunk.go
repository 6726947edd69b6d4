package wad

import (
	"strings"

	"github.com/hexrift/wad/codec"
	"github.com/hexrift/wad/wadhash"
)

// Compression identifies how a chunk payload is stored.
// Alias of [codec.Compression] so callers rarely import codec directly.
type Compression = codec.Compression

// Compression constants re-exported from codec.
const (
	CompressionRaw         = codec.Raw
	CompressionGzip        = codec.Gzip
	CompressionSatellite   = codec.Satellite
	CompressionZstd        = codec.Zstd
	CompressionZstdChunked = codec.ZstdChunked
)

// Signature is the fixed two-byte archive tag.
var Signature = [2]byte{'R', 'W'}

// Chunk is one stored entry in the archive's table of contents.
//
// Chunks are value records populated during table parsing; name
// resolution may replace Hash once, stashing the original hex in
// PathHashHex. Decompressed payloads are transient pipeline values and
// never stored on the chunk.
type Chunk struct {
	// ID is the chunk's index in the parsed table, stable across the
	// post-resolution sort.
	ID int

	// Hash is the chunk identity: a 16-digit hex hash until resolution
	// replaces it with the original asset path.
	Hash string

	// PathHashHex preserves the original hex identity once Hash has been
	// resolved. Empty while unresolved.
	PathHashHex string

	Offset           uint32
	CompressedSize   uint32
	DecompressedSize uint32
	Compression      Compression
	Duplicated       bool
	SubchunkCount    uint8
	SubchunkStart    uint16

	// Checksum is present for version >= 2 archives, zero otherwise.
	Checksum uint64

	// Extension is the content-type tag, set from the resolved name's
	// suffix or sniffed from decompressed bytes. Empty when unknown.
	Extension string
}

// Resolved reports whether Hash has been replaced by a display path.
func (c *Chunk) Resolved() bool {
	return c.PathHashHex != ""
}

// HexHash returns the chunk's canonical 16-hex identity regardless of
// resolution state.
func (c *Chunk) HexHash() string {
	if c.PathHashHex != "" {
		return c.PathHashHex
	}
	if wadhash.LooksLikeHash(c.Hash) {
		return strings.ToLower(c.Hash)
	}
	return wadhash.HashHex(c.Hash)
}

// Archive is a parsed WAD container: header identity plus the chunk
// table. Payload bytes stay in the file; the archive only indexes them.
type Archive struct {
	Major  uint8
	Minor  uint8
	Chunks []Chunk
}

// Histogram returns per-compression-type chunk counts, used for the
// diagnostic log line at the start of extraction.
func (a *Archive) Histogram() map[Compression]int {
	hist := make(map[Compression]int)
	for i := range a.Chunks {
		hist[a.Chunks[i].Compression]++
	}
	return hist
}

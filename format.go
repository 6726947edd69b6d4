package wad

import (
	"encoding/binary"
	"fmt"

	"github.com/hexrift/wad/codec"
	"github.com/hexrift/wad/wadhash"
)

// Header geometry per major version, in bytes after the 4-byte
// signature+version preamble. v1 carries two legacy u16 TOC fields; v2
// adds a signature region (1-byte length, 83 pad) and a u64 checksum
// ahead of them; v3 replaces the lot with 256 pad bytes and the checksum.
const (
	headerTailV1 = 2 + 2
	headerTailV2 = 1 + 83 + 8 + 2 + 2
	headerTailV3 = 256 + 8

	recordSizeV1 = 24
	recordSizeV2 = 32
)

// Parse decodes the header and chunk table from the leading bytes of an
// archive. data needs to cover the table, not the payloads; payload
// bytes are read lazily during extraction.
//
// Unknown compression nibbles are accepted here and rejected only when
// the chunk is decompressed, so archives from newer producers still
// partially extract.
func Parse(data []byte) (*Archive, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: missing preamble", ErrTruncated)
	}
	if data[0] != Signature[0] || data[1] != Signature[1] {
		return nil, fmt.Errorf("%w: got %q", ErrBadSignature, data[:2])
	}

	a := &Archive{Major: data[2], Minor: data[3]}

	var tail, record int
	switch a.Major {
	case 1:
		tail, record = headerTailV1, recordSizeV1
	case 2:
		tail, record = headerTailV2, recordSizeV2
	case 3:
		tail, record = headerTailV3, recordSizeV2
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, a.Major)
	}

	countAt := 4 + tail
	if len(data) < countAt+4 {
		return nil, fmt.Errorf("%w: header ends at %d, need %d", ErrTruncated, len(data), countAt+4)
	}

	le := binary.LittleEndian
	count := le.Uint32(data[countAt:])
	tableStart := countAt + 4

	// 64-bit math so a hostile count cannot wrap the bound on 32-bit
	// platforms.
	tableEnd := int64(tableStart) + int64(count)*int64(record)
	if tableEnd > int64(len(data)) {
		return nil, fmt.Errorf("%w: chunk table needs %d bytes, have %d", ErrTruncated, tableEnd, len(data))
	}

	a.Chunks = make([]Chunk, count)
	for i := range a.Chunks {
		rec := data[tableStart+i*record:]
		c := &a.Chunks[i]
		c.ID = i
		c.Hash = wadhash.ToHex(le.Uint64(rec))
		c.Offset = le.Uint32(rec[8:])
		c.CompressedSize = le.Uint32(rec[12:])
		c.DecompressedSize = le.Uint32(rec[16:])
		c.Compression = codec.Compression(rec[20] & 0x0F)
		c.SubchunkCount = rec[20] >> 4
		c.Duplicated = rec[21] != 0
		c.SubchunkStart = le.Uint16(rec[22:])
		if a.Major >= 2 {
			c.Checksum = le.Uint64(rec[24:])
		}
	}
	return a, nil
}

// Package testutil builds synthetic WAD archives for tests. The library
// itself has no write path; this encoder exists solely so parser and
// extraction tests can round-trip known field values.
package testutil

import (
	"bytes"
	"encoding/binary"
)

// ChunkSpec describes one chunk record for BuildArchive. Payload bytes
// are appended after the chunk table in spec order; offsets and
// compressed sizes are filled in automatically.
type ChunkSpec struct {
	Hash             uint64
	Compression      uint8
	SubchunkCount    uint8
	Duplicated       bool
	SubchunkStart    uint16
	Checksum         uint64
	DecompressedSize uint32 // defaults to len(Payload) when zero
	Payload          []byte
}

// BuildArchive assembles a syntactically valid archive of the given major
// version.
func BuildArchive(major, minor uint8, chunks []ChunkSpec) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{'R', 'W', major, minor})

	le := binary.LittleEndian
	switch major {
	case 1:
		writeLE(&buf, uint16(0)) // legacy TOC start offset
		writeLE(&buf, uint16(0)) // legacy TOC entry size
	case 2:
		buf.WriteByte(0)            // signature length
		buf.Write(make([]byte, 83)) // signature padding
		writeLE(&buf, uint64(0))    // archive checksum
		writeLE(&buf, uint16(0))    // legacy TOC start offset
		writeLE(&buf, uint16(0))    // legacy TOC entry size
	case 3:
		buf.Write(make([]byte, 256)) // signature padding
		writeLE(&buf, uint64(0))     // archive checksum
	}

	writeLE(&buf, uint32(len(chunks)))

	record := 24
	if major >= 2 {
		record = 32
	}
	offset := buf.Len() + record*len(chunks)

	for _, c := range chunks {
		decompressed := c.DecompressedSize
		if decompressed == 0 {
			decompressed = uint32(len(c.Payload))
		}
		var rec [32]byte
		le.PutUint64(rec[0:], c.Hash)
		le.PutUint32(rec[8:], uint32(offset))
		le.PutUint32(rec[12:], uint32(len(c.Payload)))
		le.PutUint32(rec[16:], decompressed)
		rec[20] = c.Compression&0x0F | c.SubchunkCount<<4
		if c.Duplicated {
			rec[21] = 1
		}
		le.PutUint16(rec[22:], c.SubchunkStart)
		if major >= 2 {
			le.PutUint64(rec[24:], c.Checksum)
		}
		buf.Write(rec[:record])
		offset += len(c.Payload)
	}

	for _, c := range chunks {
		buf.Write(c.Payload)
	}
	return buf.Bytes()
}

func writeLE(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

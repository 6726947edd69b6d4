package wad

import (
	"fmt"
	"log/slog"

	"github.com/hexrift/wad/codec"
	"github.com/hexrift/wad/internal/fsio"
	"github.com/hexrift/wad/sniff"
)

// decompressChunk reads a chunk's stored bytes and returns the decoded
// payload. Oddities that still yield usable data (short reads, size
// mismatches) become warning events; an error return means the chunk
// must be skipped.
//
// As a side effect, an empty Extension is filled by content sniffing so
// path finalization sees it.
func (x *Extractor) decompressChunk(f fsio.File, c *Chunk) ([]byte, error) {
	if c.CompressedSize == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, c.CompressedSize)
	n, readErr := f.ReadAt(buf, int64(c.Offset))
	if n == 0 && readErr != nil {
		return nil, fmt.Errorf("read chunk at %d: %w", c.Offset, readErr)
	}
	// A partial read (truncated archive) is a warning, not a failure; the
	// bytes that did arrive are decoded as-is.
	if n < len(buf) {
		x.warn(c, fmt.Sprintf("short read: got %d of %d bytes", n, len(buf)))
		buf = buf[:n]
	}

	var (
		data []byte
		err  error
	)
	switch c.Compression {
	case codec.Raw:
		data = buf
	case codec.Gzip:
		data, err = x.provider.Gunzip(buf, int(c.DecompressedSize))
	case codec.Satellite:
		return nil, ErrUnsupportedCodec
	case codec.Zstd:
		data, err = x.provider.Unzstd(buf, int(c.DecompressedSize))
	case codec.ZstdChunked:
		// Some producers label raw payloads as chunked zstd. The frame
		// magic decides.
		if codec.HasZstdMagic(buf) {
			data, err = x.provider.Unzstd(buf, int(c.DecompressedSize))
		} else {
			data = buf
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c.Compression))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s chunk: %w", c.Compression, err)
	}

	if len(data) != int(c.DecompressedSize) {
		x.warn(c, fmt.Sprintf("decompressed %d bytes, table says %d", len(data), c.DecompressedSize))
	}
	if c.Extension == "" && len(data) > 0 {
		c.Extension = sniff.Content(data)
	}
	return data, nil
}

func (x *Extractor) warn(c *Chunk, msg string) {
	x.emit(Event{Kind: EventWarning, Hash: c.HexHash(), Path: c.Hash, Message: msg})
	x.log().Warn("chunk warning", slog.String("hash", c.HexHash()), slog.String("msg", msg))
}

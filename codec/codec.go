// Package codec holds the compression-type vocabulary of the WAD chunk
// table and the decoder provider used during extraction. The provider is
// constructed explicitly and injected into the orchestrator; there is no
// package-level lazy state.
package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies how a chunk payload is stored. Values above
// ZstdChunked are accepted at parse time and only rejected when a chunk
// is actually decompressed.
type Compression uint8

const (
	// Raw payloads are stored uncompressed.
	Raw Compression = iota

	// Gzip payloads are a single gzip stream.
	Gzip

	// Satellite marks a legacy redirection entry. The format documents it
	// as unsupported; extraction skips these chunks.
	Satellite

	// Zstd payloads are a single zstd frame.
	Zstd

	// ZstdChunked payloads are zstd frames split into subchunks. Some
	// producers mislabel raw data with this type, so decoding falls back
	// to passthrough when the frame magic is absent.
	ZstdChunked
)

// String returns the short diagnostic name for the compression type.
func (c Compression) String() string {
	switch c {
	case Raw:
		return "raw"
	case Gzip:
		return "gzip"
	case Satellite:
		return "satellite"
	case Zstd:
		return "zstd"
	case ZstdChunked:
		return "zstd-chunked"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// zstdMagic is the standard zstd frame magic, little-endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// HasZstdMagic reports whether b starts with a zstd frame.
func HasZstdMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], zstdMagic)
}

// Provider owns the decoders shared by an extraction job. A single zstd
// decoder serves all workers (DecodeAll on a nil-reader decoder is safe
// for concurrent use); gzip readers are cheap and created per call.
type Provider struct {
	maxDecoderMemory uint64

	once sync.Once
	zr   *zstd.Decoder
	err  error
}

// Option configures a Provider.
type Option func(*Provider)

// WithMaxDecoderMemory limits the maximum memory used by the zstd decoder.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(p *Provider) {
		p.maxDecoderMemory = limit
	}
}

// NewProvider creates an uninitialized Provider. Init (or the first
// decode call) prepares the decoders.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init prepares the shared decoders. Safe to call repeatedly; only the
// first call does work.
func (p *Provider) Init() error {
	p.once.Do(func() {
		opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
		if p.maxDecoderMemory > 0 {
			opts = append(opts, zstd.WithDecoderMaxMemory(p.maxDecoderMemory))
		}
		p.zr, p.err = zstd.NewReader(nil, opts...)
	})
	return p.err
}

// Unzstd decodes a zstd frame. sizeHint, when positive, pre-sizes the
// output buffer with the table's declared decompressed size.
func (p *Provider) Unzstd(src []byte, sizeHint int) ([]byte, error) {
	if err := p.Init(); err != nil {
		return nil, err
	}
	var dst []byte
	if sizeHint > 0 {
		dst = make([]byte, 0, sizeHint)
	}
	return p.zr.DecodeAll(src, dst)
}

// Gunzip decompresses a gzip stream. sizeHint, when positive, pre-sizes
// the output buffer.
func (p *Provider) Gunzip(src []byte, sizeHint int) ([]byte, error) {
	if err := p.Init(); err != nil {
		return nil, err
	}
	gr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	capacity := sizeHint
	if capacity < 0 {
		capacity = 0
	}
	buf := bytes.NewBuffer(make([]byte, 0, capacity))
	if _, err := io.Copy(buf, gr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close releases decoder resources. The Provider is not usable afterwards.
func (p *Provider) Close() {
	if p.zr != nil {
		p.zr.Close()
	}
}

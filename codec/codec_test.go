package codec

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, plain []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, plain []byte) []byte {
	t.Helper()
	zw, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer zw.Close()
	return zw.EncodeAll(plain, nil)
}

func TestGunzipRoundTrip(t *testing.T) {
	p := NewProvider()
	defer p.Close()

	plain := bytes.Repeat([]byte("the quick brown fox "), 64)
	got, err := p.Gunzip(gzipBytes(t, plain), len(plain))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestGunzipRejectsGarbage(t *testing.T) {
	p := NewProvider()
	defer p.Close()

	_, err := p.Gunzip([]byte("definitely not gzip"), 0)
	assert.Error(t, err)
}

func TestUnzstdRoundTrip(t *testing.T) {
	p := NewProvider()
	defer p.Close()

	plain := bytes.Repeat([]byte{0xAB, 0xCD, 0x00, 0x11}, 1024)
	got, err := p.Unzstd(zstdBytes(t, plain), len(plain))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestUnzstdWithoutExplicitInit(t *testing.T) {
	// The first decode call must self-initialize.
	p := NewProvider()
	defer p.Close()

	got, err := p.Unzstd(zstdBytes(t, []byte("lazy")), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("lazy"), got)
}

func TestInitIdempotent(t *testing.T) {
	p := NewProvider(WithMaxDecoderMemory(64 << 20))
	defer p.Close()

	require.NoError(t, p.Init())
	require.NoError(t, p.Init())

	got, err := p.Unzstd(zstdBytes(t, []byte("hello")), 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestHasZstdMagic(t *testing.T) {
	assert.True(t, HasZstdMagic([]byte{0x28, 0xB5, 0x2F, 0xFD, 0x00}))
	assert.True(t, HasZstdMagic(zstdBytes(t, []byte("frame"))))
	assert.False(t, HasZstdMagic([]byte{0x28, 0xB5, 0x2F}))
	assert.False(t, HasZstdMagic([]byte("raw payload")))
	assert.False(t, HasZstdMagic(nil))
}

func TestCompressionString(t *testing.T) {
	assert.Equal(t, "raw", Raw.String())
	assert.Equal(t, "gzip", Gzip.String())
	assert.Equal(t, "satellite", Satellite.String())
	assert.Equal(t, "zstd", Zstd.String())
	assert.Equal(t, "zstd-chunked", ZstdChunked.String())
	assert.Equal(t, "unknown(9)", Compression(9).String())
}

package wad

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexrift/wad/wadhash"
)

func archiveWithHexes(hexes ...string) *Archive {
	a := &Archive{Major: 3}
	for i, h := range hexes {
		a.Chunks = append(a.Chunks, Chunk{ID: i, Hash: h})
	}
	return a
}

func TestResolveNames(t *testing.T) {
	path := "assets/characters/aatrox/icon.dds"
	hex := wadhash.HashHex(path)
	a := archiveWithHexes(hex, "00000000000000aa")

	ResolveNames(a, Lookup{"game": {hex: path}})

	var resolved *Chunk
	for i := range a.Chunks {
		if a.Chunks[i].Resolved() {
			resolved = &a.Chunks[i]
		}
	}
	require.NotNil(t, resolved)
	assert.Equal(t, path, resolved.Hash)
	assert.Equal(t, hex, resolved.PathHashHex)
	assert.Equal(t, "dds", resolved.Extension)
	assert.Equal(t, hex, resolved.HexHash())
}

func TestResolveNamesCaseInsensitiveHex(t *testing.T) {
	a := archiveWithHexes("ABCDEF0123456789")
	ResolveNames(a, Lookup{"game": {"abcdef0123456789": "data/file.bin"}})
	require.True(t, a.Chunks[0].Resolved())
	assert.Equal(t, "data/file.bin", a.Chunks[0].Hash)
	assert.Equal(t, "abcdef0123456789", a.Chunks[0].PathHashHex)
}

func TestResolveNamesSearchesAllTables(t *testing.T) {
	a := archiveWithHexes("00000000000000aa", "00000000000000bb")
	ResolveNames(a, Lookup{
		"game": {"00000000000000aa": "from/game.bin"},
		"lcu":  {"00000000000000bb": "from/lcu.bin"},
	})
	for i := range a.Chunks {
		assert.True(t, a.Chunks[i].Resolved(), "chunk %d", i)
	}
}

func TestResolveNamesSortsByName(t *testing.T) {
	a := archiveWithHexes("00000000000000cc", "00000000000000aa", "00000000000000bb")
	ResolveNames(a, Lookup{"game": {
		"00000000000000cc": "alpha/one.bin",
		"00000000000000aa": "zeta/last.bin",
	}})
	// Unresolved hex sorts between the two resolved names.
	assert.Equal(t, "00000000000000bb", a.Chunks[0].Hash)
	assert.Equal(t, "alpha/one.bin", a.Chunks[1].Hash)
	assert.Equal(t, "zeta/last.bin", a.Chunks[2].Hash)
}

func TestResolveNamesBatchedCancelled(t *testing.T) {
	a := archiveWithHexes()
	for i := 0; i < 1000; i++ {
		a.Chunks = append(a.Chunks, Chunk{ID: i, Hash: wadhash.ToHex(uint64(i))})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ResolveNamesBatched(ctx, a, Lookup{}, minResolveCadence)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveNamesBatchedCompletes(t *testing.T) {
	hex := wadhash.HashHex("ui/loop.bin")
	a := archiveWithHexes(hex)
	err := ResolveNamesBatched(context.Background(), a, Lookup{"game": {hex: "ui/loop.bin"}}, 0)
	require.NoError(t, err)
	assert.True(t, a.Chunks[0].Resolved())
}

func TestResolveWith(t *testing.T) {
	a := archiveWithHexes("00000000000000aa", "00000000000000bb")
	err := ResolveWith(a, func(hexes []string) ([]string, error) {
		require.Equal(t, []string{"00000000000000aa", "00000000000000bb"}, hexes)
		return []string{"named/first.bin", ""}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "00000000000000bb", a.Chunks[0].Hash)
	assert.False(t, a.Chunks[0].Resolved())
	assert.Equal(t, "named/first.bin", a.Chunks[1].Hash)
	assert.True(t, a.Chunks[1].Resolved())
}

func TestResolveWithErrors(t *testing.T) {
	boom := errors.New("backend down")
	a := archiveWithHexes("00000000000000aa")

	err := ResolveWith(a, func([]string) ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, a.Chunks[0].Resolved())

	err = ResolveWith(a, func([]string) ([]string, error) { return []string{"a", "b"}, nil })
	assert.Error(t, err)
}

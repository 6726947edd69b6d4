package wadhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCaseInsensitive(t *testing.T) {
	variants := []string{
		"assets/characters/aatrox/skins/base/aatrox.skn",
		"ASSETS/Characters/Aatrox/Skins/Base/Aatrox.skn",
		"Assets/CHARACTERS/aatrox/skins/BASE/aatrox.SKN",
	}
	want := Hash(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, Hash(v), "variant %q", v)
	}
}

func TestHashEmptyString(t *testing.T) {
	// Published XXH64 test vector for empty input at seed zero.
	assert.Equal(t, uint64(0xef46db3751d8e999), Hash(""))
}

func TestHexRoundTrip(t *testing.T) {
	for _, h := range []uint64{0, 1, 0xdeadbeef, 0xffffffffffffffff, 0x0123456789abcdef} {
		s := ToHex(h)
		require.Len(t, s, 16)
		got, err := FromHex(s)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
}

func TestFromHexAcceptsUppercase(t *testing.T) {
	got, err := FromHex("0123456789ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789abcdef), got)
}

func TestFromHexRejectsBadInput(t *testing.T) {
	for _, s := range []string{"", "abc", "0123456789abcdef0", "ghijklmnopqrstuv", "0123456789abcde-"} {
		_, err := FromHex(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestLooksLikeHash(t *testing.T) {
	assert.True(t, LooksLikeHash("0123456789abcdef"))
	assert.True(t, LooksLikeHash("ABCDEF0000000000"))
	assert.False(t, LooksLikeHash("0123456789abcde"))
	assert.False(t, LooksLikeHash("0123456789abcdeg"))
	assert.False(t, LooksLikeHash("assets/foo.bin"))
	assert.False(t, LooksLikeHash(""))
}

func TestHashHexMatchesKnownLayout(t *testing.T) {
	s := HashHex("data/final/champions/aatrox.wad.client")
	require.Len(t, s, 16)
	assert.True(t, LooksLikeHash(s))
	h, err := FromHex(s)
	require.NoError(t, err)
	assert.Equal(t, Hash("DATA/FINAL/Champions/Aatrox.wad.client"), h)
}

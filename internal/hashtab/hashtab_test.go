package hashtab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	game := "" +
		"0123456789abcdef assets/characters/aatrox/aatrox.skn\n" +
		"ABCDEF0123456789 assets/characters/aatrox/aatrox.skl\n" +
		"not-a-hash assets/broken.bin\n" +
		"\n" +
		"00000000000000ff\n"
	lcu := "00000000000000aa plugins/rcp-be/icon.png\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hashes.game.txt"), []byte(game), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hashes.lcu.txt"), []byte(lcu), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	lookup, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, lookup, 2)

	assert.Equal(t, "assets/characters/aatrox/aatrox.skn", lookup["game"]["0123456789abcdef"])
	assert.Equal(t, "assets/characters/aatrox/aatrox.skl", lookup["game"]["abcdef0123456789"],
		"hex keys are lowercased")
	assert.Len(t, lookup["game"], 2, "malformed lines are skipped")
	assert.Equal(t, "plugins/rcp-be/icon.png", lookup["lcu"]["00000000000000aa"])
}

func TestLoadDirEmpty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "hashes.game.txt"))
	assert.Error(t, err)
}

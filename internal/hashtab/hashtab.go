// Package hashtab loads community hash tables from disk into the lookup
// shape the extraction engine consumes. Tables are plain text files named
// hashes.<table>.txt, one entry per line: a 16-digit hex hash, a space,
// the asset path.
package hashtab

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hexrift/wad"
	"github.com/hexrift/wad/wadhash"
)

// Hash table lines can get long (deep asset paths), but never this long.
const maxLineBytes = 4096

// LoadDir loads every hashes.*.txt file in dir. The table name is the
// middle filename component ("game" for hashes.game.txt). Malformed
// lines are counted and skipped, not fatal.
func LoadDir(dir string) (wad.Lookup, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "hashes.*.txt"))
	if err != nil {
		return nil, fmt.Errorf("hashtab: scan %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("hashtab: no hash tables in %s", dir)
	}

	lookup := make(wad.Lookup, len(matches))
	for _, path := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "hashes."), ".txt")
		table, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		lookup[name] = table
	}
	return lookup, nil
}

// LoadFile loads one hash table file.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hashtab: %w", err)
	}
	defer f.Close()

	table := make(map[string]string)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, maxLineBytes), maxLineBytes)
	for sc.Scan() {
		hex, name, ok := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		if !ok || name == "" || !wadhash.LooksLikeHash(hex) {
			continue
		}
		table[strings.ToLower(hex)] = name
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hashtab: read %s: %w", path, err)
	}
	return table, nil
}

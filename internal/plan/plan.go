// Package plan computes destination paths for extracted chunks. Planning
// happens in two phases: a provisional path before decompression, and a
// final path once content sniffing may have supplied an extension.
// Resolved names come from untrusted archives, so planning also rejects
// destinations that escape the output root and falls back to hash-based
// basenames for names the filesystem cannot store.
package plan

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when a chunk's resolved name escapes the
// output root. Rejection is deliberate: a traversal attempt is never
// silently rewritten to a safe location.
var ErrUnsafePath = errors.New("plan: destination escapes output root")

const (
	// maxBasename is the common filesystem limit on a single name.
	maxBasename = 255

	// maxPathLen keeps joined paths under the legacy Windows MAX_PATH
	// region, where writes start failing with unhelpful errors.
	maxPathLen = 248

	// maxSegmentRepeats tolerates a directory name appearing twice in one
	// path; more than that is a corrupt or adversarial name.
	maxSegmentRepeats = 2
)

// Path is one chunk's destination. Abs is provisional until Finalize has
// run.
type Path struct {
	Root string
	Rel  string // slash-separated, relative to Root
	Abs  string // filesystem destination

	// Fallback marks destinations named by the chunk's hex hash rather
	// than its resolved name.
	Fallback bool
}

// New plans the destination for name (a resolved path, or a hex hash when
// unresolved) under root. ext, when non-empty, is appended if name lacks
// a dot suffix. Names the filesystem cannot store fall back to hexHash
// basenames; names escaping root return ErrUnsafePath.
func New(root, name, hexHash, ext string) (Path, error) {
	rel := Normalize(name)
	if rel == "" {
		rel = hexHash
	}
	if ext != "" && !strings.Contains(path.Base(rel), ".") {
		rel += "." + ext
	}

	cleanRoot := filepath.Clean(root)
	abs := filepath.Join(cleanRoot, filepath.FromSlash(rel))
	if !within(cleanRoot, abs) {
		return Path{}, fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	if len(path.Base(rel)) > maxBasename || len(abs) > maxPathLen || repeatsSegments(rel) {
		return fallback(cleanRoot, rel, hexHash), nil
	}
	return Path{Root: cleanRoot, Rel: rel, Abs: abs}, nil
}

// FallbackFor names the chunk by its raw hex hash directly under root,
// keeping any dotted suffix from the original name. Used when a write
// fails for path-related reasons after planning succeeded.
func FallbackFor(root, name, hexHash string) Path {
	return fallback(filepath.Clean(root), Normalize(name), hexHash)
}

func fallback(cleanRoot, rel, hexHash string) Path {
	base := hexHash
	if i := strings.LastIndexByte(path.Base(rel), '.'); i >= 0 {
		base += path.Base(rel)[i:]
	}
	return Path{
		Root:     cleanRoot,
		Rel:      base,
		Abs:      filepath.Join(cleanRoot, base),
		Fallback: true,
	}
}

// Base returns the destination basename.
func (p Path) Base() string {
	return path.Base(p.Rel)
}

// Finalize applies an extension discovered after decompression. A path
// that already carries an extension, or an empty ext, leaves the
// destination unchanged.
func (p Path) Finalize(ext string) Path {
	if ext == "" || strings.Contains(p.Base(), ".") {
		return p
	}
	p.Rel += "." + ext
	p.Abs += "." + ext
	return p
}

// Normalize converts a chunk name to a slash-separated relative path.
// Traversal components are preserved for the containment check, not
// resolved away.
func Normalize(name string) string {
	s := strings.ReplaceAll(name, `\`, "/")
	s = strings.TrimLeft(s, "/")
	if s == "" {
		return ""
	}
	if s = path.Clean(s); s == "." {
		return ""
	}
	return s
}

// within reports whether target equals root or is a descendant of it.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func repeatsSegments(rel string) bool {
	counts := make(map[string]int)
	for _, seg := range strings.Split(rel, "/") {
		counts[seg]++
		if counts[seg] > maxSegmentRepeats {
			return true
		}
	}
	return false
}

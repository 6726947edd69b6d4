// Package sniff guesses content-type tags for extracted chunks, either
// from the leading bytes of decompressed data or from the dot-suffix of a
// resolved path. Tags are the bare extension vocabulary the game's asset
// pipeline uses ("dds", "bin", "bnk", ...), not MIME types.
package sniff

import (
	"bytes"
	"strings"
)

type signature struct {
	prefix []byte
	ext    string
}

// Ordered: first match wins. The specific r3d2* entries must precede the
// generic "r3d2" prefix, which tags wwise packages.
var signatures = []signature{
	{[]byte("OggS"), "ogg"},
	{[]byte{0x00, 0x01, 0x00, 0x00}, "ttf"},
	{[]byte{0x1A, 0x45, 0xDF, 0xA3}, "webm"},
	{[]byte("true"), "ttf"},
	{[]byte("OTTO\x00"), "otf"},
	{[]byte(`"use strict";`), "min.js"},
	{[]byte("<template "), "template.html"},
	{[]byte("<!-- Elements -->"), "template.html"},
	{[]byte("DDS "), "dds"},
	{[]byte("<svg"), "svg"},
	{[]byte("PROP"), "bin"},
	{[]byte("PTCH"), "bin"},
	{[]byte("BKHD"), "bnk"},
	{[]byte("r3d2Mesh"), "scb"},
	{[]byte("r3d2anmd"), "anm"},
	{[]byte("r3d2canm"), "anm"},
	{[]byte("r3d2sklt"), "skl"},
	{[]byte("r3d2"), "wpk"},
	{[]byte{0x33, 0x22, 0x11, 0x00}, "skn"},
	{[]byte("PreLoadBuildingBlocks = {"), "preload"},
	{[]byte{0x1B, 'L', 'u', 'a', 'Q', 0x00, 0x01, 0x04, 0x04}, "luabin"},
	{[]byte{0x1B, 'L', 'u', 'a', 'Q', 0x00, 0x01, 0x04, 0x08}, "luabin64"},
	{[]byte("OPAM"), "mob"},
	{[]byte("[ObjectBegin]"), "sco"},
}

// sklMagic sits at offset 4 in the current skeleton format. Offset 0
// holds a length field there, which can collide with the table's
// offset-0 signatures, so this check runs before the table.
var sklMagic = []byte{0xC3, 0x4F, 0xFD, 0x22}

// containerSuffixes are the container format's own conventional dotted
// suffixes, recognized by Path ahead of the signature vocabulary.
var containerSuffixes = []string{".wad", ".wad.client", ".wad.mobile"}

var knownExts = func() map[string]bool {
	m := make(map[string]bool, len(signatures))
	for _, s := range signatures {
		m[s.ext] = true
	}
	return m
}()

// Content guesses an extension tag from the leading bytes of data.
// Returns "" when nothing matches; callers must tolerate unknowns.
func Content(data []byte) string {
	if len(data) >= 8 && bytes.Equal(data[4:8], sklMagic) {
		return "skl"
	}
	for _, s := range signatures {
		if bytes.HasPrefix(data, s.prefix) {
			return s.ext
		}
	}
	return ""
}

// Path guesses an extension tag from a resolved chunk path: "wad" for the
// container's own suffixes, else the trailing dot-suffix when it belongs
// to the signature vocabulary.
func Path(p string) string {
	lower := strings.ToLower(p)
	for _, suffix := range containerSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "wad"
		}
	}
	if i := strings.LastIndexByte(lower, '.'); i >= 0 && i+1 < len(lower) {
		if ext := lower[i+1:]; knownExts[ext] {
			return ext
		}
	}
	return ""
}

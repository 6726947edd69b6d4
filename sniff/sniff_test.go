package sniff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"ogg", []byte("OggS\x00\x02rest"), "ogg"},
		{"dds", []byte("DDS |\x00\x00\x00"), "dds"},
		{"prop bin", []byte("PROP\x03\x00\x00\x00"), "bin"},
		{"patch bin", []byte("PTCH\x01"), "bin"},
		{"wwise bank", []byte("BKHDxxxx"), "bnk"},
		{"static mesh", []byte("r3d2Mesh"), "scb"},
		{"animation", []byte("r3d2anmd"), "anm"},
		{"compressed animation", []byte("r3d2canm"), "anm"},
		{"legacy skeleton", []byte("r3d2sklt"), "skl"},
		{"wwise package", []byte("r3d2\x01\x00"), "wpk"},
		{"skinned mesh", []byte{0x33, 0x22, 0x11, 0x00, 0xAA}, "skn"},
		{"new skeleton magic at offset 4", []byte{0x10, 0x00, 0x00, 0x00, 0xC3, 0x4F, 0xFD, 0x22}, "skl"},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00}, "webm"},
		{"truetype", []byte{0x00, 0x01, 0x00, 0x00, 0x12}, "ttf"},
		{"opentype", []byte("OTTO\x00"), "otf"},
		{"svg", []byte("<svg width=\"1\">"), "svg"},
		{"map objects", []byte("OPAMxxxx"), "mob"},
		{"static object", []byte("[ObjectBegin]\n"), "sco"},
		{"unknown", []byte{0xDE, 0xAD, 0xBE, 0xEF}, ""},
		{"empty", nil, ""},
		{"too short for skl check", []byte{0xC3, 0x4F}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Content(tt.data))
		})
	}
}

// The specific r3d2* signatures must win over the generic r3d2 prefix.
func TestContentSignatureOrder(t *testing.T) {
	assert.Equal(t, "scb", Content([]byte("r3d2Mesh....")))
	assert.Equal(t, "wpk", Content([]byte("r3d2Xtra....")))
}

func TestPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/final/aatrox.wad", "wad"},
		{"DATA/FINAL/Aatrox.wad.client", "wad"},
		{"plugins/rcp-be/assets.wad.mobile", "wad"},
		{"assets/icon.DDS", "dds"},
		{"assets/model.skn", "skn"},
		{"sound/vo.bnk", "bnk"},
		{"notes.txt", ""},
		{"noextension", ""},
		{"trailingdot.", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Path(tt.path), "path %q", tt.path)
	}
}

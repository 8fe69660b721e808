package chapters

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/brogergvhs/dmzjdl/internal/providers"
	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		name, in, fallback, want string
	}{
		{"plain", "第01话", "x", "第01话"},
		{"keeps inner dots", "vol.1 ch.2", "x", "vol.1 ch.2"},
		{"separators", "a/b\\c", "x", "a_b_c"},
		{"reserved", `a:b*c?d"e<f>g|h`, "x", "a_b_c_d_e_f_g_h"},
		{"null and control", "a\x00b\tc\n", "x", "abc"},
		{"parent", "..", "001", "001"},
		{"dot", ".", "001", "001"},
		{"traversal", "../../etc", "x", ".._.._etc"},
		{"trailing dots", "end...  ", "x", "end"},
		{"empty", "   ", "007", "007"},
		{"empty fallback", "", "", "_"},
		{"unsafe fallback", "", "a/b", "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeName(tt.in, tt.fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, filepath.Base(got), "must stay one segment")
		})
	}
}

func TestSafeName_Truncates(t *testing.T) {
	got := SafeName(strings.Repeat("漫", 100), "x")
	assert.LessOrEqual(t, len(got), maxNameBytes)
	assert.True(t, strings.HasPrefix(strings.Repeat("漫", 100), got))
}

func TestChapterPaths(t *testing.T) {
	chs := New([]providers.Target{{Name: "Ch/1"}, {Name: ".."}})

	assert.Equal(t, 1, chs[0].Index)
	assert.Equal(t, filepath.Join("dest", "Ch_1"), chs[0].Dir("dest"))
	assert.Equal(t, "Ch_1.cbz", chs[0].OutputCBZ())
	assert.Equal(t, filepath.Join("dest", "002"), chs[1].Dir("dest"))
	assert.Equal(t, filepath.Join("dest", "002.cbz"), chs[1].OutputCBZPath("dest"))
}

package chapters

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brogergvhs/dmzjdl/internal/providers"
)

// maxNameBytes keeps a single path segment under common filesystem limits.
const maxNameBytes = 200

// Chapter is a chapter target with its 1-based position in the merged
// chapter list.
type Chapter struct {
	providers.Target
	Index int
}

// New numbers targets in list order.
func New(targets []providers.Target) []Chapter {
	out := make([]Chapter, len(targets))
	for i, t := range targets {
		out[i] = Chapter{Target: t, Index: i + 1}
	}

	return out
}

// SafeName turns a name taken from page content into a single path
// segment. Separators and reserved characters become '_', control
// characters are dropped, trailing dots and spaces are trimmed. A name
// that ends up empty, "." or ".." is replaced by fallback.
func SafeName(s, fallback string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == utf8.RuneError, unicode.IsControl(r):
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	out = strings.TrimRight(out, ". ")
	out = truncate(out, maxNameBytes)

	if out == "" {
		if fallback == "" {
			return "_"
		}
		return SafeName(fallback, "")
	}

	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}

	return s
}

func (c Chapter) DirName() string {
	return SafeName(c.Name, fmt.Sprintf("%03d", c.Index))
}

func (c Chapter) Dir(root string) string {
	return filepath.Join(root, c.DirName())
}

func (c Chapter) OutputCBZ() string {
	return c.DirName() + ".cbz"
}

func (c Chapter) OutputCBZPath(root string) string {
	return filepath.Join(root, c.OutputCBZ())
}

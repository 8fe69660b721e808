package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesURL(t *testing.T) {
	ok := map[string]string{
		"https://manhua.dmzj.com/yiquanchaoren":   "https://manhua.dmzj.com/yiquanchaoren",
		"https://manhua.dmzj.com/yiquanchaoren/":  "https://manhua.dmzj.com/yiquanchaoren/",
		"http://manhua.dmzj.com/yiquanchaoren":    "https://manhua.dmzj.com/yiquanchaoren",
		"//manhua.dmzj.com/yiquanchaoren":         "https://manhua.dmzj.com/yiquanchaoren",
		"manhua.dmzj.com/yiquanchaoren":           "https://manhua.dmzj.com/yiquanchaoren",
		"  https://manhua.dmzj.com/yiquanchaoren ": "https://manhua.dmzj.com/yiquanchaoren",
	}
	for in, want := range ok {
		got, err := SeriesURL(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{
		"",
		"https://manhua.dmzj.com/",
		"https://manhua.dmzj.com/a/b",
		"https://manhua.dmzj.com/a/1.shtml",
		"https://example.com/yiquanchaoren",
		"https://manhuaxdmzj.com/yiquanchaoren",
		"ftp://manhua.dmzj.com/x",
		"https://manhua.dmzj.com/x?y=1",
	} {
		_, err := SeriesURL(in)
		var ve *Error
		assert.True(t, errors.As(err, &ve), "%q should be rejected", in)
	}
}

func TestExistingDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, ExistingDir(dir))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	var ve *Error
	require.ErrorAs(t, ExistingDir(file), &ve)
	assert.Equal(t, "not a directory", ve.Message)

	require.ErrorAs(t, ExistingDir(filepath.Join(dir, "missing")), &ve)
	assert.Equal(t, "dir", ve.Field)

	assert.Error(t, ExistingDir(" "))
}

package util

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Headers(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "cookie.txt")
	require.NoError(t, os.WriteFile(cookieFile, []byte("\n  b=2  \nc=3\n"), 0o644))

	var ua, cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		cookie = r.Header.Get("Cookie")
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPClientOptions{UserAgent: "test-agent", Cookie: "a=1", CookieFile: cookieFile})
	require.NoError(t, err)

	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "test-agent", ua)
	assert.Equal(t, "a=1; b=2", cookie)
}

func TestNewHTTPClient_MissingCookieFile(t *testing.T) {
	_, err := NewHTTPClient(HTTPClientOptions{CookieFile: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestPickUserAgent(t *testing.T) {
	assert.Equal(t, DefaultUserAgent, PickUserAgent(""))
	assert.Equal(t, "x", PickUserAgent("x"))
}

func TestPackDir(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"2.jpg": "two", "1.jpg": "one"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	out := filepath.Join(t.TempDir(), "ch.cbz")
	require.NoError(t, PackDir(dir, out))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, names)
}

func TestPackDir_MissingDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ch.cbz")
	assert.Error(t, PackDir(filepath.Join(t.TempDir(), "missing"), out))
	assert.NoFileExists(t, out)
}

func TestRemoveIfEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "d")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), nil, 0o644))

	assert.False(t, RemoveIfEmpty(dir))
	require.NoError(t, os.Remove(filepath.Join(dir, "f")))
	assert.True(t, RemoveIfEmpty(dir))
	assert.NoDirExists(t, dir)
}

func TestInterruptContext_Stop(t *testing.T) {
	ctx, stop := InterruptContext(context.Background())
	stop()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

package render

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seriesHTML = `<html><body>
<div class="cartoon_online_border"><ul>
  <li><a title="第01话" href="/yiquan/1.shtml">01</a></li>
  <li><a title="第02话" href="https://manhua.dmzj.com/yiquan/2.shtml">02</a></li>
  <li></li>
</ul></div>
<div class="cartoon_online_border"><ul>
  <li><a title="第03话" href="3.shtml">03</a></li>
</ul></div>
<select id="page_select">
  <option value="//images.example.com/1.jpg">第1页</option>
  <option value="/2.png"> 第2页 </option>
  <option>第3页</option>
</select>
</body></html>`

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestStatic_ChildLinks(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(seriesHTML))
	})

	page, err := NewStatic(srv.Client(), nil, nil).Open(context.Background(), srv.URL+"/yiquan/")
	require.NoError(t, err)
	defer page.Close()

	items, err := page.Extract(context.Background(), ".cartoon_online_border>ul", ChildLinks)
	require.NoError(t, err)

	assert.Equal(t, []Item{
		{Label: "第01话", Value: srv.URL + "/yiquan/1.shtml"},
		{Label: "第02话", Value: "https://manhua.dmzj.com/yiquan/2.shtml"},
		{Label: "第03话", Value: srv.URL + "/yiquan/3.shtml"},
	}, items)
}

func TestStatic_SelectOptions(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(seriesHTML))
	})

	page, err := NewStatic(srv.Client(), nil, nil).Open(context.Background(), srv.URL)
	require.NoError(t, err)

	n, err := page.Count(context.Background(), "#page_select")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	items, err := page.Extract(context.Background(), "#page_select", SelectOptions)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{Label: "第1页", Value: "//images.example.com/1.jpg"},
		{Label: "第2页", Value: "/2.png"},
		{Label: "第3页", Value: "第3页"},
	}, items)

	n, err = page.Count(context.Background(), "#missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatic_DecodesBodies(t *testing.T) {
	t.Run("gzip", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, _ = gz.Write([]byte(seriesHTML))
			_ = gz.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		})

		page, err := NewStatic(srv.Client(), nil, nil).Open(context.Background(), srv.URL)
		require.NoError(t, err)
		n, _ := page.Count(context.Background(), ".cartoon_online_border>ul")
		assert.Equal(t, 2, n)
	})

	t.Run("brotli", func(t *testing.T) {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write([]byte(seriesHTML))
			_ = bw.Close()
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write(buf.Bytes())
		})

		page, err := NewStatic(srv.Client(), nil, nil).Open(context.Background(), srv.URL)
		require.NoError(t, err)
		n, _ := page.Count(context.Background(), "#page_select")
		assert.Equal(t, 1, n)
	})
}

func TestStatic_SendsHeaders(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a=1", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte("<html></html>"))
	})

	_, err := NewStatic(srv.Client(), map[string]string{"Cookie": "a=1"}, nil).Open(context.Background(), srv.URL)
	require.NoError(t, err)
}

func TestStatic_StatusError(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewStatic(srv.Client(), nil, nil).Open(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestRoutine_Script(t *testing.T) {
	js, err := ChildLinks.script(`.a>"ul"`)
	require.NoError(t, err)
	assert.Contains(t, js, `querySelectorAll(".a>\"ul\"")`)

	js, err = SelectOptions.script("#page_select")
	require.NoError(t, err)
	assert.True(t, strings.Contains(js, `querySelector("#page_select")`))

	_, err = Routine(42).script("x")
	assert.Error(t, err)
	assert.Equal(t, "routine(42)", Routine(42).String())
}

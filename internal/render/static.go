package render

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

// Static renders pages without a browser: the server's HTML is parsed
// as-is, so content injected by scripts is not visible.
type Static struct {
	client  *http.Client
	headers map[string]string
	log     interface{ Debugf(string, ...any) }
}

func NewStatic(c *http.Client, headers map[string]string, log interface{ Debugf(string, ...any) }) *Static {
	return &Static{client: c, headers: headers, log: log}
}

func (s *Static) Open(ctx context.Context, target string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "br, gzip")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("navigate %s: HTTP %d", target, resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}

	if s.log != nil {
		s.log.Debugf("static page loaded: %s", resp.Request.URL)
	}

	return &staticPage{doc: doc, base: resp.Request.URL}, nil
}

func (s *Static) Close() error { return nil }

// decodeBody undoes Content-Encoding and converts the document to UTF-8.
func decodeBody(resp *http.Response) (io.Reader, error) {
	var r io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		r = brotli.NewReader(r)
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		r = gz
	}

	return charset.NewReader(r, resp.Header.Get("Content-Type"))
}

type staticPage struct {
	doc  *goquery.Document
	base *url.URL
}

func NewStaticPage(doc *goquery.Document, base *url.URL) Page {
	return &staticPage{doc: doc, base: base}
}

func (p *staticPage) URL() string { return p.base.String() }

func (p *staticPage) Count(_ context.Context, selector string) (int, error) {
	return p.doc.Find(selector).Length(), nil
}

func (p *staticPage) Extract(ctx context.Context, selector string, r Routine) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r {
	case ChildLinks:
		return p.childLinks(selector), nil
	case SelectOptions:
		return p.selectOptions(selector), nil
	default:
		return nil, fmt.Errorf("unknown routine %s", r)
	}
}

func (p *staticPage) childLinks(selector string) []Item {
	items := []Item{}

	p.doc.Find(selector).Each(func(_ int, group *goquery.Selection) {
		group.Children().Each(func(_ int, li *goquery.Selection) {
			a := li.Children().First()
			if a.Length() == 0 {
				return
			}

			href, _ := a.Attr("href")
			items = append(items, Item{
				Label: a.AttrOr("title", ""),
				Value: p.resolve(href),
			})
		})
	})

	return items
}

func (p *staticPage) selectOptions(selector string) []Item {
	items := []Item{}

	p.doc.Find(selector).First().Children().Each(func(_ int, opt *goquery.Selection) {
		label := strings.TrimSpace(opt.Text())
		value, ok := opt.Attr("value")
		if !ok {
			value = label
		}

		items = append(items, Item{Label: label, Value: value})
	})

	return items
}

func (p *staticPage) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	return p.base.ResolveReference(u).String()
}

func (p *staticPage) Close() error { return nil }

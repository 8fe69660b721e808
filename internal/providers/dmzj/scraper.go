package dmzj

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/brogergvhs/dmzjdl/internal/providers"
	"github.com/brogergvhs/dmzjdl/internal/render"
)

// Selectors are the page-structure contract with the site.
type Selectors struct {
	Main  string `yaml:"main"`
	Extra string `yaml:"extra"`
	Pages string `yaml:"pages"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Main:  ".cartoon_online_border>ul",
		Extra: ".cartoon_online_border_other>ul",
		Pages: "#page_select",
	}
}

type Scraper struct {
	engine render.Engine
	sel    Selectors
	log    interface{ Debugf(string, ...any) }
}

func NewScraper(e render.Engine, sel Selectors, log interface{ Debugf(string, ...any) }) *Scraper {
	def := DefaultSelectors()
	if sel.Main == "" {
		sel.Main = def.Main
	}
	if sel.Pages == "" {
		sel.Pages = def.Pages
	}

	return &Scraper{engine: e, sel: sel, log: log}
}

// GetChapters loads the series page and returns the main chapter group,
// followed by the extra group when includeExtra accepts it.
func (s *Scraper) GetChapters(ctx context.Context, seriesURL string, includeExtra providers.ExtraChooser) ([]providers.Target, error) {
	page, err := s.engine.Open(ctx, seriesURL)
	if err != nil {
		return nil, fmt.Errorf("load series page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	main, err := s.group(ctx, page, s.sel.Main)
	if err != nil {
		return nil, err
	}
	if len(main) == 0 {
		return nil, providers.ErrNoContentFound
	}

	var extra []providers.Target
	if s.sel.Extra != "" {
		if extra, err = s.group(ctx, page, s.sel.Extra); err != nil {
			return nil, err
		}
	}

	s.debugf("series %s: %d main, %d extra chapters", seriesURL, len(main), len(extra))

	return Merge(ctx, main, extra, includeExtra)
}

// Merge returns main, or main followed by extra when extra is non-empty and
// choose accepts it. Entries are neither deduplicated nor reordered.
func Merge(ctx context.Context, main, extra []providers.Target, choose providers.ExtraChooser) ([]providers.Target, error) {
	if len(extra) == 0 || choose == nil {
		return main, nil
	}

	ok, err := choose(ctx, len(extra))
	if err != nil {
		return nil, err
	}
	if !ok {
		return main, nil
	}

	out := make([]providers.Target, 0, len(main)+len(extra))
	out = append(out, main...)

	return append(out, extra...), nil
}

func (s *Scraper) group(ctx context.Context, page render.Page, selector string) ([]providers.Target, error) {
	items, err := page.Extract(ctx, selector, render.ChildLinks)
	if err != nil {
		return nil, err
	}

	out := make([]providers.Target, 0, len(items))
	for _, it := range items {
		out = append(out, providers.Target{
			Name: strings.TrimSpace(it.Label),
			URL:  resolve(page.URL(), it.Value),
		})
	}

	return out, nil
}

// GetPages loads a chapter page and returns one target per option of its
// page selector, in document order.
func (s *Scraper) GetPages(ctx context.Context, chapterURL string) ([]providers.Target, error) {
	page, err := s.engine.Open(ctx, chapterURL)
	if err != nil {
		return nil, fmt.Errorf("load chapter page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	n, err := page.Count(ctx, s.sel.Pages)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", chapterURL, providers.ErrPageSelectorNotFound)
	}

	items, err := page.Extract(ctx, s.sel.Pages, render.SelectOptions)
	if err != nil {
		return nil, err
	}

	base := page.URL()
	out := make([]providers.Target, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.Value) == "" {
			s.debugf("option %d of %s has no value, skipped", i+1, chapterURL)
			continue
		}

		name := strings.TrimSpace(it.Label)
		if name == "" {
			name = strconv.Itoa(i + 1)
		}

		out = append(out, providers.Target{
			Name:    name,
			URL:     resolve(base, it.Value),
			Referer: base,
		})
	}

	return out, nil
}

func (s *Scraper) debugf(format string, args ...any) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

func resolve(baseURL, raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}

	b, err := url.Parse(baseURL)
	if err != nil || b == nil {
		return raw
	}

	return b.ResolveReference(u).String()
}

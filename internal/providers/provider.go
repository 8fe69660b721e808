package providers

import (
	"context"
	"errors"
)

var (
	// ErrNoContentFound means the series page has no recognizable main
	// chapter list. It is the only error that aborts a run.
	ErrNoContentFound = errors.New("series unavailable, retry")

	// ErrPageSelectorNotFound means a chapter page has no page-selector
	// control. The chapter is skipped.
	ErrPageSelectorNotFound = errors.New("page selector not found")
)

// Target is a named, addressable resource: a chapter or a page.
// Name is taken verbatim from page content and must be sanitized before
// it is used as a path segment.
type Target struct {
	Name string
	URL  string

	// Referer is sent with the request when set.
	Referer string
}

// ExtraChooser decides whether the extra chapter group is appended to the
// main group. It is only consulted when the extra group has entries.
type ExtraChooser func(ctx context.Context, extra int) (bool, error)

type Scraper interface {
	GetChapters(ctx context.Context, seriesURL string, includeExtra ExtraChooser) ([]Target, error)
	GetPages(ctx context.Context, chapterURL string) ([]Target, error)
}

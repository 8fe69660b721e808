// Package runner drives a series download: list chapters, then for each
// chapter list its pages and fetch them, one at a time and in order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/chapters"
	"github.com/brogergvhs/dmzjdl/internal/downloader"
	"github.com/brogergvhs/dmzjdl/internal/providers"
	"github.com/brogergvhs/dmzjdl/internal/util"
)

type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

// Fetcher writes one page into dir.
type Fetcher interface {
	Fetch(ctx context.Context, t providers.Target, dir string, progress func(done int64)) (downloader.Result, error)
}

// Reporter receives progress events. Calls arrive from a single goroutine.
type Reporter interface {
	ChapterStarted(name string, pages int)
	PageWritten(n int64)
	PageSaved(bytes int64)
	ChapterFinished(ok bool)
}

type nopReporter struct{}

func (nopReporter) ChapterStarted(string, int) {}
func (nopReporter) PageWritten(int64)          {}
func (nopReporter) PageSaved(int64)            {}
func (nopReporter) ChapterFinished(bool)       {}

type Options struct {
	// Chapter, Range and List select chapters, see chapters.Filter.
	Chapter string
	Range   string
	List    string

	// Extra decides on the extra chapter group. Nil declines it.
	Extra providers.ExtraChooser

	// DryRun lists the selected chapters and fetches nothing.
	DryRun bool

	// CBZ packs each complete chapter into <root>/<chapter>.cbz and,
	// unless KeepFolders is set, removes the chapter directory.
	CBZ         bool
	KeepFolders bool
}

type Summary struct {
	Chapters    int
	Skipped     int
	Pages       int
	FailedPages int
	Bytes       int64
	Elapsed     time.Duration

	// Listed is the selected chapter list.
	Listed []chapters.Chapter
}

type Runner struct {
	scraper  providers.Scraper
	fetcher  Fetcher
	log      Logger
	reporter Reporter
	opts     Options
}

func New(s providers.Scraper, f Fetcher, log Logger, opts Options) *Runner {
	return &Runner{scraper: s, fetcher: f, log: log, reporter: nopReporter{}, opts: opts}
}

// WithReporter sets the progress sink.
func (r *Runner) WithReporter(rep Reporter) *Runner {
	if rep != nil {
		r.reporter = rep
	}
	return r
}

// Run downloads seriesURL into root. It fails when the series has no
// chapter list or ctx ends. A chapter whose pages cannot be listed is
// logged and skipped; a page that cannot be fetched is counted as failed.
func (r *Runner) Run(ctx context.Context, seriesURL, root string) (sum Summary, err error) {
	start := time.Now()
	defer func() { sum.Elapsed = time.Since(start) }()

	r.log.Infof("loading series %s", seriesURL)

	targets, err := r.scraper.GetChapters(ctx, seriesURL, r.opts.Extra)
	if err != nil {
		return sum, err
	}

	selected := chapters.Filter(chapters.New(targets), r.opts.Chapter, r.opts.Range, r.opts.List)
	sum.Listed = selected
	if len(selected) == 0 && len(targets) > 0 {
		return sum, errors.New("no chapters match the selection")
	}

	r.log.Infof("%d chapters listed, %d selected", len(targets), len(selected))

	if r.opts.DryRun {
		for _, ch := range selected {
			r.log.Infof("[%d] %s %s", ch.Index, ch.Name, ch.URL)
		}
		return sum, nil
	}

	for _, ch := range selected {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if r.opts.CBZ {
			if _, err := os.Stat(ch.OutputCBZPath(root)); err == nil {
				r.log.Infof("%s already packed, skipping", ch.OutputCBZ())
				continue
			}
		}

		ok, err := r.chapter(ctx, ch, root, &sum)
		if err != nil && ctx.Err() != nil {
			return sum, ctx.Err()
		}
		if err != nil {
			r.log.Errorf("chapter %s skipped: %v", ch.Name, err)
			sum.Skipped++
			continue
		}
		if ok {
			sum.Chapters++
		}
	}

	r.log.Infof("download complete: %d chapters, %d pages", sum.Chapters, sum.Pages)

	return sum, nil
}

// chapter reports false without error when some pages failed.
func (r *Runner) chapter(ctx context.Context, ch chapters.Chapter, root string, sum *Summary) (bool, error) {
	dir := ch.Dir(root)
	r.log.Infof("starting chapter %s (%s) -> %s", ch.Name, ch.URL, dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", dir, err)
	}

	pages, err := r.scraper.GetPages(ctx, ch.URL)
	if err != nil {
		return false, err
	}

	r.reporter.ChapterStarted(ch.DirName(), len(pages))

	failed := 0
	for _, p := range pages {
		res, err := r.fetcher.Fetch(ctx, p, dir, r.reporter.PageWritten)
		if err != nil {
			if ctx.Err() != nil {
				r.reporter.ChapterFinished(false)
				return false, err
			}
			failed++
			sum.FailedPages++
			r.log.Errorf("page %s of %s failed: %v", p.Name, ch.Name, err)
			continue
		}

		sum.Pages++
		sum.Bytes += res.Bytes
		r.reporter.PageSaved(res.Bytes)
	}

	r.reporter.ChapterFinished(failed == 0)

	if failed > 0 {
		r.log.Warnf("chapter %s incomplete: %d of %d pages failed", ch.Name, failed, len(pages))
		return false, nil
	}

	r.log.Infof("chapter %s complete", ch.Name)

	if r.opts.CBZ {
		if err := r.pack(ch, root); err != nil {
			r.log.Errorf("pack %s: %v", ch.Name, err)
		}
	}

	return true, nil
}

func (r *Runner) pack(ch chapters.Chapter, root string) error {
	out := ch.OutputCBZPath(root)
	if err := util.PackDir(ch.Dir(root), out); err != nil {
		return err
	}

	r.log.Infof("packed %s", out)

	if !r.opts.KeepFolders {
		return os.RemoveAll(ch.Dir(root))
	}

	return nil
}

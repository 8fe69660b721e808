package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/chapters"
	"github.com/brogergvhs/dmzjdl/internal/providers"

	"golang.org/x/time/rate"
)

const defaultExt = ".jpg"

type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Errorf(string, ...any)
}

// RetryPolicy controls how a failed fetch is re-attempted.
type RetryPolicy struct {
	// MaxAttempts caps attempts per asset; 0 retries forever.
	MaxAttempts int
	// Backoff is the wait before the second attempt, doubling after each
	// further failure; 0 retries immediately.
	Backoff    time.Duration
	MaxBackoff time.Duration
	// Timeout bounds a single attempt; 0 means no bound.
	Timeout time.Duration
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}

	shift := min(attempt-1, 20)
	d := p.Backoff << shift
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		d = p.MaxBackoff
	}

	return d
}

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// TransportError is returned once an asset is given up on: the retry cap is
// exhausted or the context ended. Err is the last failure.
type TransportError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: gave up after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

type Result struct {
	Path     string
	Bytes    int64
	Attempts int
}

type Downloader struct {
	client  *http.Client
	log     Logger
	policy  RetryPolicy
	limiter *rate.Limiter
}

type Option func(*Downloader)

// WithInterval spaces consecutive requests at least d apart.
func WithInterval(d time.Duration) Option {
	return func(dl *Downloader) {
		if d > 0 {
			dl.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

func New(c *http.Client, log Logger, policy RetryPolicy, opts ...Option) *Downloader {
	d := &Downloader{
		client: c,
		log:    log,
		policy: policy,
	}
	for _, o := range opts {
		o(d)
	}

	return d
}

// DeriveExtension returns the suffix of the last path element of rawURL
// starting at its last '.', or ".jpg" when there is none.
func DeriveExtension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	base := path.Base(p)
	i := strings.LastIndexByte(base, '.')
	if i < 0 || i == len(base)-1 {
		return defaultExt
	}

	return base[i:]
}

// FileName is the on-disk name of a page: its sanitized name plus the
// extension derived from its URL.
func FileName(t providers.Target) string {
	stem := chapters.SafeName(t.Name, "page")
	return chapters.SafeName(stem+DeriveExtension(t.URL), stem+defaultExt)
}

// Fetch streams t into dir, retrying per the policy until one attempt
// completes. progress, when set, receives the bytes written so far by the
// current attempt.
func (d *Downloader) Fetch(ctx context.Context, t providers.Target, dir string, progress func(done int64)) (Result, error) {
	output := filepath.Join(dir, FileName(t))
	created := false

	abandon := func(attempts int, err error) error {
		if created {
			if rmErr := os.Remove(output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				d.log.Errorf("remove partial %s: %v", output, rmErr)
			}
		}
		return &TransportError{URL: t.URL, Attempts: attempts, Err: err}
	}

	for attempt := 1; ; attempt++ {
		if err := d.wait(ctx, 0); err != nil {
			return Result{}, abandon(attempt-1, err)
		}

		d.log.Debugf("GET %s -> %s (attempt %d)", t.URL, output, attempt)

		n, touched, err := d.download(ctx, t, output, progress)
		created = created || touched
		if err == nil {
			d.log.Infof("%s (%s) saved", t.Name, t.URL)
			return Result{Path: output, Bytes: n, Attempts: attempt}, nil
		}

		if ctx.Err() != nil {
			return Result{}, abandon(attempt, ctx.Err())
		}

		d.log.Errorf("%s (%s) attempt %d failed: %v", t.Name, t.URL, attempt, err)

		if d.policy.MaxAttempts > 0 && attempt >= d.policy.MaxAttempts {
			return Result{}, abandon(attempt, err)
		}

		if err := d.wait(ctx, d.policy.delay(attempt)); err != nil {
			return Result{}, abandon(attempt, err)
		}
	}
}

// wait sleeps for backoff, then for the pacing limiter.
func (d *Downloader) wait(ctx context.Context, backoff time.Duration) error {
	if backoff > 0 {
		timer := time.NewTimer(backoff)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if d.limiter != nil {
		return d.limiter.Wait(ctx)
	}

	return ctx.Err()
}

func (d *Downloader) download(
	ctx context.Context,
	t providers.Target,
	output string,
	progress func(done int64),
) (written int64, created bool, err error) {
	if d.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.policy.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return 0, false, err
	}

	if t.Referer != "" {
		req.Header.Set("Referer", t.Referer)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, false, &StatusError{Code: resp.StatusCode}
	}

	f, err := os.Create(output)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	written, err = copyWithProgress(f, resp.Body, progress)
	return written, true, err
}

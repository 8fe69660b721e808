package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type ChromeOptions struct {
	ExecPath  string
	Headless  bool
	UserAgent string
	// Headers are sent with every navigation (Cookie, Referer, ...).
	Headers map[string]string
	// Timeout bounds one navigation or evaluation; zero means none.
	Timeout time.Duration
	Logf    func(string, ...any)
}

// Chrome is a headless browser shared across a run. Every Open creates a
// fresh tab.
type Chrome struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   ChromeOptions
}

func NewChrome(opts ChromeOptions) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(logf))
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// The first Run launches the browser; it must not carry a deadline or
	// the browser dies with it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Chrome{ctx: browserCtx, cancel: cancel, opts: opts}, nil
}

func (c *Chrome) Open(ctx context.Context, target string) (Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(c.ctx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		return nil, fmt.Errorf("open tab: %w", err)
	}

	p := &chromePage{ctx: tabCtx, cancel: cancelTab, timeout: c.opts.Timeout}

	tasks := chromedp.Tasks{network.Enable()}
	if len(c.opts.Headers) > 0 {
		h := make(network.Headers, len(c.opts.Headers))
		for k, v := range c.opts.Headers {
			h[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(h))
	}
	tasks = append(tasks,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&p.url),
	)

	if err := p.run(ctx, tasks); err != nil {
		cancelTab()
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}

	return p, nil
}

func (c *Chrome) Close() error {
	c.cancel()
	return nil
}

type chromePage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	url     string
}

// run executes actions on the tab, bounded by the page timeout and by the
// caller's context.
func (p *chromePage) run(caller context.Context, actions ...chromedp.Action) error {
	ctx, cancel := context.WithCancel(p.ctx)
	defer cancel()

	if p.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, p.timeout)
		defer cancelTimeout()
	}

	stop := context.AfterFunc(caller, cancel)
	defer stop()

	if err := chromedp.Run(ctx, actions...); err != nil {
		if caller.Err() != nil {
			return caller.Err()
		}
		return err
	}

	return nil
}

func (p *chromePage) URL() string { return p.url }

func (p *chromePage) Count(ctx context.Context, selector string) (int, error) {
	js, err := countScript(selector)
	if err != nil {
		return 0, err
	}

	var n int
	if err := p.run(ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}

	return n, nil
}

func (p *chromePage) Extract(ctx context.Context, selector string, r Routine) ([]Item, error) {
	js, err := r.script(selector)
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := p.run(ctx, chromedp.Evaluate(js, &items)); err != nil {
		return nil, fmt.Errorf("%s %q: %w", r, selector, err)
	}

	return items, nil
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

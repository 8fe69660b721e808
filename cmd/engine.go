package cmd

import (
	"fmt"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/config"
	"github.com/brogergvhs/dmzjdl/internal/render"
	"github.com/brogergvhs/dmzjdl/internal/ui"
	"github.com/brogergvhs/dmzjdl/internal/util"
)

func newEngine(cfg *config.Config, log *ui.Logger) (render.Engine, error) {
	switch cfg.Engine {
	case config.EngineStatic:
		client, err := util.NewHTTPClient(httpOptions(cfg, cfg.PageTimeout, log))
		if err != nil {
			return nil, err
		}
		return render.NewStatic(client, nil, log), nil

	case config.EngineChrome:
		cookie, err := util.CookieHeader(cfg.Cookie, cfg.CookieFile)
		if err != nil {
			return nil, err
		}

		headers := map[string]string{}
		if cookie != "" {
			headers["Cookie"] = cookie
		}

		var logf func(string, ...any)
		if cfg.Debug {
			logf = log.Debugf
		}

		return render.NewChrome(render.ChromeOptions{
			ExecPath:  cfg.ChromePath,
			Headless:  cfg.Headless,
			UserAgent: util.PickUserAgent(cfg.UserAgent),
			Headers:   headers,
			Timeout:   cfg.PageTimeout,
			Logf:      logf,
		})
	}

	return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
}

func httpOptions(cfg *config.Config, timeout time.Duration, log *ui.Logger) util.HTTPClientOptions {
	return util.HTTPClientOptions{
		Timeout:          timeout,
		UserAgent:        cfg.UserAgent,
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      log,
	}
}

func parseDuration(flag, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("--%s %q: want a non-negative duration like 500ms or 2m", flag, s)
	}

	return d, nil
}

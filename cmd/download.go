package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brogergvhs/dmzjdl/internal/config"
	"github.com/brogergvhs/dmzjdl/internal/downloader"
	"github.com/brogergvhs/dmzjdl/internal/providers"
	"github.com/brogergvhs/dmzjdl/internal/providers/dmzj"
	"github.com/brogergvhs/dmzjdl/internal/runner"
	"github.com/brogergvhs/dmzjdl/internal/ui"
	"github.com/brogergvhs/dmzjdl/internal/util"
	"github.com/brogergvhs/dmzjdl/internal/validation"

	"github.com/spf13/cobra"
)

var (
	// selection
	flagURL     string
	flagChapter string
	flagRange   string
	flagList    string
	flagExtra   string

	// runtime
	flagOutput      string
	flagEngine      string
	flagDryRun      bool
	flagProgress    bool
	flagCBZ         bool
	flagKeepFolders bool
	flagLang        string

	// retry
	flagMaxAttempts  int
	flagRetryBackoff string
	flagFetchTimeout string

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download every chapter of a series. Uses the defaults from the selected config, overwritten by CLI flags",
		Long: "Download every chapter of a dmzj series into <dir>/<chapter>/<page>.<ext>.\n" +
			"Without --url the series URL and the target directory are asked for interactively.",
		RunE: runDownload,
	}

	f := downloadCmd.Flags()

	// selection
	f.StringVar(&flagURL, "url", "", "series home page, e.g. https://manhua.dmzj.com/yiquanchaoren")
	f.StringVar(&flagChapter, "chapter", "", "download a single chapter by name or 1-based index")
	f.StringVar(&flagRange, "range", "", "download a range of chapters by index (e.g. 5-12)")
	f.StringVar(&flagList, "list", "", "download specific chapter indices (e.g. 1,3,5)")
	f.StringVar(&flagExtra, "extra", "", "extra chapter group: ask, yes or no")

	// runtime
	f.StringVarP(&flagOutput, "output", "o", "", "directory the series is saved in (must exist)")
	f.StringVar(&flagOutput, "dir", "", "alias for --output")
	f.StringVar(&flagEngine, "engine", "", "render engine: chrome or static")
	f.BoolVar(&flagDryRun, "dry-run", false, "list the selected chapters and download nothing")
	f.BoolVar(&flagProgress, "progress", false, "draw progress bars (logs go to stderr)")
	f.BoolVar(&flagCBZ, "cbz", false, "pack each finished chapter into <chapter>.cbz")
	f.BoolVar(&flagKeepFolders, "keep-folders", false, "keep chapter folders after packing")
	f.StringVar(&flagLang, "lang", "", "prompt language: zh or en")

	// retry
	f.IntVar(&flagMaxAttempts, "max-attempts", 0, "attempts per page before giving up, 0 retries forever")
	f.StringVar(&flagRetryBackoff, "retry-backoff", "", "delay before the first retry, doubled after each failure (e.g. 500ms)")
	f.StringVar(&flagFetchTimeout, "fetch-timeout", "", "deadline for a single fetch attempt (e.g. 2m)")

	// headers/auth
	f.StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	f.StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	f.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(downloadCmd)
}

func downloadOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		Output:       flagOutput,
		DefaultURL:   flagURL,
		Lang:         flagLang,
		Progress:     flagProgress,
		Engine:       flagEngine,
		Extra:        flagExtra,
		MaxAttempts:  -1,
		UserAgent:    flagUserAgent,
		Cookie:       flagCookie,
		CookieFile:   flagCookieFile,
		CBZ:          flagCBZ,
		KeepFolders:  flagKeepFolders,
	}

	if cmd.Flags().Changed("max-attempts") {
		opts.MaxAttempts = flagMaxAttempts
	}

	var err error
	if opts.RetryBackoff, err = parseDuration("retry-backoff", flagRetryBackoff); err != nil {
		return opts, err
	}
	if opts.FetchTimeout, err = parseDuration("fetch-timeout", flagFetchTimeout); err != nil {
		return opts, err
	}

	return opts, nil
}

func runDownload(cmd *cobra.Command, _ []string) error {
	opts, err := downloadOptions(cmd)
	if err != nil {
		return err
	}

	cfg, usedPath, err := config.LoadMerged(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var log *ui.Logger
	if cfg.Progress {
		log = ui.NewLoggerTo(os.Stderr, cfg.Debug)
	} else {
		log = ui.NewLogger(cfg.Debug)
	}
	defer log.Sync()

	log.Debugf("config: %s", usedPath)

	prompter := ui.NewPrompter(cfg.Lang)
	seriesURL, root, err := resolveTarget(cmd, cfg, prompter)
	if err != nil {
		return err
	}

	ctx, stop := util.InterruptContext(cmd.Context())
	defer stop()

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			log.Warnf("close render engine: %v", cerr)
		}
	}()

	fetchClient, err := util.NewHTTPClient(httpOptions(cfg, 0, log))
	if err != nil {
		return err
	}

	var dlOpts []downloader.Option
	if cfg.FetchInterval > 0 {
		dlOpts = append(dlOpts, downloader.WithInterval(cfg.FetchInterval))
	}
	dl := downloader.New(fetchClient, log, downloader.RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     cfg.RetryBackoff,
		MaxBackoff:  cfg.MaxBackoff,
		Timeout:     cfg.FetchTimeout,
	}, dlOpts...)

	run := runner.New(dmzj.NewScraper(engine, cfg.Selectors, log), dl, log, runner.Options{
		Chapter:     flagChapter,
		Range:       flagRange,
		List:        flagList,
		Extra:       extraChooser(cfg.Extra, prompter),
		DryRun:      flagDryRun,
		CBZ:         cfg.CBZ,
		KeepFolders: cfg.KeepFolders,
	})

	var pm *ui.ProgressManager
	if cfg.Progress && !flagDryRun {
		pm = ui.NewProgressManager(out)
		run.WithReporter(pm)
	}

	log.Infof("%s: %s -> %s", prompter.Msg.RunStart, seriesURL, root)

	sum, err := run.Run(ctx, seriesURL, root)
	if pm != nil {
		pm.Close()
	}

	if errors.Is(err, context.Canceled) {
		for _, ch := range sum.Listed {
			if util.RemoveIfEmpty(ch.Dir(root)) {
				log.Debugf("removed empty %s", ch.Dir(root))
			}
		}
		ui.PrintSummary(out, sum)
		return errors.New(prompter.Msg.Interrupted)
	}
	if errors.Is(err, providers.ErrNoContentFound) {
		return fmt.Errorf("%s: %w", seriesURL, err)
	}
	if err != nil {
		return err
	}

	if !flagDryRun {
		ui.PrintSummary(out, sum)
		log.Infof("%s", prompter.Msg.RunComplete)
	}

	return nil
}

// resolveTarget returns the series URL and destination root. Without a
// URL from flags or config both are asked for; otherwise both must
// already be valid.
func resolveTarget(cmd *cobra.Command, cfg *config.Config, p *ui.Prompter) (string, string, error) {
	root := cfg.Output
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	if cfg.DefaultURL == "" {
		u, err := p.SeriesURL("")
		if err != nil {
			return "", "", err
		}
		if !cmd.Flags().Changed("output") && !cmd.Flags().Changed("dir") {
			if root, err = p.Dir(root); err != nil {
				return "", "", err
			}
		}
		return u, root, validation.ExistingDir(root)
	}

	u, err := validation.SeriesURL(cfg.DefaultURL)
	if err != nil {
		return "", "", err
	}

	return u, root, validation.ExistingDir(root)
}

func extraChooser(mode string, p *ui.Prompter) providers.ExtraChooser {
	switch mode {
	case config.ExtraYes:
		return ui.FixedExtra(true)
	case config.ExtraNo:
		return ui.FixedExtra(false)
	default:
		return p.IncludeExtra
	}
}

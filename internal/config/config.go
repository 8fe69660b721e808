package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brogergvhs/dmzjdl/internal/providers/dmzj"

	"gopkg.in/yaml.v3"
)

const (
	EngineChrome = "chrome"
	EngineStatic = "static"

	ExtraAsk = "ask"
	ExtraYes = "yes"
	ExtraNo  = "no"
)

type Config struct {
	Output     string `yaml:"output"`
	Debug      bool   `yaml:"debug"`
	DefaultURL string `yaml:"default_url"`
	Lang       string `yaml:"lang"`
	Progress   bool   `yaml:"progress"`

	Engine      string        `yaml:"engine"`
	ChromePath  string        `yaml:"chrome_path"`
	Headless    bool          `yaml:"headless"`
	PageTimeout time.Duration `yaml:"page_timeout"`
	Extra       string        `yaml:"extra"`

	// MaxAttempts caps fetch attempts per page. 0 retries until success.
	MaxAttempts   int           `yaml:"max_attempts"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
	MaxBackoff    time.Duration `yaml:"max_backoff"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	FetchInterval time.Duration `yaml:"fetch_interval"`

	UserAgent        string `yaml:"user_agent"`
	Cookie           string `yaml:"cookie"`
	CookieFile       string `yaml:"cookie_file"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`

	CBZ         bool `yaml:"cbz"`
	KeepFolders bool `yaml:"keep_folders"`

	Selectors dmzj.Selectors `yaml:"selectors"`
}

// Options are command-line overrides. Zero values leave the loaded
// config untouched; MaxAttempts uses -1 for unset since 0 is meaningful.
type Options struct {
	IgnoreConfig bool
	Debug        bool
	Output       string
	DefaultURL   string
	Lang         string
	Progress     bool

	Engine string
	Extra  string

	MaxAttempts  int
	RetryBackoff time.Duration
	FetchTimeout time.Duration

	UserAgent  string
	Cookie     string
	CookieFile string

	CBZ         bool
	KeepFolders bool
}

func DefaultConfig() *Config {
	return &Config{
		Output:        ".",
		Lang:          "zh",
		Engine:        EngineChrome,
		Headless:      true,
		PageTimeout:   60 * time.Second,
		Extra:         ExtraAsk,
		MaxAttempts:   0,
		RetryBackoff:  0,
		MaxBackoff:    30 * time.Second,
		FetchTimeout:  2 * time.Minute,
		FetchInterval: 0,
		Selectors:     dmzj.DefaultSelectors(),
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// loadYAML decodes path over the defaults so omitted keys keep their
// default values.
func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged returns defaults < active profile < opts, and a description
// of where the file layer came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		return cfg, "(ignored config)", validate(cfg)
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		return cfg, "(default config in memory)\nRun `dmzjdl config init` to create an actual config\n", validate(cfg)
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	if err := validate(cfg); err != nil {
		return nil, "", fmt.Errorf("%s: %w", activePath, err)
	}

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Debug {
		c.Debug = true
	}
	if o.DefaultURL != "" {
		c.DefaultURL = o.DefaultURL
	}
	if o.Lang != "" {
		c.Lang = o.Lang
	}
	if o.Progress {
		c.Progress = true
	}
	if o.Engine != "" {
		c.Engine = o.Engine
	}
	if o.Extra != "" {
		c.Extra = o.Extra
	}
	if o.MaxAttempts >= 0 {
		c.MaxAttempts = o.MaxAttempts
	}
	if o.RetryBackoff != 0 {
		c.RetryBackoff = o.RetryBackoff
	}
	if o.FetchTimeout != 0 {
		c.FetchTimeout = o.FetchTimeout
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.CBZ {
		c.CBZ = true
	}
	if o.KeepFolders {
		c.KeepFolders = true
	}
}

func validate(c *Config) error {
	if c.Output == "" {
		c.Output = "."
	}

	switch c.Engine {
	case EngineChrome, EngineStatic:
	default:
		return fmt.Errorf("engine %q: want %s or %s", c.Engine, EngineChrome, EngineStatic)
	}

	switch c.Extra {
	case ExtraAsk, ExtraYes, ExtraNo:
	default:
		return fmt.Errorf("extra %q: want %s, %s or %s", c.Extra, ExtraAsk, ExtraYes, ExtraNo)
	}

	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts %d: must be >= 0", c.MaxAttempts)
	}
	if c.RetryBackoff < 0 || c.MaxBackoff < 0 || c.FetchTimeout < 0 || c.FetchInterval < 0 || c.PageTimeout < 0 {
		return errors.New("durations must not be negative")
	}

	return nil
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -engine: %s\n", c.Engine)
	if c.Engine == EngineChrome {
		fmt.Fprintf(w, " -headless: %t\n", c.Headless)
		if c.ChromePath != "" {
			fmt.Fprintf(w, " -chrome_path: %s\n", c.ChromePath)
		}
	}
	fmt.Fprintf(w, " -extra: %s\n", c.Extra)
	fmt.Fprintf(w, " -lang: %s\n", c.Lang)
	if c.MaxAttempts == 0 {
		fmt.Fprintln(w, " -max_attempts: unbounded")
	} else {
		fmt.Fprintf(w, " -max_attempts: %d\n", c.MaxAttempts)
	}
	fmt.Fprintf(w, " -retry_backoff: %s (max %s)\n", c.RetryBackoff, c.MaxBackoff)
	fmt.Fprintf(w, " -fetch_timeout: %s\n", c.FetchTimeout)
	if c.FetchInterval > 0 {
		fmt.Fprintf(w, " -fetch_interval: %s\n", c.FetchInterval)
	}
	if c.DefaultURL != "" {
		fmt.Fprintf(w, " -url: %s\n", c.DefaultURL)
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.CloudflareBypass {
		fmt.Fprintln(w, " -cloudflare_bypass: true")
	}
	if c.CBZ {
		fmt.Fprintf(w, " -cbz: true (keep_folders: %t)\n", c.KeepFolders)
	}
	if c.Progress {
		fmt.Fprintln(w, " -progress: true")
	}
	if c.Debug {
		fmt.Fprintln(w, " -debug: true")
	}
}

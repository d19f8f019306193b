// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Seed providers
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderBrowser    = "browser"
)

// Config is the on-disk configuration of a leadsnake installation.
type Config struct {
	Crawl      CrawlConfig      `yaml:"crawl"`
	Throttle   ThrottleConfig   `yaml:"throttle"`
	Search     SearchConfig     `yaml:"search"`
	Validation ValidationConfig `yaml:"validation"`
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Identities []IdentityConfig `yaml:"identities"`
}

// CrawlConfig bounds the per-seed search and the fetcher.
type CrawlConfig struct {
	MaxVisits        int      `yaml:"max_visits"`
	MaxDepth         int      `yaml:"max_depth"`
	Timeout          Duration `yaml:"timeout"`
	MaxBodyBytes     int      `yaml:"max_body_bytes"`
	DetectCharset    bool     `yaml:"detect_charset"`
	RespectRobotsTxt bool     `yaml:"respect_robots_txt"`
	RenderJS         bool     `yaml:"render_js"`
	// Blacklist replaces the built-in domain blacklist when non-empty
	Blacklist []string `yaml:"blacklist"`
}

// ThrottleConfig is the pause applied around every request.
type ThrottleConfig struct {
	Delay             Duration `yaml:"delay"`
	RandomDelay       Duration `yaml:"random_delay"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
}

// SearchConfig controls seed discovery and keyword retries.
type SearchConfig struct {
	Provider     string   `yaml:"provider"`
	MaxSeeds     int      `yaml:"max_seeds"`
	MaxRetries   int      `yaml:"max_retries"`
	RetryBackoff Duration `yaml:"retry_backoff"`
	Workers      int      `yaml:"workers"`
	UseCache     bool     `yaml:"use_cache"`
}

// ValidationConfig toggles the post-crawl lead checks.
type ValidationConfig struct {
	Enabled     bool `yaml:"enabled"`
	CheckSocial bool `yaml:"check_social"`
	// CheckMX requires email domains to publish MX (or A) records
	CheckMX bool `yaml:"check_mx"`
	// MXServer is the DNS server as host:port; empty uses /etc/resolv.conf
	MXServer string `yaml:"mx_server"`
}

// StoreConfig locates the SQLite database. An empty path means ~/.leadsnake/leadsnake.db.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig is the REST listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig selects log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// IdentityConfig is one client identity of the rotation pool.
type IdentityConfig struct {
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Crawl: CrawlConfig{
			MaxVisits:     3,
			MaxDepth:      2,
			Timeout:       DurationFrom(10 * time.Second),
			MaxBodyBytes:  10 * 1024 * 1024,
			DetectCharset: true,
		},
		Throttle: ThrottleConfig{
			Delay:       DurationFrom(time.Second),
			RandomDelay: DurationFrom(2 * time.Second),
		},
		Search: SearchConfig{
			Provider:   ProviderDuckDuckGo,
			MaxSeeds:   20,
			MaxRetries: 2,
			Workers:    1,
			UseCache:   true,
		},
		Validation: ValidationConfig{
			Enabled:     true,
			CheckSocial: true,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads, merges and validates configuration from a YAML file, then
// applies LEADSNAKE_* environment overrides.
func Load(path string) (*Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()
	return LoadFromReader(fh)
}

// LoadFromReader decodes configuration from an arbitrary reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeYAML(r, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it is set and falls back to Default with
// environment overrides otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg := Default()
	cfg.ApplyEnv(os.LookupEnv)
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

var envOverrides = map[string]func(*Config, string) error{
	"MAX_VISITS": func(c *Config, v string) error { return setInt(&c.Crawl.MaxVisits, v) },
	"MAX_DEPTH":  func(c *Config, v string) error { return setInt(&c.Crawl.MaxDepth, v) },
	"MAX_SEEDS":  func(c *Config, v string) error { return setInt(&c.Search.MaxSeeds, v) },
	"MAX_RETRIES": func(c *Config, v string) error {
		return setInt(&c.Search.MaxRetries, v)
	},
	"WORKERS": func(c *Config, v string) error { return setInt(&c.Search.Workers, v) },
	"TIMEOUT": func(c *Config, v string) error { return c.Crawl.Timeout.UnmarshalText([]byte(v)) },
	"DELAY":   func(c *Config, v string) error { return c.Throttle.Delay.UnmarshalText([]byte(v)) },
	"RANDOM_DELAY": func(c *Config, v string) error {
		return c.Throttle.RandomDelay.UnmarshalText([]byte(v))
	},
	"PROVIDER":  func(c *Config, v string) error { c.Search.Provider = v; return nil },
	"DB":        func(c *Config, v string) error { c.Store.Path = v; return nil },
	"LOG_LEVEL": func(c *Config, v string) error { c.Logging.Level = v; return nil },
	"RENDER_JS": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Crawl.RenderJS = b
		return err
	},
	"CHECK_MX": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Validation.CheckMX = b
		return err
	},
	"RESPECT_ROBOTS": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Crawl.RespectRobotsTxt = b
		return err
	},
}

// ApplyEnv overrides fields from LEADSNAKE_<NAME> variables. Unparseable
// values are logged and ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for name, apply := range envOverrides {
		v, ok := lookup("LEADSNAKE_" + name)
		if !ok || v == "" {
			continue
		}
		if err := apply(c, v); err != nil {
			log.Warn("ignoring environment override", "name", "LEADSNAKE_"+name, "err", err)
		}
	}
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// Validate enforces the invariants the crawler relies on.
func (c Config) Validate() error {
	if c.Crawl.MaxVisits <= 0 {
		return fmt.Errorf("crawl.max_visits must be > 0 (got %d)", c.Crawl.MaxVisits)
	}
	if c.Crawl.MaxDepth <= 0 {
		return fmt.Errorf("crawl.max_depth must be > 0 (got %d)", c.Crawl.MaxDepth)
	}
	if c.Crawl.MaxBodyBytes < 0 {
		return fmt.Errorf("crawl.max_body_bytes must be >= 0 (got %d)", c.Crawl.MaxBodyBytes)
	}
	if c.Search.MaxSeeds <= 0 {
		return fmt.Errorf("search.max_seeds must be > 0 (got %d)", c.Search.MaxSeeds)
	}
	if c.Search.MaxRetries < 0 {
		return fmt.Errorf("search.max_retries must be >= 0 (got %d)", c.Search.MaxRetries)
	}
	if c.Search.Workers <= 0 {
		return fmt.Errorf("search.workers must be > 0 (got %d)", c.Search.Workers)
	}
	switch c.Search.Provider {
	case ProviderDuckDuckGo, ProviderBrowser:
	default:
		return fmt.Errorf("search.provider must be %q or %q (got %q)", ProviderDuckDuckGo, ProviderBrowser, c.Search.Provider)
	}
	if c.Throttle.RequestsPerSecond < 0 {
		return errors.New("throttle.requests_per_second must be >= 0")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	for i, id := range c.Identities {
		if strings.TrimSpace(id.UserAgent) == "" {
			return fmt.Errorf("identities[%d].user_agent must be set", i)
		}
	}
	return nil
}

func (c *Config) normalise() {
	c.Search.Provider = strings.ToLower(strings.TrimSpace(c.Search.Provider))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Store.Path = strings.TrimSpace(c.Store.Path)
	if len(c.Crawl.Blacklist) > 0 {
		cleaned := make([]string, 0, len(c.Crawl.Blacklist))
		for _, p := range c.Crawl.Blacklist {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		c.Crawl.Blacklist = cleaned
	}
}

// LogLevel returns the parsed logging level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Addr returns the REST listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Blacklist returns the configured domain blacklist or the built-in one.
func (c Config) Blacklist() []string {
	if len(c.Crawl.Blacklist) > 0 {
		return c.Crawl.Blacklist
	}
	return leadsnake.DefaultBlacklist
}

// ToCore converts the file configuration to the crawl session Config.
func (c Config) ToCore() *leadsnake.Config {
	core := &leadsnake.Config{
		Budgets: leadsnake.Budgets{
			MaxVisits: c.Crawl.MaxVisits,
			MaxDepth:  c.Crawl.MaxDepth,
		},
		MaxSeeds:     c.Search.MaxSeeds,
		MaxRetries:   c.Search.MaxRetries,
		RetryBackoff: c.Search.RetryBackoff.Duration,
		Timeout:      c.Crawl.Timeout.Duration,
		Throttle: leadsnake.Throttle{
			Delay:             c.Throttle.Delay.Duration,
			RandomDelay:       c.Throttle.RandomDelay.Duration,
			RequestsPerSecond: c.Throttle.RequestsPerSecond,
		},
		MaxBodySize:      c.Crawl.MaxBodyBytes,
		DetectCharset:    c.Crawl.DetectCharset,
		RespectRobotsTxt: c.Crawl.RespectRobotsTxt,
		RenderJS:         c.Crawl.RenderJS,
		LogLevel:         c.LogLevel(),
	}
	if len(c.Identities) == 0 {
		core.Identities = append([]leadsnake.Identity(nil), leadsnake.DefaultIdentities...)
	} else {
		for _, id := range c.Identities {
			core.Identities = append(core.Identities, leadsnake.Identity{
				UserAgent:      id.UserAgent,
				AcceptLanguage: id.AcceptLanguage,
			})
		}
	}
	return core
}

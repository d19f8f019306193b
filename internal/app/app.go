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

package app

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/config"
	"github.com/agentberlin/leadsnake/internal/seeds"
	"github.com/agentberlin/leadsnake/internal/store"
	"github.com/agentberlin/leadsnake/internal/types"
	"github.com/agentberlin/leadsnake/internal/validator"
	"github.com/agentberlin/leadsnake/internal/version"
	"github.com/charmbracelet/log"
)

// App represents the core application logic shared by the CLI, the REST
// server and the MCP server.
type App struct {
	ctx       context.Context
	cfg       *config.Config
	store     *store.Store
	seeds     leadsnake.SeedProvider
	validator leadsnake.Validator
	// validatorSet records an explicit WithValidator, nil included
	validatorSet bool
	emitter      EventEmitter
	logger       *log.Logger

	// httpClient and renderer replace the per-worker fetch stack when set
	httpClient *http.Client
	renderer   leadsnake.Renderer

	// owned is closed by Close
	owned []*leadsnake.ChromeRenderer

	activeSearches map[string]*activeSearch
	searchMutex    sync.RWMutex
	ownedMutex     sync.Mutex
}

// Option configures an App
type Option func(*App)

// WithSeedProvider replaces the configured search provider
func WithSeedProvider(p leadsnake.SeedProvider) Option {
	return func(a *App) {
		a.seeds = p
	}
}

// WithValidator replaces the configured validator. A nil validator turns
// validation off.
func WithValidator(v leadsnake.Validator) Option {
	return func(a *App) {
		a.validator = v
		a.validatorSet = true
	}
}

// WithHTTPClient makes every fetcher use c
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithRenderer makes JS-rendering fetchers use r instead of a private Chrome
func WithRenderer(r leadsnake.Renderer) Option {
	return func(a *App) {
		a.renderer = r
	}
}

// WithEmitter sets the event sink
func WithEmitter(e EventEmitter) Option {
	return func(a *App) {
		a.emitter = e
	}
}

// WithLogger sets the application logger
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// NewApp creates a new App instance with dependencies injected
func NewApp(cfg *config.Config, st *store.Store, options ...Option) *App {
	if cfg == nil {
		c := config.Default()
		cfg = &c
	}
	a := &App{
		ctx:            context.Background(),
		cfg:            cfg,
		store:          st,
		emitter:        &NoOpEmitter{},
		logger:         leadsnake.NewLogger(nil, cfg.LogLevel()),
		activeSearches: make(map[string]*activeSearch),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.seeds == nil {
		a.seeds = a.defaultSeedProvider()
	}
	if !a.validatorSet && cfg.Validation.Enabled {
		a.validator = a.defaultValidator()
	}
	if a.emitter == nil {
		a.emitter = &NoOpEmitter{}
	}
	return a
}

func (a *App) defaultValidator() *validator.LeadValidator {
	options := []validator.Option{
		validator.WithSocialCheck(a.cfg.Validation.CheckSocial),
		validator.WithLogger(a.logger),
	}
	if a.cfg.Validation.CheckMX {
		mx, err := validator.NewMXChecker(a.cfg.Validation.MXServer)
		if err != nil {
			a.logger.Warn("mx check disabled", "err", err)
		} else {
			options = append(options, validator.WithMXCheck(mx))
		}
	}
	return validator.New(options...)
}

func (a *App) defaultSeedProvider() leadsnake.SeedProvider {
	if a.cfg.Search.Provider == config.ProviderBrowser {
		r := leadsnake.NewChromeRenderer(a.cfg.Crawl.Timeout.Duration * 3)
		a.owned = append(a.owned, r)
		b := seeds.NewBrowser(r)
		b.Logger = a.logger
		return b
	}
	d := seeds.NewDuckDuckGo()
	d.Logger = a.logger
	if a.cfg.Crawl.Timeout.Duration > 0 {
		d.Client.Timeout = a.cfg.Crawl.Timeout.Duration
	}
	return d
}

// Startup initializes the app with a context
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

// Config returns the configuration the app was built with
func (a *App) Config() *config.Config {
	return a.cfg
}

// Close releases the browsers the app started
func (a *App) Close() {
	a.ownedMutex.Lock()
	defer a.ownedMutex.Unlock()
	for _, r := range a.owned {
		r.Close()
	}
	a.owned = nil
}

// GetVersion returns the current version of the application
func (a *App) GetVersion() string {
	return version.CurrentVersion
}

// CheckSystemHealth checks if all required dependencies are available
func (a *App) CheckSystemHealth() *types.SystemHealthCheck {
	needsChrome := a.cfg.Crawl.RenderJS || a.cfg.Search.Provider == config.ProviderBrowser
	if needsChrome && a.renderer == nil && !isChromeBrowserAvailable() {
		return &types.SystemHealthCheck{
			IsHealthy:  false,
			ErrorTitle: "Chrome Browser Required",
			ErrorMsg:   "Google Chrome or Chromium is required for JavaScript rendering and browser search but was not found on your system.",
			Suggestion: "Please install Google Chrome from https://www.google.com/chrome/\n\nAlternatively, you can set the CHROME_EXECUTABLE_PATH environment variable to point to your Chrome installation, or switch to the duckduckgo provider with render_js disabled.",
		}
	}
	return &types.SystemHealthCheck{
		IsHealthy: true,
	}
}

// isChromeBrowserAvailable checks if Chrome or Chromium is available
func isChromeBrowserAvailable() bool {
	if customPath := os.Getenv("CHROME_EXECUTABLE_PATH"); customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return true
		}
	}

	var chromePaths []string
	switch runtime.GOOS {
	case "darwin":
		chromePaths = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		chromePaths = []string{
			os.Getenv("ProgramFiles") + "\\Google\\Chrome\\Application\\chrome.exe",
			os.Getenv("ProgramFiles(x86)") + "\\Google\\Chrome\\Application\\chrome.exe",
		}
	case "linux":
		chromePaths = []string{
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

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

package leadsnake

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Budgets bound a single seed's search.
type Budgets struct {
	// MaxVisits caps the number of pages extracted per seed
	MaxVisits int
	// MaxDepth is the path cost at which a popped node is discarded
	// without extraction or expansion
	MaxDepth int
}

// Throttle describes the post-request pause used as anti-blocking
// camouflage. It is not a correctness mechanism.
type Throttle struct {
	// Delay is the fixed pause after every network call
	Delay time.Duration
	// RandomDelay is the extra randomized pause added to Delay
	RandomDelay time.Duration
	// RequestsPerSecond optionally caps the request rate before each call (0 = off)
	RequestsPerSecond float64
}

// Config holds every tunable of a crawl session.
type Config struct {
	Budgets Budgets
	// MaxSeeds is the number of seed URLs requested per keyword
	MaxSeeds int
	// MaxRetries is the number of from-scratch retries after a failed keyword attempt
	MaxRetries int
	// RetryBackoff is the pause between keyword attempts
	RetryBackoff time.Duration
	// Timeout applies to every network call
	Timeout  time.Duration
	Throttle Throttle
	// Identities is the rotation pool of client identities
	Identities []Identity
	// MaxBodySize caps the number of body bytes read per page (0 = unlimited)
	MaxBodySize int
	// DetectCharset enables charset sniffing for pages without a declared charset
	DetectCharset bool
	// RespectRobotsTxt makes the fetcher refuse paths disallowed by robots.txt
	RespectRobotsTxt bool
	// RenderJS fetches pages through headless Chrome instead of plain HTTP
	RenderJS bool
	// LogLevel is the minimum level written by the session logger
	LogLevel log.Level
}

// NewDefaultConfig returns the defaults of the original lead tool:
// 3 visits, depth 2, 20 seeds and 2 retries per keyword.
func NewDefaultConfig() *Config {
	c := &Config{
		Budgets:       Budgets{MaxVisits: 3, MaxDepth: 2},
		MaxSeeds:      20,
		MaxRetries:    2,
		RetryBackoff:  0,
		Timeout:       10 * time.Second,
		Throttle:      Throttle{Delay: time.Second, RandomDelay: 2 * time.Second},
		Identities:    append([]Identity(nil), DefaultIdentities...),
		MaxBodySize:   10 * 1024 * 1024,
		DetectCharset: true,
		LogLevel:      log.InfoLevel,
	}
	c.parseSettingsFromEnv()
	return c
}

var envMap = map[string]func(*Config, string){
	"MAX_VISITS": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil {
			c.Budgets.MaxVisits = n
		}
	},
	"MAX_DEPTH": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil {
			c.Budgets.MaxDepth = n
		}
	},
	"MAX_SEEDS": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxSeeds = n
		}
	},
	"MAX_RETRIES": func(c *Config, val string) {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxRetries = n
		}
	},
	"TIMEOUT": func(c *Config, val string) {
		if d, err := time.ParseDuration(val); err == nil {
			c.Timeout = d
		}
	},
	"DELAY": func(c *Config, val string) {
		if d, err := time.ParseDuration(val); err == nil {
			c.Throttle.Delay = d
		}
	},
	"RANDOM_DELAY": func(c *Config, val string) {
		if d, err := time.ParseDuration(val); err == nil {
			c.Throttle.RandomDelay = d
		}
	},
	"RESPECT_ROBOTS": func(c *Config, val string) {
		c.RespectRobotsTxt = isYesString(val)
	},
	"RENDER_JS": func(c *Config, val string) {
		c.RenderJS = isYesString(val)
	},
	"LOG_LEVEL": func(c *Config, val string) {
		if lvl, err := log.ParseLevel(val); err == nil {
			c.LogLevel = lvl
		}
	},
}

func (c *Config) parseSettingsFromEnv() {
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "LEADSNAKE_") {
			continue
		}
		pair := strings.SplitN(e[len("LEADSNAKE_"):], "=", 2)
		if f, ok := envMap[pair[0]]; ok && len(pair) == 2 {
			f(c, pair[1])
		} else {
			log.Warn("unknown environment variable", "name", pair[0])
		}
	}
}

func isYesString(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "true", "y":
		return true
	}
	return false
}

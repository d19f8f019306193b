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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/agentberlin/leadsnake/internal/app"
)

func runProbe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	maxVisits := fs.Int("max-visits", 0, "Page budget (0 = config value)")
	renderJS := fs.Bool("render-js", false, "Render pages in headless Chrome")
	verbose := fs.Bool("verbose", false, "Log every visited page")
	fs.BoolVar(verbose, "v", false, "Verbose (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: leadsnake probe <url> [flags]

Crawl a single site and print the lead it yields. Nothing is stored.

Flags:
`)
		fs.PrintDefaults()
	}

	var target string
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		target = args[0]
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if target == "" && fs.NArg() > 0 {
		target = fs.Arg(0)
	}
	if target == "" {
		fs.Usage()
		return fmt.Errorf("a URL is required")
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if *maxVisits > 0 {
		cfg.Crawl.MaxVisits = *maxVisits
	}
	if *renderJS {
		cfg.Crawl.RenderJS = true
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "leadsnake", Level: log.WarnLevel})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	a, _, err := openApp(cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := a.Probe(ctx, target)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(res)
}

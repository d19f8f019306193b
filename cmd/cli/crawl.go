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
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/app"
	"github.com/agentberlin/leadsnake/internal/config"
	"github.com/agentberlin/leadsnake/internal/keywords"
	"github.com/agentberlin/leadsnake/internal/seeds"
	"github.com/agentberlin/leadsnake/internal/types"
)

func runCrawl(args []string) error {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)

	var common commonFlags
	common.register(fs)

	maxVisits := fs.Int("max-visits", 0, "Page budget per site (0 = config value)")
	maxDepth := fs.Int("max-depth", 0, "Maximum link depth per site (0 = config value)")
	maxSeeds := fs.Int("max-seeds", 0, "Seed sites per keyword (0 = config value)")
	workers := fs.Int("workers", 0, "Concurrent keywords (0 = config value)")
	seedsFile := fs.String("seeds", "", "File with one seed URL per line, used instead of a search engine")
	provider := fs.String("provider", "", "Seed provider: duckduckgo or browser")
	renderJS := fs.Bool("render-js", false, "Render pages in headless Chrome")
	noCache := fs.Bool("no-cache", false, "Crawl keywords even when leads are already stored")
	noValidate := fs.Bool("no-validate", false, "Skip lead validation")
	format := fs.String("format", "json", "Output format: json, csv or xlsx")
	fs.StringVar(format, "f", "json", "Output format (shorthand)")
	output := fs.String("output", "", "Write the found leads to this file")
	fs.StringVar(output, "o", "", "Output file (shorthand)")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	fs.BoolVar(quiet, "q", false, "Suppress progress output (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: leadsnake crawl <keywords> [flags]

Search each keyword and extract at most one lead per site.
Keywords may be separated by commas, semicolons or newlines.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  leadsnake crawl "bakery berlin"
  leadsnake crawl "bakery, florist" --max-seeds 5 -o leads.csv -f csv
  leadsnake crawl bakery --seeds ./sites.txt --no-cache
`)
	}

	// Allow keywords before flags
	var positional []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		positional = append(positional, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional = append(positional, fs.Args()...)

	kws := keywords.Split(strings.Join(positional, ","))
	if len(kws) == 0 {
		fs.Usage()
		return fmt.Errorf("at least one keyword is required")
	}
	if !exportFormats[*format] {
		return fmt.Errorf("invalid format %q: must be json, csv or xlsx", *format)
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if *provider != "" {
		cfg.Search.Provider = *provider
	}
	if *renderJS {
		cfg.Crawl.RenderJS = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := leadsnake.NewLogger(os.Stderr, cfg.LogLevel())
	if *quiet {
		logger.SetLevel(log.ErrorLevel)
	}

	options := []app.Option{
		app.WithLogger(logger),
		app.WithEmitter(NewCLIEmitter(*quiet)),
	}
	if *seedsFile != "" {
		static, err := seeds.FromFile(*seedsFile)
		if err != nil {
			return err
		}
		options = append(options, app.WithSeedProvider(static))
	}
	if *noValidate {
		options = append(options, app.WithValidator(nil))
	}

	a, _, err := openApp(cfg, options...)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Startup(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			if !*quiet {
				fmt.Fprintln(os.Stderr, "\nStopping crawl, saving partial results...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	useCache := cfg.Search.UseCache && !*noCache
	req := types.SearchRequest{
		Keywords:  kws,
		MaxVisits: *maxVisits,
		MaxDepth:  *maxDepth,
		MaxSeeds:  *maxSeeds,
		Workers:   *workers,
		UseCache:  &useCache,
	}

	resp, err := a.Search(ctx, req)
	if err != nil {
		return err
	}

	if *output != "" {
		exp := NewExporter(*format)
		if err := exp.WriteFile(*output, leadsFromResponse(resp)); err != nil {
			return err
		}
		if !*quiet {
			fmt.Printf("Wrote %d leads to %s\n", resp.TotalLeads, *output)
		}
	}

	if !*quiet {
		printSummary(cfg, resp)
	}
	return nil
}

func printSummary(cfg *config.Config, resp *types.SearchResponse) {
	fmt.Println()
	fmt.Println("Crawl complete")
	fmt.Printf("  Provider:  %s\n", cfg.Search.Provider)
	fmt.Printf("  Keywords:  %d\n", len(resp.Results))
	fmt.Printf("  Leads:     %d\n", resp.TotalLeads)
	fmt.Printf("  Duration:  %s\n", (time.Duration(resp.DurationMs) * time.Millisecond).Round(time.Millisecond))
	for _, r := range resp.Results {
		status := fmt.Sprintf("%d leads, %d stored", len(r.Leads), r.Stored)
		if r.Cached {
			status += " (cached)"
		}
		if r.Error != "" {
			status += ", error: " + r.Error
		}
		fmt.Printf("  - %s: %s\n", r.Keyword, status)
	}
}

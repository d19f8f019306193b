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

// LeadSnake CLI
//
// Command-line interface for LeadSnake. Finds business contact leads for
// keywords and manages the stored leads.
//
// Usage:
//
//	leadsnake <command> [flags]
//
// Commands:
//
//	crawl     Search keywords and extract one lead per site
//	probe     Search a single site for its lead
//	export    Export stored leads
//	list      List stored leads or keyword runs
//	clear     Delete all stored leads
//	version   Show version information
package main

import (
	"fmt"
	"os"

	"github.com/agentberlin/leadsnake/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "crawl":
		err = runCrawl(os.Args[2:])
	case "probe":
		err = runProbe(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "clear":
		err = runClear(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("LeadSnake CLI %s\n", version.CurrentVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`LeadSnake CLI - business lead discovery

Usage:
  leadsnake <command> [flags]

Commands:
  crawl     Search keywords and extract one lead per site
  probe     Search a single site for its lead
  export    Export stored leads to JSON, CSV or XLSX
  list      List stored leads or keyword runs
  clear     Delete all stored leads
  version   Show version information
  help      Show this help message

Examples:
  # Find leads for two keywords
  leadsnake crawl "bakery berlin, florist berlin"

  # Crawl your own seed list instead of searching
  leadsnake crawl bakery --seeds ./sites.txt --max-visits 5

  # Look at one site
  leadsnake probe example.com

  # Export everything found for a keyword
  leadsnake export --keyword bakery --format csv -o leads.csv

  # List recent runs
  leadsnake list runs

Use "leadsnake <command> --help" for more information about a command.`)
}

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
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rodaine/table"
)

func runList(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: leadsnake list <leads|runs> [flags]")
	}

	switch args[0] {
	case "leads":
		return listLeads(args[1:])
	case "runs":
		return listRuns(args[1:])
	default:
		return fmt.Errorf("unknown list target: %s (expected leads or runs)", args[0])
	}
}

func listLeads(args []string) error {
	fs := flag.NewFlagSet("list leads", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	keyword := fs.String("keyword", "", "Only list leads found for this keyword")
	fs.StringVar(keyword, "k", "", "Keyword (shorthand)")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	a, _, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.Leads(*keyword)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(os.Stdout, records)
	}
	if len(records) == 0 {
		fmt.Println("No leads found.")
		return nil
	}

	tbl := table.New("Title", "Email", "Domain", "Keyword", "Scraped").WithWriter(os.Stdout)
	for _, r := range records {
		tbl.AddRow(truncate(r.Title, 40), r.Email, r.Domain, r.Keyword, r.ScrapedAt.Local().Format("2006-01-02 15:04"))
	}
	tbl.Print()
	fmt.Printf("\n%d leads\n", len(records))
	return nil
}

func listRuns(args []string) error {
	fs := flag.NewFlagSet("list runs", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	limit := fs.Int("limit", 20, "Number of runs to show")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	a, _, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.Runs(*limit)
	if err != nil {
		return err
	}
	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	tbl := table.New("ID", "Keyword", "State", "Started", "Seeds", "Leads", "Stored").WithWriter(os.Stdout)
	for _, r := range runs {
		tbl.AddRow(r.ID[:8], r.Keyword, r.State, time.Unix(r.StartedAt, 0).Format("2006-01-02 15:04"),
			r.Seeds, r.LeadsFound, r.LeadsStored)
	}
	tbl.Print()
	return nil
}

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		fmt.Print("Delete all stored leads? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	a, _, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.ClearLeads()
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d leads.\n", n)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

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
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/app"
	"github.com/agentberlin/leadsnake/internal/types"
)

// CLIEmitter prints search progress to stderr with a spinner between events
type CLIEmitter struct {
	quiet bool
	mu    sync.Mutex
	spin  *spinner.Spinner
	leads int
}

func NewCLIEmitter(quiet bool) *CLIEmitter {
	e := &CLIEmitter{quiet: quiet}
	if !quiet {
		e.spin = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		e.spin.Suffix = " searching"
	}
	return e
}

func (e *CLIEmitter) Emit(eventType app.EventType, data interface{}) {
	if e.quiet {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	switch eventType {
	case app.EventSearchStarted:
		if m, ok := data.(map[string]interface{}); ok {
			fmt.Fprintf(os.Stderr, "Searching %v\n", m["keywords"])
		}
		e.spin.Start()
	case app.EventLeadFound:
		if r, ok := data.(leadsnake.LeadRecord); ok {
			e.leads++
			e.printf("  + %s <%s> %s\n", r.Title, r.Email, r.SourceURL)
		}
	case app.EventKeywordCompleted:
		if r, ok := data.(types.KeywordResult); ok {
			if r.Cached {
				e.printf("[%s] %d leads from cache\n", r.Keyword, len(r.Leads))
				return
			}
			e.printf("[%s] %d leads from %d seeds (%d attempts)\n", r.Keyword, len(r.Leads), r.Seeds, r.Attempts)
		}
	case app.EventSearchCompleted:
		e.spin.Stop()
	}
}

// printf writes a line without the spinner frame mixed in
func (e *CLIEmitter) printf(format string, args ...interface{}) {
	e.spin.Stop()
	fmt.Fprintf(os.Stderr, format, args...)
	e.spin.Suffix = fmt.Sprintf(" searching, %d leads so far", e.leads)
	e.spin.Start()
}

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
	"flag"
	"fmt"

	"github.com/agentberlin/leadsnake/internal/app"
	"github.com/agentberlin/leadsnake/internal/config"
	"github.com/agentberlin/leadsnake/internal/store"
)

// commonFlags are shared by every command that opens the database
type commonFlags struct {
	configPath string
	dbPath     string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&c.dbPath, "db", "", "SQLite database path (default ~/.leadsnake/leadsnake.db)")
}

// load reads .env and the configuration, then applies the --db override
func (c *commonFlags) load() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.dbPath != "" {
		cfg.Store.Path = c.dbPath
	}
	return cfg, nil
}

// openApp opens the store and builds the app
func openApp(cfg *config.Config, options ...app.Option) (*app.App, *store.Store, error) {
	st, err := store.OpenStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %v", err)
	}
	return app.NewApp(cfg, st, options...), st, nil
}

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

// LeadSnake MCP Server
//
// Exposes lead searches as Model Context Protocol tools, over stdio by
// default or over streamable HTTP with -http.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/app"
	"github.com/agentberlin/leadsnake/internal/config"
	"github.com/agentberlin/leadsnake/internal/mcp"
	"github.com/agentberlin/leadsnake/internal/store"
	"github.com/agentberlin/leadsnake/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	httpAddr := flag.String("http", "", "Serve streamable HTTP on this address instead of stdio")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("LeadSnake MCP %s\n", version.CurrentVersion)
		os.Exit(0)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol on stdio
	logger := leadsnake.NewLogger(os.Stderr, cfg.LogLevel())

	st, err := store.OpenStore(cfg.Store.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coreApp := app.NewApp(cfg, st, app.WithLogger(logger))
	coreApp.Startup(ctx)

	srv := mcp.NewMCPServer(ctx, coreApp, logger)
	defer srv.Close()

	if *httpAddr == "" {
		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("MCP server stopped", "err", err)
		}
		return
	}

	httpServer, err := srv.RunHTTP(*httpAddr)
	if err != nil {
		logger.Fatal("failed to start MCP HTTP server", "err", err)
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("MCP HTTP server forced to shutdown", "err", err)
	}
}

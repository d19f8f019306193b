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

// LeadSnake HTTP Server
//
// REST API for keyword lead searches and stored leads.
//
// Usage:
//
//	leadsnake-server [flags]
//
// Flags:
//
//	-config string  Path to a YAML config file
//	-host string    Host to bind the server to (overrides config)
//	-port int       Port to run the server on (overrides config)
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/app"
	"github.com/agentberlin/leadsnake/internal/config"
	"github.com/agentberlin/leadsnake/internal/server"
	"github.com/agentberlin/leadsnake/internal/store"
	"github.com/agentberlin/leadsnake/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", 0, "Port to run the HTTP server on")
	host := flag.String("host", "", "Host to bind the HTTP server to")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("LeadSnake Server %s\n", version.CurrentVersion)
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
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := leadsnake.NewLogger(os.Stderr, cfg.LogLevel())

	st, err := store.OpenStore(cfg.Store.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", "err", err)
	}

	// HTTP clients poll for progress, no events
	coreApp := app.NewApp(cfg, st, app.WithLogger(logger), app.WithEmitter(&app.NoOpEmitter{}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coreApp.Startup(ctx)
	defer coreApp.Close()

	srv := server.NewServer(coreApp, logger)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		// Searches hold the connection until every keyword finishes
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("LeadSnake Server starting", "version", version.CurrentVersion, "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	logger.Info("server exited gracefully")
}

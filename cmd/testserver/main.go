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

// LeadSnake fixture server
//
// Serves the test business websites on local addresses so the crawler can
// be tried without touching the internet. Each site gets its own loopback
// address because seeds are deduplicated by hostname.
//
// Usage:
//
//	testserver [-port 8081] [-seeds seeds.txt]
//
// then
//
//	leadsnake crawl demo --seeds seeds.txt --no-cache
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
	"strings"
	"syscall"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/testutil"
	"github.com/charmbracelet/log"
)

func main() {
	port := flag.Int("port", 8081, "Port every site listens on")
	seedsPath := flag.String("seeds", "", "Write the site URLs to this file")
	flag.Parse()

	logger := leadsnake.NewLogger(os.Stderr, log.InfoLevel)

	var servers []*http.Server
	var urls []string
	for i, site := range testutil.BusinessSites {
		addr := net.JoinHostPort(fmt.Sprintf("127.0.0.%d", i+1), strconv.Itoa(*port))
		srv := &http.Server{
			Addr:         addr,
			Handler:      site.Handler(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		servers = append(servers, srv)
		urls = append(urls, "http://"+addr)

		go func(name string, srv *http.Server) {
			logger.Info("serving site", "site", name, "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("failed to start server", "site", name, "err", err)
			}
		}(site.Name, srv)
	}

	if *seedsPath != "" {
		if err := os.WriteFile(*seedsPath, []byte(strings.Join(urls, "\n")+"\n"), 0644); err != nil {
			logger.Fatal("failed to write seeds", "err", err)
		}
		logger.Info("wrote seeds", "path", *seedsPath, "count", len(urls))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "addr", srv.Addr, "err", err)
		}
	}
}

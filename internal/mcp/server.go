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

package mcp

import (
	"context"
	"net/http"

	"github.com/agentberlin/leadsnake/internal/app"
	"github.com/agentberlin/leadsnake/internal/version"
	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerName = "leadsnake"

// MCPServer wraps the core app and exposes it via MCP protocol
type MCPServer struct {
	server *mcp.Server
	app    *app.App
	ctx    context.Context
	logger *log.Logger
}

// NewMCPServer creates a new MCP server instance around a ready app
func NewMCPServer(ctx context.Context, coreApp *app.App, logger *log.Logger) *MCPServer {
	if logger == nil {
		logger = log.Default()
	}
	coreApp.Startup(ctx)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.CurrentVersion,
	}, nil)

	s := &MCPServer{
		server: mcpServer,
		app:    coreApp,
		ctx:    ctx,
		logger: logger,
	}
	s.registerTools()

	logger.Info("MCP server initialized")
	return s
}

// GetServer returns the internal MCP server instance
func (s *MCPServer) GetServer() *mcp.Server {
	return s.server
}

// Run serves MCP over stdio until the client disconnects or ctx ends
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Info("serving MCP on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server with HTTP transport using StreamableHTTPHandler
func (s *MCPServer) RunHTTP(addr string) (*http.Server, error) {
	handler := mcp.NewStreamableHTTPHandler(
		func(req *http.Request) *mcp.Server {
			return s.server
		},
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "err", err)
		}
	}()

	s.logger.Info("MCP HTTP server started", "addr", addr)
	return httpServer, nil
}

// Close performs cleanup
func (s *MCPServer) Close() error {
	s.logger.Info("shutting down MCP server")
	s.app.Close()
	return nil
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/DevPabloGarcia/JiraMcp/internal/config"
	"github.com/DevPabloGarcia/JiraMcp/internal/jira"
	"github.com/DevPabloGarcia/JiraMcp/internal/mcp"
)

// runMCPServer wires configuration, the Jira client and the tools together
// and serves MCP over stdio until the client closes the stream. Logs go to
// stderr; stdout carries the protocol.
func runMCPServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := jira.NewClient(cfg.BaseURL, cfg.Token)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("starting MCP server", "jira_url", cfg.BaseURL)

	s := mcp.CreateServer(client, cfg.BaseURL, logger)
	return server.ServeStdio(s)
}

package main

import (
	"context"
	"strings"
	"testing"
)

func TestRun_UnknownSubcommand(t *testing.T) {
	err := run(context.Background(), []string{"bogus"})
	if err == nil {
		t.Fatal("Expected error for unknown sub-command, got nil")
	}
	if !strings.Contains(err.Error(), "unknown sub-command: bogus") {
		t.Errorf("Expected 'unknown sub-command' error, got: %v", err)
	}
}

func TestRun_MCPServerMissingConfig(t *testing.T) {
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRA_PAT", "")

	err := run(context.Background(), []string{"mcp-server"})
	if err == nil {
		t.Fatal("Expected error for missing configuration, got nil")
	}
	if !strings.Contains(err.Error(), "JIRA_URL") {
		t.Errorf("Expected error naming JIRA_URL, got: %v", err)
	}
}

// TestRun_DefaultIsMCPServer verifies that a bare invocation dispatches to
// the server, which refuses to start without configuration.
func TestRun_DefaultIsMCPServer(t *testing.T) {
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRA_PAT", "")

	err := run(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected error for missing configuration, got nil")
	}
	if !strings.Contains(err.Error(), "JIRA_URL") {
		t.Errorf("Expected error naming JIRA_URL, got: %v", err)
	}
}

func TestRun_GetIssueRequiresKey(t *testing.T) {
	err := run(context.Background(), []string{"get-issue"})
	if err == nil {
		t.Fatal("Expected error for missing issue key, got nil")
	}
	if !strings.Contains(err.Error(), "issue key is required") {
		t.Errorf("Expected 'issue key is required' error, got: %v", err)
	}
}

func TestRun_SearchMissingConfig(t *testing.T) {
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRA_PAT", "")

	err := run(context.Background(), []string{"search", "project = TEST"})
	if err == nil {
		t.Fatal("Expected error for missing configuration, got nil")
	}
	if !strings.Contains(err.Error(), "JIRA_URL") {
		t.Errorf("Expected error naming JIRA_URL, got: %v", err)
	}
}

func TestRun_ConfigureMissingURL(t *testing.T) {
	t.Setenv("JIRA_URL", "")

	err := run(context.Background(), []string{"configure"})
	if err == nil {
		t.Fatal("Expected error for missing JIRA_URL, got nil")
	}
	if !strings.Contains(err.Error(), "JIRA_URL") {
		t.Errorf("Expected error naming JIRA_URL, got: %v", err)
	}
}

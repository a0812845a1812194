package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DevPabloGarcia/JiraMcp/internal/jira"
)

// Client is the part of the Jira client the tools consume.
type Client interface {
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)
	SearchIssues(ctx context.Context, jql string, maxResults int) (*jira.SearchResult, error)
}

type handlers struct {
	client  Client
	baseURL string
	logger  *slog.Logger
}

// CreateServer creates an MCP server exposing the Jira read tools. The
// logger must write to stderr or a file; stdout carries the protocol.
func CreateServer(client Client, baseURL string, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{client: client, baseURL: baseURL, logger: logger}

	s := server.NewMCPServer(
		"jira-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Add get-issue tool
	getIssueTool := mcplib.NewTool("get_issue",
		mcplib.WithDescription("Get detailed information about a Jira issue, including its description and recent comments"),
		mcplib.WithString("issue_key",
			mcplib.Required(),
			mcplib.Description("Jira issue key (e.g., PROJ-123)"),
		),
	)
	s.AddTool(getIssueTool, h.getIssue)

	// Add search-issues tool
	searchIssuesTool := mcplib.NewTool("search_issues",
		mcplib.WithDescription("Search for Jira issues by criteria like project, status or assignee. Returns a list of matching issues"),
		mcplib.WithString("project",
			mcplib.Description("Filter by project key (e.g., 'PROJ')"),
		),
		mcplib.WithString("status",
			mcplib.Description("Filter by status (e.g., 'Open', 'In Progress', 'Done')"),
		),
		mcplib.WithString("assignee",
			mcplib.Description("Filter by assignee username. Use 'currentUser()' for your own issues"),
		),
		mcplib.WithString("issue_type",
			mcplib.Description("Filter by issue type (e.g., 'Bug', 'Story', 'Task')"),
		),
		mcplib.WithString("priority",
			mcplib.Description("Filter by priority (e.g., 'High', 'P1 - Critical')"),
		),
		mcplib.WithString("fix_version",
			mcplib.Description("Filter by fix version (e.g., '25.11')"),
		),
		mcplib.WithString("text",
			mcplib.Description("Free text to match against issue text"),
		),
		mcplib.WithNumber("max_results",
			mcplib.Description("Maximum number of issues to return (default 20, max 100)"),
		),
	)
	s.AddTool(searchIssuesTool, h.searchIssues)

	// Add get-my-issues tool
	getMyIssuesTool := mcplib.NewTool("get_my_issues",
		mcplib.WithDescription("Get Jira issues assigned to the current user"),
		mcplib.WithString("status",
			mcplib.Description("Filter by status (e.g., 'Open', 'In Progress', 'Done')"),
		),
		mcplib.WithNumber("max_results",
			mcplib.Description("Maximum number of issues to return (default 20, max 100)"),
		),
	)
	s.AddTool(getMyIssuesTool, h.getMyIssues)

	return s
}

func (h *handlers) getIssue(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	issueKey, err := request.RequireString("issue_key")
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("Missing or invalid 'issue_key' argument: %v", err)), nil
	}

	h.logger.Info("get_issue", "issue_key", issueKey)

	issue, err := h.client.GetIssue(ctx, issueKey)
	if err != nil {
		h.logger.Error("get_issue failed", "issue_key", issueKey, "error", err)
		return mcplib.NewToolResultError(describeError(err)), nil
	}

	return mcplib.NewToolResultText(jira.FormatIssue(h.baseURL, issue)), nil
}

func (h *handlers) searchIssues(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	filter := jira.Filter{
		Project:    request.GetString("project", ""),
		Status:     request.GetString("status", ""),
		Assignee:   request.GetString("assignee", ""),
		IssueType:  request.GetString("issue_type", ""),
		Priority:   request.GetString("priority", ""),
		FixVersion: request.GetString("fix_version", ""),
		Text:       request.GetString("text", ""),
	}
	maxResults := jira.ClampMaxResults(request.GetInt("max_results", jira.DefaultMaxResults))

	return h.search(ctx, jira.BuildJQL(filter), maxResults)
}

func (h *handlers) getMyIssues(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	filter := jira.Filter{
		Status:   request.GetString("status", ""),
		Assignee: jira.CurrentUser,
	}
	maxResults := jira.ClampMaxResults(request.GetInt("max_results", jira.DefaultMaxResults))

	return h.search(ctx, jira.BuildJQL(filter), maxResults)
}

// search runs one JQL page fetch and renders it. An empty jql means "no
// filters": the match-all query goes to Jira while the rendered header
// names no filter.
func (h *handlers) search(ctx context.Context, jql string, maxResults int) (*mcplib.CallToolResult, error) {
	query := jql
	if query == "" {
		query = jira.QueryAll
	}

	h.logger.Info("search_issues", "jql", query, "max_results", maxResults)

	result, err := h.client.SearchIssues(ctx, query, maxResults)
	if err != nil {
		h.logger.Error("search_issues failed", "jql", query, "error", err)
		return mcplib.NewToolResultError(describeError(err)), nil
	}

	return mcplib.NewToolResultText(jira.FormatSearchResult(jql, result)), nil
}

// describeError turns a fetch failure into the text a tool answer carries.
// The wording separates the cases a user can act on: bad credentials, a
// missing issue, rate limiting and an unreachable instance.
func describeError(err error) string {
	var apiErr *jira.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("could not reach Jira: %v (check JIRA_URL and your network)", err)
	}

	detail := apiErr.Status
	if apiErr.Message != "" {
		detail += ": " + apiErr.Message
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("Jira authentication failed (%s). Check that JIRA_PAT holds a valid personal access token with permission to read these issues", detail)
	case http.StatusNotFound:
		return fmt.Sprintf("Jira resource not found (%s). The issue may not exist, or your token may lack permission to see it", detail)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("Jira is rate limiting requests (%s). Wait a moment and try again", detail)
	}
	return fmt.Sprintf("Jira request failed (%s)", detail)
}

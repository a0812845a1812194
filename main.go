package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/DevPabloGarcia/JiraMcp/internal/config"
	"github.com/DevPabloGarcia/JiraMcp/internal/jira"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  jira-mcp [mcp-server] - Serve the Jira tools over MCP stdio (default)")
		fmt.Fprintln(w, "  jira-mcp configure - Store the personal access token for the JIRA_URL instance")
		fmt.Fprintln(w, "  jira-mcp get-issue <key> - Print one issue (e.g., PROJ-123)")
		fmt.Fprintln(w, "  jira-mcp search [jql] - Search issues with raw JQL")
		fmt.Fprintln(w, "  jira-mcp my-issues - List issues assigned to the current user")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Configuration comes from the JIRA_URL and JIRA_PAT environment variables.")
	}
	flag.Parse()

	if err := run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	// MCP clients launch the bare binary, so serving is the default verb.
	cmd := "mcp-server"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "mcp-server":
		return runMCPServer(ctx)
	case "configure":
		return runConfigure()
	case "get-issue":
		if len(args) < 2 {
			return fmt.Errorf("issue key is required (e.g., jira-mcp get-issue PROJ-123)")
		}
		return printIssue(ctx, args[1])
	case "search":
		return printSearch(ctx, strings.Join(args[1:], " "))
	case "my-issues":
		return printMyIssues(ctx)
	default:
		flag.Usage()
		return fmt.Errorf("unknown sub-command: %s", cmd)
	}
}

func newClient() (*jira.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return jira.NewClient(cfg.BaseURL, cfg.Token)
}

func printIssue(ctx context.Context, key string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	issue, err := client.GetIssue(ctx, key)
	if err != nil {
		return err
	}

	fmt.Println(jira.FormatIssue(client.BaseURL(), issue))
	return nil
}

func printSearch(ctx context.Context, jql string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	query := jql
	if query == "" {
		query = jira.QueryAll
	}
	result, err := client.SearchIssues(ctx, query, jira.DefaultMaxResults)
	if err != nil {
		return err
	}

	fmt.Println(jira.FormatSearchResult(jql, result))
	return nil
}

func printMyIssues(ctx context.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	jql := jira.BuildJQL(jira.Filter{Assignee: jira.CurrentUser})
	result, err := client.SearchIssues(ctx, jql, jira.DefaultMaxResults)
	if err != nil {
		return err
	}

	fmt.Println(jira.FormatSearchResult(jql, result))
	return nil
}

func runConfigure() error {
	baseURL, err := config.BaseURLFromEnv()
	if err != nil {
		return err
	}
	host := config.Host(baseURL)

	token, err := promptToken(host)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if err := config.SaveToken(host, token); err != nil {
		return err
	}

	fmt.Printf("Token for %s saved.\n", host)
	return nil
}

// promptToken reads the token without echo on a terminal, or as a single
// line when stdin is piped.
func promptToken(host string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "Personal access token for %s: ", host)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

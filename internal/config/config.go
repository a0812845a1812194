package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "jira-mcp"
	tokenFile   = "tokens.json"
)

// Config carries the settings for one Jira instance, resolved once at
// startup. Nothing mutates it afterwards.
type Config struct {
	BaseURL string
	Token   string
}

// Load resolves configuration from the environment: JIRA_URL names the
// instance and JIRA_PAT carries the personal access token. When JIRA_PAT
// is unset, the token stored by 'jira-mcp configure' is used instead.
// Missing or invalid settings are an error; the server never starts
// half-configured.
func Load() (*Config, error) {
	baseURL, err := BaseURLFromEnv()
	if err != nil {
		return nil, err
	}

	token := strings.TrimSpace(os.Getenv("JIRA_PAT"))
	if token == "" {
		token, err = LoadToken(Host(baseURL))
		if err != nil {
			return nil, fmt.Errorf("JIRA_PAT environment variable must be set: %w", err)
		}
	}

	return &Config{BaseURL: baseURL, Token: token}, nil
}

// BaseURLFromEnv reads and validates JIRA_URL.
func BaseURLFromEnv() (string, error) {
	raw := strings.TrimSpace(os.Getenv("JIRA_URL"))
	if raw == "" {
		return "", fmt.Errorf("JIRA_URL environment variable must be set (e.g. https://jira.example.com)")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("JIRA_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("JIRA_URL must start with http:// or https://, got %q", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("JIRA_URL is missing a host: %q", raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// Host returns the host part of a validated base URL. Tokens are stored
// keyed by host, not by full URL.
func Host(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Host
}

// SaveToken saves the token for host in the system keyring, falling back
// to the token file when no keyring is reachable.
func SaveToken(host, token string) error {
	if err := keyring.Set(serviceName, host, token); err != nil {
		if isKeyringUnavailable(err) {
			return saveTokenToFile(host, token)
		}
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// LoadToken loads the token for host from the system keyring, falling back
// to the token file when no keyring is reachable.
func LoadToken(host string) (string, error) {
	token, err := keyring.Get(serviceName, host)
	if err == nil {
		return token, nil
	}
	if err == keyring.ErrNotFound || isKeyringUnavailable(err) {
		return loadTokenFromFile(host)
	}
	return "", fmt.Errorf("failed to get token from keyring: %w", err)
}

// isKeyringUnavailable reports whether err means "no keyring daemon here"
// rather than a real keyring failure. Headless hosts have no D-Bus secret
// service; those errors route token storage to the file fallback.
func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	indicators := []string{
		"dbus",
		"d-bus",
		"secret service",
		"org.freedesktop.secrets",
		"no such file",
		"connection refused",
		"permission denied",
	}
	for _, indicator := range indicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// getTokenFilePath returns the path of the fallback token file.
func getTokenFilePath() (string, error) {
	configDirPath, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDirPath, serviceName, tokenFile), nil
}

// saveTokenToFile stores the token in a mode 0600 JSON file keyed by host,
// merging with tokens already stored for other hosts.
func saveTokenToFile(host, token string) error {
	tokenPath, err := getTokenFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(tokenPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tokens := map[string]string{}
	if data, err := os.ReadFile(tokenPath); err == nil {
		// A token file that no longer parses is replaced wholesale.
		_ = json.Unmarshal(data, &tokens)
	}
	tokens[host] = token

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if err := os.WriteFile(tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func loadTokenFromFile(host string) (string, error) {
	tokenPath, err := getTokenFilePath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("token not found for host %s, please run 'jira-mcp configure' first", host)
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens map[string]string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return "", fmt.Errorf("failed to parse token file: %w", err)
	}

	token, ok := tokens[host]
	if !ok || token == "" {
		return "", fmt.Errorf("token not found for host %s, please run 'jira-mcp configure' first", host)
	}
	return token, nil
}

package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/cenkalti/backoff/v4"
)

// searchFields keeps search pages small; issueFields adds the rich fields
// the detail view renders.
const (
	searchFields = "summary,status,assignee,issuetype,priority,fixVersions,created,updated"
	issueFields  = searchFields + ",description,reporter,comment"
)

const retryMaxElapsed = 15 * time.Second

// APIError is a non-2xx answer from Jira. Message carries the first error
// message Jira included in the response body, when there was one.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("jira: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("jira: %s", e.Status)
}

// Client reads issues from one Jira instance. Methods are safe for
// concurrent use; every request carries the configured bearer token.
type Client struct {
	api     *gojira.Client
	baseURL string

	// newBackOff builds the retry policy for one request. Tests swap it
	// for an aggressive one.
	newBackOff func() backoff.BackOff
}

// NewClient builds a Client for the Jira instance at baseURL,
// authenticating with a personal access token.
func NewClient(baseURL, token string) (*Client, error) {
	tp := gojira.BearerAuthTransport{Token: token}
	api, err := gojira.NewClient(tp.Client(), baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}
	return &Client{
		api:     api,
		baseURL: strings.TrimRight(baseURL, "/"),
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxElapsedTime = retryMaxElapsed
			return bo
		},
	}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetIssue fetches one issue by key, including its description and
// comments.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	apiURL := "rest/api/2/issue/" + url.PathEscape(key) + "?fields=" + url.QueryEscape(issueFields)
	var issue Issue
	if err := c.get(ctx, apiURL, &issue); err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", key, err)
	}
	return &issue, nil
}

// SearchIssues runs a JQL query and returns a single page of at most
// maxResults issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) (*SearchResult, error) {
	params := url.Values{
		"jql":        {jql},
		"maxResults": {strconv.Itoa(maxResults)},
		"fields":     {searchFields},
	}
	var result SearchResult
	if err := c.get(ctx, "rest/api/2/search?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	return &result, nil
}

// get issues one GET request and decodes the JSON answer into v, retrying
// transport failures and transient HTTP statuses with exponential backoff.
func (c *Client) get(ctx context.Context, apiURL string, v any) error {
	op := func() error {
		req, err := c.api.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.api.Do(req, v)
		if err == nil {
			return nil
		}
		if resp == nil {
			// Transport-level failure, worth another try.
			return err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return backoff.Permanent(fmt.Errorf("failed to parse Jira response: %w", err))
		}
		apiErr := newAPIError(resp)
		if retryable(resp.StatusCode) {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}
	return backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx))
}

// apiErrorBody is the shape Jira uses for error answers.
type apiErrorBody struct {
	ErrorMessages []string `json:"errorMessages"`
}

func newAPIError(resp *gojira.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if err != nil {
		return apiErr
	}
	var eb apiErrorBody
	if json.Unmarshal(body, &eb) == nil && len(eb.ErrorMessages) > 0 {
		apiErr.Message = eb.ErrorMessages[0]
	}
	return apiErr
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

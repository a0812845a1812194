package jira

import (
	"fmt"
	"strings"
)

// CurrentUser is the JQL function Jira resolves to the authenticated user.
// BuildJQL emits it unquoted when an assignee filter matches it exactly;
// the comparison is case-sensitive, so "CURRENTUSER()" is treated as a
// literal username.
const CurrentUser = "currentUser()"

// QueryAll is the match-all query used when no filter is given. The page
// size passed alongside it still bounds the result.
const QueryAll = "order by created DESC"

const (
	// DefaultMaxResults is the page size when the caller does not ask for one.
	DefaultMaxResults = 20
	// MaxMaxResults is the upper bound Jira is ever asked for.
	MaxMaxResults = 100
)

// Filter is one search request. Zero-valued fields are absent and
// contribute no clause.
type Filter struct {
	Project    string
	Status     string
	Assignee   string
	IssueType  string
	Priority   string
	FixVersion string
	Text       string
}

// Empty reports whether no field is set, i.e. BuildJQL would return "".
func (f Filter) Empty() bool {
	return f == Filter{}
}

// BuildJQL renders the filter as a JQL string. Fields always appear in the
// same order regardless of how the filter was populated, joined with
// " AND ". An empty filter yields "", which callers translate to QueryAll
// before fetching.
func BuildJQL(f Filter) string {
	var clauses []string
	if f.Project != "" {
		clauses = append(clauses, fmt.Sprintf("project = %s", quote(f.Project)))
	}
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = %s", quote(f.Status)))
	}
	if f.Assignee != "" {
		if f.Assignee == CurrentUser {
			clauses = append(clauses, "assignee = currentUser()")
		} else {
			clauses = append(clauses, fmt.Sprintf("assignee = %s", quote(f.Assignee)))
		}
	}
	if f.IssueType != "" {
		clauses = append(clauses, fmt.Sprintf("issuetype = %s", quote(f.IssueType)))
	}
	if f.Priority != "" {
		clauses = append(clauses, fmt.Sprintf("priority = %s", quote(f.Priority)))
	}
	if f.FixVersion != "" {
		clauses = append(clauses, fmt.Sprintf("fixVersion = %s", quote(f.FixVersion)))
	}
	if f.Text != "" {
		clauses = append(clauses, fmt.Sprintf("text ~ %s", quote(f.Text)))
	}
	return strings.Join(clauses, " AND ")
}

// quote wraps v in double quotes, escaping embedded double quotes. JQL
// needs nothing else escaped for equality and ~ comparisons.
func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// ClampMaxResults bounds a requested page size to [1, MaxMaxResults].
func ClampMaxResults(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxMaxResults {
		return MaxMaxResults
	}
	return n
}

package jira

import "encoding/json"

// Issue is the slice of a Jira issue the tools read. Rich-text fields are
// kept raw because Jira returns them either as plain strings (API v2 text
// mode) or as ADF documents; DocumentText handles both.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description"` // plain text or ADF
	Status      NamedField      `json:"status"`
	IssueType   NamedField      `json:"issuetype"`
	Priority    NamedField      `json:"priority"`
	FixVersions []NamedField    `json:"fixVersions"`
	Assignee    *User           `json:"assignee"`
	Reporter    *User           `json:"reporter"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	Comment     CommentPage     `json:"comment"`
}

// NamedField is Jira's {"name": ...} wrapper used by status, priority,
// issue type and fix versions.
type NamedField struct {
	Name string `json:"name"`
}

type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type Comment struct {
	Author  User            `json:"author"`
	Body    json.RawMessage `json:"body"` // plain text or ADF
	Created string          `json:"created"`
}

// CommentPage is the paged comment container nested inside issue fields.
type CommentPage struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// SearchResult is one page of issues matching a JQL query.
type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

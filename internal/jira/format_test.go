package jira

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIssue(t *testing.T) {
	t.Parallel()

	issue := &Issue{
		Key: "PROJ-123",
		Fields: IssueFields{
			Summary:     "Login fails on SSO",
			Description: json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Users cannot log in."}]},{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"seen on prod"}]}]}]}]}`),
			Status:      NamedField{Name: "In Progress"},
			IssueType:   NamedField{Name: "Bug"},
			Priority:    NamedField{Name: "High"},
			FixVersions: []NamedField{{Name: "25.11"}, {Name: "25.13"}},
			Assignee:    &User{DisplayName: "Alice Adams", Name: "aadams"},
			Reporter:    &User{DisplayName: "Bob Brown", Name: "bbrown"},
			Created:     "2025-01-10T09:00:00.000+0000",
			Updated:     "2025-01-12T15:30:00.000+0000",
			Comment: CommentPage{
				Total: 2,
				Comments: []Comment{
					{
						Author:  User{DisplayName: "Alice Adams"},
						Body:    json.RawMessage(`"Looking into it."`),
						Created: "2025-01-11T10:00:00.000+0000",
					},
					{
						Author:  User{DisplayName: "Bob Brown"},
						Body:    json.RawMessage(`"Fixed by rolling back."`),
						Created: "2025-01-12T15:30:00.000+0000",
					},
				},
			},
		},
	}

	want := `Key: PROJ-123
Summary: Login fails on SSO
Type: Bug
Status: In Progress
Priority: High
Assignee: Alice Adams
Reporter: Bob Brown
Fix Versions: 25.11, 25.13
Created: 2025-01-10T09:00:00.000+0000
Updated: 2025-01-12T15:30:00.000+0000
URL: https://jira.example.com/browse/PROJ-123

Description:
Users cannot log in.
- seen on prod

Comments:
Alice Adams (2025-01-11T10:00:00.000+0000):
Looking into it.
---
Bob Brown (2025-01-12T15:30:00.000+0000):
Fixed by rolling back.`

	assert.Equal(t, want, FormatIssue("https://jira.example.com", issue))
}

func TestFormatIssueMinimal(t *testing.T) {
	t.Parallel()

	issue := &Issue{Key: "PROJ-9", Fields: IssueFields{Summary: "Tiny"}}

	got := FormatIssue("", issue)
	assert.Equal(t, "Key: PROJ-9\nSummary: Tiny\nAssignee: Unassigned", got)
	assert.False(t, strings.HasSuffix(got, "\n"), "no trailing blank lines")
}

func TestFormatIssuePlainStringDescription(t *testing.T) {
	t.Parallel()

	issue := &Issue{
		Key: "PROJ-7",
		Fields: IssueFields{
			Summary:     "Plain",
			Description: json.RawMessage(`"already plain text"`),
		},
	}

	got := FormatIssue("https://jira.example.com", issue)
	assert.Contains(t, got, "Description:\nalready plain text")
}

func TestFormatIssueCommentTruncation(t *testing.T) {
	t.Parallel()

	var comments []Comment
	for i := 1; i <= 7; i++ {
		comments = append(comments, Comment{
			Author: User{DisplayName: fmt.Sprintf("User %d", i)},
			Body:   json.RawMessage(fmt.Sprintf(`"note %d"`, i)),
		})
	}
	issue := &Issue{
		Key: "PROJ-55",
		Fields: IssueFields{
			Summary: "Busy issue",
			Comment: CommentPage{Total: 7, Comments: comments},
		},
	}

	got := FormatIssue("", issue)
	assert.Contains(t, got, "Comments (showing 5 of 7):")
	assert.NotContains(t, got, "note 1")
	assert.NotContains(t, got, "note 2")
	assert.Contains(t, got, "note 3")
	assert.Contains(t, got, "note 7")
}

func TestFormatSearchResult(t *testing.T) {
	t.Parallel()

	result := &SearchResult{
		Total: 2,
		Issues: []Issue{
			{
				Key: "PROJ-1",
				Fields: IssueFields{
					Summary:   "First",
					Status:    NamedField{Name: "Open"},
					IssueType: NamedField{Name: "Bug"},
					Priority:  NamedField{Name: "High"},
					Assignee:  &User{DisplayName: "Alice"},
				},
			},
			{
				Key: "PROJ-2",
				Fields: IssueFields{
					Summary: "Second",
					Status:  NamedField{Name: "Done"},
				},
			},
		},
	}

	want := `2 issues found for project = "PROJ"

PROJ-1: First
Status: Open | Type: Bug | Priority: High | Assignee: Alice

PROJ-2: Second
Status: Done | Assignee: Unassigned`

	assert.Equal(t, want, FormatSearchResult(`project = "PROJ"`, result))
}

func TestFormatSearchResultSingular(t *testing.T) {
	t.Parallel()

	result := &SearchResult{
		Total:  1,
		Issues: []Issue{{Key: "PROJ-1", Fields: IssueFields{Summary: "Only one"}}},
	}

	got := FormatSearchResult(`assignee = currentUser()`, result)
	assert.True(t, strings.HasPrefix(got, "1 issue found for assignee = currentUser()"), "got: %s", got)
}

func TestFormatSearchResultEmpty(t *testing.T) {
	t.Parallel()

	got := FormatSearchResult(`project = "NONE"`, &SearchResult{})
	assert.Equal(t, `0 issues found for project = "NONE"`, got)
}

func TestFormatSearchResultNoFilter(t *testing.T) {
	t.Parallel()

	got := FormatSearchResult("", &SearchResult{})
	assert.Equal(t, "0 issues found", got)
}

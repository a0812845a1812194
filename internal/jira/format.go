package jira

import (
	"fmt"
	"strings"
)

// maxComments bounds how many of an issue's comments the detail view shows.
const maxComments = 5

// FormatIssue renders the single-issue detail view: header fields, the
// flattened description and the most recent comments. Empty fields are
// omitted except Assignee, which reads "Unassigned". The result carries no
// trailing blank lines.
func FormatIssue(baseURL string, issue *Issue) string {
	f := issue.Fields
	lines := []string{"Key: " + issue.Key}
	addLine := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	addLine("Summary", f.Summary)
	addLine("Type", f.IssueType.Name)
	addLine("Status", f.Status.Name)
	addLine("Priority", f.Priority.Name)
	lines = append(lines, "Assignee: "+assigneeName(f.Assignee))
	addLine("Reporter", userName(f.Reporter))
	addLine("Fix Versions", joinNames(f.FixVersions))
	addLine("Created", f.Created)
	addLine("Updated", f.Updated)
	if baseURL != "" {
		lines = append(lines, "URL: "+strings.TrimRight(baseURL, "/")+"/browse/"+issue.Key)
	}

	if desc := strings.TrimRight(DocumentText(f.Description), "\n"); desc != "" {
		lines = append(lines, "", "Description:", desc)
	}
	if comments := formatComments(f.Comment); comments != "" {
		lines = append(lines, "", comments)
	}
	return strings.Join(lines, "\n")
}

// FormatSearchResult renders a search result page: a "N issues found"
// header naming the query that was applied, then one summary block per
// issue separated by blank lines.
func FormatSearchResult(jql string, result *SearchResult) string {
	n := len(result.Issues)
	header := fmt.Sprintf("%d issues found", n)
	if n == 1 {
		header = "1 issue found"
	}
	if jql != "" {
		header += " for " + jql
	}

	blocks := []string{header}
	for _, issue := range result.Issues {
		blocks = append(blocks, summaryBlock(issue))
	}
	return strings.Join(blocks, "\n\n")
}

func summaryBlock(issue Issue) string {
	f := issue.Fields
	var parts []string
	if f.Status.Name != "" {
		parts = append(parts, "Status: "+f.Status.Name)
	}
	if f.IssueType.Name != "" {
		parts = append(parts, "Type: "+f.IssueType.Name)
	}
	if f.Priority.Name != "" {
		parts = append(parts, "Priority: "+f.Priority.Name)
	}
	parts = append(parts, "Assignee: "+assigneeName(f.Assignee))

	head := strings.TrimRight(issue.Key+": "+f.Summary, " ")
	return head + "\n" + strings.Join(parts, " | ")
}

// formatComments renders the tail of the comment page, newest last, each
// comment separated by a --- line.
func formatComments(page CommentPage) string {
	comments := page.Comments
	if len(comments) == 0 {
		return ""
	}
	shown := comments
	if len(shown) > maxComments {
		shown = shown[len(shown)-maxComments:]
	}

	total := page.Total
	if total < len(comments) {
		total = len(comments)
	}
	header := "Comments:"
	if len(shown) < total {
		header = fmt.Sprintf("Comments (showing %d of %d):", len(shown), total)
	}

	blocks := make([]string, 0, len(shown))
	for _, c := range shown {
		author := userName(&c.Author)
		if author == "" {
			author = "Unknown"
		}
		head := author
		if c.Created != "" {
			head += " (" + c.Created + ")"
		}
		body := strings.TrimRight(DocumentText(c.Body), "\n")
		blocks = append(blocks, head+":\n"+body)
	}
	return header + "\n" + strings.Join(blocks, "\n---\n")
}

func joinNames(fields []NamedField) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return strings.Join(names, ", ")
}

func assigneeName(u *User) string {
	if name := userName(u); name != "" {
		return name
	}
	return "Unassigned"
}

func userName(u *User) string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Name
}

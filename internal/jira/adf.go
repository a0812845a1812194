package jira

import (
	"encoding/json"
	"strings"
)

// adfNode is the subset of an Atlassian Document Format node the flattener
// understands. Unknown fields are dropped by the decoder; branches that do
// not match this shape decode to zero values and flatten to nothing.
type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

// DocumentText flattens a Jira rich-text payload to plain text. The input
// may be absent, a JSON string (API v2 text mode) or an ADF document tree
// (API v3 / service-desk instances). It never fails: malformed or
// unrecognized content degrades to "" while well-formed siblings still
// render.
func DocumentText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var doc adfNode
	// Partial decodes are fine: whatever matched before the error still
	// flattens, the rest is skipped.
	_ = json.Unmarshal(raw, &doc)
	return nodeText(doc)
}

// nodeText renders one node. Paragraph-level nodes own their trailing
// newline; inline nodes emit bare text; anything unrecognized is skipped
// without visiting its children.
func nodeText(n adfNode) string {
	switch n.Type {
	case "text":
		return n.Text
	case "doc", "listItem":
		return childText(n)
	case "paragraph", "heading":
		return childText(n) + "\n"
	case "bulletList", "orderedList":
		return listText(n)
	default:
		return ""
	}
}

func childText(n adfNode) string {
	var sb strings.Builder
	for _, child := range n.Content {
		sb.WriteString(nodeText(child))
	}
	return sb.String()
}

// listText renders every child as a "- " line. Ordered lists lose their
// numbering and nested lists flatten to the same level.
func listText(n adfNode) string {
	var sb strings.Builder
	for _, item := range n.Content {
		sb.WriteString("- ")
		sb.WriteString(strings.TrimRight(nodeText(item), "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Package adf models the Atlassian Document Format used by Jira Cloud
// for rich-text fields, and flattens such documents to plain text.
package adf

import (
	"encoding/json"
	"strings"
)

// Document is the root of an ADF tree.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Node is a single ADF node. A node of type "text" carries Text; any
// node may carry children under Content.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Mark annotates a text node (e.g. a link).
type Mark struct {
	Type  string     `json:"type"`
	Attrs *MarkAttrs `json:"attrs,omitempty"`
}

// MarkAttrs carries mark attributes. Only link targets are used here.
type MarkAttrs struct {
	Href string `json:"href,omitempty"`
}

// NewDocument builds a version-1 ADF document from the given nodes.
func NewDocument(nodes ...Node) Document {
	return Document{Type: "doc", Version: 1, Content: nodes}
}

// Text builds a plain text node.
func Text(s string) Node {
	return Node{Type: "text", Text: s}
}

// Paragraph builds a paragraph node wrapping the given children.
func Paragraph(children ...Node) Node {
	return Node{Type: "paragraph", Content: children}
}

// Link builds a text node carrying a link mark pointing at href.
func Link(text, href string) Node {
	return Node{
		Type:  "text",
		Text:  text,
		Marks: []Mark{{Type: "link", Attrs: &MarkAttrs{Href: href}}},
	}
}

// Flatten walks the document depth-first in document order and returns
// every text leaf joined by single spaces. Anything that is not a
// well-formed document yields the empty string.
func Flatten(doc Document) string {
	if doc.Type != "doc" || len(doc.Content) == 0 {
		return ""
	}
	var texts []string
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.Type == "text" {
				texts = append(texts, n.Text)
			}
			if len(n.Content) > 0 {
				walk(n.Content)
			}
		}
	}
	walk(doc.Content)
	return strings.Join(texts, " ")
}

// FlattenRaw flattens a raw JSON description field. The tracker may send
// an ADF object, a bare string, or nothing at all; malformed input
// degrades to the empty string rather than an error.
func FlattenRaw(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Type == "doc" {
		return Flatten(doc)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

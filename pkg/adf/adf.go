// Package adf converts Atlassian Document Format trees, the rich-text
// JSON that Jira Cloud uses for descriptions and comments, into plain
// text for a terminal.
package adf

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// NodeType is the "type" tag of a document node.
type NodeType string

const (
	TypeDoc         NodeType = "doc"
	TypeParagraph   NodeType = "paragraph"
	TypeHeading     NodeType = "heading"
	TypeListItem    NodeType = "listItem"
	TypeOrderedList NodeType = "orderedList"
	TypeBulletList  NodeType = "bulletList"
	TypeCodeBlock   NodeType = "codeBlock"
	TypeBlockquote  NodeType = "blockquote"
	TypeRule        NodeType = "rule"
	TypeMediaSingle NodeType = "mediaSingle"
	TypeMedia       NodeType = "media"
	TypeText        NodeType = "text"
	TypeHardBreak   NodeType = "hardBreak"
	TypeMention     NodeType = "mention"
	TypeEmoji       NodeType = "emoji"
	TypeInlineCard  NodeType = "inlineCard"
)

// Node is one element of a document tree. Which fields are meaningful
// depends on Type: leaves use Text or Attrs, containers use Content.
type Node struct {
	Type    NodeType       `json:"type"`
	Version int            `json:"version,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
}

// UnmarshalJSON decodes a node leniently. Fields of the wrong JSON type
// are dropped and children that are not objects decode as nil, so a
// partially malformed document still yields a tree. It never fails.
//
// The input is parsed once into generic values and the tree is built
// from those, so nested content is not re-parsed at every level.
func (n *Node) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*n = Node{}
		return nil
	}
	m, _ := v.(map[string]any)
	*n = fromMap(m)
	return nil
}

func fromMap(m map[string]any) Node {
	var n Node
	if typ, ok := m["type"].(string); ok {
		n.Type = NodeType(typ)
	}
	if version, ok := m["version"].(float64); ok && version == float64(int(version)) {
		n.Version = int(version)
	}
	if text, ok := m["text"].(string); ok {
		n.Text = text
	}
	if attrs, ok := m["attrs"].(map[string]any); ok {
		n.Attrs = attrs
	}
	if children, ok := m["content"].([]any); ok {
		n.Content = make([]*Node, len(children))
		for i, child := range children {
			if cm, ok := child.(map[string]any); ok {
				c := fromMap(cm)
				n.Content[i] = &c
			}
		}
	}
	return n
}

func isObject(b json.RawMessage) bool {
	trimmed := strings.TrimLeftFunc(string(b), unicode.IsSpace)
	return strings.HasPrefix(trimmed, "{")
}

// Parse decodes a raw document. Null, empty or non-object input gives nil.
func Parse(raw json.RawMessage) *Node {
	if !isObject(raw) {
		return nil
	}
	var n Node
	n.UnmarshalJSON(raw)
	return &n
}

// FromText wraps plain text in the envelope Jira expects for a
// description: a version 1 document with one paragraph holding one text
// node.
func FromText(text string) *Node {
	return &Node{
		Type:    TypeDoc,
		Version: 1,
		Content: []*Node{{
			Type:    TypeParagraph,
			Content: []*Node{{Type: TypeText, Text: text}},
		}},
	}
}

// attr returns the string attribute key and whether it was present as a
// string.
func (n *Node) attr(key string) (string, bool) {
	v, ok := n.Attrs[key].(string)
	return v, ok
}

// Render converts a document tree to plain text. A nil node renders as
// the empty string.
func Render(n *Node) string {
	return render(n, 0)
}

// RenderDepth renders n as if it sat listDepth lists deep, so list items
// inside it are indented two spaces per level.
func RenderDepth(n *Node, listDepth int) string {
	return render(n, max(listDepth, 0))
}

func render(n *Node, depth int) string {
	if n == nil {
		return ""
	}

	switch n.Type {
	case TypeText:
		return n.Text
	case TypeHardBreak:
		return "\n"
	case TypeMention:
		text, ok := n.attr("text")
		if !ok {
			text = "unknown"
		}
		return "@" + text
	case TypeEmoji:
		name, _ := n.attr("shortName")
		return name
	case TypeInlineCard:
		url, _ := n.attr("url")
		return url
	}

	children := make([]string, len(n.Content))
	for i, child := range n.Content {
		switch n.Type {
		case TypeOrderedList:
			prefix := indent(depth) + strconv.Itoa(i+1) + ". "
			children[i] = prefix + strings.TrimLeftFunc(render(child, depth+1), unicode.IsSpace)
		case TypeBulletList:
			prefix := indent(depth) + "• "
			children[i] = prefix + strings.TrimLeftFunc(render(child, depth+1), unicode.IsSpace)
		default:
			children[i] = render(child, depth)
		}
	}
	joined := strings.Join(children, "")

	switch n.Type {
	case TypeDoc:
		return strings.TrimRightFunc(joined, unicode.IsSpace)
	case TypeParagraph, TypeHeading, TypeCodeBlock:
		return joined + "\n"
	case TypeBlockquote:
		lines := strings.Split(joined, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n") + "\n"
	case TypeRule:
		return "---\n"
	case TypeMediaSingle, TypeMedia:
		return "[media]\n"
	default:
		// listItem, both list containers and unknown types.
		return joined
	}
}

func indent(depth int) string {
	return strings.Repeat(" ", depth*2)
}

package slidekit

import "strings"

// TextNodeTag is the pseudo-tag used for text nodes in a snapshot.
const TextNodeTag = "#text"

// Box is an axis-aligned rectangle in CSS pixels, in the coordinate frame
// of the effective content box (the detected slide container when present,
// otherwise the document body).
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Positive reports whether the box has positive area.
func (b Box) Positive() bool { return b.W > 0 && b.H > 0 }

// Node is one node of a rendered-DOM snapshot. The renderer serializes the
// browser's element tree, including computed style and border-box
// geometry, so that extraction runs over plain data and never touches a
// live browser tree. Text nodes use TextNodeTag as Tag and carry their
// content in Text.
type Node struct {
	Tag      string            `json:"tag"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Style    map[string]string `json:"style,omitempty"`
	Box      Box               `json:"box"`
	Children []*Node           `json:"children,omitempty"`
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n.Tag == TextNodeTag }

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Computed returns the named computed-style property, or "" when the
// snapshot does not carry it.
func (n *Node) Computed(prop string) string {
	if n.Style == nil {
		return ""
	}
	return n.Style[prop]
}

// Classes returns the node's class list.
func (n *Node) Classes() []string {
	return strings.Fields(n.Attr("class"))
}

// HasClass reports whether the node carries the given class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the node and its
// descendants, in document order.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.appendText(sb)
	}
}

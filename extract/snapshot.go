package extract

import (
	"io"
	"strings"

	"github.com/slidekit/slidekit"
	"golang.org/x/net/html"
)

// FromHTML builds a snapshot tree from annotated static HTML, without a
// browser. Style comes from each element's inline style attribute and
// geometry from a data-box="x y w h" attribute (CSS pixels). Live
// conversions always use the renderer's browser-computed snapshot; this
// constructor exists so extraction can be exercised against serialized
// fixtures.
func FromHTML(r io.Reader) (*slidekit.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, slidekit.Errorf(slidekit.EINVALID, "parsing snapshot HTML: %v", err)
	}

	body := findBody(doc)
	if body == nil {
		return nil, slidekit.Errorf(slidekit.EINVALID, "snapshot HTML has no body")
	}
	return convertNode(body), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func convertNode(n *html.Node) *slidekit.Node {
	node := &slidekit.Node{Tag: n.Data}

	for _, attr := range n.Attr {
		switch attr.Key {
		case "style":
			node.Style = parseInlineStyle(attr.Val)
		case "data-box":
			node.Box = parseBox(attr.Val)
			fallthrough
		default:
			if node.Attrs == nil {
				node.Attrs = make(map[string]string)
			}
			node.Attrs[attr.Key] = attr.Val
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			node.Children = append(node.Children, &slidekit.Node{
				Tag:  slidekit.TextNodeTag,
				Text: c.Data,
			})
		case html.ElementNode:
			node.Children = append(node.Children, convertNode(c))
		}
	}

	return node
}

func parseInlineStyle(v string) map[string]string {
	style := make(map[string]string)
	for _, decl := range strings.Split(v, ";") {
		prop, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		style[strings.TrimSpace(prop)] = strings.TrimSpace(val)
	}
	if len(style) == 0 {
		return nil
	}
	return style
}

func parseBox(v string) slidekit.Box {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 4 {
		return slidekit.Box{}
	}
	return slidekit.Box{
		X: Length(fields[0]),
		Y: Length(fields[1]),
		W: Length(fields[2]),
		H: Length(fields[3]),
	}
}

package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/slidekit/slidekit"
)

// Extractor walks a rendered-DOM snapshot and produces a SlideDocument.
// The zero-configuration extractor uses DefaultCalibration.
type Extractor struct {
	cal     Calibration
	baseDir string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCalibration overrides the conversion constants.
func WithCalibration(c Calibration) Option {
	return func(e *Extractor) { e.cal = c }
}

// WithBaseDir sets the directory image source paths are resolved against,
// normally the input document's directory.
func WithBaseDir(dir string) Option {
	return func(e *Extractor) { e.baseDir = dir }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{cal: DefaultCalibration()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the single extraction pass over a render result. The
// returned document carries every validation finding encountered anywhere
// in the pass; callers must check SlideDocument.Err before emitting.
func (e *Extractor) Extract(res *slidekit.RenderResult, page slidekit.PageSize) *slidekit.SlideDocument {
	p := &pass{
		ex:      e,
		cal:     e.cal,
		res:     res,
		page:    page,
		doc:     &slidekit.SlideDocument{},
		visited: make(map[*slidekit.Node]bool),
	}

	p.doc.Errors = append(p.doc.Errors, CheckDimensions(res, page, e.cal)...)
	p.doc.Errors = append(p.doc.Errors, CheckOverflow(res, e.cal)...)

	p.doc.Background = p.background(res.Root)

	p.walkChildren(res.Root)

	p.doc.Errors = append(p.doc.Errors, CheckBottomMargin(p.doc, page, e.cal)...)

	return p.doc
}

// pass is the state of one extraction pass. The visited set keys on node
// identity so each node is classified exactly once without mutating the
// snapshot.
type pass struct {
	ex      *Extractor
	cal     Calibration
	res     *slidekit.RenderResult
	page    slidekit.PageSize
	doc     *slidekit.SlideDocument
	visited map[*slidekit.Node]bool
}

func (p *pass) finding(format string, args ...interface{}) {
	p.doc.Errors = append(p.doc.Errors, fmt.Sprintf(format, args...))
}

// nodeClass is the precomputed classification of a snapshot node, decided
// once from its tag and computed-style flags.
type nodeClass int

const (
	classSkip nodeClass = iota
	classPlaceholder
	classImage
	classList
	classTable
	classText
	classShape      // container with visible box styling
	classStyledSpan // styled inline span, rewritten to container+text
	classContainer  // transparent container, descend only
)

// textTags are the tags extracted as text blocks.
var textTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "blockquote": true, "pre": true, "code": true, "li": true,
	"figcaption": true,
}

// spanTags are inline wrappers that become shape+text pairs when styled.
var spanTags = map[string]bool{"span": true, "a": true, "label": true}

func (p *pass) classify(n *slidekit.Node) nodeClass {
	if n.IsText() {
		return classSkip
	}

	switch n.Computed("display") {
	case "none":
		return classSkip
	}
	if n.Computed("visibility") == "hidden" {
		return classSkip
	}

	// A hidden placeholder reserves nothing, so the visibility skips
	// come first.
	if n.HasClass("placeholder") || n.Attr("data-placeholder") != "" {
		return classPlaceholder
	}

	switch n.Tag {
	case "img":
		return classImage
	case "ul", "ol":
		return classList
	case "table":
		return classTable
	case "script", "style", "head", "link", "meta", "noscript", "template":
		return classSkip
	}

	if textTags[n.Tag] {
		return classText
	}

	if spanTags[n.Tag] {
		// Styled inline spans share the shape extraction path instead of
		// duplicating shape logic for inline content.
		if hasBoxStyling(n) {
			return classStyledSpan
		}
		if strings.TrimSpace(n.TextContent()) != "" {
			return classText
		}
		return classContainer
	}

	if hasBoxStyling(n) {
		return classShape
	}
	return classContainer
}

// hasBoxStyling reports whether a node carries a non-transparent
// background, any border, or a box shadow.
func hasBoxStyling(n *slidekit.Node) bool {
	if _, ok := ParseColor(n.Computed("background-color")); ok {
		return true
	}
	if v := n.Computed("background-image"); v != "" && v != "none" {
		return true
	}
	for _, side := range [4]string{"top", "right", "bottom", "left"} {
		if Length(n.Computed("border-"+side+"-width")) > 0 &&
			n.Computed("border-"+side+"-style") != "none" {
			return true
		}
	}
	if v := n.Computed("box-shadow"); v != "" && v != "none" {
		return true
	}
	return false
}

func (p *pass) walkChildren(n *slidekit.Node) {
	for _, c := range n.Children {
		p.walkNode(c)
	}
}

func (p *pass) walkNode(n *slidekit.Node) {
	if p.visited[n] {
		return
	}
	p.visited[n] = true

	if n.IsText() {
		// Free text is only legal inside text-bearing tags; containers
		// report it through checkBareText before descending.
		return
	}

	switch p.classify(n) {
	case classSkip:
	case classPlaceholder:
		p.extractPlaceholder(n)
	case classImage:
		p.extractImage(n)
	case classList:
		p.extractList(n)
	case classTable:
		p.extractTable(n)
	case classText:
		p.extractText(n)
	case classStyledSpan:
		p.extractShape(n)
		p.extractSpanText(n)
	case classShape:
		p.extractShape(n)
		p.checkBareText(n)
		p.walkChildren(n)
	case classContainer:
		p.checkBareText(n)
		p.walkChildren(n)
	}
}

// checkBareText reports unwrapped free text directly inside a container.
// A container's own text never participates in box-model layout the way a
// wrapped text node does, so it cannot be positioned faithfully.
func (p *pass) checkBareText(n *slidekit.Node) {
	for _, c := range n.Children {
		if !c.IsText() {
			continue
		}
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		p.finding("container <%s> contains unwrapped text %q; wrap it in a text tag", n.Tag, prefix(text, 50))
	}
}

func (p *pass) extractPlaceholder(n *slidekit.Node) {
	id := n.Attr("data-placeholder")
	if id == "" {
		id = n.Attr("id")
	}
	if id == "" {
		id = fmt.Sprintf("placeholder-%d", len(p.doc.Placeholders)+1)
	}

	if !n.Box.Positive() {
		p.finding("placeholder %q has an empty area", id)
		return
	}

	pos := BoxToPosition(n.Box)
	p.doc.Placeholders = append(p.doc.Placeholders, slidekit.Placeholder{
		ID: id, X: pos.X, Y: pos.Y, W: pos.W, H: pos.H,
	})
}

func (p *pass) extractImage(n *slidekit.Node) {
	if !n.Box.Positive() {
		return
	}
	src := n.Attr("src")
	if src == "" {
		return
	}
	p.doc.Elements = append(p.doc.Elements, slidekit.ImageBlock{
		Position:   BoxToPosition(n.Box),
		SourcePath: p.resolvePath(src),
	})
}

func (p *pass) resolvePath(src string) string {
	if p.ex.baseDir == "" || filepath.IsAbs(src) ||
		strings.HasPrefix(src, "data:") || strings.Contains(src, "://") {
		return src
	}
	return filepath.Join(p.ex.baseDir, src)
}

// background derives the slide background from the content frame element.
func (p *pass) background(root *slidekit.Node) *slidekit.Background {
	if root == nil {
		return &slidekit.Background{Color: "#FFFFFF"}
	}

	if img := root.Computed("background-image"); img != "" && img != "none" {
		if strings.Contains(img, "gradient") {
			p.finding("gradient backgrounds are not supported; rasterize the gradient to an image first")
		} else if path := cssURL(img); path != "" {
			return &slidekit.Background{ImagePath: p.resolvePath(path)}
		}
	}

	if c, ok := ParseColor(root.Computed("background-color")); ok {
		return &slidekit.Background{Color: c.Hex}
	}
	return &slidekit.Background{Color: "#FFFFFF"}
}

// cssURL extracts the path from a CSS url(...) value.
func cssURL(v string) string {
	start := strings.Index(v, "url(")
	if start < 0 {
		return ""
	}
	rest := v[start+4:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rest[:end]), `"'`)
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Package goquery provides HTML document surgery for slide pages. Its
// Merger stitches page-numbered slide files into one scrollable preview
// document.
package goquery

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/slidekit/slidekit"
)

// Merger combines page-numbered slide HTML files into a single preview
// document. Stylesheets and scripts shared across pages are included
// once; each page's body is wrapped in a fixed-size .page frame so the
// preview paginates the way the deck will.
type Merger struct {
	// Page is the slide page size the .page frames are sized to.
	// Zero means slidekit.DefaultPageSize.
	Page slidekit.PageSize
}

func (m *Merger) page() slidekit.PageSize {
	if m.Page.Width <= 0 || m.Page.Height <= 0 {
		return slidekit.DefaultPageSize
	}
	return m.Page
}

// MergeDir merges every page-numbered HTML file in dir, in page order.
func (m *Merger) MergeDir(dir string) (string, error) {
	pages, err := slidekit.CollectPages(dir)
	if err != nil {
		return "", err
	}
	return m.Merge(pages)
}

// Merge merges the given pages in slice order.
func (m *Merger) Merge(pages []slidekit.PageFile) (string, error) {
	if len(pages) == 0 {
		return "", slidekit.Errorf(slidekit.EINVALID, "no pages to merge")
	}

	seen := make(map[string]bool)
	var heads []string
	var bodies []pageBody

	for _, p := range pages {
		head, body, err := m.splitPage(p.Path, seen)
		if err != nil {
			return "", err
		}
		if head != "" {
			heads = append(heads, head)
		}
		bodies = append(bodies, pageBody{number: p.Number, html: body})
	}

	return m.assemble(heads, bodies), nil
}

type pageBody struct {
	number int
	html   string
}

// splitPage parses one page file and returns its deduplicated head
// fragment and its body content. The seen set persists across pages so a
// stylesheet or script appearing on every page is emitted once.
func (m *Merger) splitPage(path string, seen map[string]bool) (head, body string, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", slidekit.Errorf(slidekit.ENOTFOUND, "page %q not found", path)
		}
		return "", "", slidekit.Errorf(slidekit.EINTERNAL, "opening page %q: %v", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", "", slidekit.Errorf(slidekit.EINVALID, "parsing page %q: %v", path, err)
	}

	var sb strings.Builder
	appendOnce := func(key, tag string) {
		if seen[key] {
			return
		}
		seen[key] = true
		sb.WriteString(tag)
		sb.WriteString("\n")
	}

	doc.Find("head link[rel='stylesheet']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		if tag, err := goquery.OuterHtml(sel); err == nil {
			appendOnce("link:"+href, tag)
		}
	})

	doc.Find("head style").Each(func(_ int, sel *goquery.Selection) {
		if tag, err := goquery.OuterHtml(sel); err == nil {
			appendOnce("style:"+strings.TrimSpace(sel.Text()), tag)
		}
	})

	doc.Find("head script").Each(func(_ int, sel *goquery.Selection) {
		tag, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		if src, ok := sel.Attr("src"); ok && src != "" {
			appendOnce("script:"+src, tag)
			return
		}
		appendOnce("inline:"+strings.TrimSpace(sel.Text()), tag)
	})

	body, err = doc.Find("body").Html()
	if err != nil {
		return "", "", slidekit.Errorf(slidekit.EINVALID, "extracting body of %q: %v", path, err)
	}
	return sb.String(), body, nil
}

func (m *Merger) assemble(heads []string, bodies []pageBody) string {
	page := m.page()
	pxW := page.Width * slidekit.PixelsPerInch
	pxH := page.Height * slidekit.PixelsPerInch

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	sb.WriteString("<title>Presentation</title>\n")
	for _, head := range heads {
		sb.WriteString(head)
	}
	fmt.Fprintf(&sb, `<style>
html, body {
    margin: 0;
    padding: 0;
    background: #f5f5f5;
}
.page {
    page-break-after: always;
    width: %.0fpx;
    height: %.0fpx;
    margin: 0 auto 20px;
    background: white;
    box-shadow: 0 0 10px rgba(0,0,0,0.1);
    position: relative;
    overflow: hidden;
}
@media print {
    body { background: white; }
    .page { margin: 0; box-shadow: none; }
}
</style>
`, pxW, pxH)
	sb.WriteString("</head>\n<body>\n")

	for _, b := range bodies {
		fmt.Fprintf(&sb, "<!-- Page %d -->\n", b.number)
		sb.WriteString(`<div class="page">`)
		sb.WriteString(b.html)
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

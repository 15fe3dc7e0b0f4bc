package slidekit

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// PageFile is one slide source discovered in a directory.
type PageFile struct {
	Number int
	Path   string
}

// pageNameRe matches the page-number filename convention:
// "02_intro.html", "02-intro.html", "02.intro.html" or "02.html",
// with a 2-3 digit page number.
var pageNameRe = regexp.MustCompile(`^(\d{2,3})(?:[._-].*)?\.html$`)

// CollectPages returns the page-numbered HTML files in dir in ascending
// numeric order. Files that do not follow the naming convention are
// ignored. Returns ENOTFOUND when the directory contains no page files.
func CollectPages(dir string) ([]PageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var pages []PageFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pageNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, PageFile{Number: num, Path: filepath.Join(dir, e.Name())})
	}

	if len(pages) == 0 {
		return nil, Errorf(ENOTFOUND, "no page-numbered HTML files in %s", dir)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages, nil
}

// Package pptx writes presentation decks as PowerPoint (.pptx) packages.
// The package format is a zip of OOXML parts; slides are built from the
// deck model and serialized under ppt/slides/.
package pptx

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/slidekit/slidekit"
)

// Ensure Deck implements slidekit.Deck at compile time.
var _ slidekit.Deck = (*Deck)(nil)

// Deck accumulates slides in memory and serializes the whole package on
// Save. Deck is not safe for concurrent use; the conversion pipeline
// serializes deck access.
type Deck struct {
	page   slidekit.PageSize
	slides []*slide

	media     []mediaFile
	mediaByID map[uint64]int // content hash -> media index
	mediaPath map[string]int // source path -> media index
}

type slide struct {
	bgColor string
	bgMedia int // media index, -1 for none
	blocks  []slidekit.Element
}

// mediaFile is one deduplicated media part under ppt/media/.
type mediaFile struct {
	ext  string
	data []byte
}

// NewDeck creates an empty deck with the given page size.
func NewDeck(page slidekit.PageSize) *Deck {
	return &Deck{
		page:      page,
		mediaByID: make(map[uint64]int),
		mediaPath: make(map[string]int),
	}
}

// AddSlide starts a new, empty slide.
func (d *Deck) AddSlide() {
	d.slides = append(d.slides, &slide{bgMedia: -1})
}

// DiscardSlide removes the current slide. Media loaded for its images
// stays in the store; a later slide adding the same file reuses it.
func (d *Deck) DiscardSlide() {
	if len(d.slides) == 0 {
		return
	}
	d.slides = d.slides[:len(d.slides)-1]
}

func (d *Deck) current() (*slide, error) {
	if len(d.slides) == 0 {
		return nil, slidekit.Errorf(slidekit.EINVALID, "no current slide; call AddSlide first")
	}
	return d.slides[len(d.slides)-1], nil
}

// SetBackground sets the current slide's background.
func (d *Deck) SetBackground(bg slidekit.Background) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	if err := bg.Validate(); err != nil {
		return err
	}
	if bg.ImagePath != "" {
		idx, err := d.addMedia(bg.ImagePath)
		if err != nil {
			return err
		}
		s.bgMedia = idx
		s.bgColor = ""
		return nil
	}
	s.bgColor = bg.Color
	s.bgMedia = -1
	return nil
}

// AddText appends a text block to the current slide.
func (d *Deck) AddText(b slidekit.TextBlock) error {
	return d.addBlock(b)
}

// AddList appends a list block to the current slide.
func (d *Deck) AddList(b slidekit.ListBlock) error {
	return d.addBlock(b)
}

// AddTable appends a table to the current slide.
func (d *Deck) AddTable(b slidekit.TableBlock) error {
	if len(b.Rows) == 0 || len(b.ColumnWidthRatios) == 0 {
		return slidekit.Errorf(slidekit.EINVALID, "table requires rows and column widths")
	}
	for i, row := range b.Rows {
		if len(row) != len(b.ColumnWidthRatios) {
			return slidekit.Errorf(slidekit.EINVALID,
				"table row %d has %d cells, expected %d", i+1, len(row), len(b.ColumnWidthRatios))
		}
	}
	return d.addBlock(b)
}

// AddShape appends a styled container shape to the current slide.
func (d *Deck) AddShape(b slidekit.ShapeBlock) error {
	return d.addBlock(b)
}

// AddImage appends an image to the current slide. The image file is read
// and deduplicated into the package's media store immediately, so a
// missing file fails the Add rather than the Save.
func (d *Deck) AddImage(b slidekit.ImageBlock) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	if err := b.Position.Validate(); err != nil {
		return err
	}
	if _, err := d.addMedia(b.SourcePath); err != nil {
		return err
	}
	s.blocks = append(s.blocks, b)
	return nil
}

// AddLine appends a line segment to the current slide.
func (d *Deck) AddLine(b slidekit.LineBlock) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	s.blocks = append(s.blocks, b)
	return nil
}

func (d *Deck) addBlock(b slidekit.Element) error {
	s, err := d.current()
	if err != nil {
		return err
	}
	if err := b.Bounds().Validate(); err != nil {
		return err
	}
	s.blocks = append(s.blocks, b)
	return nil
}

// addMedia loads the file at path into the media store, reusing an
// existing entry when the bytes are already present.
func (d *Deck) addMedia(path string) (int, error) {
	if idx, ok := d.mediaPath[path]; ok {
		return idx, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, slidekit.Errorf(slidekit.ENOTFOUND, "image %q not found", path)
		}
		return 0, slidekit.Errorf(slidekit.EINTERNAL, "reading image %q: %v", path, err)
	}

	sum := xxhash.Sum64(data)
	if idx, ok := d.mediaByID[sum]; ok {
		d.mediaPath[path] = idx
		return idx, nil
	}

	idx := len(d.media)
	d.media = append(d.media, mediaFile{ext: mediaExt(path), data: data})
	d.mediaByID[sum] = idx
	d.mediaPath[path] = idx
	return idx, nil
}

func mediaExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".svg":
		return "svg"
	default:
		return "png"
	}
}

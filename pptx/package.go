package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/beevik/etree"
	"github.com/slidekit/slidekit"
)

// Save writes the deck as a .pptx package at path.
func (d *Deck) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return slidekit.Errorf(slidekit.EINTERNAL, "creating %q: %v", path, err)
	}
	if err := d.SaveTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return slidekit.Errorf(slidekit.EINTERNAL, "writing %q: %v", path, err)
	}
	return nil
}

// SaveTo serializes the deck as a .pptx package to w.
func (d *Deck) SaveTo(w io.Writer) error {
	if len(d.slides) == 0 {
		return slidekit.Errorf(slidekit.EINVALID, "deck has no slides")
	}

	zw := zip.NewWriter(w)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", rootRels},
		{"ppt/presentation.xml", d.presentation()},
		{"ppt/_rels/presentation.xml.rels", d.presentationRels()},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", theme},
		{"docProps/core.xml", docPropsCore},
		{"docProps/app.xml", d.docPropsApp()},
	}
	for _, part := range parts {
		if err := writePart(zw, part.name, []byte(part.content)); err != nil {
			return err
		}
	}

	for i, s := range d.slides {
		doc, rels := d.slideXML(s)
		data, err := doc.WriteToBytes()
		if err != nil {
			return slidekit.Errorf(slidekit.EINTERNAL, "serializing slide %d: %v", i+1, err)
		}
		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), data); err != nil {
			return err
		}
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), relsXML(rels)); err != nil {
			return err
		}
	}

	for i, m := range d.media {
		name := fmt.Sprintf("ppt/media/image%d.%s", i+1, m.ext)
		if err := writePart(zw, name, m.data); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return slidekit.Errorf(slidekit.EINTERNAL, "finalizing package: %v", err)
	}
	return nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return slidekit.Errorf(slidekit.EINTERNAL, "creating package part %q: %v", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return slidekit.Errorf(slidekit.EINTERNAL, "writing package part %q: %v", name, err)
	}
	return nil
}

func relsXML(rels []relationship) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, r := range rels {
		rel := root.CreateElement("Relationship")
		rel.CreateAttr("Id", r.id)
		rel.CreateAttr("Type", r.kind)
		rel.CreateAttr("Target", r.target)
	}
	data, _ := doc.WriteToBytes()
	return data
}

func (d *Deck) contentTypes() string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	defaults := [][2]string{
		{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
		{"xml", "application/xml"},
		{"png", "image/png"},
		{"jpeg", "image/jpeg"},
		{"gif", "image/gif"},
		{"bmp", "image/bmp"},
		{"svg", "image/svg+xml"},
	}
	for _, def := range defaults {
		e := types.CreateElement("Default")
		e.CreateAttr("Extension", def[0])
		e.CreateAttr("ContentType", def[1])
	}

	overrides := [][2]string{
		{"/ppt/presentation.xml", "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"},
		{"/ppt/slideMasters/slideMaster1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"},
		{"/ppt/slideLayouts/slideLayout1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"},
		{"/ppt/theme/theme1.xml", "application/vnd.openxmlformats-officedocument.theme+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
		{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	}
	for i := range d.slides {
		overrides = append(overrides, [2]string{
			fmt.Sprintf("/ppt/slides/slide%d.xml", i+1),
			"application/vnd.openxmlformats-officedocument.presentationml.slide+xml",
		})
	}
	for _, ov := range overrides {
		e := types.CreateElement("Override")
		e.CreateAttr("PartName", ov[0])
		e.CreateAttr("ContentType", ov[1])
	}

	s, _ := doc.WriteToString()
	return s
}

func (d *Deck) presentation() string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	pres := doc.CreateElement("p:presentation")
	pres.CreateAttr("xmlns:a", nsDrawingML)
	pres.CreateAttr("xmlns:r", nsOfficeDocRels)
	pres.CreateAttr("xmlns:p", nsPresentationML)

	masters := pres.CreateElement("p:sldMasterIdLst")
	master := masters.CreateElement("p:sldMasterId")
	master.CreateAttr("id", "2147483648")
	master.CreateAttr("r:id", "rId1")

	slides := pres.CreateElement("p:sldIdLst")
	for i := range d.slides {
		sld := slides.CreateElement("p:sldId")
		sld.CreateAttr("id", fmt.Sprint(256+i))
		sld.CreateAttr("r:id", fmt.Sprintf("rId%d", i+3))
	}

	sldSz := pres.CreateElement("p:sldSz")
	sldSz.CreateAttr("cx", fmt.Sprint(emuIn(d.page.Width)))
	sldSz.CreateAttr("cy", fmt.Sprint(emuIn(d.page.Height)))
	notesSz := pres.CreateElement("p:notesSz")
	notesSz.CreateAttr("cx", fmt.Sprint(emuIn(d.page.Height)))
	notesSz.CreateAttr("cy", fmt.Sprint(emuIn(d.page.Width)))

	s, _ := doc.WriteToString()
	return s
}

func (d *Deck) presentationRels() string {
	rels := []relationship{
		{id: "rId1", kind: relTypeSlideMaster, target: "slideMasters/slideMaster1.xml"},
		{id: "rId2", kind: relTypeTheme, target: "theme/theme1.xml"},
	}
	for i := range d.slides {
		rels = append(rels, relationship{
			id:     fmt.Sprintf("rId%d", i+3),
			kind:   relTypeSlide,
			target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	return string(relsXML(rels))
}

func (d *Deck) docPropsApp() string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
  <Application>slidekit</Application>
  <Slides>%d</Slides>
</Properties>`, len(d.slides))
}

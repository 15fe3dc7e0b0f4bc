package convert

import "github.com/slidekit/slidekit"

// emit writes one validated document to the deck as a complete slide:
// the slide itself, its background, then every element in z-order. A
// slide lands on the deck whole or not at all; a failure mid-document
// discards the partial slide.
func emit(deck slidekit.Deck, doc *slidekit.SlideDocument) error {
	deck.AddSlide()
	if err := emitSlide(deck, doc); err != nil {
		deck.DiscardSlide()
		return err
	}
	return nil
}

// emitSlide appends the document's background and elements to the
// current slide.
func emitSlide(deck slidekit.Deck, doc *slidekit.SlideDocument) error {
	if doc.Background != nil {
		if err := deck.SetBackground(*doc.Background); err != nil {
			return err
		}
	}

	for _, el := range doc.Elements {
		var err error
		switch b := el.(type) {
		case slidekit.TextBlock:
			err = deck.AddText(b)
		case slidekit.ListBlock:
			err = deck.AddList(b)
		case slidekit.TableBlock:
			err = deck.AddTable(b)
		case slidekit.ShapeBlock:
			err = deck.AddShape(b)
		case slidekit.ImageBlock:
			err = deck.AddImage(b)
		case slidekit.LineBlock:
			err = deck.AddLine(b)
		default:
			err = slidekit.Errorf(slidekit.EINTERNAL, "unsupported element type %T", el)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

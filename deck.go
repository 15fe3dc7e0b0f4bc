package slidekit

// Deck is the presentation-building surface the emitter writes to. One
// AddSlide call starts a new slide; the per-element methods append to the
// current slide in z-order. Implementations own file persistence; the
// conversion core never writes files itself.
type Deck interface {
	// AddSlide starts a new, empty slide.
	AddSlide()

	// DiscardSlide removes the current slide and everything appended to
	// it. The previous slide, if any, becomes current again. Discarding
	// with no slides is a no-op.
	DiscardSlide()

	// SetBackground sets the current slide's background.
	SetBackground(bg Background) error

	// AddText appends a text block to the current slide.
	AddText(b TextBlock) error

	// AddList appends a list block to the current slide.
	AddList(b ListBlock) error

	// AddTable appends a table to the current slide.
	AddTable(b TableBlock) error

	// AddShape appends a styled container shape to the current slide.
	AddShape(b ShapeBlock) error

	// AddImage appends an image to the current slide.
	AddImage(b ImageBlock) error

	// AddLine appends a line segment to the current slide.
	AddLine(b LineBlock) error
}

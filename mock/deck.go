package mock

import "github.com/slidekit/slidekit"

var _ slidekit.Deck = (*Deck)(nil)

// Deck is a mock implementation of slidekit.Deck. Unset function fields
// are no-ops so tests only wire the calls they assert on.
type Deck struct {
	AddSlideFn      func()
	DiscardSlideFn  func()
	SetBackgroundFn func(bg slidekit.Background) error
	AddTextFn       func(b slidekit.TextBlock) error
	AddListFn       func(b slidekit.ListBlock) error
	AddTableFn      func(b slidekit.TableBlock) error
	AddShapeFn      func(b slidekit.ShapeBlock) error
	AddImageFn      func(b slidekit.ImageBlock) error
	AddLineFn       func(b slidekit.LineBlock) error
}

func (d *Deck) AddSlide() {
	if d.AddSlideFn != nil {
		d.AddSlideFn()
	}
}

func (d *Deck) DiscardSlide() {
	if d.DiscardSlideFn != nil {
		d.DiscardSlideFn()
	}
}

func (d *Deck) SetBackground(bg slidekit.Background) error {
	if d.SetBackgroundFn == nil {
		return nil
	}
	return d.SetBackgroundFn(bg)
}

func (d *Deck) AddText(b slidekit.TextBlock) error {
	if d.AddTextFn == nil {
		return nil
	}
	return d.AddTextFn(b)
}

func (d *Deck) AddList(b slidekit.ListBlock) error {
	if d.AddListFn == nil {
		return nil
	}
	return d.AddListFn(b)
}

func (d *Deck) AddTable(b slidekit.TableBlock) error {
	if d.AddTableFn == nil {
		return nil
	}
	return d.AddTableFn(b)
}

func (d *Deck) AddShape(b slidekit.ShapeBlock) error {
	if d.AddShapeFn == nil {
		return nil
	}
	return d.AddShapeFn(b)
}

func (d *Deck) AddImage(b slidekit.ImageBlock) error {
	if d.AddImageFn == nil {
		return nil
	}
	return d.AddImageFn(b)
}

func (d *Deck) AddLine(b slidekit.LineBlock) error {
	if d.AddLineFn == nil {
		return nil
	}
	return d.AddLineFn(b)
}

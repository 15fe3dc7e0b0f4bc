package slog

import (
	"log/slog"

	"github.com/slidekit/slidekit"
)

// Ensure LoggingDeck implements slidekit.Deck.
var _ slidekit.Deck = (*LoggingDeck)(nil)

// LoggingDeck wraps a Deck with debug logging. Every element appended to
// the deck is logged with its slide number and bounding box, which is the
// fastest way to see why an emitted deck looks wrong.
type LoggingDeck struct {
	next   slidekit.Deck
	logger *slog.Logger
	slide  int
}

// NewLoggingDeck creates a new LoggingDeck.
func NewLoggingDeck(next slidekit.Deck, logger *slog.Logger) *LoggingDeck {
	return &LoggingDeck{next: next, logger: logger}
}

// AddSlide delegates to the wrapped deck and logs the new slide number.
func (d *LoggingDeck) AddSlide() {
	d.slide++
	d.logger.Debug("deck add slide", "slide", d.slide)
	d.next.AddSlide()
}

// DiscardSlide delegates to the wrapped deck and logs the removal.
func (d *LoggingDeck) DiscardSlide() {
	d.logger.Debug("deck discard slide", "slide", d.slide)
	if d.slide > 0 {
		d.slide--
	}
	d.next.DiscardSlide()
}

// SetBackground delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) SetBackground(bg slidekit.Background) error {
	err := d.next.SetBackground(bg)
	d.logger.Debug("deck set background",
		"slide", d.slide,
		"color", bg.Color,
		"image", bg.ImagePath,
		"err", err,
	)
	return err
}

// AddText delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) AddText(b slidekit.TextBlock) error {
	return d.logged("text", b.Position, d.next.AddText(b))
}

// AddList delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) AddList(b slidekit.ListBlock) error {
	return d.logged("list", b.Position, d.next.AddList(b))
}

// AddTable delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) AddTable(b slidekit.TableBlock) error {
	return d.logged("table", b.Position, d.next.AddTable(b))
}

// AddShape delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) AddShape(b slidekit.ShapeBlock) error {
	return d.logged("shape", b.Position, d.next.AddShape(b))
}

// AddImage delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) AddImage(b slidekit.ImageBlock) error {
	return d.logged("image", b.Position, d.next.AddImage(b))
}

// AddLine delegates to the wrapped deck and logs the operation.
func (d *LoggingDeck) AddLine(b slidekit.LineBlock) error {
	return d.logged("line", b.Bounds(), d.next.AddLine(b))
}

func (d *LoggingDeck) logged(kind string, pos slidekit.Position, err error) error {
	d.logger.Debug("deck add element",
		"slide", d.slide,
		"kind", kind,
		"x", pos.X,
		"y", pos.Y,
		"w", pos.W,
		"h", pos.H,
		"err", err,
	)
	return err
}

// Package slidekit converts rendered HTML documents into presentation
// decks. Each input document is one slide: a headless browser renders it,
// the rendered tree is extracted into a structured slide object model, the
// model is validated, and a validated model is emitted through a deck
// builder's primitives so that the browser layout is reproduced in the
// deck's coordinate system.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g. rod/, pptx/,
// goquery/).
package slidekit

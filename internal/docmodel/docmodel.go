// Package docmodel abstracts the PDF document backend. The editor core only
// sees pages of positioned text spans plus a small set of mutation primitives
// (cover a region, insert text, add a highlight annotation).
package docmodel

import "errors"

// ErrUnsupportedFont is returned by InsertText when the backend cannot load
// the requested font. Callers are expected to retry with a fallback font.
var ErrUnsupportedFont = errors.New("docmodel: unsupported font")

// Rect is an axis-aligned rectangle in page coordinates, origin top-left.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

var (
	White  = Color{1, 1, 1}
	Black  = Color{0, 0, 0}
	Yellow = Color{1, 1, 0}
)

// Span is one extracted run of text sharing a single font and position.
type Span struct {
	Text     string
	BBox     Rect
	FontSize float64
	FontName string

	// Block is the index of the structural block (a visual grouping of
	// lines) this span belongs to, scoped to its page.
	Block int
}

// Document is an open PDF with read and mutation access.
type Document interface {
	// PageCount returns the number of pages. A document with zero pages
	// is invalid.
	PageCount() int

	// Page returns the page at the given zero-based index.
	Page(index int) (Page, error)

	// Save writes the current document state to path.
	Save(path string) error

	// Close releases backend resources. The document and all pages
	// obtained from it are unusable afterwards.
	Close() error
}

// Page exposes the spans of one page and the mutation primitives the edit
// applicator needs.
type Page interface {
	// Spans returns the text spans of the page in reading order. Span
	// text is trimmed; empty spans are omitted.
	Spans() ([]Span, error)

	// CoverRect paints an opaque filled rectangle over the given region.
	CoverRect(r Rect, fill Color) error

	// InsertText places text at (x, y) with the given font name and size.
	// It returns ErrUnsupportedFont (possibly wrapped) when the font
	// cannot be loaded; fontName may be empty to use the backend default.
	InsertText(x, y float64, text, fontName string, fontSize float64, c Color) error

	// AddHighlight adds a highlight annotation covering the region.
	AddHighlight(r Rect, c Color) error
}

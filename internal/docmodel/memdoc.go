package docmodel

import "fmt"

// MemDocument is an in-memory Document used by tests. Mutations are recorded
// as an operation journal per page so assertions can inspect exactly what the
// applicator did.
type MemDocument struct {
	Pages  []*MemPage
	Saved  []string // paths passed to Save
	closed bool
}

// MemPage holds spans and a journal of applied operations.
type MemPage struct {
	SpanList []Span

	Covers     []CoverOp
	Inserts    []InsertOp
	Highlights []HighlightOp

	// FailFonts lists font names InsertText rejects with ErrUnsupportedFont.
	FailFonts map[string]bool
}

type CoverOp struct {
	Rect Rect
	Fill Color
}

type InsertOp struct {
	X, Y     float64
	Text     string
	FontName string
	FontSize float64
	Color    Color
}

type HighlightOp struct {
	Rect  Rect
	Color Color
}

// NewMemDocument builds a document from page span lists.
func NewMemDocument(pages ...[]Span) *MemDocument {
	d := &MemDocument{}
	for _, spans := range pages {
		d.Pages = append(d.Pages, &MemPage{SpanList: spans})
	}
	return d
}

func (d *MemDocument) PageCount() int { return len(d.Pages) }

func (d *MemDocument) Page(index int) (Page, error) {
	if index < 0 || index >= len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range (0-%d)", index, len(d.Pages)-1)
	}
	return d.Pages[index], nil
}

func (d *MemDocument) Save(path string) error {
	if d.closed {
		return fmt.Errorf("save %s: document closed", path)
	}
	d.Saved = append(d.Saved, path)
	return nil
}

func (d *MemDocument) Close() error {
	d.closed = true
	return nil
}

func (p *MemPage) Spans() ([]Span, error) {
	return p.SpanList, nil
}

func (p *MemPage) CoverRect(r Rect, fill Color) error {
	p.Covers = append(p.Covers, CoverOp{Rect: r, Fill: fill})
	return nil
}

func (p *MemPage) InsertText(x, y float64, text, fontName string, fontSize float64, c Color) error {
	if p.FailFonts[fontName] {
		return fmt.Errorf("load font %q: %w", fontName, ErrUnsupportedFont)
	}
	p.Inserts = append(p.Inserts, InsertOp{
		X: x, Y: y,
		Text:     text,
		FontName: fontName,
		FontSize: fontSize,
		Color:    c,
	})
	return nil
}

func (p *MemPage) AddHighlight(r Rect, c Color) error {
	p.Highlights = append(p.Highlights, HighlightOp{Rect: r, Color: c})
	return nil
}

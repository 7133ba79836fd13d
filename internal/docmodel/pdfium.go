package docmodel

import (
	"strings"
	"time"
	"unicode"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/structs"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"
)

// InitPdfium starts the WebAssembly pdfium runtime and returns an instance
// from a single-worker pool. The returned pool must be closed on shutdown.
func InitPdfium() (pdfium.Pool, pdfium.Pdfium, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialise pdfium")
	}

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "failed to get pdfium instance")
	}
	return pool, instance, nil
}

// PdfiumDocument implements Document on top of go-pdfium.
type PdfiumDocument struct {
	instance pdfium.Pdfium
	doc      references.FPDF_DOCUMENT
	count    int
	pages    map[int]*pdfiumPage
}

// OpenPdfium opens the PDF file at path.
func OpenPdfium(instance pdfium.Pdfium, path string) (*PdfiumDocument, error) {
	doc, err := instance.OpenDocument(&requests.OpenDocument{
		FilePath: &path,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}

	pageCount, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		return nil, errors.Wrap(err, "failed to get page count")
	}

	return &PdfiumDocument{
		instance: instance,
		doc:      doc.Document,
		count:    pageCount.PageCount,
		pages:    make(map[int]*pdfiumPage),
	}, nil
}

func (d *PdfiumDocument) PageCount() int { return d.count }

func (d *PdfiumDocument) Page(index int) (Page, error) {
	if p, ok := d.pages[index]; ok {
		return p, nil
	}

	pageResp, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.doc,
		Index:    index,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load page %d", index)
	}

	height, err := d.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{ByReference: &pageResp.Page},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get height of page %d", index)
	}

	p := &pdfiumPage{
		doc:    d,
		ref:    pageResp.Page,
		height: float64(height.PageHeight),
	}
	d.pages[index] = p
	return p, nil
}

// Save regenerates content streams for mutated pages and writes a copy of the
// document to path.
func (d *PdfiumDocument) Save(path string) error {
	for i, p := range d.pages {
		if !p.dirty {
			continue
		}
		_, err := d.instance.FPDFPage_GenerateContent(&requests.FPDFPage_GenerateContent{
			Page: requests.Page{ByReference: &p.ref},
		})
		if err != nil {
			return errors.Wrapf(err, "failed to generate content for page %d", i)
		}
		p.dirty = false
	}

	_, err := d.instance.FPDF_SaveAsCopy(&requests.FPDF_SaveAsCopy{
		Document: d.doc,
		FilePath: &path,
	})
	if err != nil {
		return errors.Wrap(err, "failed to save document")
	}
	return nil
}

func (d *PdfiumDocument) Close() error {
	for _, p := range d.pages {
		d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{Page: p.ref})
	}
	d.pages = make(map[int]*pdfiumPage)
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: d.doc})
	if err != nil {
		return errors.Wrap(err, "failed to close document")
	}
	return nil
}

type pdfiumPage struct {
	doc    *PdfiumDocument
	ref    references.FPDF_PAGE
	height float64
	dirty  bool
}

// charInfo is one character with the metadata needed for span grouping.
type charInfo struct {
	r        rune
	box      Rect
	fontSize float64
	fontName string
}

// Spans extracts characters from the page text layer and groups runs sharing
// a font and baseline into spans. Coordinates are converted from the PDF
// bottom-left origin to a top-left origin.
func (p *pdfiumPage) Spans() ([]Span, error) {
	textPage, err := p.doc.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: requests.Page{ByReference: &p.ref},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load text page")
	}
	defer p.doc.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: textPage.TextPage,
	})

	charCount, err := p.doc.instance.FPDFText_CountChars(&requests.FPDFText_CountChars{
		TextPage: textPage.TextPage,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count characters")
	}
	if charCount.Count == 0 {
		return nil, nil
	}

	chars := make([]charInfo, 0, charCount.Count)
	for i := 0; i < charCount.Count; i++ {
		unicodeRes, err := p.doc.instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{
			TextPage: textPage.TextPage,
			Index:    i,
		})
		if err != nil || unicodeRes.Unicode == 0 {
			continue
		}

		charBox, err := p.doc.instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{
			TextPage: textPage.TextPage,
			Index:    i,
		})
		if err != nil {
			continue
		}

		fontSize := 12.0
		if fs, err := p.doc.instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{
			TextPage: textPage.TextPage,
			Index:    i,
		}); err == nil {
			fontSize = fs.FontSize
		}

		fontName := ""
		if fi, err := p.doc.instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{
			TextPage: textPage.TextPage,
			Index:    i,
		}); err == nil {
			fontName = fi.FontName
		}

		chars = append(chars, charInfo{
			r: rune(unicodeRes.Unicode),
			box: Rect{
				X0: charBox.Left,
				Y0: p.height - charBox.Top,
				X1: charBox.Right,
				Y1: p.height - charBox.Bottom,
			},
			fontSize: fontSize,
			fontName: fontName,
		})
	}

	return groupSpans(chars), nil
}

// groupSpans merges consecutive characters into spans. A span breaks on font
// change, baseline change, or a horizontal gap wider than half the font size.
func groupSpans(chars []charInfo) []Span {
	var spans []Span
	var cur *Span

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(cur.Text)
		if cur.Text != "" {
			spans = append(spans, *cur)
		}
		cur = nil
	}

	for _, c := range chars {
		if c.r == '\n' || c.r == '\r' {
			flush()
			continue
		}
		if cur != nil {
			sameFont := c.fontName == cur.FontName && absFloat(c.fontSize-cur.FontSize) < 0.1
			sameLine := absFloat(c.box.Y0-cur.BBox.Y0) < cur.FontSize*0.5
			gap := c.box.X0 - cur.BBox.X1
			if !sameFont || !sameLine || gap > cur.FontSize*0.75 {
				flush()
			}
		}
		if cur == nil {
			if unicode.IsSpace(c.r) {
				continue
			}
			cur = &Span{
				Text:     string(c.r),
				BBox:     c.box,
				FontSize: c.fontSize,
				FontName: c.fontName,
			}
			continue
		}
		cur.Text += string(c.r)
		cur.BBox = unionRect(cur.BBox, c.box)
	}
	flush()

	assignBlocks(spans)
	return spans
}

// assignBlocks numbers structural blocks: a new block starts when a span sits
// below the previous one with a vertical gap larger than its font size.
func assignBlocks(spans []Span) {
	block := 0
	for i := range spans {
		if i > 0 {
			gap := spans[i].BBox.Y0 - spans[i-1].BBox.Y1
			if gap > spans[i].FontSize {
				block++
			}
		}
		spans[i].Block = block
	}
}

// CoverRect inserts an opaque filled rectangle path object over the region.
func (p *pdfiumPage) CoverRect(r Rect, fill Color) error {
	rectObj, err := p.doc.instance.FPDFPageObj_CreateNewRect(&requests.FPDFPageObj_CreateNewRect{
		X: float32(r.X0),
		Y: float32(p.height - r.Y1),
		W: float32(r.Width()),
		H: float32(r.Height()),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create rect object")
	}

	_, err = p.doc.instance.FPDFPageObj_SetFillColor(&requests.FPDFPageObj_SetFillColor{
		PageObject: rectObj.PageObject,
		FillColor: structs.FPDF_COLOR{
			R: colorByte(fill.R),
			G: colorByte(fill.G),
			B: colorByte(fill.B),
			A: 255,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to set rect fill color")
	}

	_, err = p.doc.instance.FPDFPath_SetDrawMode(&requests.FPDFPath_SetDrawMode{
		PageObject: rectObj.PageObject,
		FillMode:   enums.FPDF_FILLMODE_WINDING,
		Stroke:     false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to set rect draw mode")
	}

	_, err = p.doc.instance.FPDFPage_InsertObject(&requests.FPDFPage_InsertObject{
		Page:       requests.Page{ByReference: &p.ref},
		PageObject: rectObj.PageObject,
	})
	if err != nil {
		return errors.Wrap(err, "failed to insert rect object")
	}
	p.dirty = true
	return nil
}

// InsertText creates a text object at (x, y) in top-left coordinates. Font
// load failures surface as ErrUnsupportedFont so callers can fall back.
func (p *pdfiumPage) InsertText(x, y float64, text, fontName string, fontSize float64, c Color) error {
	textObj, err := p.doc.instance.FPDFPageObj_NewTextObj(&requests.FPDFPageObj_NewTextObj{
		Document: p.doc.doc,
		Font:     fontName,
		FontSize: float32(fontSize),
	})
	if err != nil {
		return errors.Wrapf(ErrUnsupportedFont, "create text object with font %q: %v", fontName, err)
	}

	_, err = p.doc.instance.FPDFText_SetText(&requests.FPDFText_SetText{
		PageObject: textObj.PageObject,
		Text:       text,
	})
	if err != nil {
		return errors.Wrap(err, "failed to set text")
	}

	_, err = p.doc.instance.FPDFPageObj_SetFillColor(&requests.FPDFPageObj_SetFillColor{
		PageObject: textObj.PageObject,
		FillColor: structs.FPDF_COLOR{
			R: colorByte(c.R),
			G: colorByte(c.G),
			B: colorByte(c.B),
			A: 255,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to set text color")
	}

	_, err = p.doc.instance.FPDFPageObj_Transform(&requests.FPDFPageObj_Transform{
		PageObject: textObj.PageObject,
		Transform: structs.FPDF_FS_MATRIX{
			A: 1, B: 0, C: 0, D: 1,
			E: float32(x),
			F: float32(p.height - y),
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to position text")
	}

	_, err = p.doc.instance.FPDFPage_InsertObject(&requests.FPDFPage_InsertObject{
		Page:       requests.Page{ByReference: &p.ref},
		PageObject: textObj.PageObject,
	})
	if err != nil {
		return errors.Wrap(err, "failed to insert text object")
	}
	p.dirty = true
	return nil
}

// AddHighlight creates a highlight annotation over the region.
func (p *pdfiumPage) AddHighlight(r Rect, c Color) error {
	annot, err := p.doc.instance.FPDFPage_CreateAnnot(&requests.FPDFPage_CreateAnnot{
		Page:    requests.Page{ByReference: &p.ref},
		Subtype: enums.FPDF_ANNOT_SUBTYPE_HIGHLIGHT,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create highlight annotation")
	}
	defer p.doc.instance.FPDFPage_CloseAnnot(&requests.FPDFPage_CloseAnnot{
		Annotation: annot.Annotation,
	})

	// Annotation rects use PDF bottom-left coordinates.
	left := float32(r.X0)
	right := float32(r.X1)
	top := float32(p.height - r.Y0)
	bottom := float32(p.height - r.Y1)

	_, err = p.doc.instance.FPDFAnnot_SetRect(&requests.FPDFAnnot_SetRect{
		Annotation: annot.Annotation,
		Rect: structs.FPDF_FS_RECTF{
			Left:   left,
			Top:    top,
			Right:  right,
			Bottom: bottom,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to set annotation rect")
	}

	_, err = p.doc.instance.FPDFAnnot_AppendAttachmentPoints(&requests.FPDFAnnot_AppendAttachmentPoints{
		Annotation: annot.Annotation,
		AttachmentPoints: structs.FPDF_FS_QUADPOINTSF{
			X1: left, Y1: top,
			X2: right, Y2: top,
			X3: left, Y3: bottom,
			X4: right, Y4: bottom,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to set annotation quad points")
	}

	_, err = p.doc.instance.FPDFAnnot_SetColor(&requests.FPDFAnnot_SetColor{
		Annotation: annot.Annotation,
		ColorType:  enums.FPDFANNOT_COLORTYPE_Color,
		R:          uint(colorByte(c.R)),
		G:          uint(colorByte(c.G)),
		B:          uint(colorByte(c.B)),
		A:          255,
	})
	if err != nil {
		return errors.Wrap(err, "failed to set annotation color")
	}
	return nil
}

func colorByte(v float64) uint {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint(v * 255)
}

func unionRect(a, b Rect) Rect {
	if b.X0 < a.X0 {
		a.X0 = b.X0
	}
	if b.Y0 < a.Y0 {
		a.Y0 = b.Y0
	}
	if b.X1 > a.X1 {
		a.X1 = b.X1
	}
	if b.Y1 > a.Y1 {
		a.Y1 = b.Y1
	}
	return a
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

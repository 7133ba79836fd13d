package docmodel

import "testing"

func charRun(text string, x, y, size float64, font string) []charInfo {
	var chars []charInfo
	for i, r := range []rune(text) {
		cx := x + float64(i)*size*0.5
		chars = append(chars, charInfo{
			r:        r,
			box:      Rect{X0: cx, Y0: y, X1: cx + size*0.5, Y1: y + size},
			fontSize: size,
			fontName: font,
		})
	}
	return chars
}

func TestGroupSpans_SingleRun(t *testing.T) {
	chars := charRun("Hello world", 72, 100, 12, "Helvetica")
	spans := groupSpans(chars)

	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Text != "Hello world" {
		t.Errorf("expected joined text, got %q", spans[0].Text)
	}
	if spans[0].FontName != "Helvetica" || spans[0].FontSize != 12 {
		t.Errorf("unexpected font attributes: %+v", spans[0])
	}
	if spans[0].BBox.X0 != 72 {
		t.Errorf("expected bbox to start at 72, got %v", spans[0].BBox.X0)
	}
}

func TestGroupSpans_BreaksOnFontChange(t *testing.T) {
	chars := charRun("Title", 72, 100, 16, "Helvetica-Bold")
	chars = append(chars, charRun("body", 72+float64(len("Title"))*8, 100, 12, "Helvetica")...)

	spans := groupSpans(chars)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %+v", len(spans), spans)
	}
	if spans[0].Text != "Title" || spans[1].Text != "body" {
		t.Errorf("unexpected span texts: %q, %q", spans[0].Text, spans[1].Text)
	}
}

func TestGroupSpans_BreaksOnNewline(t *testing.T) {
	chars := charRun("one", 72, 100, 12, "Helvetica")
	chars = append(chars, charInfo{r: '\n'})
	chars = append(chars, charRun("two", 72, 120, 12, "Helvetica")...)

	spans := groupSpans(chars)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
}

func TestGroupSpans_BreaksOnWideGap(t *testing.T) {
	chars := charRun("left", 72, 100, 12, "Helvetica")
	// Second run on the same line, far to the right.
	chars = append(chars, charRun("right", 400, 100, 12, "Helvetica")...)

	spans := groupSpans(chars)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans for wide gap, got %d", len(spans))
	}
}

func TestGroupSpans_SkipsEmpty(t *testing.T) {
	chars := []charInfo{
		{r: ' ', box: Rect{X0: 72, Y0: 100, X1: 78, Y1: 112}, fontSize: 12},
		{r: '\n'},
	}
	if spans := groupSpans(chars); len(spans) != 0 {
		t.Fatalf("expected no spans, got %d", len(spans))
	}
}

func TestAssignBlocks(t *testing.T) {
	spans := []Span{
		{Text: "line one", BBox: Rect{Y0: 100, Y1: 112}, FontSize: 12},
		{Text: "line two", BBox: Rect{Y0: 116, Y1: 128}, FontSize: 12},
		// Vertical gap of 40 exceeds the font size: new block.
		{Text: "next paragraph", BBox: Rect{Y0: 168, Y1: 180}, FontSize: 12},
	}
	assignBlocks(spans)

	if spans[0].Block != 0 || spans[1].Block != 0 {
		t.Errorf("expected first two spans in block 0, got %d and %d", spans[0].Block, spans[1].Block)
	}
	if spans[2].Block != 1 {
		t.Errorf("expected third span in block 1, got %d", spans[2].Block)
	}
}

func TestRectDimensions(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 110, Y1: 50}
	if r.Width() != 100 {
		t.Errorf("Width = %v, want 100", r.Width())
	}
	if r.Height() != 30 {
		t.Errorf("Height = %v, want 30", r.Height())
	}
}

func TestColorByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 127},
		{1, 255},
		{1.5, 255},
	}
	for _, tt := range tests {
		if got := colorByte(tt.in); got != tt.want {
			t.Errorf("colorByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnionRect(t *testing.T) {
	a := Rect{X0: 10, Y0: 10, X1: 20, Y1: 20}
	b := Rect{X0: 5, Y0: 15, X1: 30, Y1: 18}
	got := unionRect(a, b)
	want := Rect{X0: 5, Y0: 10, X1: 30, Y1: 20}
	if got != want {
		t.Errorf("unionRect = %+v, want %+v", got, want)
	}
}

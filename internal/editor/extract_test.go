package editor

import (
	"testing"

	"github.com/dgallion1/pdfedit/internal/docmodel"
)

func TestExtractBlocks_ClassifiesAndJoinsText(t *testing.T) {
	doc := docmodel.NewMemDocument(
		[]docmodel.Span{
			{Text: "INTRODUCTION", BBox: rectAt(0), FontSize: 16, FontName: "Helvetica-Bold", Block: 0},
			{Text: "the quick brown fox, having jumped over the lazy dog, kept going for a while", BBox: rectAt(1), FontSize: 12, FontName: "Helvetica", Block: 1},
			{Text: "   ", BBox: rectAt(2), FontSize: 12, FontName: "Helvetica", Block: 1},
		},
		[]docmodel.Span{
			{Text: "Conclusion", BBox: rectAt(0), FontSize: 14, FontName: "Helvetica-Bold", Block: 0},
		},
	)

	blocks, fullText, err := ExtractBlocks(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractBlocks: %v", err)
	}

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks (blank span dropped), got %d", len(blocks))
	}
	if !blocks[0].IsHeading {
		t.Error("expected INTRODUCTION to classify as heading")
	}
	if blocks[1].IsHeading {
		t.Errorf("expected prose block not to classify as heading: %q", blocks[1].Text)
	}
	if blocks[2].PageNum != 1 {
		t.Errorf("expected page 1 for second-page block, got %d", blocks[2].PageNum)
	}

	want := "INTRODUCTION the quick brown fox, having jumped over the lazy dog, kept going for a while Conclusion"
	if fullText != want {
		t.Errorf("fullText = %q, want %q", fullText, want)
	}
}

func TestExtractBlocks_FontSizeUpgradesHeading(t *testing.T) {
	// Same structural block: two 10pt spans and one 14pt span. The average
	// is ~11.3, so 14 > 11.3*1.2 upgrades the large span despite prose text.
	prose := "the data was, in every case; processed at the central facility with notable care throughout"
	doc := docmodel.NewMemDocument(
		[]docmodel.Span{
			{Text: "and the rest of the line, as recorded, continued in the usual manner", FontSize: 10, Block: 0},
			{Text: "with more prose that is clearly not, in any reading, a heading", FontSize: 10, Block: 0},
			{Text: prose, FontSize: 14, Block: 0},
		},
	)

	blocks, _, err := ExtractBlocks(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractBlocks: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if blocks[0].IsHeading || blocks[1].IsHeading {
		t.Error("expected small spans to stay non-heading")
	}
	if !blocks[2].IsHeading {
		t.Error("expected oversized span to be upgraded to heading")
	}
}

func TestExtractBlocks_AverageScopedPerBlock(t *testing.T) {
	// A lone large span is its own block average, so size alone never
	// upgrades it.
	prose := "a single line of prose that is not, by any of the rules, heading material"
	doc := docmodel.NewMemDocument(
		[]docmodel.Span{
			{Text: prose, FontSize: 20, Block: 0},
			{Text: "smaller prose nearby, in its own block, for contrast with the large one", FontSize: 8, Block: 1},
		},
	)

	blocks, _, err := ExtractBlocks(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractBlocks: %v", err)
	}
	if blocks[0].IsHeading {
		t.Error("lone span should not be upgraded against its own average")
	}
}

func TestExtractBlocks_EmptyDocument(t *testing.T) {
	doc := docmodel.NewMemDocument([]docmodel.Span{})
	blocks, fullText, err := ExtractBlocks(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("ExtractBlocks: %v", err)
	}
	if len(blocks) != 0 || fullText != "" {
		t.Errorf("expected no blocks and empty text, got %d blocks, %q", len(blocks), fullText)
	}
}

package editor

import (
	"testing"

	"github.com/dgallion1/pdfedit/internal/docmodel"
)

func rectAt(i int) docmodel.Rect {
	y := float64(i) * 20
	return docmodel.Rect{X0: 72, Y0: y, X1: 300, Y1: y + 14}
}

func blocksFromTexts(texts ...string) []TextBlock {
	var blocks []TextBlock
	for i, text := range texts {
		blocks = append(blocks, TextBlock{Text: text, PageNum: 0, FontSize: 12, BBox: rectAt(i)})
	}
	return blocks
}

func TestFindMatchingBlocks_ExactAndSubstring(t *testing.T) {
	blocks := blocksFromTexts(
		"Introduction",
		"Machine learning is transforming industry",
		"Conclusion",
	)

	matches := FindMatchingBlocks("introduction", blocks, "")
	if len(matches) != 1 || matches[0].Text != "Introduction" {
		t.Fatalf("expected exact match on Introduction, got %v", texts(matches))
	}

	matches = FindMatchingBlocks("machine learning", blocks, "")
	if len(matches) != 1 || matches[0].Text != "Machine learning is transforming industry" {
		t.Fatalf("expected substring match, got %v", texts(matches))
	}
}

func TestFindMatchingBlocks_SubstringBeatsWordOverlap(t *testing.T) {
	// The second block would win on word overlap, but the substring stage
	// matches the first and later stages never run.
	blocks := blocksFromTexts(
		"the efficient system",
		"system efficient the and more",
	)

	matches := FindMatchingBlocks("efficient system", blocks, "")
	if len(matches) != 1 || matches[0].Text != "the efficient system" {
		t.Fatalf("expected substring stage to win, got %v", texts(matches))
	}
}

func TestFindMatchingBlocks_WordOverlap(t *testing.T) {
	blocks := blocksFromTexts(
		"a quick brown fox jumps",
		"nothing relevant here",
	)

	// 2 of 3 target words present: 0.66 >= 0.6.
	matches := FindMatchingBlocks("the quick fox", blocks, "")
	if len(matches) != 1 || matches[0].Text != "a quick brown fox jumps" {
		t.Fatalf("expected word-overlap match, got %v", texts(matches))
	}

	// 1 of 3 words: below threshold.
	matches = FindMatchingBlocks("the shiny fox", blocks, "")
	if len(matches) != 0 {
		t.Fatalf("expected no match, got %v", texts(matches))
	}
}

func TestFindMatchingBlocks_EmptyTarget(t *testing.T) {
	blocks := blocksFromTexts("Some Text")
	if matches := FindMatchingBlocks("", blocks, ""); len(matches) != 1 {
		// The empty string is a substring of everything, so stage 1 matches all.
		t.Fatalf("expected 1 match for empty target, got %d", len(matches))
	}
	if matches := FindMatchingBlocks("   zzz qqq   ", nil, ""); len(matches) != 0 {
		t.Fatalf("expected no matches against empty block list, got %d", len(matches))
	}
}

func TestFuzzyMatch_AbbreviationIsNotSubstring(t *testing.T) {
	// Substring matching is on consecutive characters, so "ai" appears
	// nowhere in the lowercased text, no whole word equals it, and the
	// half-capitalized four-word text is not heading-like. Nothing fires.
	if fuzzyMatch("AI", "Artificial Intelligence is growing", "") {
		t.Error("expected no fuzzy match for abbreviation against spelled-out words")
	}

	blocks := blocksFromTexts("Artificial Intelligence is growing")
	if matches := FindMatchingBlocks("AI", blocks, ""); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", texts(matches))
	}
}

func TestFuzzyMatch_HeadingLikeThresholds(t *testing.T) {
	// Heading-like text: short, capitalized, no clause punctuation. A third
	// of the target words suffices.
	if !fuzzyMatch("Background Material Overview", "Background And History", "") {
		t.Error("expected heading-like fuzzy match at 1/3 overlap")
	}

	// Prose requires half the target words plus context support.
	prose := "the process, as described, runs overnight on the cluster"
	if fuzzyMatch("batch process runs quickly", prose, "unrelated context words") {
		t.Error("expected no prose match without context overlap")
	}
	if !fuzzyMatch("process runs", prose, "runs overnight cluster") {
		t.Error("expected prose match with context support")
	}
}

func TestIsHeadingLike(t *testing.T) {
	if !isHeadingLike("Summary Of Findings") {
		t.Error("expected short capitalized text to be heading-like")
	}
	if isHeadingLike("this is plain prose, with a comma and lowercase words") {
		t.Error("expected prose not to be heading-like")
	}
	if !isHeadingLike("Required Reading List:") {
		t.Error("expected colon-terminated text to be heading-like")
	}
}

func texts(blocks []TextBlock) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, b.Text)
	}
	return out
}

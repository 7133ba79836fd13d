package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/pdfedit/internal/docmodel"
	"github.com/dgallion1/pdfedit/internal/llm"
)

// baselineRatio offsets the insertion point below the rectangle top so the
// new text baseline lands roughly where the old one was.
const baselineRatio = 0.8

// applyReplacement covers every matching block with white and reinserts the
// replacement text in the block's original style.
func (e *Editor) applyReplacement(ctx context.Context, doc docmodel.Document, req llm.EditRequest, blocks []TextBlock) error {
	target := strings.TrimSpace(req.TargetText)
	replacement := e.humanizeIfNeeded(ctx, req.ReplacementText)

	matches := FindMatchingBlocks(target, blocks, req.Context)
	e.log.Info("matched blocks for replacement", "target", target, "count", len(matches))

	for _, block := range matches {
		page, err := doc.Page(block.PageNum)
		if err != nil {
			return fmt.Errorf("load page %d: %w", block.PageNum, err)
		}
		if err := page.CoverRect(block.BBox, docmodel.White); err != nil {
			return fmt.Errorf("cover block on page %d: %w", block.PageNum, err)
		}
		if err := e.insertWithFallback(page, block.BBox, block.FontName, block.FontSize, replacement); err != nil {
			return fmt.Errorf("insert replacement on page %d: %w", block.PageNum, err)
		}
	}
	return nil
}

// applyHighlight adds a highlight annotation over every matching block.
func (e *Editor) applyHighlight(doc docmodel.Document, req llm.EditRequest, blocks []TextBlock) error {
	target := strings.TrimSpace(req.TargetText)

	matches := FindMatchingBlocks(target, blocks, "")
	e.log.Info("matched blocks for highlight", "target", target, "count", len(matches))

	for _, block := range matches {
		page, err := doc.Page(block.PageNum)
		if err != nil {
			return fmt.Errorf("load page %d: %w", block.PageNum, err)
		}
		if err := page.AddHighlight(block.BBox, e.cfg.HighlightColor); err != nil {
			return fmt.Errorf("highlight block on page %d: %w", block.PageNum, err)
		}
	}
	return nil
}

// applyHeadingModification resolves the target against progressively looser
// candidate sets: flagged headings, then heading-like blocks, then all
// blocks. An unmatched request is dropped with a warning.
func (e *Editor) applyHeadingModification(ctx context.Context, doc docmodel.Document, req llm.EditRequest, blocks []TextBlock) error {
	target := strings.TrimSpace(req.TargetText)
	replacement := e.humanizeIfNeeded(ctx, req.ReplacementText)

	var headingBlocks []TextBlock
	for _, block := range blocks {
		if block.IsHeading {
			headingBlocks = append(headingBlocks, block)
		}
	}
	matches := FindMatchingBlocks(target, headingBlocks, req.Context)

	if len(matches) == 0 {
		e.log.Info("no match among flagged headings, widening to heading-like blocks", "target", target)
		var candidates []TextBlock
		for _, block := range blocks {
			if e.looseHeadingLike(block) {
				candidates = append(candidates, block)
			}
		}
		matches = FindMatchingBlocks(target, candidates, req.Context)
	}

	if len(matches) == 0 {
		e.log.Info("still no match, searching all blocks", "target", target)
		matches = FindMatchingBlocks(target, blocks, req.Context)
	}

	if len(matches) == 0 {
		e.log.Warn("no blocks matched heading target, skipping request", "target", target)
		return nil
	}

	for _, block := range matches {
		e.log.Info("modifying heading", "page", block.PageNum, "text", block.Text)

		page, err := doc.Page(block.PageNum)
		if err != nil {
			return fmt.Errorf("load page %d: %w", block.PageNum, err)
		}
		if err := page.CoverRect(block.BBox, docmodel.White); err != nil {
			return fmt.Errorf("cover heading on page %d: %w", block.PageNum, err)
		}

		fontName := block.FontName
		if fontName == "" {
			fontName = "Helvetica"
		}
		if err := e.insertWithFallback(page, block.BBox, fontName, block.FontSize, replacement); err != nil {
			return fmt.Errorf("insert heading on page %d: %w", block.PageNum, err)
		}
	}
	return nil
}

// looseHeadingLike is the secondary candidate filter for heading
// modification: short, reasonably sized, punctuation-free, mostly
// capitalized.
func (e *Editor) looseHeadingLike(block TextBlock) bool {
	words := strings.Fields(block.Text)
	return len(words) < 15 &&
		block.FontSize >= e.cfg.LooseHeadingMinSize &&
		!strings.ContainsAny(block.Text, ",;:") &&
		capitalizedRatio(words) > 0.4
}

// insertWithFallback inserts text at the block position, cascading through
// the fallback font chain on unsupported fonts and finally inserting with the
// default size and no named font. Non-font failures propagate.
func (e *Editor) insertWithFallback(page docmodel.Page, bbox docmodel.Rect, fontName string, fontSize float64, text string) error {
	x := bbox.X0
	y := bbox.Y0 + fontSize*baselineRatio

	err := page.InsertText(x, y, text, fontName, fontSize, docmodel.Black)
	if err == nil {
		return nil
	}
	if !errors.Is(err, docmodel.ErrUnsupportedFont) {
		return err
	}
	e.log.Warn("font insertion failed, trying fallbacks", "font", fontName, "error", err)

	for _, fallback := range e.cfg.FallbackFonts {
		err = page.InsertText(x, y, text, fallback, fontSize, docmodel.Black)
		if err == nil {
			e.log.Info("used fallback font", "font", fallback)
			return nil
		}
		if !errors.Is(err, docmodel.ErrUnsupportedFont) {
			return err
		}
	}

	// Last resort: default size, backend default font.
	return page.InsertText(x, y, text, "", e.cfg.DefaultFontSize, docmodel.Black)
}

// humanizeIfNeeded rewrites AI-sounding replacement text, preferring the
// language model and falling back to the deterministic rules.
func (e *Editor) humanizeIfNeeded(ctx context.Context, text string) string {
	if !SeemsAIGenerated(text, e.hcfg) {
		return text
	}
	if e.llm != nil && e.llm.Available() {
		rewritten, err := e.llm.HumanizeText(ctx, text)
		if err == nil {
			return rewritten
		}
		e.log.Warn("humanization via llm failed, using fallback", "error", err)
	}
	return SimpleHumanize(text, e.hcfg)
}

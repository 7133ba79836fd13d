package editor

import (
	"fmt"
	"strings"

	"github.com/dgallion1/pdfedit/internal/docmodel"
)

// Config holds the heuristic knobs of the editing core. Tests substitute
// variants; production uses DefaultConfig.
type Config struct {
	// DefaultFontSize is used for the last-resort text insertion and as
	// the average font size of a degenerate empty block.
	DefaultFontSize float64

	// HeadingSizeRatio upgrades a span to heading when its font size
	// exceeds this multiple of its structural block's average.
	HeadingSizeRatio float64

	// LooseHeadingMinSize is the minimum font size for the secondary
	// heading-like candidate filter.
	LooseHeadingMinSize float64

	// FallbackFonts are tried in order when the original font fails.
	FallbackFonts []string

	HighlightColor docmodel.Color
}

func DefaultConfig() Config {
	return Config{
		DefaultFontSize:     12,
		HeadingSizeRatio:    1.2,
		LooseHeadingMinSize: 11,
		FallbackFonts:       []string{"helv", "times", "cour", "Helvetica", "Times-Roman"},
		HighlightColor:      docmodel.Yellow,
	}
}

// ExtractBlocks walks every page of the document and produces flat TextBlocks
// plus the concatenated full text. A span whose font size exceeds the average
// of its structural block by the configured ratio is forced to heading.
func ExtractBlocks(doc docmodel.Document, cfg Config) ([]TextBlock, string, error) {
	var blocks []TextBlock
	var fullText strings.Builder

	for pageNum := 0; pageNum < doc.PageCount(); pageNum++ {
		page, err := doc.Page(pageNum)
		if err != nil {
			return nil, "", fmt.Errorf("load page %d: %w", pageNum, err)
		}
		spans, err := page.Spans()
		if err != nil {
			return nil, "", fmt.Errorf("extract spans from page %d: %w", pageNum, err)
		}

		avgSizes := blockAverageSizes(spans, cfg.DefaultFontSize)

		for _, span := range spans {
			text := strings.TrimSpace(span.Text)
			if text == "" {
				continue
			}

			block := NewTextBlock(text, span.BBox, pageNum, span.FontSize, span.FontName)
			if span.FontSize > avgSizes[span.Block]*cfg.HeadingSizeRatio {
				block.IsHeading = true
			}
			blocks = append(blocks, block)

			fullText.WriteString(text)
			fullText.WriteString(" ")
		}
	}

	return blocks, strings.TrimSpace(fullText.String()), nil
}

// blockAverageSizes computes the average span font size per structural block.
func blockAverageSizes(spans []docmodel.Span, defaultSize float64) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range spans {
		sums[s.Block] += s.FontSize
		counts[s.Block]++
	}

	avgs := make(map[int]float64, len(sums))
	for block, sum := range sums {
		if counts[block] == 0 {
			avgs[block] = defaultSize
			continue
		}
		avgs[block] = sum / float64(counts[block])
	}
	return avgs
}

// Package editor implements the text-block matching and editing core: span
// extraction, heading classification, target matching, and edit application
// against the document model.
package editor

import (
	"strings"
	"unicode"

	"github.com/dgallion1/pdfedit/internal/docmodel"
)

// TextBlock is one extracted text span with the attributes needed to match
// targets and replicate visual style when rewriting.
type TextBlock struct {
	Text     string
	BBox     docmodel.Rect
	PageNum  int
	FontSize float64
	FontName string

	// IsHeading is set at construction from the text rules and may be
	// upgraded to true by the font-size pass. It is never reset to false.
	IsHeading bool
}

// NewTextBlock builds a block and classifies its text.
func NewTextBlock(text string, bbox docmodel.Rect, pageNum int, fontSize float64, fontName string) TextBlock {
	return TextBlock{
		Text:      strings.TrimSpace(text),
		BBox:      bbox,
		PageNum:   pageNum,
		FontSize:  fontSize,
		FontName:  fontName,
		IsHeading: IsHeadingText(text),
	}
}

// IsHeadingText decides whether a text fragment reads like a heading. Rules
// are checked in order; any hit wins.
func IsHeadingText(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	words := strings.Fields(text)
	wordCount := len(words)

	// Short, mostly capitalized text.
	if wordCount <= 7 && capitalizedRatio(words) > 0.5 {
		return true
	}

	// Ends with a colon and not too long.
	if strings.HasSuffix(text, ":") && wordCount < 10 {
		return true
	}

	// Short all-caps text.
	if isUpperText(text) && wordCount < 5 {
		return true
	}

	// Short text free of clause punctuation.
	if wordCount < 12 && !strings.ContainsAny(text, `,;:()"'`) {
		return true
	}

	return false
}

// capitalizedRatio returns the fraction of words whose first rune is an
// uppercase letter.
func capitalizedRatio(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	capitalized := 0
	for _, w := range words {
		for _, r := range w {
			if unicode.IsUpper(r) {
				capitalized++
			}
			break
		}
	}
	return float64(capitalized) / float64(len(words))
}

// isUpperText reports whether the text contains at least one cased letter and
// no lowercase letters.
func isUpperText(text string) bool {
	hasCased := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

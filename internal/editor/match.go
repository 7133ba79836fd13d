package editor

import "strings"

// FindMatchingBlocks locates blocks matching the target phrase. Matching is
// staged: exact/substring first, then context-assisted fuzzy matching, then
// bare word overlap. Each stage runs only when the previous found nothing.
func FindMatchingBlocks(target string, blocks []TextBlock, context string) []TextBlock {
	var matches []TextBlock
	targetLower := strings.ToLower(target)

	// Stage 1: exact or substring match.
	for _, block := range blocks {
		blockLower := strings.ToLower(block.Text)
		if targetLower == blockLower || strings.Contains(blockLower, targetLower) {
			matches = append(matches, block)
		}
	}

	// Stage 2: fuzzy matching, only with a disambiguating context.
	if len(matches) == 0 && context != "" {
		for _, block := range blocks {
			if fuzzyMatch(target, block.Text, context) {
				matches = append(matches, block)
			}
		}
	}

	// Stage 3: word overlap.
	if len(matches) == 0 {
		words := strings.Fields(targetLower)
		if len(words) == 0 {
			return matches
		}
		for _, block := range blocks {
			blockWords := wordSet(strings.ToLower(block.Text))
			overlap := 0
			seen := make(map[string]bool)
			for _, w := range words {
				if blockWords[w] && !seen[w] {
					overlap++
					seen[w] = true
				}
			}
			if float64(overlap) >= float64(len(words))*0.6 {
				matches = append(matches, block)
			}
		}
	}

	return matches
}

// fuzzyMatch decides whether text matches target under word-overlap scoring,
// with looser thresholds for heading-like text and context assistance.
func fuzzyMatch(target, text, context string) bool {
	if strings.Contains(strings.ToLower(text), strings.ToLower(target)) {
		return true
	}

	targetWords := wordSet(strings.ToLower(target))
	textWords := wordSet(strings.ToLower(text))
	var contextWords map[string]bool
	if context != "" {
		contextWords = wordSet(strings.ToLower(context))
	}

	wordOverlap := overlapRatio(targetWords, textWords)
	contextMatch := overlapRatio(contextWords, textWords)

	if isHeadingLike(text) {
		return wordOverlap >= 0.3 || contextMatch >= 0.3
	}
	return wordOverlap >= 0.5 && (contextMatch >= 0.2 || context == "")
}

// isHeadingLike is the looser structure check used only inside fuzzy
// matching, distinct from the primary heading classifier.
func isHeadingLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	return len(trimmed) < 100 &&
		(strings.HasSuffix(trimmed, ":") || !strings.ContainsAny(text, ",.;")) &&
		capitalizedRatio(strings.Fields(text)) > 0.5
}

// overlapRatio returns |a ∩ b| / |a|, or 0 when a is empty.
func overlapRatio(a, b map[string]bool) float64 {
	if len(a) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if b[w] {
			common++
		}
	}
	return float64(common) / float64(len(a))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

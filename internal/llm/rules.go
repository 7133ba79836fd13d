package llm

import "regexp"

// Rule-based prompt parsing. Three pattern families are applied independently
// over the whole prompt; every match of every pattern contributes a request,
// so one prompt can yield several requests, including duplicates when
// patterns overlap. Duplicates are intentionally not removed.

var replacePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)change\s+['"]([^'"]+)['"] to ['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)replace\s+['"]([^'"]+)['"] with ['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)in the (.+?), change ['"]([^'"]+)['"] to ['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)change\s+(?:the)?\s*([^'"]+?)\s+to\s+([^'"]+)`),
}

var highlightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)highlight\s+['"]?([^'"]+)['"]?`),
	regexp.MustCompile(`(?i)mark\s+['"]?([^'"]+)['"]?`),
	regexp.MustCompile(`(?i)emphasize\s+['"]?([^'"]+)['"]?`),
}

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)change the heading ['"]([^'"]+)['"] to ['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)modify heading ['"]([^'"]+)['"] to ['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)change the title ['"]([^'"]+)['"] to ['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)change\s+(?:the)?\s*title\s+(?:from)?\s*['"]?([^'"]+?)['"]?\s+to\s+['"]?([^'"]+?)['"]?`),
	regexp.MustCompile(`(?i)change\s+(?:the)?\s*heading\s+(?:from)?\s*['"]?([^'"]+?)['"]?\s+to\s+['"]?([^'"]+?)['"]?`),
	regexp.MustCompile(`(?i)(?:replace|update|set)\s+(?:the)?\s*title\s+(?:from|of)?\s*['"]?([^'"]+?)['"]?\s+to\s+['"]?([^'"]+?)['"]?`),
	regexp.MustCompile(`(?i)(?:replace|update|set)\s+(?:the)?\s*heading\s+(?:from|of)?\s*['"]?([^'"]+?)['"]?\s+to\s+['"]?([^'"]+?)['"]?`),
	regexp.MustCompile(`(?i)(?:make|transform)\s+(?:the)?\s*title\s+['"]?([^'"]+?)['"]?\s+(?:into|to)\s+['"]?([^'"]+?)['"]?`),
	regexp.MustCompile(`(?i)title\s+(?:change|modification):\s*['"]?([^'"]+?)['"]?\s+(?:to|into|→)\s+['"]?([^'"]+?)['"]?`),
	regexp.MustCompile(`(?i)heading\s+(?:change|modification):\s*['"]?([^'"]+?)['"]?\s+(?:to|into|→)\s+['"]?([^'"]+?)['"]?`),
	// Quote-free title change, only recognized at the start of the prompt.
	regexp.MustCompile(`(?i)^change\s+title\s+(?:from)?\s*([^\n]+?)\s+to\s+([^\n]+?)(?:\s|$)`),
}

// ParseRules extracts edit requests from a prompt using the pattern families.
func ParseRules(prompt string) []EditRequest {
	var edits []EditRequest

	for _, pattern := range replacePatterns {
		for _, m := range pattern.FindAllStringSubmatch(prompt, -1) {
			switch len(m) - 1 {
			case 2:
				edits = append(edits, EditRequest{
					Action:          ActionReplace,
					TargetText:      m[1],
					ReplacementText: m[2],
				})
			case 3:
				edits = append(edits, EditRequest{
					Action:          ActionReplace,
					TargetText:      m[2],
					ReplacementText: m[3],
					Context:         m[1],
				})
			}
		}
	}

	for _, pattern := range highlightPatterns {
		for _, m := range pattern.FindAllStringSubmatch(prompt, -1) {
			edits = append(edits, EditRequest{
				Action:     ActionHighlight,
				TargetText: m[1],
			})
		}
	}

	for _, pattern := range headingPatterns {
		for _, m := range pattern.FindAllStringSubmatch(prompt, -1) {
			edits = append(edits, EditRequest{
				Action:          ActionModifyHeading,
				TargetText:      m[1],
				ReplacementText: m[2],
			})
		}
	}

	return edits
}

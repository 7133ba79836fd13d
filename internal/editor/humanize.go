package editor

import "strings"

// Replacement is one literal substring substitution, applied in order.
type Replacement struct {
	Old, New string
}

// HumanizeConfig holds the AI-text indicator list and the deterministic
// rewrite rules used when no language model is available.
type HumanizeConfig struct {
	Indicators   []string
	Replacements []Replacement
}

// DefaultHumanizeConfig matches the runtime behavior of the service.
func DefaultHumanizeConfig() HumanizeConfig {
	return HumanizeConfig{
		Indicators: []string{
			"demonstrates", "showcases", "furthermore", "moreover",
			"consequently", "thus", "therefore", "in addition",
			"operational efficiency", "high levels", "significant impact",
		},
		Replacements: []Replacement{
			{"utilize", "use"},
			{"demonstrate", "show"},
			{"furthermore", "also"},
			{"in addition", "plus"},
			{"consequently", "so"},
		},
	}
}

// ExtendedHumanizeConfig adds the wider indicator and replacement sets for
// callers that want more aggressive rewriting.
func ExtendedHumanizeConfig() HumanizeConfig {
	cfg := DefaultHumanizeConfig()
	cfg.Indicators = append(cfg.Indicators,
		"comprehensive", "facilitate", "optimize", "leverage")
	cfg.Replacements = append(cfg.Replacements,
		Replacement{"facilitate", "help"},
		Replacement{"optimize", "improve"},
		Replacement{"leverage", "use"},
		Replacement{"comprehensive", "complete"},
		Replacement{"methodology", "method"},
	)
	return cfg
}

// SeemsAIGenerated flags text that reads machine-written: two indicator hits,
// or one hit in text longer than ten words.
func SeemsAIGenerated(text string, cfg HumanizeConfig) bool {
	if text == "" {
		return false
	}

	textLower := strings.ToLower(text)
	score := 0
	for _, indicator := range cfg.Indicators {
		if strings.Contains(textLower, indicator) {
			score++
		}
	}

	return score >= 2 || (len(strings.Fields(text)) > 10 && score >= 1)
}

// SimpleHumanize applies the deterministic rewrite rules. Replacements are
// plain substring substitutions, not word-boundary aware.
func SimpleHumanize(text string, cfg HumanizeConfig) string {
	for _, r := range cfg.Replacements {
		text = strings.ReplaceAll(text, r.Old, r.New)
	}

	if strings.HasPrefix(text, "The system") {
		text = strings.Replace(text, "The system", "This system", 1)
	} else if strings.HasPrefix(text, "This approach") {
		text = strings.Replace(text, "This approach", "Our approach", 1)
	}

	return text
}

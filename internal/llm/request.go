// Package llm turns free-text editing prompts into structured edit requests,
// via the OpenAI chat API when configured and a rule-based regex parser
// otherwise.
package llm

// Edit actions.
const (
	ActionReplace       = "replace"
	ActionHighlight     = "highlight"
	ActionModifyHeading = "modify_heading"
)

// EditRequest is one structured edit instruction extracted from a prompt.
type EditRequest struct {
	Action          string `json:"action"`
	TargetText      string `json:"target_text"`
	ReplacementText string `json:"replacement_text,omitempty"`
	Context         string `json:"context,omitempty"`
}

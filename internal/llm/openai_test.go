package llm

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func testClient(apiKey string) *OpenAIClient {
	return NewOpenAIClient(apiKey, "gpt-3.5-turbo", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `[{"action":"replace"}]`, `[{"action":"replace"}]`},
		{"json fence", "```json\n[{\"action\":\"replace\"}]\n```", `[{"action":"replace"}]`},
		{"surrounding whitespace", "  \n```json\n[]\n```\n ", "[]"},
		// The markers are stripped independently: a response truncated
		// before the closing fence still yields its JSON.
		{"leading fence only", "```json\n[]", "[]"},
		{"trailing fence only", "[]\n```", "[]"},
		// A bare opening fence is not a ```json marker and survives.
		{"plain fence", "```\n[1,2]\n```", "```\n[1,2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeBlock(tt.in); got != tt.want {
				t.Errorf("stripCodeBlock(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEditResponse_ValidJSON(t *testing.T) {
	c := testClient("key")
	response := "```json\n" + `[
		{"action": "replace", "target_text": "old", "replacement_text": "new", "context": "nearby"},
		{"action": "highlight", "target_text": "term"}
	]` + "\n```"

	edits := c.parseEditResponse(response)
	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d: %+v", len(edits), edits)
	}
	if edits[0].Action != ActionReplace || edits[0].TargetText != "old" || edits[0].Context != "nearby" {
		t.Errorf("unexpected first edit: %+v", edits[0])
	}
	if edits[1].Action != ActionHighlight || edits[1].TargetText != "term" {
		t.Errorf("unexpected second edit: %+v", edits[1])
	}
}

func TestParseEditResponse_FiltersIncompleteItems(t *testing.T) {
	c := testClient("key")
	response := `[
		{"action": "replace", "target_text": "", "replacement_text": "new"},
		{"action": "", "target_text": "orphan"},
		{"action": "highlight", "target_text": "kept"}
	]`

	edits := c.parseEditResponse(response)
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d: %+v", len(edits), edits)
	}
	if edits[0].TargetText != "kept" {
		t.Errorf("unexpected edit: %+v", edits[0])
	}
}

func TestParseEditResponse_NonJSONFallsBackToRules(t *testing.T) {
	c := testClient("key")

	// A model that answers in prose instead of JSON still produces edits
	// when the prose matches the rule patterns.
	edits := c.parseEditResponse("Sure! Change 'Introduction' to 'Overview'")
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit from rules fallback, got %d: %+v", len(edits), edits)
	}
	if edits[0].Action != ActionReplace || edits[0].TargetText != "Introduction" || edits[0].ReplacementText != "Overview" {
		t.Errorf("unexpected edit: %+v", edits[0])
	}
}

func TestParsePrompt_UnavailableUsesRules(t *testing.T) {
	c := testClient("")
	if c.Available() {
		t.Fatal("client with empty key should be unavailable")
	}

	edits := c.ParsePrompt(context.Background(), "Highlight 'results'", "doc text")
	if len(edits) != 1 || edits[0].Action != ActionHighlight || edits[0].TargetText != "results" {
		t.Fatalf("expected highlight edit from rules, got %+v", edits)
	}
}

func TestHumanizeText_Unavailable(t *testing.T) {
	c := testClient("")
	if _, err := c.HumanizeText(context.Background(), "some text"); err == nil {
		t.Fatal("expected error when client unconfigured")
	}
}

func TestParseEditResponse_TruncatedFence(t *testing.T) {
	c := testClient("key")
	response := "```json\n" + `[{"action": "highlight", "target_text": "term"}]`

	edits := c.parseEditResponse(response)
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit from truncated fence, got %d: %+v", len(edits), edits)
	}
	if edits[0].Action != ActionHighlight || edits[0].TargetText != "term" {
		t.Errorf("unexpected edit: %+v", edits[0])
	}
}

func TestClampBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short stays", "hello", 10, "hello"},
		{"ascii cut", "hello", 3, "hel"},
		{"multibyte boundary kept", "héllo", 3, "hé"},
		{"multibyte cut backs off", "héllo", 2, "h"},
		{"zero", "héllo", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampBytes(tt.in, tt.n); got != tt.want {
				t.Errorf("clampBytes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate long = %q", got)
	}
}

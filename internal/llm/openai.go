package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// OpenAIClient calls the OpenAI chat completions API for prompt parsing and
// text humanization. An empty API key disables the client; all callers then
// go straight to the rule-based fallbacks.
type OpenAIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger

	Stats *Stats
}

func NewOpenAIClient(apiKey, model string, log *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		log:    log,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: NewStats(time.Hour),
	}
}

// Available reports whether the API client is configured.
func (c *OpenAIClient) Available() bool {
	return c.apiKey != ""
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Close releases resources.
func (c *OpenAIClient) Close() {
	c.httpClient.CloseIdleConnections()
}

const parseSystemPrompt = `You are an expert at parsing PDF editing instructions. Given a user prompt and PDF content, extract specific edit requests.

Action types:
- "replace": Change specific text
- "highlight": Add yellow highlighting to text
- "modify_heading": Change heading text

Return a JSON list of edit requests with:
- action: the action type
- target_text: the exact text to find
- replacement_text: the new text (for replace/modify_heading actions)
- context: surrounding text to help locate the target

Be precise and specific about the text to find.`

const humanizeSystemPrompt = `You are an expert at rewriting text to make it sound naturally human-written. Vary sentence structure and length, use natural transitions, and avoid repetitive patterns. Keep the core meaning intact while making it sound authentically human.`

// contextChars limits how much extracted document text is sent along with
// the prompt.
const contextChars = 2000

// ParsePrompt turns a free-text prompt into edit requests. When the API is
// unavailable or fails, it falls back to rule-based parsing of the prompt;
// when the API responds but the response cannot be parsed, the rules run over
// the raw response text instead.
func (c *OpenAIClient) ParsePrompt(ctx context.Context, prompt, docText string) []EditRequest {
	if !c.Available() {
		return ParseRules(prompt)
	}

	docText = clampBytes(docText, contextChars)
	userPrompt := fmt.Sprintf("PDF Content (first %d chars):\n%s\n\nUser Request: %s\n\nParse this into edit requests:", contextChars, docText, prompt)

	response, err := c.complete(ctx, parseSystemPrompt, userPrompt)
	if err != nil {
		c.log.Warn("llm parsing failed, using rule-based parser", "error", err)
		return ParseRules(prompt)
	}
	return c.parseEditResponse(response)
}

// parseEditResponse decodes the model response into edit requests. A response
// that is not valid JSON (after stripping a code fence) is handed to the
// rule-based parser as-is.
func (c *OpenAIClient) parseEditResponse(response string) []EditRequest {
	cleaned := stripCodeBlock(response)

	var items []EditRequest
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		c.log.Warn("failed to parse llm response as json, applying rules to raw response",
			"error", err, "response", truncate(response, 200))
		return ParseRules(response)
	}

	var edits []EditRequest
	for _, item := range items {
		if item.Action != "" && item.TargetText != "" {
			edits = append(edits, item)
		}
	}
	return edits
}

// HumanizeText rewrites a paragraph via the API. Callers are expected to use
// the deterministic fallback when this fails.
func (c *OpenAIClient) HumanizeText(ctx context.Context, text string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("openai client not configured")
	}
	response, err := c.complete(ctx, humanizeSystemPrompt, "Humanize this text: "+text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete performs one chat completion with retry on transient failures.
func (c *OpenAIClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var text string
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		text, lastErr = c.completeOnce(ctx, systemPrompt, userPrompt)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		c.log.Warn("retryable openai error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, lastErr
}

func (c *OpenAIClient) completeOnce(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.1,
		MaxTokens:   1000,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai api: %w", err)
	}
	defer resp.Body.Close()
	c.Stats.Record(time.Since(start).Milliseconds())

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai api status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("openai error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// stripCodeBlock removes a leading ```json marker and a trailing ``` marker
// independently, so a response truncated before the closing fence still
// parses.
func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// clampBytes limits s to at most n bytes without splitting a UTF-8 sequence.
func clampBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

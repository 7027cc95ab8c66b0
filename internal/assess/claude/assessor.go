package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dekontrol/internal/analysis"
	"dekontrol/internal/assess"
	"dekontrol/internal/config"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Assessor implements analysis.AIAssessor using the Anthropic Messages API.
type Assessor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAssessor creates a Claude-based receipt assessor from a provider config.
func NewAssessor(cfg *config.AssessProviderConfig) *Assessor {
	return newAssessor(cfg, apiURL)
}

// NewAssessorWithEndpoint creates an assessor pointing at a custom API endpoint (for testing).
func NewAssessorWithEndpoint(cfg *config.AssessProviderConfig, endpoint string) *Assessor {
	return newAssessor(cfg, endpoint)
}

func newAssessor(cfg *config.AssessProviderConfig, endpoint string) *Assessor {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &Assessor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (a *Assessor) Assess(ctx context.Context, rawText string, expected analysis.ExpectedRecord) (*analysis.ExternalAIAssessment, error) {
	prompt := assess.BuildReceiptAssessmentPrompt(rawText, expected)

	reqBody := map[string]interface{}{
		"model":      a.model,
		"max_tokens": 1024,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := assess.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, assess.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (*analysis.ExternalAIAssessment, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	text := resp.Content[0].Text

	var out analysis.ExternalAIAssessment
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}

	if err := assess.ValidateAssessment(&out); err != nil {
		return nil, fmt.Errorf("invalid assessment from claude: %w", err)
	}

	return &out, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

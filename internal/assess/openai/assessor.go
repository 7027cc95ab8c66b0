package openai

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
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Assessor implements analysis.AIAssessor using the OpenAI Chat Completions API.
type Assessor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAssessor creates an OpenAI-based receipt assessor from a provider config.
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
		model = "gpt-4o"
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
		"model":                 a.model,
		"max_completion_tokens": 1024,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := assess.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, assess.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (*analysis.ExternalAIAssessment, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	text := resp.Choices[0].Message.Content

	var out analysis.ExternalAIAssessment
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, truncate(text, 500))
	}

	if err := assess.ValidateAssessment(&out); err != nil {
		return nil, fmt.Errorf("invalid assessment from openai: %w", err)
	}

	return &out, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

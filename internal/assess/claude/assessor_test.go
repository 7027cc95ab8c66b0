package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/analysis"
	"dekontrol/internal/assess"
	"dekontrol/internal/assess/claude"
	"dekontrol/internal/config"
)

func newTestAssessor(serverURL string) *claude.Assessor {
	cfg := &config.AssessProviderConfig{
		Provider:     "claude",
		APIKey:       "test-claude-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewAssessorWithEndpoint(cfg, serverURL)
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": content},
		},
		"stop_reason": "end_turn",
	}
}

func testExpected() analysis.ExpectedRecord {
	return analysis.ExpectedRecord{
		StudentName:    "Elif",
		StudentSurname: "Kaya",
		CompanyName:    "Anadolu Lojistik Ltd.",
		PeriodMonth:    3,
		PeriodYear:     2025,
	}
}

func TestAssessor_Assess_Success(t *testing.T) {
	llmJSON := `{"overall_reliability":0.72,"data_validation":{"consistency":{"score":0.8}},"security_assessment":{"forgery_risk":0.25},"recommendation":"Verify the amount manually."}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		prompt := msg["content"].(string)
		assert.Contains(t, prompt, "Elif Kaya")
		assert.Contains(t, prompt, "Anadolu Lojistik Ltd.")

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	a := newTestAssessor(server.URL)

	result, err := a.Assess(context.Background(), "EFT DEKONTU Elif Kaya 4.250,00 TL", testExpected())

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.InDelta(t, 0.72, result.OverallReliability, 1e-9)
	assert.InDelta(t, 0.8, result.DataValidation.Consistency.Score, 1e-9)
	assert.InDelta(t, 0.25, result.SecurityAssessment.ForgeryRisk, 1e-9)
	assert.Equal(t, "Verify the amount manually.", result.Recommendation)
}

func TestAssessor_Assess_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	a := newTestAssessor(server.URL)

	_, err := a.Assess(context.Background(), "some text", testExpected())

	require.Error(t, err)
	var rlErr *assess.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
}

func TestAssessor_Assess_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	a := newTestAssessor(server.URL)

	_, err := a.Assess(context.Background(), "some text", testExpected())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestAssessor_Assess_TruncatedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"overall"}],"stop_reason":"max_tokens"}`))
	}))
	defer server.Close()

	a := newTestAssessor(server.URL)

	_, err := a.Assess(context.Background(), "some text", testExpected())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestAssessor_Assess_OutOfRangeScore(t *testing.T) {
	llmJSON := `{"overall_reliability":0.5,"data_validation":{"consistency":{"score":0.5}},"security_assessment":{"forgery_risk":-0.2},"recommendation":""}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	a := newTestAssessor(server.URL)

	_, err := a.Assess(context.Background(), "some text", testExpected())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "forgery_risk out of range")
}

package assess_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/analysis"
	"dekontrol/internal/assess"
)

// stubAssessor returns canned results and counts calls.
type stubAssessor struct {
	result *analysis.ExternalAIAssessment
	err    error
	calls  int
}

func (s *stubAssessor) Assess(_ context.Context, _ string, _ analysis.ExpectedRecord) (*analysis.ExternalAIAssessment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func stubResult(reliability float64) *analysis.ExternalAIAssessment {
	return &analysis.ExternalAIAssessment{
		OverallReliability: reliability,
		Recommendation:     "ok",
	}
}

func TestFallbackAssessor_PrimarySucceeds(t *testing.T) {
	primary := &stubAssessor{result: stubResult(0.9)}
	secondary := &stubAssessor{result: stubResult(0.5)}

	f := assess.NewFallbackAssessor(
		[]analysis.AIAssessor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	out, err := f.Assess(context.Background(), "text", analysis.ExpectedRecord{})

	require.NoError(t, err)
	assert.InDelta(t, 0.9, out.OverallReliability, 1e-9)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallbackAssessor_FallsBackOnRateLimit(t *testing.T) {
	primary := &stubAssessor{err: assess.NewRateLimitError("openai", fmt.Errorf("429"), 60)}
	secondary := &stubAssessor{result: stubResult(0.7)}

	f := assess.NewFallbackAssessor(
		[]analysis.AIAssessor{primary, secondary},
		[]string{"openai", "claude"},
	)

	out, err := f.Assess(context.Background(), "text", analysis.ExpectedRecord{})

	require.NoError(t, err)
	assert.InDelta(t, 0.7, out.OverallReliability, 1e-9)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackAssessor_SkipsOpenCircuit(t *testing.T) {
	primary := &stubAssessor{err: assess.NewRateLimitError("openai", fmt.Errorf("429"), 300)}
	secondary := &stubAssessor{result: stubResult(0.6)}

	f := assess.NewFallbackAssessor(
		[]analysis.AIAssessor{primary, secondary},
		[]string{"openai", "claude"},
	)

	// First call opens the primary's circuit.
	_, err := f.Assess(context.Background(), "text", analysis.ExpectedRecord{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Second call should skip the primary entirely.
	out, err := f.Assess(context.Background(), "text", analysis.ExpectedRecord{})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, out.OverallReliability, 1e-9)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallbackAssessor_AllRateLimited(t *testing.T) {
	primary := &stubAssessor{err: assess.NewRateLimitError("openai", fmt.Errorf("429"), 60)}
	secondary := &stubAssessor{err: assess.NewRateLimitError("claude", fmt.Errorf("429"), 120)}

	f := assess.NewFallbackAssessor(
		[]analysis.AIAssessor{primary, secondary},
		[]string{"openai", "claude"},
	)

	_, err := f.Assess(context.Background(), "text", analysis.ExpectedRecord{})

	require.Error(t, err)
	var rlErr *assess.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackAssessor_NonRateLimitFailure(t *testing.T) {
	primary := &stubAssessor{err: fmt.Errorf("malformed output")}
	secondary := &stubAssessor{err: fmt.Errorf("timeout")}

	f := assess.NewFallbackAssessor(
		[]analysis.AIAssessor{primary, secondary},
		[]string{"openai", "claude"},
	)

	_, err := f.Assess(context.Background(), "text", analysis.ExpectedRecord{})

	require.Error(t, err)
	var rlErr *assess.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
	assert.Contains(t, err.Error(), "all assessors failed")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

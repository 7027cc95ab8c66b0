package assess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/analysis"
	"dekontrol/internal/assess"
	"dekontrol/internal/config"
)

func TestNewAssessor_UnknownProvider(t *testing.T) {
	_, err := assess.NewAssessor(&config.AssessProviderConfig{Provider: "no-such-provider"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assessment provider: no-such-provider")
}

func TestNewAssessor_RegisteredProvider(t *testing.T) {
	registered := &stubAssessor{result: stubResult(0.5)}
	assess.RegisterProvider("stub", func(cfg *config.AssessProviderConfig) (analysis.AIAssessor, error) {
		return registered, nil
	})

	a, err := assess.NewAssessor(&config.AssessProviderConfig{Provider: "stub"})

	require.NoError(t, err)
	assert.Same(t, analysis.AIAssessor(registered), a)
}

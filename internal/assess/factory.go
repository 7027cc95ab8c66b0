package assess

import (
	"fmt"

	"dekontrol/internal/analysis"
	"dekontrol/internal/config"
)

// ProviderFactory is a function that creates an AIAssessor from a provider config.
type ProviderFactory func(cfg *config.AssessProviderConfig) (analysis.AIAssessor, error)

// registry of assessment provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an assessment provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewAssessor creates an AIAssessor from a provider config using the registered factory.
func NewAssessor(cfg *config.AssessProviderConfig) (analysis.AIAssessor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown assessment provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

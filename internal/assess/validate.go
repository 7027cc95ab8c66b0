package assess

import (
	"fmt"

	"dekontrol/internal/analysis"
)

// ValidateAssessment checks that all scores returned by a provider are inside
// [0, 1]. Out-of-range values are provider bugs and must surface as errors
// rather than flow into scoring.
func ValidateAssessment(a *analysis.ExternalAIAssessment) error {
	if a.OverallReliability < 0 || a.OverallReliability > 1 {
		return fmt.Errorf("overall_reliability out of range: %v", a.OverallReliability)
	}
	if s := a.DataValidation.Consistency.Score; s < 0 || s > 1 {
		return fmt.Errorf("consistency score out of range: %v", s)
	}
	if r := a.SecurityAssessment.ForgeryRisk; r < 0 || r > 1 {
		return fmt.Errorf("forgery_risk out of range: %v", r)
	}
	return nil
}

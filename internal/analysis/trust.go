package analysis

import "fmt"

// Reliability weights. They sum to 1.0; when a term is unavailable the final
// score is normalized by the sum of the weights actually applied.
const (
	weightOCRConfidence = 0.30
	weightAIReliability = 0.40
	weightConsistency   = 0.20
	weightForgery       = 0.10
)

// Flag thresholds.
const (
	flagOCRConfidenceBelow = 70
	flagForgeryRiskAbove   = 0.3
	flagConsistencyBelow   = 0.7
)

// Score combines OCR confidence and the external AI assessment into one
// weighted reliability number in [0,1] plus the list of security flags.
// Flags are independent and evaluated in a fixed order. The extracted fields
// and expected record travel with the call so future factors can use them;
// the current formula does not.
//
// Score does not decide approve/reject — that belongs to the review workflow.
func Score(
	ocrConfidence float64,
	ai *ExternalAIAssessment,
	fields ExtractedFields,
	expected ExpectedRecord,
) (float64, []SecurityFlag) {
	flags := collectFlags(ocrConfidence, ai)

	weighted := weightOCRConfidence * clamp01(ocrConfidence/100)
	applied := weightOCRConfidence

	if ai != nil {
		weighted += weightAIReliability * clamp01(ai.OverallReliability)
		applied += weightAIReliability
		weighted += weightConsistency * clamp01(ai.DataValidation.Consistency.Score)
		applied += weightConsistency
		weighted += weightForgery * clamp01(1-ai.SecurityAssessment.ForgeryRisk)
		applied += weightForgery
	}

	if applied == 0 {
		return 0, flags
	}
	return clamp01(weighted / applied), flags
}

func collectFlags(ocrConfidence float64, ai *ExternalAIAssessment) []SecurityFlag {
	var flags []SecurityFlag

	if ocrConfidence < flagOCRConfidenceBelow {
		flags = append(flags, SecurityFlag{
			Type:     FlagLowOCRConfidence,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("OCR confidence %.0f is below %d", ocrConfidence, flagOCRConfidenceBelow),
		})
	}
	if ai != nil && ai.SecurityAssessment.ForgeryRisk > flagForgeryRiskAbove {
		flags = append(flags, SecurityFlag{
			Type:     FlagHighForgeryRisk,
			Severity: SeverityError,
			Message:  fmt.Sprintf("assessed forgery risk %.2f exceeds %.1f", ai.SecurityAssessment.ForgeryRisk, flagForgeryRiskAbove),
		})
	}
	if ai != nil && ai.DataValidation.Consistency.Score < flagConsistencyBelow {
		flags = append(flags, SecurityFlag{
			Type:     FlagDataInconsistency,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("data consistency score %.2f is below %.1f", ai.DataValidation.Consistency.Score, flagConsistencyBelow),
		})
	}

	return flags
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

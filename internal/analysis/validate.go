package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Below this OCR confidence the scan is flagged for manual review.
	lowConfidenceThreshold = 60
	// Minimum fuzzy-match confidence for a name to count as matched.
	nameMatchThreshold = 30
)

// amountTolerance is the absolute difference beyond which an extracted amount
// is reported as mismatching the expected amount. Mismatch is a warning, not
// a rejection — amounts legitimately differ by bank fees.
var amountTolerance = decimal.NewFromFloat(0.01)

// CheckScan is the basic scan-quality check run before any cross-validation
// against the expected record. A missing or non-positive amount is the only
// hard failure at this stage.
func CheckScan(scan *RawScanResult) ValidationOutcome {
	out := ValidationOutcome{}
	fields := ExtractFields(scan.Text)

	if scan.Confidence < lowConfidenceThreshold {
		out.Warnings = append(out.Warnings, "low OCR confidence, manual review advised")
	}
	if fields.Amount == nil || !fields.Amount.IsPositive() {
		out.Errors = append(out.Errors, "no positive amount could be extracted from receipt")
	}
	if fields.Date == "" {
		out.Warnings = append(out.Warnings, "no date found on receipt")
	}

	out.IsValid = len(out.Errors) == 0
	return out
}

// Validate cross-checks a scan against the expected internship record and
// produces the complete per-category outcome. Name mismatch and a missing or
// non-positive amount are the only hard failures; everything else degrades
// trust without blocking the receipt.
func Validate(scan *RawScanResult, expected ExpectedRecord) ValidationOutcome {
	out := ValidationOutcome{}
	fields := ExtractFields(scan.Text)
	evidence := MatchName(scan.Text, expected.StudentName, expected.StudentSurname)

	out.Validations.NameMatch = evidence.Found && evidence.Confidence >= nameMatchThreshold
	if !out.Validations.NameMatch {
		out.Errors = append(out.Errors,
			fmt.Sprintf("student name %q %q not found in receipt text",
				expected.StudentName, expected.StudentSurname))
	} else if evidence.Confidence < lowConfidenceThreshold {
		out.Warnings = append(out.Warnings, "name match found but low confidence")
	}

	out.Validations.AmountValid = fields.Amount != nil && fields.Amount.IsPositive()
	if !out.Validations.AmountValid {
		out.Errors = append(out.Errors, "no positive amount could be extracted from receipt")
	} else if expected.ExpectedAmount != nil {
		diff := fields.Amount.Sub(*expected.ExpectedAmount).Abs()
		if diff.GreaterThan(amountTolerance) {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("extracted amount %s differs from expected %s",
					fields.Amount.StringFixed(2), expected.ExpectedAmount.StringFixed(2)))
		}
	}

	out.Validations.DateValid = fields.Date != ""
	if !out.Validations.DateValid {
		// Receipts without a parseable date are still accepted.
		out.Warnings = append(out.Warnings, "no date found on receipt")
	}

	out.Validations.FormatValid = scan.Confidence >= lowConfidenceThreshold
	if !out.Validations.FormatValid {
		out.Warnings = append(out.Warnings, "low quality scan")
	}

	out.IsValid = len(out.Errors) == 0
	return out
}

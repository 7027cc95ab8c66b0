package assess

import (
	"fmt"

	"dekontrol/internal/analysis"
)

// BuildReceiptAssessmentPrompt returns the assessment prompt for a scanned
// payment receipt, including the expected internship record the receipt
// should be checked against.
func BuildReceiptAssessmentPrompt(rawText string, expected analysis.ExpectedRecord) string {
	expectedAmount := "not specified"
	if expected.ExpectedAmount != nil {
		expectedAmount = expected.ExpectedAmount.StringFixed(2) + " TL"
	}

	return fmt.Sprintf(`You are a payment receipt verification assistant for a vocational school internship program. You will be given the raw OCR text of a Turkish bank payment receipt (dekont) and the internship record it is supposed to pay.

Internship record:
- Student name: %s %s
- Company: %s
- Payment period: %02d/%d
- Expected amount: %s

OCR text of the receipt:
---
%s
---

Assess the receipt independently:
- Does the text look like a genuine bank receipt, or does it show signs of tampering, fabrication or template reuse (inconsistent formatting, impossible dates, mismatched bank artifacts)?
- Is the data internally consistent (amounts, dates, sender/recipient names agree with each other)?
- Does the receipt plausibly correspond to the internship record above?

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation, following this schema exactly:
{
  "overall_reliability": 0.0,
  "data_validation": {
    "consistency": {
      "score": 0.0
    }
  },
  "security_assessment": {
    "forgery_risk": 0.0
  },
  "recommendation": ""
}

All scores are floats between 0.0 and 1.0. "overall_reliability" is your overall trust in the receipt (1.0 = fully trustworthy). "forgery_risk" is the probability the receipt is forged or tampered with (0.0 = no risk). "recommendation" is one short sentence for the human reviewer.`,
		expected.StudentName, expected.StudentSurname,
		expected.CompanyName,
		expected.PeriodMonth, expected.PeriodYear,
		expectedAmount,
		rawText,
	)
}

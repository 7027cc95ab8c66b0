package analysis

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpectedRecord is the ground truth for a single receipt, supplied by the
// caller from the internship record being paid against.
type ExpectedRecord struct {
	StudentName    string           `json:"student_name"`
	StudentSurname string           `json:"student_surname"`
	CompanyName    string           `json:"company_name"`
	PeriodMonth    int              `json:"period_month"`
	PeriodYear     int              `json:"period_year"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
}

// RawScanResult is the output of the external OCR engine for one scan attempt.
type RawScanResult struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"` // 0-100
	Words      []string `json:"words"`
	Lines      []string `json:"lines"`
}

// ExtractedFields holds the structured fields recovered from raw OCR text.
// Every field is optional; absence is handled by validation, not here.
type ExtractedFields struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Date          string           `json:"date,omitempty"`
	BankName      string           `json:"bank_name,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
	Description   string           `json:"description,omitempty"`
}

// NameMatchEvidence is the result of fuzzy-matching an expected name against
// receipt text. Found holds iff Matches is non-empty.
type NameMatchEvidence struct {
	Found      bool     `json:"found"`
	Matches    []string `json:"matches"`
	Confidence float64  `json:"confidence"` // 0-100, capped
}

// Validations holds the per-category boolean outcomes of receipt validation.
type Validations struct {
	NameMatch   bool `json:"name_match"`
	AmountValid bool `json:"amount_valid"`
	DateValid   bool `json:"date_valid"`
	FormatValid bool `json:"format_valid"`
}

// ValidationOutcome is the structured pass/warn/fail result for one receipt.
// IsValid holds iff Errors is empty; warnings never affect validity.
type ValidationOutcome struct {
	IsValid     bool        `json:"is_valid"`
	Warnings    []string    `json:"warnings"`
	Errors      []string    `json:"errors"`
	Validations Validations `json:"validations"`
}

// ConsistencyScore wraps the consistency score reported by the AI service.
type ConsistencyScore struct {
	Score float64 `json:"score"` // 0-1
}

// DataValidation groups the AI service's data-consistency assessment.
type DataValidation struct {
	Consistency ConsistencyScore `json:"consistency"`
}

// SecurityAssessment groups the AI service's forgery assessment.
type SecurityAssessment struct {
	ForgeryRisk float64 `json:"forgery_risk"` // 0-1
}

// ExternalAIAssessment is the opaque opinion returned by the external AI
// assessment service. The engine never interprets how it was computed.
type ExternalAIAssessment struct {
	OverallReliability float64            `json:"overall_reliability"` // 0-1
	DataValidation     DataValidation     `json:"data_validation"`
	SecurityAssessment SecurityAssessment `json:"security_assessment"`
	Recommendation     string             `json:"recommendation"`
}

// FlagSeverity classifies a security flag.
type FlagSeverity string

const (
	SeverityWarning FlagSeverity = "WARNING"
	SeverityError   FlagSeverity = "ERROR"
)

// Security flag type codes.
const (
	FlagLowOCRConfidence  = "LOW_OCR_CONFIDENCE"
	FlagHighForgeryRisk   = "HIGH_FORGERY_RISK"
	FlagDataInconsistency = "DATA_INCONSISTENCY"
)

// SecurityFlag is a discrete, typed finding surfaced alongside the
// reliability score for human review.
type SecurityFlag struct {
	Type     string       `json:"type"`
	Severity FlagSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// ScanSummary is the condensed view of a RawScanResult kept on the
// persisted analysis record.
type ScanSummary struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	WordCount  int     `json:"word_count"`
	LineCount  int     `json:"line_count"`
}

// AnalysisResult is the sole artifact the engine hands back. It is created
// once per analysis invocation and immediately passed to the caller for
// persistence; the engine keeps no copy.
type AnalysisResult struct {
	Timestamp          time.Time             `json:"timestamp"`
	RawScan            ScanSummary           `json:"raw_scan"`
	ExtractedFields    ExtractedFields       `json:"extracted_fields"`
	AIAssessment       *ExternalAIAssessment `json:"ai_assessment,omitempty"`
	SecurityFlags      []SecurityFlag        `json:"security_flags"`
	OverallReliability float64               `json:"overall_reliability"` // 0-1
	AnalysisVersion    string                `json:"analysis_version"`
	PerformedBy        string                `json:"performed_by"`
}

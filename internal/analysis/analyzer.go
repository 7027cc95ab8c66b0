package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version stamped onto every AnalysisResult. Bump when the scoring policy or
// extraction patterns change in a way reviewers should be able to tell apart.
const Version = "2.1"

var (
	// ErrEmptyScanText is returned when the OCR engine produced no usable text.
	ErrEmptyScanText = errors.New("scan produced no text")
	// ErrMissingExpectedName is returned when the expected record lacks the
	// student name required for matching.
	ErrMissingExpectedName = errors.New("expected record is missing student name")
)

// OCREngine converts receipt bytes into raw text with a confidence figure.
// Implementations must fail on unreadable input rather than return a
// low-confidence zero result.
type OCREngine interface {
	Scan(ctx context.Context, fileBytes []byte, fileName string) (*RawScanResult, error)
}

// AIAssessor returns an independent reliability opinion for a scanned
// receipt. Implementations must fail explicitly on service errors: a
// silently-defaulted forgery risk of 0 would inflate trust.
type AIAssessor interface {
	Assess(ctx context.Context, rawText string, expected ExpectedRecord) (*ExternalAIAssessment, error)
}

// Analyzer runs the full extraction/validation/scoring pipeline for one
// receipt. It holds no state between invocations and is safe for concurrent
// use across receipts.
type Analyzer struct {
	ocr         OCREngine
	assessor    AIAssessor
	performedBy string
}

// NewAnalyzer wires the external collaborators into an Analyzer. assessor may
// be nil when no AI service is configured; scoring then degrades gracefully
// to the OCR-confidence term alone.
func NewAnalyzer(ocr OCREngine, assessor AIAssessor, performedBy string) *Analyzer {
	return &Analyzer{
		ocr:         ocr,
		assessor:    assessor,
		performedBy: performedBy,
	}
}

// Analyze scans the receipt bytes, extracts fields, obtains the AI assessment
// and produces the final AnalysisResult. Collaborator failures propagate as
// errors; no partial or defaulted score is ever returned.
func (a *Analyzer) Analyze(ctx context.Context, fileBytes []byte, fileName string, expected ExpectedRecord) (*AnalysisResult, error) {
	if strings.TrimSpace(expected.StudentName) == "" || strings.TrimSpace(expected.StudentSurname) == "" {
		return nil, ErrMissingExpectedName
	}

	scan, err := a.ocr.Scan(ctx, fileBytes, fileName)
	if err != nil {
		return nil, fmt.Errorf("ocr scan: %w", err)
	}
	if strings.TrimSpace(scan.Text) == "" {
		return nil, ErrEmptyScanText
	}

	fields := ExtractFields(scan.Text)

	var assessment *ExternalAIAssessment
	if a.assessor != nil {
		assessment, err = a.assessor.Assess(ctx, scan.Text, expected)
		if err != nil {
			return nil, fmt.Errorf("ai assessment: %w", err)
		}
	}

	score, flags := Score(scan.Confidence, assessment, fields, expected)

	return &AnalysisResult{
		Timestamp: time.Now().UTC(),
		RawScan: ScanSummary{
			Text:       scan.Text,
			Confidence: scan.Confidence,
			WordCount:  len(scan.Words),
			LineCount:  len(scan.Lines),
		},
		ExtractedFields:    fields,
		AIAssessment:       assessment,
		SecurityFlags:      flags,
		OverallReliability: score,
		AnalysisVersion:    Version,
		PerformedBy:        a.performedBy,
	}, nil
}

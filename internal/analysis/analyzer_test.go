package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/analysis"
	"dekontrol/mocks"
)

const scenarioText = "Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır 25.07.2025"

func TestAnalyzer_Analyze_Success(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	assessor := new(mocks.MockAIAssessor)

	scan := &analysis.RawScanResult{
		Text:       scenarioText,
		Confidence: 88,
		Words:      []string{"Ahmet", "Yılmaz'a", "350.75", "TL", "ödeme", "yapılmıştır", "25.07.2025"},
		Lines:      []string{scenarioText},
	}
	ocr.On("Scan", mock.Anything, []byte("receipt-bytes"), "dekont.pdf").Return(scan, nil)
	assessor.On("Assess", mock.Anything, scenarioText, mock.Anything).
		Return(assessment(0.9, 0.85, 0.05), nil)

	a := analysis.NewAnalyzer(ocr, assessor, "engine")
	result, err := a.Analyze(context.Background(), []byte("receipt-bytes"), "dekont.pdf", expectedRecord("350.75"))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 7, result.RawScan.WordCount)
	assert.Equal(t, 1, result.RawScan.LineCount)
	assert.Equal(t, float64(88), result.RawScan.Confidence)
	require.NotNil(t, result.ExtractedFields.Amount)
	assert.Equal(t, "350.75", result.ExtractedFields.Amount.StringFixed(2))
	assert.Equal(t, "25.07.2025", result.ExtractedFields.Date)
	assert.NotNil(t, result.AIAssessment)
	assert.GreaterOrEqual(t, result.OverallReliability, 0.0)
	assert.LessOrEqual(t, result.OverallReliability, 1.0)
	assert.Equal(t, analysis.Version, result.AnalysisVersion)
	assert.Equal(t, "engine", result.PerformedBy)
	assert.False(t, result.Timestamp.IsZero())

	ocr.AssertExpectations(t)
	assessor.AssertExpectations(t)
}

func TestAnalyzer_Analyze_NoAssessorDegradesGracefully(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	ocr.On("Scan", mock.Anything, mock.Anything, mock.Anything).
		Return(&analysis.RawScanResult{Text: scenarioText, Confidence: 45}, nil)

	a := analysis.NewAnalyzer(ocr, nil, "engine")
	result, err := a.Analyze(context.Background(), []byte("x"), "dekont.jpg", expectedRecord(""))

	require.NoError(t, err)
	assert.Nil(t, result.AIAssessment)
	assert.InDelta(t, 0.45, result.OverallReliability, 1e-9)
	require.Len(t, result.SecurityFlags, 1)
	assert.Equal(t, analysis.FlagLowOCRConfidence, result.SecurityFlags[0].Type)
}

func TestAnalyzer_Analyze_OCRFailurePropagates(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	scanErr := errors.New("unreadable input")
	ocr.On("Scan", mock.Anything, mock.Anything, mock.Anything).Return(nil, scanErr)

	a := analysis.NewAnalyzer(ocr, nil, "engine")
	result, err := a.Analyze(context.Background(), []byte("x"), "dekont.pdf", expectedRecord(""))

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, scanErr)
}

func TestAnalyzer_Analyze_AssessorFailurePropagates(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	assessor := new(mocks.MockAIAssessor)
	ocr.On("Scan", mock.Anything, mock.Anything, mock.Anything).
		Return(&analysis.RawScanResult{Text: scenarioText, Confidence: 90}, nil)
	assessErr := errors.New("service unavailable")
	assessor.On("Assess", mock.Anything, mock.Anything, mock.Anything).Return(nil, assessErr)

	a := analysis.NewAnalyzer(ocr, assessor, "engine")
	result, err := a.Analyze(context.Background(), []byte("x"), "dekont.pdf", expectedRecord(""))

	require.Error(t, err)
	assert.Nil(t, result, "a failed assessment must never produce a defaulted score")
	assert.ErrorIs(t, err, assessErr)
}

func TestAnalyzer_Analyze_EmptyScanText(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	ocr.On("Scan", mock.Anything, mock.Anything, mock.Anything).
		Return(&analysis.RawScanResult{Text: "   ", Confidence: 70}, nil)

	a := analysis.NewAnalyzer(ocr, nil, "engine")
	_, err := a.Analyze(context.Background(), []byte("x"), "dekont.pdf", expectedRecord(""))

	assert.ErrorIs(t, err, analysis.ErrEmptyScanText)
}

func TestAnalyzer_Analyze_MissingExpectedName(t *testing.T) {
	a := analysis.NewAnalyzer(new(mocks.MockOCREngine), nil, "engine")

	_, err := a.Analyze(context.Background(), []byte("x"), "dekont.pdf", analysis.ExpectedRecord{})

	assert.ErrorIs(t, err, analysis.ErrMissingExpectedName)
}

package analysis_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/analysis"
)

func expectedRecord(amount string) analysis.ExpectedRecord {
	rec := analysis.ExpectedRecord{
		StudentName:    "Ahmet",
		StudentSurname: "Yılmaz",
		CompanyName:    "Özkan Makine",
		PeriodMonth:    7,
		PeriodYear:     2025,
	}
	if amount != "" {
		d := decimal.RequireFromString(amount)
		rec.ExpectedAmount = &d
	}
	return rec
}

func TestValidate_AllCategoriesPass(t *testing.T) {
	scan := &analysis.RawScanResult{
		Text:       "Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır 25.07.2025",
		Confidence: 92,
	}

	out := analysis.Validate(scan, expectedRecord("350.75"))

	assert.True(t, out.IsValid)
	assert.Empty(t, out.Errors)
	assert.Empty(t, out.Warnings)
	assert.True(t, out.Validations.NameMatch)
	assert.True(t, out.Validations.AmountValid)
	assert.True(t, out.Validations.DateValid)
	assert.True(t, out.Validations.FormatValid)
}

func TestValidate_AmountMismatchIsWarningOnly(t *testing.T) {
	// Extracted 1000.02 vs expected 1000.00: over the 0.01 tolerance,
	// but a mismatch degrades trust without rejecting.
	scan := &analysis.RawScanResult{
		Text:       "Ahmet Yılmaz Tutar: 1.000,02 TL 25.07.2025",
		Confidence: 90,
	}

	out := analysis.Validate(scan, expectedRecord("1000.00"))

	assert.True(t, out.Validations.AmountValid)
	assert.True(t, out.IsValid)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "differs from expected")
}

func TestValidate_AmountWithinTolerance(t *testing.T) {
	scan := &analysis.RawScanResult{
		Text:       "Ahmet Yılmaz Tutar: 1.000,01 TL 25.07.2025",
		Confidence: 90,
	}

	out := analysis.Validate(scan, expectedRecord("1000.00"))

	assert.True(t, out.Validations.AmountValid)
	assert.Empty(t, out.Warnings)
}

func TestValidate_NameNotFoundIsError(t *testing.T) {
	scan := &analysis.RawScanResult{
		Text:       "ilgisiz bir gönderici 350.75 TL 25.07.2025",
		Confidence: 90,
	}

	out := analysis.Validate(scan, expectedRecord(""))

	assert.False(t, out.Validations.NameMatch)
	assert.False(t, out.IsValid)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0], "not found in receipt text")
}

func TestValidate_MissingAmountIsError(t *testing.T) {
	scan := &analysis.RawScanResult{
		Text:       "Ahmet Yılmaz adına işlem 25.07.2025",
		Confidence: 90,
	}

	out := analysis.Validate(scan, expectedRecord(""))

	assert.False(t, out.Validations.AmountValid)
	assert.False(t, out.IsValid)
}

func TestValidate_MissingDateIsWarningOnly(t *testing.T) {
	scan := &analysis.RawScanResult{
		Text:       "Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır",
		Confidence: 90,
	}

	out := analysis.Validate(scan, expectedRecord(""))

	assert.False(t, out.Validations.DateValid)
	assert.True(t, out.IsValid, "a receipt without a date is still accepted")
	assert.Contains(t, out.Warnings, "no date found on receipt")
}

func TestValidate_LowConfidenceScan(t *testing.T) {
	scan := &analysis.RawScanResult{
		Text:       "Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır 25.07.2025",
		Confidence: 45,
	}

	out := analysis.Validate(scan, expectedRecord(""))

	assert.False(t, out.Validations.FormatValid)
	assert.True(t, out.IsValid)
	assert.Contains(t, out.Warnings, "low quality scan")
}

func TestCheckScan(t *testing.T) {
	t.Run("clean_scan", func(t *testing.T) {
		out := analysis.CheckScan(&analysis.RawScanResult{
			Text:       "350.75 TL 25.07.2025",
			Confidence: 80,
		})
		assert.True(t, out.IsValid)
		assert.Empty(t, out.Warnings)
	})

	t.Run("low_confidence_warns", func(t *testing.T) {
		out := analysis.CheckScan(&analysis.RawScanResult{
			Text:       "350.75 TL 25.07.2025",
			Confidence: 40,
		})
		assert.True(t, out.IsValid)
		assert.Contains(t, out.Warnings, "low OCR confidence, manual review advised")
	})

	t.Run("missing_amount_errors", func(t *testing.T) {
		out := analysis.CheckScan(&analysis.RawScanResult{
			Text:       "tutarsız metin 25.07.2025",
			Confidence: 80,
		})
		assert.False(t, out.IsValid)
		require.NotEmpty(t, out.Errors)
	})
}

package analysis_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/analysis"
)

func TestExtractFields_Amount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"currency_suffix_with_decimals", "Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır", "350.75"},
		{"currency_symbol", "Tutar 1.250,00 ₺ olarak işlenmiştir", "1250.00"},
		{"labeled_amount", "Toplam: 2.500,00", "2500.00"},
		{"labeled_amount_english", "Total: 950,50", "950.50"},
		{"bare_amount_with_tl", "Gönderilen 500 TL", "5.00"},
		{"thousands_separator_heuristic", "Tutar: 1.000", "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := analysis.ExtractFields(tt.text)
			require.NotNil(t, fields.Amount)
			assert.Equal(t, tt.want, fields.Amount.StringFixed(2))
		})
	}
}

func TestExtractFields_AmountAbsent(t *testing.T) {
	fields := analysis.ExtractFields("bu metinde herhangi bir tutar yok")
	assert.Nil(t, fields.Amount)
}

func TestExtractFields_Date(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dotted_dmy", "ödeme tarihi 25.07.2025 olarak kayıtlı", "25.07.2025"},
		{"slashed_dmy", "25/07/2025 tarihinde", "25/07/2025"},
		{"hyphen_short_year", "tarih 25-07-25", "25-07-25"},
		{"iso_shape", "işlem 2025-07-25 günü yapıldı", "2025-07-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := analysis.ExtractFields(tt.text)
			assert.Equal(t, tt.want, fields.Date, "matched substring is stored verbatim")
		})
	}
}

func TestExtractFields_BankName(t *testing.T) {
	fields := analysis.ExtractFields("GARANTİ bankası üzerinden havale")
	assert.Equal(t, "Garanti BBVA", fields.BankName)

	fields = analysis.ExtractFields("Ziraat Bankası ATM dekontu")
	assert.Equal(t, "Ziraat Bankası", fields.BankName)

	fields = analysis.ExtractFields("bilinmeyen banka")
	assert.Empty(t, fields.BankName)
}

func TestExtractFields_AccountNumber(t *testing.T) {
	fields := analysis.ExtractFields("Hesap No: 1234 5678 9012 3456")
	assert.Equal(t, "1234567890123456", fields.AccountNumber)

	fields = analysis.ExtractFields("IBAN TR 1234-5678-9012-3456")
	assert.Equal(t, "1234567890123456", fields.AccountNumber)

	// no label, no match
	fields = analysis.ExtractFields("1234 5678 9012 3456")
	assert.Empty(t, fields.AccountNumber)
}

func TestExtractFields_Description(t *testing.T) {
	fields := analysis.ExtractFields("Açıklama: Temmuz ayı staj ücreti ödemesi\nkalan satır")
	assert.Equal(t, "Temmuz ayı staj ücreti ödemesi", fields.Description)
}

func TestExtractFields_Idempotent(t *testing.T) {
	text := "Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır 25.07.2025"
	first := analysis.ExtractFields(text)
	second := analysis.ExtractFields(text)

	require.NotNil(t, first.Amount)
	require.NotNil(t, second.Amount)
	assert.True(t, first.Amount.Equal(*second.Amount))
	assert.Equal(t, first.Date, second.Date)
	assert.Equal(t, first.BankName, second.BankName)
	assert.Equal(t, first.AccountNumber, second.AccountNumber)
	assert.Equal(t, first.Description, second.Description)
}

func TestExtractFields_ScenarioText(t *testing.T) {
	fields := analysis.ExtractFields("Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır 25.07.2025")

	require.NotNil(t, fields.Amount)
	assert.True(t, fields.Amount.Equal(decimal.NewFromFloat(350.75)))
	assert.Equal(t, "25.07.2025", fields.Date)
}

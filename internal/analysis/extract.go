package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Pattern order encodes priority: the most specific, currency-qualified
// pattern is tried first and the first match wins. Append new patterns at
// the end; never fold these into one combined expression.
var amountPatterns = []*regexp.Regexp{
	// decimal-qualified number with a currency suffix, e.g. "350.75 TL"
	regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d{3})*[.,]\d{2})\s*(?:TL|₺|lira)`),
	// labeled amount, e.g. "Tutar: 1.250,00"
	regexp.MustCompile(`(?i)(?:toplam|tutar|amount|total)\s*:?\s*(\d[\d.,]*)`),
	// bare number with a currency suffix, e.g. "500 TL"
	regexp.MustCompile(`(?i)(\d[\d.,]*)\s*(?:TL|₺)`),
}

// Day-first shapes are tried before ISO since Turkish receipts overwhelmingly
// print DD.MM.YYYY. The matched substring is stored verbatim.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[./-]\d{1,2}[./-]\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2}[./-]\d{1,2}[./-]\d{2})\b`),
	regexp.MustCompile(`\b(\d{4}[./-]\d{1,2}[./-]\d{1,2})\b`),
}

// bankAliases maps lowercase substrings to the canonical bank name.
// Order matters: the first alias found in the text wins.
var bankAliases = []struct {
	alias     string
	canonical string
}{
	{"ziraat", "Ziraat Bankası"},
	{"garanti", "Garanti BBVA"},
	{"iş bankası", "Türkiye İş Bankası"},
	{"is bankasi", "Türkiye İş Bankası"},
	{"işbank", "Türkiye İş Bankası"},
	{"akbank", "Akbank"},
	{"yapı kredi", "Yapı Kredi"},
	{"yapi kredi", "Yapı Kredi"},
	{"halkbank", "Halkbank"},
	{"vakıfbank", "VakıfBank"},
	{"vakifbank", "VakıfBank"},
	{"denizbank", "DenizBank"},
	{"qnb", "QNB Finansbank"},
	{"finansbank", "QNB Finansbank"},
	{"teb", "TEB"},
	{"şekerbank", "Şekerbank"},
	{"kuveyt türk", "Kuveyt Türk"},
	{"enpara", "Enpara"},
	{"ing", "ING"},
}

var accountPattern = regexp.MustCompile(
	`(?i)(?:hesap|account|iban)\D{0,12}((?:\d{4}[ -]?){3}\d{4})`)

var descriptionPattern = regexp.MustCompile(
	`(?i)(?:açıklama|referans|ref|memo|transfer|havale|ödeme)\s*:?\s*([^\n]{10,50})`)

// ExtractFields converts raw OCR text into structured receipt fields using
// ordered first-match-wins pattern lists. Every field is independently
// optional; a field that matches nothing is simply left zero.
func ExtractFields(text string) ExtractedFields {
	fields := ExtractedFields{}

	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if amount, ok := parseAmount(m[1]); ok {
			fields.Amount = &amount
			break
		}
	}

	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			fields.Date = m[1]
			break
		}
	}

	lower := strings.ToLower(text)
	for _, b := range bankAliases {
		if strings.Contains(lower, b.alias) {
			fields.BankName = b.canonical
			break
		}
	}

	if m := accountPattern.FindStringSubmatch(text); m != nil {
		fields.AccountNumber = strings.NewReplacer(" ", "", "-", "").Replace(m[1])
	}

	if m := descriptionPattern.FindStringSubmatch(text); m != nil {
		fields.Description = strings.TrimSpace(m[1])
	}

	return fields
}

// parseAmount interprets a matched numeric string as integer major units with
// a fixed 2-digit minor-unit suffix: grouping separators are stripped and the
// last two digits of the remaining digit string are always treated as kuruş.
//
// Known limitation, kept deliberately: an amount printed with a thousands
// separator but no decimal part ("1.000") parses as 10.00. Downstream
// consumers depend on this heuristic; do not "fix" it here.
func parseAmount(s string) (decimal.Decimal, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 || digits.Len() > 15 {
		return decimal.Decimal{}, false
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return decimal.New(n, -2), true
}

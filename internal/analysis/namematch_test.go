package analysis_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"dekontrol/internal/analysis"
)

func TestMatchName_ExactFullName(t *testing.T) {
	ev := analysis.MatchName("Ahmet Yılmaz'a 350.75 TL ödeme yapılmıştır 25.07.2025", "Ahmet", "Yılmaz")

	assert.True(t, ev.Found)
	assert.GreaterOrEqual(t, ev.Confidence, float64(50))
	assert.Contains(t, ev.Matches, "exact full name found")
}

func TestMatchName_BothOrdersAccumulate(t *testing.T) {
	// Both orders present: each exact signal fires independently.
	ev := analysis.MatchName("ahmet yılmaz ... yılmaz ahmet", "Ahmet", "Yılmaz")

	assert.True(t, ev.Found)
	assert.Contains(t, ev.Matches, "exact full name found")
	assert.Contains(t, ev.Matches, "exact reversed full name found")
	// 50 + 50 + fuzzy token hits, capped.
	assert.Equal(t, float64(100), ev.Confidence)
}

func TestMatchName_SplitName(t *testing.T) {
	ev := analysis.MatchName("gönderen ahmet bey, alıcı hesap sahibi yılmaz", "Ahmet", "Yılmaz")

	assert.True(t, ev.Found)
	assert.Contains(t, ev.Matches, "first and last name found separately")
}

func TestMatchName_OnlyOneName(t *testing.T) {
	ev := analysis.MatchName("gönderen ahmet bey", "Ahmet", "Kaya")

	assert.True(t, ev.Found)
	assert.Contains(t, ev.Matches, "first name found")

	ev = analysis.MatchName("hesap sahibi kaya", "Ahmet", "Kaya")
	assert.True(t, ev.Found)
	assert.Contains(t, ev.Matches, "last name found")
}

func TestMatchName_FuzzyToken(t *testing.T) {
	// OCR misread: "yilmaz" for "yılmaz" is distance 1, under 30% of 6.
	ev := analysis.MatchName("gönderen yilmaz", "Ahmet", "Yılmaz")

	assert.True(t, ev.Found)
	found := false
	for _, m := range ev.Matches {
		if strings.Contains(m, "close match") {
			found = true
		}
	}
	assert.True(t, found, "expected fuzzy evidence, got %v", ev.Matches)
}

func TestMatchName_NoMatch(t *testing.T) {
	ev := analysis.MatchName("tamamen alakasız bir dekont metni", "Ahmet", "Yılmaz")

	assert.False(t, ev.Found)
	assert.Empty(t, ev.Matches)
	assert.Zero(t, ev.Confidence)
}

func TestMatchName_FoundTracksEvidence(t *testing.T) {
	texts := []string{
		"",
		"ahmet yılmaz",
		"sadece ahmet",
		"hiçbir isim yok burada",
		"yilmaz ahmed yakın yazımlar",
	}
	for _, text := range texts {
		ev := analysis.MatchName(text, "Ahmet", "Yılmaz")
		assert.Equal(t, len(ev.Matches) > 0, ev.Found, "text %q", text)
	}
}

func TestMatchName_ConfidenceClamped(t *testing.T) {
	// A text stuffed with repetitions must still cap at 100.
	text := strings.Repeat("ahmet yılmaz ", 30)
	ev := analysis.MatchName(text, "Ahmet", "Yılmaz")

	assert.True(t, ev.Found)
	assert.Equal(t, float64(100), ev.Confidence)
	assert.LessOrEqual(t, ev.Confidence, float64(100))
}

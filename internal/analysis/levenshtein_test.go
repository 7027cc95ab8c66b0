package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dekontrol/internal/analysis"
)

func TestLevenshtein_Distances(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"both_empty", "", "", 0},
		{"empty_left", "", "ahmet", 5},
		{"empty_right", "ahmet", "", 5},
		{"identical", "yılmaz", "yılmaz", 0},
		{"single_substitution", "ahmet", "ahmed", 1},
		{"single_insertion", "yılmaz", "yılmaza", 1},
		{"transposition_counts_two", "ahmet", "ahmte", 2},
		{"turkish_runes_count_once", "ışık", "isik", 3},
		{"classic_kitten_sitting", "kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.Levenshtein(tt.a, tt.b))
		})
	}
}

func TestLevenshtein_IdentityAndSymmetry(t *testing.T) {
	samples := []string{"", "a", "ahmet", "yılmaz", "öğrenci adı soyadı"}

	for _, s := range samples {
		assert.Zero(t, analysis.Levenshtein(s, s), "distance to self must be 0 for %q", s)
	}
	for _, a := range samples {
		for _, b := range samples {
			assert.Equal(t, analysis.Levenshtein(a, b), analysis.Levenshtein(b, a),
				"symmetry must hold for %q/%q", a, b)
		}
	}
}

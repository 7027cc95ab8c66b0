package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

// nameMatchThresholds used by MatchName. The additive-then-cap scheme is a
// fixed policy: independent corroborating signals accumulate instead of being
// averaged, and the running total is capped at 100 at the end.
const (
	scoreFullName     = 50
	scoreSplitName    = 30
	scoreSingleName   = 15
	scoreFuzzyToken   = 10
	maxNameConfidence = 100

	fuzzyMaxDistance  = 2
	fuzzyMaxRelative  = 0.3
	fuzzyMinTokenLen  = 3
)

// nonNameChars strips everything outside the extended Latin/Turkish alphabet
// and whitespace before matching.
var nonNameChars = regexp.MustCompile(`[^a-zçğıöşüâîûéèêëäïô\s]+`)

var whitespaceRun = regexp.MustCompile(`\s+`)

func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = nonNameChars.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MatchName determines whether the expected student name appears in the raw
// receipt text, exactly, split across the text, or approximately. Confidence
// accumulates additively across all independent signals and is capped at 100.
func MatchName(text, firstName, lastName string) NameMatchEvidence {
	norm := normalizeName(text)
	first := normalizeName(firstName)
	last := normalizeName(lastName)

	var (
		confidence float64
		matches    []string
	)

	wholeNameFound := false
	if first != "" && last != "" {
		if strings.Contains(norm, first+" "+last) {
			confidence += scoreFullName
			matches = append(matches, "exact full name found")
			wholeNameFound = true
		}
		if strings.Contains(norm, last+" "+first) {
			confidence += scoreFullName
			matches = append(matches, "exact reversed full name found")
			wholeNameFound = true
		}
	}

	if !wholeNameFound {
		firstFound := first != "" && strings.Contains(norm, first)
		lastFound := last != "" && strings.Contains(norm, last)
		switch {
		case firstFound && lastFound:
			confidence += scoreSplitName
			matches = append(matches, "first and last name found separately")
		case firstFound:
			confidence += scoreSingleName
			matches = append(matches, "first name found")
		case lastFound:
			confidence += scoreSingleName
			matches = append(matches, "last name found")
		}
	}

	for _, token := range strings.Fields(norm) {
		if len([]rune(token)) < fuzzyMinTokenLen {
			continue
		}
		if isFuzzyMatch(token, first) {
			confidence += scoreFuzzyToken
			matches = append(matches, fmt.Sprintf("close match %q for first name", token))
		}
		if isFuzzyMatch(token, last) {
			confidence += scoreFuzzyToken
			matches = append(matches, fmt.Sprintf("close match %q for last name", token))
		}
	}

	if confidence > maxNameConfidence {
		confidence = maxNameConfidence
	}

	return NameMatchEvidence{
		Found:      len(matches) > 0,
		Matches:    matches,
		Confidence: confidence,
	}
}

// isFuzzyMatch reports whether token is within edit distance 2 of target AND
// the distance stays under 30% of the target length. The relative bound keeps
// short names from matching everything.
func isFuzzyMatch(token, target string) bool {
	if target == "" {
		return false
	}
	d := Levenshtein(token, target)
	return d <= fuzzyMaxDistance && float64(d) < fuzzyMaxRelative*float64(len([]rune(target)))
}

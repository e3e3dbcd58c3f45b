package services

import (
	"strings"
	"unicode"
)

// Stop-Wörter: juristische und organisatorische Suffixe, die bei Firmennamen
// mehr variieren als der substanzielle Namensteil.
var nameStopWords = map[string]struct{}{
	"llc": {}, "lp": {}, "inc": {}, "fund": {}, "partners": {},
	"capital": {}, "ventures": {}, "advisors": {}, "holdings": {},
	"group": {}, "management": {}, "the": {}, "corp": {},
}

// duplicateThreshold ist der Score, ab dem die Verification-Stufe einen
// Kandidaten als Duplikat eines bestehenden Eintrags wertet.
const duplicateThreshold = 0.8

// NormalizeFirmName normalisiert einen Organisationsnamen für den Vergleich:
// lowercase, Nicht-Alphanumerisches raus, Stop-Wörter entfernen, Whitespace
// kollabieren. Idempotent.
func NormalizeFirmName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	var kept []string
	for _, word := range strings.Fields(b.String()) {
		if _, stop := nameStopWords[word]; !stop {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// SameFirm ist der boolesche Matcher der Merge-Stufe: exakte Gleichheit der
// normalisierten Namen oder Containment. Die Länge-3-Schranke schützt vor
// False Positives bei kurzen Allerweltsnamen.
func SameFirm(a, b string) bool {
	na, nb := NormalizeFirmName(a), NormalizeFirmName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	return containsLongEnough(na, nb)
}

// FirmSimilarity liefert den Score der Verification-Stufe in [0,1]:
// exakt = 1.0, Containment = 0.8, sonst Jaccard über die Wortmengen.
func FirmSimilarity(a, b string) float64 {
	na, nb := NormalizeFirmName(a), NormalizeFirmName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if containsLongEnough(na, nb) {
		return 0.8
	}
	return jaccard(strings.Fields(na), strings.Fields(nb))
}

// IsDuplicateName meldet, ob ein Similarity-Score als Duplikat zählt.
func IsDuplicateName(score float64) bool {
	return score >= duplicateThreshold
}

func containsLongEnough(na, nb string) bool {
	if len(na) <= 3 || len(nb) <= 3 {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for _, w := range a {
		union[w] = struct{}{}
	}
	var intersect int
	for _, w := range b {
		if _, ok := set[w]; ok {
			intersect++
		}
		union[w] = struct{}{}
	}
	return float64(intersect) / float64(len(union))
}

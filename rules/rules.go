// Package rules lädt die Regel-Tabellen des Non-VC-Klassifikators. Die Tabellen
// sind Daten, kein Code: eingebettete Defaults, optional via RULES_FILE durch
// eine kuratierte YAML-Datei ersetzbar.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// RuleSet enthält die kompilierten Regel-Tabellen. Auswertungsreihenfolge in
// IsNonVC: Exclusion-Liste > Positiv-Patterns > Negativ-Patterns > Default-Keep.
type RuleSet struct {
	exclusions map[string]struct{}
	positive   []*regexp.Regexp
	negative   []*regexp.Regexp
}

type ruleFile struct {
	Exclusions       []string `yaml:"exclusions"`
	PositivePatterns []string `yaml:"positive_patterns"`
	NegativePatterns []string `yaml:"negative_patterns"`
}

// Load lädt die Regel-Tabellen. Ein leerer Pfad liefert die eingebetteten Defaults.
func Load(path string) (*RuleSet, error) {
	data := defaultRules
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("rules file %s: %w", path, err)
		}
		data = b
	}
	return parse(data)
}

// Default liefert die eingebetteten Regel-Tabellen.
func Default() (*RuleSet, error) {
	return parse(defaultRules)
}

func parse(data []byte) (*RuleSet, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	rs := &RuleSet{exclusions: make(map[string]struct{}, len(rf.Exclusions))}
	for _, name := range rf.Exclusions {
		rs.exclusions[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	for _, pat := range rf.PositivePatterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("positive pattern %q: %w", pat, err)
		}
		rs.positive = append(rs.positive, re)
	}
	for _, pat := range rf.NegativePatterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("negative pattern %q: %w", pat, err)
		}
		rs.negative = append(rs.negative, re)
	}
	return rs, nil
}

// IsNonVC entscheidet, ob ein Firmenname als "kein Venture-Investor" aus dem
// Directory auszuschließen ist. First match wins:
//  1. exakter Treffer auf der kuratierten Exclusion-Liste -> ausschließen
//  2. Positiv-Pattern (venture/seed/accelerator/...) -> behalten, Kurzschluss
//  3. Negativ-Pattern (credit/hedge/real estate/buyout/...) -> ausschließen
//  4. Default: behalten
func (rs *RuleSet) IsNonVC(firmName string) (bool, string) {
	name := strings.TrimSpace(firmName)
	if name == "" {
		return false, ""
	}
	if _, ok := rs.exclusions[strings.ToLower(name)]; ok {
		return true, "exclusion list"
	}
	for _, re := range rs.positive {
		if re.MatchString(name) {
			return false, ""
		}
	}
	for _, re := range rs.negative {
		if re.MatchString(name) {
			return true, "pattern: " + re.String()
		}
	}
	return false, ""
}

// Counts meldet die Tabellen-Größen für Log-Ausgaben.
func (rs *RuleSet) Counts() (exclusions, positive, negative int) {
	return len(rs.exclusions), len(rs.positive), len(rs.negative)
}

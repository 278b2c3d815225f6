package clinical

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const riskRulesEnv = "RISK_RULES_FILE"

//go:embed risk_rules.yaml
var defaultRiskRules []byte

// Rules are the lexicons and thresholds the analyzer applies.
type Rules struct {
	Version             int        `yaml:"version"`
	CrisisKeywords      []string   `yaml:"crisis_keywords"`
	HighConcernKeywords []string   `yaml:"high_concern_keywords"`
	Thresholds          Thresholds `yaml:"thresholds"`
}

type Thresholds struct {
	// HighConcernMatches is how many distinct high-concern phrases escalate to high.
	HighConcernMatches int `yaml:"high_concern_matches"`
	// LowMoodBelow flags a 7-day average mood strictly below this value.
	LowMoodBelow float64 `yaml:"low_mood_below"`
	// HighStressAbove flags a 7-day average stress strictly above this value.
	HighStressAbove float64 `yaml:"high_stress_above"`
	// ConversationMessages is the user-message count that forces a routine note.
	ConversationMessages int `yaml:"conversation_messages"`
}

// DefaultRules returns the compiled-in rule set.
func DefaultRules() Rules {
	r, err := parseRules(defaultRiskRules)
	if err != nil {
		panic(fmt.Sprintf("clinical: embedded risk rules invalid: %v", err))
	}
	return r
}

// LoadRules reads the file named by RISK_RULES_FILE, or falls back to the compiled-in set.
func LoadRules() (Rules, error) {
	path := strings.TrimSpace(os.Getenv(riskRulesEnv))
	if path == "" {
		return DefaultRules(), nil
	}
	return LoadRulesFile(path)
}

// LoadRulesFile overlays the YAML at path on the defaults. Lists present in the file replace
// the default lists; missing thresholds keep their defaults.
func LoadRulesFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read risk rules: %w", err)
	}
	r := DefaultRules()
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("parse risk rules: %w", err)
	}
	r.normalize()
	if err := r.validate(); err != nil {
		return Rules{}, fmt.Errorf("risk rules %s: %w", path, err)
	}
	return r, nil
}

func parseRules(data []byte) (Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, err
	}
	r.normalize()
	return r, r.validate()
}

func (r *Rules) normalize() {
	r.CrisisKeywords = normalizeKeywords(r.CrisisKeywords)
	r.HighConcernKeywords = normalizeKeywords(r.HighConcernKeywords)
}

func (r Rules) validate() error {
	if len(r.CrisisKeywords) == 0 {
		return errors.New("crisis_keywords must not be empty")
	}
	if r.Thresholds.HighConcernMatches <= 0 {
		return errors.New("thresholds.high_concern_matches must be positive")
	}
	if r.Thresholds.ConversationMessages <= 0 {
		return errors.New("thresholds.conversation_messages must be positive")
	}
	return nil
}

func normalizeKeywords(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

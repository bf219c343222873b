package signals

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Overrides extends the built-in dictionaries from a YAML file so that
// operators can track additional companies or phrases without a rebuild.
// Entries are appended to the compiled-in lists, never replacing them.
type Overrides struct {
	BigTech           []string `yaml:"big_tech"`
	BuildingPhrases   []string `yaml:"building_phrases"`
	PriorityCompanies []string `yaml:"priority_companies"`
}

// LoadOverrides reads an overrides file. A missing path returns empty
// overrides rather than an error; the built-in dictionaries always apply.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return &Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overrides{}, nil
		}
		return nil, eris.Wrapf(err, "signals: read overrides %s", path)
	}

	var wrapper struct {
		Signals Overrides `yaml:"signals"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "signals: parse overrides")
	}
	return &wrapper.Signals, nil
}

// ExtendedBigTech returns the built-in big-tech list plus overrides.
func (o *Overrides) ExtendedBigTech() []string {
	return extend(BigTech, o.BigTech)
}

// ExtendedOrchestratorBigTech returns the orchestrator company list plus
// overrides.
func (o *Overrides) ExtendedOrchestratorBigTech() []string {
	return extend(OrchestratorBigTech, o.BigTech)
}

// ClassifierPhraseMatcher builds a matcher over the classifier phrase
// dictionary plus overrides. Without overrides the shared matcher is
// reused.
func (o *Overrides) ClassifierPhraseMatcher() *PhraseMatcher {
	if len(o.BuildingPhrases) == 0 {
		return ClassifierMatcher()
	}
	return NewPhraseMatcher(extend(ClassifierBuildingPhrases, o.BuildingPhrases))
}

// OrchestratorPhraseMatcher builds a matcher over the orchestrator phrase
// dictionary plus overrides.
func (o *Overrides) OrchestratorPhraseMatcher() *PhraseMatcher {
	if len(o.BuildingPhrases) == 0 {
		return OrchestratorMatcher()
	}
	return NewPhraseMatcher(extend(OrchestratorBuildingPhrases, o.BuildingPhrases))
}

func extend(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
			seen[s] = struct{}{}
		}
	}
	return out
}

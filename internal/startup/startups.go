// Package startup loads and matches the externally maintained
// qualified-startup allow-list.
package startup

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
)

// List is a loaded qualified-startup reference list. Matching is
// case-insensitive substring on the company name; no fuzzy matching.
type List struct {
	startups []model.QualifiedStartup
	lowered  []string
}

// Load reads a qualified-startup JSON file (an array of startup objects).
// A missing file degrades to an empty list so startup-list matches simply
// never fire; only malformed JSON is an error.
func Load(path string) (*List, error) {
	if path == "" {
		return NewList(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("startup: qualified startups file not found, matching disabled",
				zap.String("path", path))
			return NewList(nil), nil
		}
		return nil, eris.Wrapf(err, "startup: read %s", path)
	}

	var startups []model.QualifiedStartup
	if err := json.Unmarshal(data, &startups); err != nil {
		return nil, eris.Wrap(err, "startup: parse qualified startups")
	}

	zap.L().Info("startup: loaded qualified startups", zap.Int("count", len(startups)))
	return NewList(startups), nil
}

// NewList builds a List from in-memory entries.
func NewList(startups []model.QualifiedStartup) *List {
	l := &List{
		startups: startups,
		lowered:  make([]string, len(startups)),
	}
	for i, s := range startups {
		l.lowered[i] = strings.ToLower(strings.TrimSpace(s.Name))
	}
	return l
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.startups) }

// Match returns the first qualified startup whose name equals or is
// contained in the given company name.
func (l *List) Match(companyName string) (model.QualifiedStartup, bool) {
	name := strings.ToLower(strings.TrimSpace(companyName))
	if name == "" {
		return model.QualifiedStartup{}, false
	}
	for i, startupName := range l.lowered {
		if startupName == "" {
			continue
		}
		if startupName == name || strings.Contains(name, startupName) {
			return l.startups[i], true
		}
	}
	return model.QualifiedStartup{}, false
}

// Contains reports whether the company name matches any list entry.
func (l *List) Contains(companyName string) bool {
	_, ok := l.Match(companyName)
	return ok
}

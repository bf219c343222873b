// Package notify renders and delivers alerts over the configured
// channels: email, webhook, Notion, Salesforce and the weekly digest.
package notify

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/talent-radar/internal/model"
)

var titleCaser = cases.Title(language.English)

// levelHeading maps an alert level to its message section heading.
func levelHeading(level model.AlertLevel) string {
	switch level {
	case model.Level3:
		return "Joined Qualified Startup"
	case model.Level2:
		return "Building Signals Detected"
	case model.Level1:
		return "Recent Big Tech Departure"
	}
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(string(level), "_", " ")))
}

// groupByLevel buckets alerts by level, highest first, preserving order
// within each bucket.
func groupByLevel(alerts []model.Alert) [][]model.Alert {
	byLevel := map[model.AlertLevel][]model.Alert{}
	for _, a := range alerts {
		byLevel[a.Level] = append(byLevel[a.Level], a)
	}

	var groups [][]model.Alert
	for _, level := range []model.AlertLevel{model.Level3, model.Level2, model.Level1} {
		if g := byLevel[level]; len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Subject builds the email subject line for a batch of alerts.
func Subject(alerts []model.Alert) string {
	l3 := 0
	for _, a := range alerts {
		if a.Level == model.Level3 {
			l3++
		}
	}
	if l3 > 0 {
		return fmt.Sprintf("Talent Radar: %d alerts (%d startup joins)", len(alerts), l3)
	}
	return fmt.Sprintf("Talent Radar: %d alerts", len(alerts))
}

// RenderText renders a plain-text alert summary grouped by level.
func RenderText(alerts []model.Alert) string {
	var b strings.Builder

	for _, group := range groupByLevel(alerts) {
		fmt.Fprintf(&b, "=== %s (%d) ===\n\n", levelHeading(group[0].Level), len(group))
		for _, a := range group {
			fmt.Fprintf(&b, "%s (priority %.1f)\n", a.FullName, a.PriorityScore)
			for _, r := range a.Reasons {
				fmt.Fprintf(&b, "  - %s\n", r)
			}
			if a.Startup != nil {
				fmt.Fprintf(&b, "  Startup: %s\n", a.Startup.Name)
			}
			fmt.Fprintf(&b, "  Scores: founder %.1f, stealth %.0f\n\n", a.FounderScore, a.StealthScore)
		}
	}

	return b.String()
}

// RenderHTML renders the HTML alternative of the alert summary.
func RenderHTML(alerts []model.Alert) string {
	var b strings.Builder

	b.WriteString("<html><body>\n")
	for _, group := range groupByLevel(alerts) {
		fmt.Fprintf(&b, "<h2>%s (%d)</h2>\n<ul>\n", html.EscapeString(levelHeading(group[0].Level)), len(group))
		for _, a := range group {
			fmt.Fprintf(&b, "<li><strong>%s</strong> (priority %.1f)<ul>\n",
				html.EscapeString(a.FullName), a.PriorityScore)
			for _, r := range a.Reasons {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(r))
			}
			fmt.Fprintf(&b, "<li>Scores: founder %.1f, stealth %.0f</li>\n", a.FounderScore, a.StealthScore)
			b.WriteString("</ul></li>\n")
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</body></html>\n")

	return b.String()
}

// Package classify assigns a semantic category to a class from its
// free-text name.
package classify

import (
	"regexp"

	"github.com/denverfit/recsched/pkg/models"
)

// Default is returned when no pattern matches.
const Default = "general"

type rule struct {
	tag     string
	pattern *regexp.Regexp
}

// Rule order is a designed priority, not alphabetical: names like
// "Strength Cardio Blast" match several patterns and the first listed
// wins.
var rules = []rule{
	{"yoga", regexp.MustCompile(`(?i)\byoga\b`)},
	{"spin", regexp.MustCompile(`(?i)\b(spin|cycling|cycle)\b`)},
	{"strength", regexp.MustCompile(`(?i)\b(strength|weight|lift|barbell)\b`)},
	{"cardio", regexp.MustCompile(`(?i)\b(cardio|hiit|bootcamp|aerobic)\b`)},
	{"aqua", regexp.MustCompile(`(?i)\b(swim|aqua|pool|water)\b`)},
	{"dance", regexp.MustCompile(`(?i)\b(dance|zumba|barre)\b`)},
	{"mind_body", regexp.MustCompile(`(?i)\b(pilates|tai chi|meditation|stretch)\b`)},
}

// Classify maps a class name to its category tag. Pure and
// deterministic.
func Classify(name string) string {
	for _, r := range rules {
		if r.pattern.MatchString(name) {
			return r.tag
		}
	}
	return Default
}

// Annotate returns copies of the records with Category populated. The
// input slice is never mutated; the category is the only field added.
func Annotate(records []models.ClassRecord) []models.ClassRecord {
	out := make([]models.ClassRecord, len(records))
	for i, rec := range records {
		rec.Category = Classify(rec.Name)
		out[i] = rec
	}
	return out
}

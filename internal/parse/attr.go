package parse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/pkg/models"
)

// Source-specific tags some site revisions prefix onto names.
var namePrefix = regexp.MustCompile(`(?i)^(FIT|AOA):\s*`)

// attrStrategy extracts classes from elements carrying a stable
// data-activity-id attribute, resolving each field from the first
// descendant whose class token contains the field name.
type attrStrategy struct {
	defaultLocation string
	nameSuffix      *regexp.Regexp
}

// newAttrStrategy compiles a suffix pattern anchored to the facility
// name, so "Morning Yoga @ Carla Madison ..." is cleaned while names
// like "Yoga @ Noon" keep their "@" intact. The page abbreviates the
// facility, so only its first two words anchor the match.
func newAttrStrategy(defaultLocation string) *attrStrategy {
	s := &attrStrategy{defaultLocation: defaultLocation}

	words := strings.Fields(defaultLocation)
	if len(words) > 2 {
		words = words[:2]
	}
	if len(words) > 0 {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		s.nameSuffix = regexp.MustCompile(`(?i)\s*@\s*` + strings.Join(quoted, `\s*`) + `.*$`)
	}
	return s
}

func (a *attrStrategy) Name() string { return "data-attributes" }

func (a *attrStrategy) Extract(doc *goquery.Document) []models.ClassRecord {
	var records []models.ClassRecord

	doc.Find("[data-activity-id]").Each(func(_ int, item *goquery.Selection) {
		name := a.cleanName(subText(item, "name"))
		if name == "" {
			return
		}

		rec := models.ClassRecord{
			Name:     name,
			Date:     NormalizeDate(subText(item, "date")),
			Time:     subText(item, "time"),
			Location: subText(item, "location"),
		}
		if rec.Location == "" {
			rec.Location = a.defaultLocation
		}
		if id, ok := item.Attr("data-activity-id"); ok {
			rec.ActivityID = strings.TrimSpace(id)
		}

		if rec.Date == "" && rec.Time == "" {
			log.Debug().Str("name", rec.Name).Msg("Class item has no date or time")
		}

		records = append(records, rec)
	})

	return records
}

// subText returns the text of the first descendant whose class token
// contains key, or "" when no such element exists.
func subText(item *goquery.Selection, key string) string {
	sel := item.Find("[class*='" + key + "']").First()
	return strings.TrimSpace(sel.Text())
}

func (a *attrStrategy) cleanName(raw string) string {
	name := raw
	if a.nameSuffix != nil {
		name = a.nameSuffix.ReplaceAllString(name, "")
	}
	name = namePrefix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

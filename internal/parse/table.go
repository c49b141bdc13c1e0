package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/denverfit/recsched/pkg/models"
)

// headerLabels are first-cell values that mark a row as a column
// header rather than a class.
var headerLabels = map[string]bool{
	"name":     true,
	"class":    true,
	"activity": true,
}

// tableStrategy extracts classes from structural data tables. The
// first row of each table is assumed to be a header; remaining rows
// with at least three cells map cell 1→name, 2→date, 3→time and
// cell 4 (if present) to location.
type tableStrategy struct {
	defaultLocation string
}

func (t *tableStrategy) Name() string { return "table-rows" }

func (t *tableStrategy) Extract(doc *goquery.Document) []models.ClassRecord {
	var records []models.ClassRecord

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}

			cells := row.Find("td, th")
			if cells.Length() < 3 {
				return
			}

			texts := make([]string, 0, cells.Length())
			cells.Each(func(_ int, cell *goquery.Selection) {
				texts = append(texts, strings.TrimSpace(cell.Text()))
			})

			name := texts[0]
			if name == "" || headerLabels[strings.ToLower(name)] {
				return
			}

			rec := models.ClassRecord{
				Name:     name,
				Date:     NormalizeDate(cellText(texts, 1)),
				Time:     cellText(texts, 2),
				Location: t.defaultLocation,
			}
			if loc := cellText(texts, 3); loc != "" {
				rec.Location = loc
			}

			records = append(records, rec)
		})
	})

	return records
}

// cellText degrades a missing cell to an empty string rather than
// aborting the row.
func cellText(texts []string, i int) string {
	if i < len(texts) {
		return texts[i]
	}
	return ""
}

package models

import (
	"sort"
	"time"
)

// ClassRecord represents one recurring fitness-class offering extracted
// from the recreation center's schedule.
//
// Date holds an ISO calendar date (YYYY-MM-DD) when the source date was
// parseable; otherwise the original source text is kept verbatim. Time is
// free-text display time because source formats vary.
type ClassRecord struct {
	Name       string `json:"name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Category   string `json:"category"`
	ActivityID string `json:"activity_id,omitempty"`

	// Populated only by the schedule feed client; the rendered page
	// does not expose these.
	Room            string `json:"room,omitempty"`
	Instructor      string `json:"instructor,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// ScheduleDocument is the persisted output consumed by the dashboard.
type ScheduleDocument struct {
	LastUpdated time.Time     `json:"last_updated"`
	Location    string        `json:"location,omitempty"`
	ClassCount  int           `json:"class_count"`
	Classes     []ClassRecord `json:"classes"`
}

// NewScheduleDocument builds the output document for a record set.
// ClassCount always equals len(Classes).
func NewScheduleDocument(location string, classes []ClassRecord) ScheduleDocument {
	if classes == nil {
		classes = []ClassRecord{}
	}
	return ScheduleDocument{
		LastUpdated: time.Now().UTC(),
		Location:    location,
		ClassCount:  len(classes),
		Classes:     classes,
	}
}

// SortByDateTime orders records by (date, time) in place. Unparseable
// dates kept verbatim sort after ISO dates lexically, which pushes
// "see schedule" style entries to the end.
func SortByDateTime(records []ClassRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		return records[i].Time < records[j].Time
	})
}

package parse

import (
	"testing"
)

const facility = "Carla Madison Rec Center"

func TestParse_TableRows(t *testing.T) {
	markup := `<html><body><table>
<tr><th>Name</th><th>Date</th><th>Time</th></tr>
<tr><td>Morning Yoga</td><td>2024-05-01</td><td>9:00 AM</td></tr>
<tr><td>Aqua Fit</td><td>2024-05-02</td><td>10:00 AM</td><td>Lap Pool</td></tr>
</table></body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].Name != "Morning Yoga" || records[0].Date != "2024-05-01" || records[0].Time != "9:00 AM" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[0].Location != facility {
		t.Errorf("expected default facility location, got %q", records[0].Location)
	}
	if records[1].Location != "Lap Pool" {
		t.Errorf("fourth cell should map to location, got %q", records[1].Location)
	}
}

func TestParse_RejectsHeaderLabelRows(t *testing.T) {
	markup := `<html><body><table>
<tr><td>skip me</td><td>d</td><td>t</td></tr>
<tr><td>NAME</td><td>Date</td><td>Time</td></tr>
<tr><td>Activity</td><td>d</td><td>t</td></tr>
<tr><td></td><td>d</td><td>t</td></tr>
<tr><td>Evening Spin</td><td>2024-05-01</td><td>5:30p</td></tr>
</table></body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the real row, got %d records", len(records))
	}
	if records[0].Name != "Evening Spin" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestParse_SkipsShortRows(t *testing.T) {
	markup := `<html><body><table>
<tr><th>Name</th><th>Date</th><th>Time</th></tr>
<tr><td>Only Two</td><td>Cells</td></tr>
</table></body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("rows with fewer than 3 cells must be rejected, got %d", len(records))
	}
}

func TestParse_TabularWinsOverAttributes(t *testing.T) {
	// Markup matching both strategies: only the tabular records may
	// surface, even though the attribute items differ.
	markup := `<html><body>
<table>
<tr><th>Name</th><th>Date</th><th>Time</th></tr>
<tr><td>Table Yoga</td><td>2024-05-01</td><td>9:00 AM</td></tr>
</table>
<div data-activity-id="999">
  <span class="activity-name">Card Yoga</span>
  <span class="activity-date">2024-06-01</span>
  <span class="activity-time">8:00 AM</span>
</div>
</body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "Table Yoga" {
		t.Errorf("tabular strategy must win, got %q", records[0].Name)
	}
	if records[0].ActivityID != "" {
		t.Errorf("tabular records carry no activity id, got %q", records[0].ActivityID)
	}
}

func TestParse_AttributeFallback(t *testing.T) {
	markup := `<html><body>
<div data-activity-id="12345">
  <span class="item-name">FIT: Power Hour @ Carla Madison Rec Center</span>
  <span class="item-date">May 1, 2024</span>
  <span class="item-time">6:00 PM</span>
</div>
<div data-activity-id="12346">
  <span class="item-name">Lap Swim</span>
  <span class="item-time">7:00 AM</span>
  <span class="item-location">Lap Pool</span>
</div>
<div data-activity-id="12347">
  <span class="item-name"></span>
</div>
</body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (empty name rejected), got %d", len(records))
	}

	first := records[0]
	if first.Name != "Power Hour" {
		t.Errorf("expected stripped name, got %q", first.Name)
	}
	if first.Date != "2024-05-01" {
		t.Errorf("expected normalized date, got %q", first.Date)
	}
	if first.ActivityID != "12345" {
		t.Errorf("expected activity id, got %q", first.ActivityID)
	}
	if first.Location != facility {
		t.Errorf("expected default facility, got %q", first.Location)
	}

	second := records[1]
	if second.Date != "" {
		t.Errorf("missing date must degrade to empty, got %q", second.Date)
	}
	if second.Location != "Lap Pool" {
		t.Errorf("expected explicit location, got %q", second.Location)
	}
}

func TestParse_SuffixStripAnchoredToFacility(t *testing.T) {
	markup := `<html><body>
<div data-activity-id="1">
  <span class="item-name">Yoga @ Noon</span>
  <span class="item-time">12:00 PM</span>
</div>
<div data-activity-id="2">
  <span class="item-name">Spin Class @ Carla Madison</span>
  <span class="item-time">5:30 PM</span>
</div>
</body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Name != "Yoga @ Noon" {
		t.Errorf("non-facility suffix must survive, got %q", records[0].Name)
	}
	if records[1].Name != "Spin Class" {
		t.Errorf("facility suffix must be stripped, got %q", records[1].Name)
	}
}

func TestParse_NoMatchIsEmptyNotError(t *testing.T) {
	records, err := New(facility).Parse(`<html><body><p>Nothing here</p></body></html>`)
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if records == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestParse_RecordMissingDateTimeStillEmitted(t *testing.T) {
	markup := `<html><body><table>
<tr><th>Name</th><th>Date</th><th>Time</th></tr>
<tr><td>Open Gym</td><td></td><td></td></tr>
</table></body></html>`

	records, err := New(facility).Parse(markup)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record with valid name but no date/time must be emitted, got %d", len(records))
	}
	if records[0].Date != "" || records[0].Time != "" {
		t.Errorf("expected empty date/time, got %+v", records[0])
	}
}

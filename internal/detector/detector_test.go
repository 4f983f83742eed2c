package detector

import (
	"testing"

	"github.com/isgwatch/isgwatch/internal/entry"
)

func mkEntry(code string) entry.Entry {
	return entry.Entry{ErrorCode: code, Heatpump: "WP1", Date: "18.02.2026", Time: "12:00:00"}
}

func TestDetectBaseline(t *testing.T) {
	current := []entry.Entry{mkEntry("A"), mkEntry("B")}

	out := Detect(current, nil, false)
	if out.Kind != Baseline {
		t.Fatalf("expected Baseline, got %v", out.Kind)
	}
	if len(out.NewEntries) != 0 {
		t.Fatalf("baseline must not report new entries, got %d", len(out.NewEntries))
	}
	if len(out.FullSet) != 2 {
		t.Fatalf("expected full set of 2, got %d", len(out.FullSet))
	}
}

func TestDetectNoChange(t *testing.T) {
	set := []entry.Entry{mkEntry("A"), mkEntry("B")}

	out := Detect(set, set, true)
	if out.Kind != NoChange {
		t.Fatalf("expected NoChange, got %v", out.Kind)
	}
	if out.FullSet != nil {
		t.Fatal("no-change outcome must not carry a set to persist")
	}
}

func TestDetectNewEntries(t *testing.T) {
	baseline := []entry.Entry{mkEntry("A"), mkEntry("B")}
	current := []entry.Entry{mkEntry("A"), mkEntry("B"), mkEntry("C")}

	out := Detect(current, baseline, true)
	if out.Kind != Changed {
		t.Fatalf("expected Changed, got %v", out.Kind)
	}
	if len(out.NewEntries) != 1 || out.NewEntries[0].ErrorCode != "C" {
		t.Fatalf("expected new entries [C], got %+v", out.NewEntries)
	}
	if len(out.FullSet) != 3 {
		t.Fatalf("expected full set of 3, got %d", len(out.FullSet))
	}
}

func TestDetectRemovedEntriesAreNotChanges(t *testing.T) {
	baseline := []entry.Entry{mkEntry("A"), mkEntry("B"), mkEntry("C")}
	current := []entry.Entry{mkEntry("A"), mkEntry("B")}

	out := Detect(current, baseline, true)
	if out.Kind != NoChange {
		t.Fatalf("removal alone must not trigger a change, got %v", out.Kind)
	}
}

func TestDetectIgnoresNrWhenComparing(t *testing.T) {
	baseline := []entry.Entry{
		{Nr: "1", ErrorCode: "A", Heatpump: "WP1", Date: "18.02.2026", Time: "12:00:00"},
	}
	// Same alert, renumbered by the ISG.
	current := []entry.Entry{
		{Nr: "4", ErrorCode: "A", Heatpump: "WP1", Date: "18.02.2026", Time: "12:00:00"},
	}

	out := Detect(current, baseline, true)
	if out.Kind != NoChange {
		t.Fatalf("renumbered entry must not count as new, got %v", out.Kind)
	}
}

func TestDetectCollapsesDuplicateCurrentRows(t *testing.T) {
	baseline := []entry.Entry{mkEntry("A")}
	current := []entry.Entry{mkEntry("A"), mkEntry("B"), mkEntry("B")}

	out := Detect(current, baseline, true)
	if out.Kind != Changed {
		t.Fatalf("expected Changed, got %v", out.Kind)
	}
	if len(out.NewEntries) != 1 {
		t.Fatalf("duplicate rows must collapse to one new entry, got %d", len(out.NewEntries))
	}
}

func TestDetectPreservesFetchOrder(t *testing.T) {
	baseline := []entry.Entry{mkEntry("A")}
	current := []entry.Entry{mkEntry("C"), mkEntry("A"), mkEntry("B")}

	out := Detect(current, baseline, true)
	if len(out.NewEntries) != 2 {
		t.Fatalf("expected 2 new entries, got %d", len(out.NewEntries))
	}
	if out.NewEntries[0].ErrorCode != "C" || out.NewEntries[1].ErrorCode != "B" {
		t.Fatalf("expected fetch order [C B], got %+v", out.NewEntries)
	}
}

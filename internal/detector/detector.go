// Package detector computes the difference between the currently fetched
// error list and the persisted snapshot.
package detector

import (
	"github.com/isgwatch/isgwatch/internal/entry"
)

// Kind classifies the result of a detection pass.
type Kind int

const (
	// Baseline means no snapshot existed yet; the current set becomes the
	// initial baseline and nothing is considered new.
	Baseline Kind = iota
	// NoChange means every current entry is already in the snapshot.
	NoChange
	// Changed means at least one current entry is absent from the snapshot.
	Changed
)

// Outcome is the result of comparing the current fetch against the baseline.
type Outcome struct {
	Kind Kind
	// NewEntries holds current entries absent from the baseline, in fetch
	// order. Only set when Kind is Changed.
	NewEntries []entry.Entry
	// FullSet is the complete current list to persist. Set for Baseline
	// and Changed; nil for NoChange (the stored snapshot stays as is).
	FullSet []entry.Entry
}

// Detect compares the current entries against the baseline by structural
// identity. Entries present in the baseline but gone from current are
// dropped silently: the ISG rotates old rows out of its list, and a
// removal alone is never a reason to notify.
func Detect(current, baseline []entry.Entry, haveBaseline bool) Outcome {
	if !haveBaseline {
		return Outcome{Kind: Baseline, FullSet: current}
	}

	known := entry.NewSet(baseline)
	seen := make(map[entry.Key]struct{})
	var fresh []entry.Entry
	for _, e := range current {
		k := e.Key()
		if known.Contains(k) {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, e)
	}

	if len(fresh) == 0 {
		return Outcome{Kind: NoChange}
	}
	return Outcome{Kind: Changed, NewEntries: fresh, FullSet: current}
}

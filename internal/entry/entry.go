package entry

// Entry is one row of the ISG error list.
type Entry struct {
	Nr        string // row number as rendered by the ISG, display only
	ErrorCode string
	Heatpump  string
	Date      string
	Time      string
}

// Key identifies an entry. Two entries describe the same alert iff all
// four fields match; Nr is renumbered by the ISG as rows scroll out of
// the list and never participates in identity.
type Key struct {
	ErrorCode string
	Heatpump  string
	Date      string
	Time      string
}

// Key returns the identity tuple of the entry.
func (e Entry) Key() Key {
	return Key{
		ErrorCode: e.ErrorCode,
		Heatpump:  e.Heatpump,
		Date:      e.Date,
		Time:      e.Time,
	}
}

// Set provides key-based membership over a collection of entries.
// Duplicate keys collapse to a single member.
type Set struct {
	keys map[Key]struct{}
}

// NewSet builds a set from a slice of entries.
func NewSet(entries []Entry) Set {
	keys := make(map[Key]struct{}, len(entries))
	for _, e := range entries {
		keys[e.Key()] = struct{}{}
	}
	return Set{keys: keys}
}

// Contains reports whether the set holds an entry with the given key.
func (s Set) Contains(k Key) bool {
	_, ok := s.keys[k]
	return ok
}

// Len returns the number of distinct keys in the set.
func (s Set) Len() int {
	return len(s.keys)
}

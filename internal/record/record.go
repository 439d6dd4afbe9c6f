// Package record holds the consolidated unit of one person's blood-pressure
// data and the rules for merging two such units.
//
// A [FileRecord] is built once per source file by the parser. The
// [Consolidator] then folds records into a list, absorbing each new record
// into the first existing one that describes the same person in an adjoining
// time window.
package record

import (
	"slices"
	"time"
)

// Profile field positions.
const (
	FirstName = iota
	LastName
	BirthYear
	Gender
	Height
	Weight
	Email
	Phone
)

// identityFields are the profile positions that decide whether two records
// describe the same person. Gender, email and phone are not part of it.
var identityFields = []int{FirstName, LastName, BirthYear, Height, Weight}

// Profile is the user row of an export.
type Profile []string

// Field returns the value at i, or "" when the profile is shorter.
func (p Profile) Field(i int) string {
	if i < 0 || i >= len(p) {
		return ""
	}
	return p[i]
}

// SameIdentity reports whether p and o agree on every identity field.
func (p Profile) SameIdentity(o Profile) bool {
	for _, i := range identityFields {
		if p.Field(i) != o.Field(i) {
			return false
		}
	}
	return true
}

// Reading is one measurement row keyed by its Unix timestamp.
type Reading struct {
	Timestamp int64
	Fields    []string
}

// Time returns the reading timestamp in UTC.
func (r Reading) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}

// FileRecord is one person's profile, readings and trailing free text.
// Readings are unique per timestamp; the last one stored wins.
type FileRecord struct {
	Profile  Profile
	Appendix [][]string

	readings map[int64][]string
	min      int64
	max      int64
}

// New returns an empty record.
func New() *FileRecord {
	return &FileRecord{readings: make(map[int64][]string)}
}

// SetProfile stores the profile row.
func (r *FileRecord) SetProfile(p Profile) {
	r.Profile = p
}

// Put stores fields under ts, replacing any reading already there, and
// widens the min/max bounds.
func (r *FileRecord) Put(ts int64, fields []string) {
	if r.readings == nil {
		r.readings = make(map[int64][]string)
	}
	if len(r.readings) == 0 {
		r.min, r.max = ts, ts
	} else {
		r.min = min(r.min, ts)
		r.max = max(r.max, ts)
	}
	r.readings[ts] = fields
}

// AppendLine adds a row to the appendix verbatim.
func (r *FileRecord) AppendLine(row []string) {
	r.Appendix = append(r.Appendix, row)
}

// Len returns the number of distinct readings.
func (r *FileRecord) Len() int { return len(r.readings) }

// Get returns the reading stored at ts.
func (r *FileRecord) Get(ts int64) ([]string, bool) {
	f, ok := r.readings[ts]
	return f, ok
}

// Min returns the earliest reading timestamp, or 0 when there are none.
func (r *FileRecord) Min() int64 { return r.min }

// Max returns the latest reading timestamp, or 0 when there are none.
func (r *FileRecord) Max() int64 { return r.max }

// Empty reports whether the record carries nothing worth exporting: no
// profile or no readings. Files the parser did not recognize end up here.
func (r *FileRecord) Empty() bool {
	return len(r.Profile) == 0 || len(r.readings) == 0
}

// Readings returns the readings sorted by ascending timestamp.
func (r *FileRecord) Readings() []Reading {
	out := make([]Reading, 0, len(r.readings))
	for ts, f := range r.readings {
		out = append(out, Reading{Timestamp: ts, Fields: f})
	}
	slices.SortFunc(out, func(a, b Reading) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
	return out
}

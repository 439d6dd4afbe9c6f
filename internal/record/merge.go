package record

import "time"

// DefaultWindow is the largest gap between two records of the same person
// that still lets them merge.
const DefaultWindow = 3 * time.Hour

// Mergeable reports whether a and b describe the same person within
// DefaultWindow of each other.
func Mergeable(a, b *FileRecord) bool {
	return MergeableWithin(a, b, DefaultWindow)
}

// MergeableWithin reports whether a and b share identity fields and the gap
// between their time ranges is below window, in either direction.
// Overlapping ranges always qualify. Records without readings never do.
func MergeableWithin(a, b *FileRecord, window time.Duration) bool {
	if a.Len() == 0 || b.Len() == 0 {
		return false
	}
	if !a.Profile.SameIdentity(b.Profile) {
		return false
	}
	w := int64(window / time.Second)
	return b.min-a.max < w && a.min-b.max < w
}

// Merge absorbs src into dst. Readings of src overwrite readings of dst at
// the same timestamp. The appendix of src is taken only when dst has none.
// The profile of dst is left as is.
func Merge(dst, src *FileRecord) {
	for ts, f := range src.readings {
		dst.Put(ts, f)
	}
	if len(dst.Appendix) == 0 {
		dst.Appendix = append(dst.Appendix, src.Appendix...)
	}
}

// Consolidator folds records into a list, merging each new record into the
// first compatible one. The grouping depends on the order records are
// added.
type Consolidator struct {
	// Window is the merge window; zero means DefaultWindow.
	Window time.Duration

	records []*FileRecord
}

// NewConsolidator returns a Consolidator using window.
func NewConsolidator(window time.Duration) *Consolidator {
	return &Consolidator{Window: window}
}

// Add folds f into the list. It returns the record f ended up in and
// whether f was merged into an existing record.
func (c *Consolidator) Add(f *FileRecord) (*FileRecord, bool) {
	window := c.Window
	if window == 0 {
		window = DefaultWindow
	}
	for _, existing := range c.records {
		if MergeableWithin(f, existing, window) {
			Merge(existing, f)
			return existing, true
		}
	}
	c.records = append(c.records, f)
	return f, false
}

// Records returns the consolidated records in insertion order.
func (c *Consolidator) Records() []*FileRecord {
	return c.records
}

package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC).Unix()

func profile(height string) Profile {
	return Profile{"Petar", "Petrović", "1960", "Muško", height, "82", "petar@example.com", "064111222"}
}

func withReadings(p Profile, ts ...int64) *FileRecord {
	r := New()
	r.SetProfile(p)
	for _, t := range ts {
		r.Put(t, []string{"x", "y", "120", "80", "93", "40", "70", "Ležanje", "Automatsko"})
	}
	return r
}

func TestFileRecord_PutTracksBounds(t *testing.T) {
	r := New()
	assert.Equal(t, int64(0), r.Min())
	assert.Equal(t, int64(0), r.Max())

	r.Put(base+60, []string{"a"})
	r.Put(base, []string{"b"})
	r.Put(base+120, []string{"c"})

	assert.Equal(t, base, r.Min())
	assert.Equal(t, base+120, r.Max())
	assert.Equal(t, 3, r.Len())
}

func TestFileRecord_PutLastWriteWins(t *testing.T) {
	r := New()
	r.Put(base, []string{"first"})
	r.Put(base, []string{"second"})

	require.Equal(t, 1, r.Len())
	got, ok := r.Get(base)
	require.True(t, ok)
	assert.Equal(t, []string{"second"}, got)
}

func TestFileRecord_ReadingsSorted(t *testing.T) {
	r := New()
	r.Put(base+300, []string{"c"})
	r.Put(base, []string{"a"})
	r.Put(base+60, []string{"b"})

	var got []string
	for _, rd := range r.Readings() {
		got = append(got, rd.Fields[0])
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFileRecord_Empty(t *testing.T) {
	assert.True(t, New().Empty())
	assert.True(t, withReadings(nil, base).Empty())
	assert.True(t, withReadings(profile("180")).Empty())
	assert.False(t, withReadings(profile("180"), base).Empty())
}

func TestProfile_SameIdentity(t *testing.T) {
	a := profile("180")
	b := profile("180")
	b[Gender] = "Male"
	b[Email] = "other@example.com"
	b[Phone] = ""

	assert.True(t, a.SameIdentity(b))
	assert.True(t, b.SameIdentity(a))

	c := profile("181")
	assert.False(t, a.SameIdentity(c))
	assert.False(t, c.SameIdentity(a))

	assert.True(t, Profile{}.SameIdentity(Profile{"", ""}))
}

func TestMergeable_Window(t *testing.T) {
	const w = int64(3 * 60 * 60)

	tests := []struct {
		name string
		a, b []int64
		want bool
	}{
		{"forward just inside", []int64{base}, []int64{base + w - 1}, true},
		{"forward at window", []int64{base}, []int64{base + w}, false},
		{"forward beyond window", []int64{base}, []int64{base + 2*w}, false},
		{"backward just inside", []int64{base + w - 1}, []int64{base}, true},
		{"backward at window", []int64{base + w}, []int64{base}, false},
		{"overlapping", []int64{base, base + 2*w}, []int64{base + w}, true},
		{"same instant", []int64{base}, []int64{base}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := withReadings(profile("180"), tt.a...)
			b := withReadings(profile("180"), tt.b...)
			assert.Equal(t, tt.want, Mergeable(a, b))
			assert.Equal(t, tt.want, Mergeable(b, a))
		})
	}
}

func TestMergeable_DifferentPerson(t *testing.T) {
	a := withReadings(profile("180"), base)
	b := withReadings(profile("175"), base+60)
	assert.False(t, Mergeable(a, b))
}

func TestMergeable_NoReadings(t *testing.T) {
	a := withReadings(profile("180"), base)
	assert.False(t, Mergeable(a, withReadings(profile("180"))))
	assert.False(t, Mergeable(withReadings(profile("180")), a))
}

func TestMergeableWithin_CustomWindow(t *testing.T) {
	a := withReadings(profile("180"), base)
	b := withReadings(profile("180"), base+int64(time.Hour/time.Second))

	assert.False(t, MergeableWithin(a, b, 30*time.Minute))
	assert.True(t, MergeableWithin(a, b, 2*time.Hour))
}

func TestMerge(t *testing.T) {
	dst := withReadings(profile("180"), base, base+60)
	dst.AppendLine([]string{})
	dst.AppendLine([]string{"note one"})

	src := withReadings(profile("180"), base+60, base+3600)
	src.Profile[Email] = "changed@example.com"
	src.readings[base+60] = []string{"from src"}
	src.AppendLine([]string{"ignored"})

	Merge(dst, src)

	assert.Equal(t, 3, dst.Len())
	assert.Equal(t, base, dst.Min())
	assert.Equal(t, base+3600, dst.Max())
	got, _ := dst.Get(base + 60)
	assert.Equal(t, []string{"from src"}, got)
	assert.Equal(t, [][]string{{}, {"note one"}}, dst.Appendix)
	assert.Equal(t, "petar@example.com", dst.Profile.Field(Email))
}

func TestMerge_TakesAppendixWhenEmpty(t *testing.T) {
	dst := withReadings(profile("180"), base)
	src := withReadings(profile("180"), base+60)
	src.AppendLine([]string{})
	src.AppendLine([]string{"footer"})

	Merge(dst, src)

	assert.Equal(t, [][]string{{}, {"footer"}}, dst.Appendix)
}

func TestMerge_Idempotent(t *testing.T) {
	dst := withReadings(profile("180"), base, base+60)
	Merge(dst, withReadings(profile("180"), base, base+60))
	Merge(dst, withReadings(profile("180"), base, base+60))

	assert.Equal(t, 2, dst.Len())
	assert.Equal(t, base, dst.Min())
	assert.Equal(t, base+60, dst.Max())
}

func TestConsolidator_MergesSamePerson(t *testing.T) {
	c := NewConsolidator(0)

	x := withReadings(profile("180"), base)
	y := withReadings(profile("180"), base+90*60)

	got, merged := c.Add(x)
	assert.False(t, merged)
	assert.Same(t, x, got)

	got, merged = c.Add(y)
	assert.True(t, merged)
	assert.Same(t, x, got)

	require.Len(t, c.Records(), 1)
	assert.Equal(t, 2, c.Records()[0].Len())
}

func TestConsolidator_KeepsDifferentPeopleApart(t *testing.T) {
	c := NewConsolidator(DefaultWindow)
	c.Add(withReadings(profile("180"), base))
	c.Add(withReadings(profile("175"), base+60))

	assert.Len(t, c.Records(), 2)
}

// The fold merges into the first compatible record, so grouping depends on
// the order records arrive in.
func TestConsolidator_FirstMatchIsOrderDependent(t *testing.T) {
	hour := int64(3600)

	early := func() *FileRecord { return withReadings(profile("180"), base) }
	late := func() *FileRecord { return withReadings(profile("180"), base+4*hour) }
	middle := func() *FileRecord { return withReadings(profile("180"), base+2*hour) }

	// early, late, middle: middle joins early, late stays alone.
	c := NewConsolidator(DefaultWindow)
	c.Add(early())
	c.Add(late())
	c.Add(middle())
	require.Len(t, c.Records(), 2)
	assert.Equal(t, 2, c.Records()[0].Len())
	assert.Equal(t, 1, c.Records()[1].Len())

	// middle, early, late: early joins middle, which widens the range so
	// late joins it too.
	c = NewConsolidator(DefaultWindow)
	c.Add(middle())
	c.Add(early())
	c.Add(late())
	require.Len(t, c.Records(), 1)
	assert.Equal(t, 3, c.Records()[0].Len())

	// late, early, middle: early does not reach late, middle joins late.
	c = NewConsolidator(DefaultWindow)
	c.Add(late())
	c.Add(early())
	c.Add(middle())
	require.Len(t, c.Records(), 2)
	assert.Equal(t, base+2*hour, c.Records()[0].Min())
	assert.Equal(t, 1, c.Records()[1].Len())
}

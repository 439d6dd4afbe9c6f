// Package vocab holds the bilingual vocabulary of the monitor export format:
// the section headers recognized by the parser and the lookup tables that
// map English field values to their canonical Serbian display form.
package vocab

import "github.com/JonMunkholm/bpmerge/internal/textfold"

// Section headers as written by the monitor software. The readings header
// pairing is reproduced exactly as the exporter names it.
const (
	ProfileHeaderEN = "First Name,Last Name,Birth year,Gender,Height/cm,Weight/kg,Email,Phone Number"
	ProfileHeaderSR = "Ime,Prezime,Godina rodjenja,Pol,Visina/cm,Tezina/kg,Email,Broj telefona"

	// ProfileHeaderOut is the header written above the profile row of an
	// exported file. It starts with ProfileHeaderSR so exported files parse
	// again.
	ProfileHeaderOut = ProfileHeaderSR + ",Sistolni prag,Diastolni prag,ID,Doktor,Datum"

	ReadingsHeaderEN = "Vreme,Datum,Sis,Dia,Sap,Pp,Puls,Polozaj,Mod"
	ReadingsHeaderSR = "Time,Date,Sys,Dia,Map,Pp,Hr,Position,Mode"
)

// ProfileHeaders and ReadingsHeaders list every accepted variant of each
// section header.
var (
	ProfileHeaders  = []string{ProfileHeaderEN, ProfileHeaderSR}
	ReadingsHeaders = []string{ReadingsHeaderEN, ReadingsHeaderSR}
)

// IsHeader reports whether line starts with any of headers, ignoring case
// and Serbian diacritics.
func IsHeader(line string, headers []string) bool {
	for _, h := range headers {
		if textfold.HasPrefix(line, h) {
			return true
		}
	}
	return false
}

// Entry is one source→canonical mapping.
type Entry struct {
	Source    string
	Canonical string
}

// Table is an immutable ordered set of mappings. The zero value maps
// nothing.
type Table struct {
	entries []Entry
}

// NewTable builds a Table from entries. The slice is copied.
func NewTable(entries ...Entry) Table {
	return Table{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of mappings.
func (t Table) Len() int { return len(t.entries) }

// Localize returns the canonical form of v if v matches a source value,
// otherwise v unchanged.
func (t Table) Localize(v string) string {
	for _, e := range t.entries {
		if textfold.Matches(e.Source, v) {
			return e.Canonical
		}
	}
	return v
}

// Gender, Position and Mode are the tables applied at ingestion.
var (
	Gender = NewTable(
		Entry{"Male", "Muško"},
		Entry{"Female", "Žensko"},
	)

	Position = NewTable(
		Entry{"Heavy moving", "Ubrzano kretanje"},
		Entry{"Lying", "Ležanje"},
		Entry{"Slight moving", "Lagano kretanje"},
		Entry{"Stand/Sit", "Stajanje/sedenje"},
	)

	Mode = NewTable(
		Entry{"Automatic", "Automatsko"},
		Entry{"Manual", "Manuelno"},
	)
)

// Localizer applies lookup tables to fixed field positions of a row.
type Localizer struct {
	fields map[int]Table
}

// NewLocalizer returns a Localizer that rewrites row[i] through fields[i].
func NewLocalizer(fields map[int]Table) Localizer {
	m := make(map[int]Table, len(fields))
	for i, t := range fields {
		m[i] = t
	}
	return Localizer{fields: m}
}

// Apply localizes row in place and returns it. Positions past the end of
// the row are ignored.
func (l Localizer) Apply(row []string) []string {
	for i, t := range l.fields {
		if i < len(row) {
			row[i] = t.Localize(row[i])
		}
	}
	return row
}

// Field positions of localized values.
const (
	ProfileGenderField   = 3
	ReadingPositionField = 7
	ReadingModeField     = 8
)

// ProfileLocalizer and ReadingLocalizer are the localizers used when a row
// is accepted into a record.
var (
	ProfileLocalizer = NewLocalizer(map[int]Table{ProfileGenderField: Gender})
	ReadingLocalizer = NewLocalizer(map[int]Table{
		ReadingPositionField: Position,
		ReadingModeField:     Mode,
	})
)

// Package render writes consolidated records back out in the export format.
package render

import (
	"strings"
	"time"

	"github.com/JonMunkholm/bpmerge/internal/record"
	"github.com/JonMunkholm/bpmerge/internal/vocab"
)

// DateLayout is the layout of the dates in an output filename.
const DateLayout = "02.01.2006"

// Output is one file to be written.
type Output struct {
	Name string
	Text string
}

// pathUnsafe maps characters that would split a name into path elements.
var pathUnsafe = strings.NewReplacer("/", "_", `\`, "_", "\x00", "_")

// Filename returns "{first}_{last}_{minDate}_-_{maxDate}.csv" with dates
// taken in UTC. The names come from file contents and are reduced to a
// single path element.
func Filename(r *record.FileRecord) string {
	from := time.Unix(r.Min(), 0).UTC().Format(DateLayout)
	to := time.Unix(r.Max(), 0).UTC().Format(DateLayout)

	return nameElement(r.Profile.Field(record.FirstName)) + "_" +
		nameElement(r.Profile.Field(record.LastName)) +
		"_" + from + "_-_" + to + ".csv"
}

// nameElement replaces path separators and a leading ".." in s with "_".
func nameElement(s string) string {
	s = pathUnsafe.Replace(s)
	if strings.HasPrefix(s, "..") {
		s = "_" + strings.TrimLeft(s, ".")
	}
	return s
}

// Render returns the export text of r: the profile section, a blank line,
// the readings sorted by time, then the appendix lines. Each appendix row is
// written as its fields concatenated without separators. Every line ends
// with a line break, so a blank appendix line survives a re-read.
func Render(r *record.FileRecord) string {
	var b strings.Builder

	b.WriteString(vocab.ProfileHeaderOut)
	b.WriteString("\n")
	b.WriteString(strings.Join(r.Profile, ","))
	b.WriteString("\n\n")
	b.WriteString(vocab.ReadingsHeaderEN)
	b.WriteString("\n")

	for _, rd := range r.Readings() {
		b.WriteString(strings.Join(rd.Fields, ","))
		b.WriteString("\n")
	}

	for _, row := range r.Appendix {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}

	return b.String()
}

// All renders every record.
func All(records []*record.FileRecord) []Output {
	out := make([]Output, 0, len(records))
	for _, r := range records {
		out = append(out, Output{Name: Filename(r), Text: Render(r)})
	}
	return out
}

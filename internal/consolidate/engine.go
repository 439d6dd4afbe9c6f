// Package consolidate runs the whole pipeline over a folder of monitor
// exports: archive, deduplicate, parse, merge, and write one CSV per person
// and time window.
//
// [Engine] is the in-memory part. It takes the rows of one file at a time
// and folds the parsed record into its list. [Runner] drives an Engine from
// the filesystem.
package consolidate

import (
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/bpmerge/internal/parser"
	"github.com/JonMunkholm/bpmerge/internal/record"
	"github.com/JonMunkholm/bpmerge/internal/render"
)

// Result describes what happened to one ingested file.
type Result struct {
	// Record is the record the file's data ended up in. Nil when the file
	// was not recognized as an export.
	Record *record.FileRecord

	// Readings is the number of distinct readings parsed from the file.
	Readings int

	// Merged is true when the file was absorbed into an earlier record.
	Merged bool
}

// Recognized reports whether the file was an export with data.
func (r Result) Recognized() bool { return r.Record != nil }

// Engine parses files and folds them into consolidated records. Files must
// be ingested one at a time; the order decides the grouping.
type Engine struct {
	parser       *parser.Parser
	consolidator *record.Consolidator
}

// NewEngine returns an Engine that reads timestamps in loc and merges
// within window.
func NewEngine(loc *time.Location, window time.Duration) *Engine {
	return &Engine{
		parser:       parser.New(loc),
		consolidator: record.NewConsolidator(window),
	}
}

// Ingest parses the rows of one file and folds the result in. A file with
// no profile or no readings is ignored and reported as not recognized.
// A malformed reading fails the file and leaves the engine unchanged.
func (e *Engine) Ingest(rows [][]string) (Result, error) {
	rec, err := e.parser.Parse(rows)
	if err != nil {
		return Result{}, err
	}
	if rec.Empty() {
		return Result{}, nil
	}

	n := rec.Len()
	into, merged := e.consolidator.Add(rec)
	return Result{Record: into, Readings: n, Merged: merged}, nil
}

// Records returns the consolidated records in the order they were created.
func (e *Engine) Records() []*record.FileRecord {
	return e.consolidator.Records()
}

// Outputs renders every consolidated record. Records that would share a
// file name get a numeric suffix so none overwrites another.
func (e *Engine) Outputs() []render.Output {
	out := render.All(e.Records())

	used := make(map[string]int, len(out))
	for i := range out {
		name := out[i].Name
		used[name]++
		if n := used[name]; n > 1 {
			out[i].Name = suffixed(name, n)
		}
	}
	return out
}

func suffixed(name string, n int) string {
	base := strings.TrimSuffix(name, ".csv")
	return base + "_" + strconv.Itoa(n) + ".csv"
}

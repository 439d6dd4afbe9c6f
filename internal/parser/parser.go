// Package parser turns the rows of one monitor export into a record.
//
// An export is a loosely structured CSV file: some preamble, a profile
// section header followed by the profile row and a thresholds row, then a
// readings section header followed by one row per measurement, a blank row,
// and free text. The parser walks the rows once with a small state machine
// (see [Stage]) and ignores everything it does not recognize.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/bpmerge/internal/record"
	"github.com/JonMunkholm/bpmerge/internal/vocab"
)

// TimestampLayout is the layout of "date time" built from a reading row.
// Single-digit days, months and hours are accepted; a single-digit minute
// is padded before parsing.
const TimestampLayout = "2.1.2006 15:04"

// Reading field positions used by the parser.
const (
	readingTime = 0
	readingDate = 1
)

var (
	// ErrMalformedTimestamp is returned when a reading's date or time does
	// not parse. It aborts the whole file.
	ErrMalformedTimestamp = errors.New("malformed reading timestamp")

	// ErrShortRow is returned when a reading row lacks date or time.
	ErrShortRow = errors.New("reading row has no date/time")
)

// Parser converts export rows to records.
type Parser struct {
	// Location interprets reading timestamps. Nil means time.Local.
	Location *time.Location
}

// New returns a Parser that reads timestamps in loc.
func New(loc *time.Location) *Parser {
	return &Parser{Location: loc}
}

// Parse walks rows and returns the record they describe. Rows that never
// reach a section header yield a record with no profile and no readings,
// which callers treat as an unrecognized file.
//
// A reading whose timestamp does not parse fails the whole file with an
// error wrapping ErrMalformedTimestamp or ErrShortRow.
func (p *Parser) Parse(rows [][]string) (*record.FileRecord, error) {
	rec := record.New()
	stage := PreUser

	for i, row := range rows {
		switch stage {
		case User:
			rec.SetProfile(record.Profile(vocab.ProfileLocalizer.Apply(row)))
		case Readings:
			if !isBlank(row) {
				ts, err := p.Timestamp(row)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i+1, err)
				}
				rec.Put(ts, vocab.ReadingLocalizer.Apply(row))
			}
		}

		stage = stage.next(row)

		if stage == Appendix {
			rec.AppendLine(row)
		}
	}

	return rec, nil
}

// Timestamp returns the Unix time of a reading row.
func (p *Parser) Timestamp(row []string) (int64, error) {
	if len(row) <= readingDate {
		return 0, fmt.Errorf("%w: %q", ErrShortRow, strings.Join(row, ","))
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	value := row[readingDate] + " " + padMinute(row[readingTime])
	t, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, value, err)
	}
	return t.Unix(), nil
}

// padMinute turns "8:5" into "8:05". Other values are returned unchanged.
func padMinute(clock string) string {
	h, m, ok := strings.Cut(clock, ":")
	if ok && len(m) == 1 {
		return h + ":0" + m
	}
	return clock
}

// isBlank reports whether row has no fields or only empty ones.
func isBlank(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}

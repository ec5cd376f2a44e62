// Package ingest implements the time-series preparer: it turns the raw
// station export into a clean, date-ordered slice of Observations.
//
// The raw format is positional CSV with four columns (a combined
// "<time> <day>/<month>/<year>" timestamp, water level, salinity and
// temperature), preceded by four metadata lines that are skipped
// unconditionally. Rows whose timestamp cannot be parsed are dropped and
// counted; empty or unparseable numeric fields become NaN and never drop
// the row.
//
// Prepare performs no I/O of its own; the caller supplies the reader.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
)

// DateLayout is the fixed day/month/year pattern of the date component.
const DateLayout = "02/01/2006"

// DefaultSkipLines is the number of metadata/header lines at the top of the
// raw export.
const DefaultSkipLines = 4

// Options configures a prepare run.
type Options struct {
	// Station is the origin identifier tagged onto every observation.
	Station string
	// SkipLines is the number of leading metadata lines to discard.
	// Negative means DefaultSkipLines.
	SkipLines int
}

// Prepared is the output of a prepare run: the clean observation sequence
// plus diagnostics about what was discarded along the way.
type Prepared struct {
	Obs      []model.Observation
	Dropped  int      // rows excluded because the timestamp failed to parse
	Warnings []string // one entry per drop class, for the result envelope
}

// Prepare reads raw rows from r and returns the prepared observation
// sequence. Input order is preserved, including duplicate dates; output
// length is at most the input row count. Every returned observation has a
// valid date and bucket; numeric fields may be NaN.
func Prepare(r io.Reader, opts Options) (Prepared, error) {
	skip := opts.SkipLines
	if skip < 0 {
		skip = DefaultSkipLines
	}

	// The metadata lines are free-form text, not CSV. Discard them as raw
	// physical lines so a quote or embedded newline in the preamble cannot
	// shift the skip window or leak into the drop diagnostics.
	br := bufio.NewReader(r)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err == io.EOF {
			break
		} else if err != nil {
			return Prepared{}, fmt.Errorf("reading raw input: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1 // raw export rows are not strictly uniform
	cr.TrimLeadingSpace = true

	var p Prepared
	badTimestamp := 0
	shortRows := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken line is treated like any other
			// malformed row: dropped, counted, never fatal.
			if _, ok := err.(*csv.ParseError); ok {
				badTimestamp++
				continue
			}
			return Prepared{}, fmt.Errorf("reading raw input: %w", err)
		}

		if len(record) < 1 || strings.TrimSpace(record[0]) == "" {
			shortRows++
			continue
		}

		date, clock, ok := splitTimestamp(record[0])
		if !ok {
			badTimestamp++
			continue
		}

		obs := model.Observation{
			Date:        date,
			TimeOfDay:   clock,
			Station:     opts.Station,
			Level:       numericAt(record, 1),
			Salinity:    numericAt(record, 2),
			Temperature: numericAt(record, 3),
			Bucket:      model.BucketFor(date),
		}
		p.Obs = append(p.Obs, obs)
	}

	p.Dropped = badTimestamp + shortRows
	if badTimestamp > 0 {
		p.Warnings = append(p.Warnings,
			fmt.Sprintf("%d rows dropped: unparseable timestamp", badTimestamp))
	}
	if shortRows > 0 {
		p.Warnings = append(p.Warnings,
			fmt.Sprintf("%d rows dropped: empty timestamp column", shortRows))
	}
	return p, nil
}

// splitTimestamp splits the combined "<time> <dd/mm/yyyy>" field on its first
// whitespace run and parses both halves. Returns ok=false if the separator is
// missing or either component fails to parse.
func splitTimestamp(raw string) (time.Time, time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	idx := strings.IndexAny(raw, " \t")
	if idx < 0 {
		return time.Time{}, 0, false
	}
	clockPart := raw[:idx]
	datePart := strings.TrimSpace(raw[idx+1:])

	date, err := time.Parse(DateLayout, datePart)
	if err != nil {
		return time.Time{}, 0, false
	}

	clock, err := parseClock(clockPart)
	if err != nil {
		return time.Time{}, 0, false
	}
	return date, clock, true
}

// parseClock converts "HH:MM" (optionally "HH:MM:SS") into a duration since
// midnight.
func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
		d += time.Duration(sec) * time.Second
	}
	return d, nil
}

// numericAt coerces record[idx] to a float64. Absent, empty, or unparseable
// values become NaN; the row is never dropped for a bad measurement.
func numericAt(record []string, idx int) float64 {
	if idx >= len(record) {
		return math.NaN()
	}
	s := strings.TrimSpace(record[idx])
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Package pipeline provides helpers for reading and writing Point streams
// via stdin/stdout in JSONL, the canonical pipe format between gauge
// commands.
package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mhoekstra/gauge/internal/model"
)

// row is the wire shape of one JSONL record. Value is null for missing
// measurements; encoding/json cannot represent NaN.
type row struct {
	Station  string      `json:"station,omitempty"`
	Field    string      `json:"field,omitempty"`
	Date     string      `json:"date"`
	Value    interface{} `json:"value"`
	ValueRaw string      `json:"value_raw,omitempty"`
}

// ReadSeries reads JSONL records from r (stdin) and returns the reassembled
// series. Each line must be a JSON object with at least "date" and "value".
// Blank lines and lines starting with "//" are skipped.
func ReadSeries(r io.Reader) (model.Series, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var s model.Series
	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var rec row
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return model.Series{}, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}

		if s.Station == "" && rec.Station != "" {
			s.Station = rec.Station
		}
		if s.Field == "" && rec.Field != "" {
			s.Field = model.Field(rec.Field)
		}

		date, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			return model.Series{}, fmt.Errorf("line %d: invalid date %q", lineNum, rec.Date)
		}

		var val float64
		raw := rec.ValueRaw
		switch v := rec.Value.(type) {
		case nil:
			val = math.NaN()
			if raw == "" {
				raw = "."
			}
		case float64:
			val = v
			if raw == "" {
				raw = fmt.Sprintf("%g", v)
			}
		case string:
			if v == "" || v == "." {
				val = math.NaN()
				raw = "."
			} else {
				return model.Series{}, fmt.Errorf("line %d: unexpected string value %q", lineNum, v)
			}
		default:
			return model.Series{}, fmt.Errorf("line %d: unexpected value type %T", lineNum, rec.Value)
		}

		s.Points = append(s.Points, model.Point{Date: date, Value: val, ValueRaw: raw})
	}
	if err := scanner.Err(); err != nil {
		return model.Series{}, fmt.Errorf("reading input: %w", err)
	}
	if len(s.Points) == 0 {
		return model.Series{}, fmt.Errorf("no points read from input (is stdin empty?)")
	}
	return s, nil
}

// WriteJSONL writes a series as JSONL to w, one point per line.
func WriteJSONL(w io.Writer, s model.Series) error {
	enc := json.NewEncoder(w)
	for _, p := range s.Points {
		rec := row{
			Station:  s.Station,
			Field:    string(s.Field),
			Date:     p.Date.Format("2006-01-02"),
			ValueRaw: p.ValueRaw,
		}
		if !p.IsMissing() {
			rec.Value = p.Value
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

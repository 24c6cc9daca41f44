// Package importer turns free-form spreadsheet exports into maintenance
// rows. Field parsing tolerates the formats people actually type into
// spreadsheets; a row that fails a required field is rejected whole, never
// partially inserted, and never aborts the rest of the batch.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names recognized in the header, matched case-insensitively.
// Anything else in the header is ignored.
const (
	ColDescription = "description"
	ColMileage     = "mileage"
	ColDate        = "date"
	ColCost        = "cost"
)

var requiredColumns = []string{ColDescription, ColMileage, ColDate}

// Row is one successfully parsed import line.
type Row struct {
	Description string
	Mileage     int
	Date        time.Time
	Cost        *decimal.Decimal
}

// RowError names the column and failure that rejected a row.
type RowError struct {
	Line     int // 1-based file line, header is line 1
	Column   string
	Kind     Kind
	Original string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %s (%q)", e.Line, e.Column, e.Kind, e.Original)
}

// Outcome is the result for a single line: exactly one of Row or Err is set.
type Outcome struct {
	Line int
	Row  *Row
	Err  *RowError
}

// Report summarizes a batch. Outcomes are in file order.
type Report struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// Failures returns the rejected rows for display.
func (r *Report) Failures() []RowError {
	out := make([]RowError, 0, r.Failed)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, *o.Err)
		}
	}
	return out
}

// schema maps the recognized columns to their position in the header.
type schema struct {
	description int
	mileage     int
	date        int
	cost        int // -1 when the optional column is absent
}

func buildSchema(header []string) (schema, error) {
	sc := schema{description: -1, mileage: -1, date: -1, cost: -1}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case ColDescription:
			sc.description = i
		case ColMileage:
			sc.mileage = i
		case ColDate:
			sc.date = i
		case ColCost:
			sc.cost = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		switch name {
		case ColDescription:
			if sc.description < 0 {
				missing = append(missing, name)
			}
		case ColMileage:
			if sc.mileage < 0 {
				missing = append(missing, name)
			}
		case ColDate:
			if sc.date < 0 {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		return sc, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return sc, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// Read parses a whole CSV batch. The header is validated once up front; a
// header missing a required column fails the batch. After that every line
// yields exactly one Outcome and bad rows never stop the reader.
func Read(r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	sc, err := buildSchema(header)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	line := 1 // header
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{
				Line: line,
				Err:  &RowError{Line: line, Column: "", Kind: KindMissingValue, Original: err.Error()},
			})
			report.Failed++
			continue
		}

		outcome := parseRecord(line, sc, record)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	return report, nil
}

func parseRecord(line int, sc schema, record []string) Outcome {
	fail := func(column string, kind Kind, original string) Outcome {
		return Outcome{Line: line, Err: &RowError{Line: line, Column: column, Kind: kind, Original: original}}
	}

	description := strings.TrimSpace(field(record, sc.description))
	if description == "" {
		return fail(ColDescription, KindMissingValue, field(record, sc.description))
	}

	mileageText := field(record, sc.mileage)
	if strings.TrimSpace(mileageText) == "" {
		return fail(ColMileage, KindMissingValue, mileageText)
	}
	mileage, err := ParseMileage(mileageText)
	if err != nil {
		return fail(ColMileage, KindInvalidMileage, mileageText)
	}

	dateText := field(record, sc.date)
	if strings.TrimSpace(dateText) == "" {
		return fail(ColDate, KindMissingValue, dateText)
	}
	date, err := ParseDate(dateText)
	if err != nil {
		return fail(ColDate, KindInvalidDate, dateText)
	}

	var cost *decimal.Decimal
	if sc.cost >= 0 {
		costText := field(record, sc.cost)
		cost, err = ParseCost(costText)
		if err != nil {
			return fail(ColCost, KindInvalidCost, costText)
		}
	}

	return Outcome{Line: line, Row: &Row{
		Description: description,
		Mileage:     mileage,
		Date:        date,
		Cost:        cost,
	}}
}

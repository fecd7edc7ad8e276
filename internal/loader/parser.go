package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NgigiN/elibrary/internal/library"
	"github.com/araddon/dateparse"
)

// missingTokens are cell values read as "no value", on top of the empty cell.
var missingTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "NaN": true, "nan": true,
	"<NA>": true, "N/A": true, "n/a": true, "NA": true,
	"NULL": true, "null": true, "None": true,
}

// Result is a parsed table together with the number of incomplete rows dropped.
type Result struct {
	Table   library.Table
	Dropped int
}

// Parse reads a transaction CSV. The header must name every required
// column; extra columns are allowed. Rows with a missing value in any
// column are dropped before dates and durations are converted.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &library.SchemaError{Column: library.RequiredColumns[0]}
	}
	if err != nil {
		return nil, csvError(err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, col := range library.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &library.SchemaError{Column: col}
		}
	}

	res := &Result{Table: library.Table{}}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		if incomplete(row, len(header)) {
			res.Dropped++
			continue
		}

		line, _ := reader.FieldPos(0)
		tx, err := toTransaction(row, index, line)
		if err != nil {
			return nil, err
		}
		res.Table = append(res.Table, tx)
	}
	return res, nil
}

func incomplete(row []string, width int) bool {
	if len(row) < width {
		return true
	}
	for _, v := range row[:width] {
		v = strings.TrimSpace(v)
		if v == "" || missingTokens[v] {
			return true
		}
	}
	return false
}

func toTransaction(row []string, index map[string]int, line int) (library.Transaction, error) {
	get := func(col string) string {
		return strings.TrimSpace(row[index[col]])
	}

	rawDate := get(library.ColumnDate)
	date, err := ParseDate(rawDate)
	if err != nil {
		return library.Transaction{}, &library.ParseError{Line: line, Column: library.ColumnDate, Value: rawDate, Err: err}
	}

	rawDuration := get(library.ColumnDuration)
	duration, err := parseDuration(rawDuration)
	if err != nil {
		return library.Transaction{}, &library.ParseError{Line: line, Column: library.ColumnDuration, Value: rawDuration, Err: err}
	}

	return library.Transaction{
		TransactionID: get(library.ColumnTransactionID),
		Date:          date,
		UserID:        get(library.ColumnUserID),
		BookTitle:     get(library.ColumnBookTitle),
		Genre:         get(library.ColumnGenre),
		DurationDays:  duration,
	}, nil
}

// ParseDate accepts any layout dateparse recognises. Values without a zone
// are read as UTC; ambiguous numeric dates are month first.
func ParseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseDuration accepts whole numbers, including "4.0".
func parseDuration(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, errors.New("duration must not be negative")
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("duration is not a number")
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.New("duration must be a whole number of days")
	}
	if f < 0 {
		return 0, errors.New("duration must not be negative")
	}
	return int(f), nil
}

func csvError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &library.ParseError{Line: perr.Line, Err: perr.Err}
	}
	return fmt.Errorf("failed to read CSV: %w", err)
}

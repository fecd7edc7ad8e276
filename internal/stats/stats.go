// Package stats computes the summary figures shown in the insights report.
package stats

import (
	"fmt"
	"math"

	"github.com/NgigiN/elibrary/internal/library"
)

// Source is anything that can group transactions and average their durations.
type Source interface {
	library.Counter
	AverageDuration() (float64, error)
}

// Summary is recomputed on every request and never cached.
type Summary struct {
	MostBorrowedTitle string  `json:"most_borrowed_book"`
	AverageDuration   float64 `json:"average_borrowing_duration_days"`
	BusiestDay        string  `json:"busiest_day"`
}

// Compute derives the summary from src. Ties for the most borrowed title
// and the busiest day resolve as library.SortCounts orders them.
func Compute(src Source) (Summary, error) {
	titles, err := src.CountBy(library.FieldTitle)
	if err != nil {
		return Summary{}, fmt.Errorf("most borrowed title: %w", err)
	}
	if len(titles) == 0 {
		return Summary{}, library.ErrEmptyTable
	}

	avg, err := src.AverageDuration()
	if err != nil {
		return Summary{}, fmt.Errorf("average duration: %w", err)
	}

	days, err := src.CountBy(library.FieldWeekday)
	if err != nil {
		return Summary{}, fmt.Errorf("busiest day: %w", err)
	}

	return Summary{
		MostBorrowedTitle: titles[0].Label,
		AverageDuration:   RoundTo2(avg),
		BusiestDay:        days[0].Label,
	}, nil
}

// RoundTo2 rounds half away from zero to two decimals.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

type tableSource struct {
	table library.Table
}

// FromTable adapts an in-memory table, such as a filter result, to Source.
func FromTable(t library.Table) Source {
	return tableSource{table: t}
}

func (s tableSource) CountBy(field library.Field) ([]library.Count, error) {
	return s.table.CountBy(field), nil
}

func (s tableSource) AverageDuration() (float64, error) {
	return s.table.AverageDuration(), nil
}

// Package chart builds the dashboard's four fixed charts from grouped
// transaction counts and draws them on a terminal.
package chart

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/NgigiN/elibrary/internal/library"
)

type Kind string

const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindPie     Kind = "pie"
	KindHeatmap Kind = "heatmap"
)

// TopTitlesLimit is how many titles the bar chart shows.
const TopTitlesLimit = 5

// Point is one bar, line vertex, slice or heatmap cell.
type Point struct {
	Label      string
	Value      float64
	Annotation string
}

type Chart struct {
	Kind    Kind
	Title   string
	XLabel  string
	YLabel  string
	Points  []Point
	Markers bool
	Grid    bool
}

// Build returns the bar, line, pie and heatmap charts in display order.
func Build(src library.Counter) ([]Chart, error) {
	builders := []func(library.Counter) (Chart, error){
		func(c library.Counter) (Chart, error) { return TopTitles(c, TopTitlesLimit) },
		MonthlyTrend,
		GenreShare,
		WeekdayHeatmap,
	}

	charts := make([]Chart, 0, len(builders))
	for _, build := range builders {
		c, err := build(src)
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	return charts, nil
}

// TopTitles is a bar chart of the n most borrowed titles, highest first.
func TopTitles(src library.Counter, n int) (Chart, error) {
	counts, err := src.CountBy(library.FieldTitle)
	if err != nil {
		return Chart{}, fmt.Errorf("top titles: %w", err)
	}
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return Chart{
		Kind:   KindBar,
		Title:  fmt.Sprintf("Top %d Most Borrowed Books", n),
		XLabel: "Book Title",
		YLabel: "Borrow Count",
		Points: points(counts),
	}, nil
}

// MonthlyTrend is a line chart of borrows per calendar month (1-12),
// ordered by month.
func MonthlyTrend(src library.Counter) (Chart, error) {
	counts, err := src.CountBy(library.FieldMonth)
	if err != nil {
		return Chart{}, fmt.Errorf("monthly trend: %w", err)
	}
	sort.SliceStable(counts, func(i, j int) bool {
		a, _ := strconv.Atoi(counts[i].Label)
		b, _ := strconv.Atoi(counts[j].Label)
		return a < b
	})
	return Chart{
		Kind:    KindLine,
		Title:   "Borrowing Trends Over Months",
		XLabel:  "Month",
		YLabel:  "Number of Borrows",
		Points:  points(counts),
		Markers: true,
		Grid:    true,
	}, nil
}

// GenreShare is a pie chart of borrows per genre, each slice annotated
// with its percentage.
func GenreShare(src library.Counter) (Chart, error) {
	counts, err := src.CountBy(library.FieldGenre)
	if err != nil {
		return Chart{}, fmt.Errorf("genre share: %w", err)
	}

	var total int
	for _, c := range counts {
		total += c.N
	}
	pts := points(counts)
	for i := range pts {
		pts[i].Annotation = fmt.Sprintf("%.1f%%", 100*pts[i].Value/float64(total))
	}

	return Chart{
		Kind:   KindPie,
		Title:  "Distribution of Books by Genre",
		Points: pts,
	}, nil
}

// WeekdayHeatmap has one row per weekday seen, Monday first, and a single
// annotated count column.
func WeekdayHeatmap(src library.Counter) (Chart, error) {
	counts, err := src.CountBy(library.FieldWeekday)
	if err != nil {
		return Chart{}, fmt.Errorf("weekday heatmap: %w", err)
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return library.WeekdayIndex(counts[i].Label) < library.WeekdayIndex(counts[j].Label)
	})

	pts := points(counts)
	for i := range pts {
		pts[i].Annotation = strconv.Itoa(counts[i].N)
	}

	return Chart{
		Kind:   KindHeatmap,
		Title:  "Borrowing Activity Heatmap",
		XLabel: "Transaction ID",
		YLabel: "Day",
		Points: pts,
	}, nil
}

func points(counts []library.Count) []Point {
	pts := make([]Point, len(counts))
	for i, c := range counts {
		pts[i] = Point{Label: c.Label, Value: float64(c.N)}
	}
	return pts
}

// Range returns the smallest and largest point values.
func (c Chart) Range() (lo, hi float64) {
	for i, p := range c.Points {
		if i == 0 || p.Value < lo {
			lo = p.Value
		}
		if i == 0 || p.Value > hi {
			hi = p.Value
		}
	}
	return lo, hi
}

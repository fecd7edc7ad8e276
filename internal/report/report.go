// Package report renders a stats.Summary for people (text, markdown) and
// for tools (JSON).
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NgigiN/elibrary/internal/stats"
	"github.com/goccy/go-json"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

const (
	DefaultTitle = "E-LIBRARY DATA INSIGHTS REPORT"
	separator    = "--------------------------------"
)

type Reporter struct {
	Format Format
	Title  string
}

func New(format Format) *Reporter {
	return &Reporter{Format: format, Title: DefaultTitle}
}

// Write renders s to w in the reporter's format.
func (r *Reporter) Write(w io.Writer, s stats.Summary) error {
	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	switch r.Format {
	case FormatJSON:
		out, err := json.MarshalIndent(struct {
			Title string `json:"title"`
			stats.Summary
		}{title, s}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(title, s))
		return err
	case FormatText, "":
		_, err := io.WriteString(w, Text(title, s))
		return err
	}
	return fmt.Errorf("unknown report format %q", r.Format)
}

// Text is the plain report: a blank line, the title, a separator and one
// "Name: value" line per metric.
func Text(title string, s stats.Summary) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title + "\n")
	b.WriteString(separator + "\n")
	for _, m := range metrics(s) {
		fmt.Fprintf(&b, "%s: %s\n", m.name, m.value)
	}
	return b.String()
}

// Markdown formats the report for chat channels.
func Markdown(title string, s stats.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **%s**\n\n", title)
	for _, m := range metrics(s) {
		fmt.Fprintf(&b, "**%s**: %s\n", m.name, m.value)
	}
	return b.String()
}

type metric struct {
	name  string
	value string
}

func metrics(s stats.Summary) []metric {
	return []metric{
		{"Most Borrowed Book", s.MostBorrowedTitle},
		{"Average Borrowing Duration (Days)", FormatFloat(s.AverageDuration)},
		{"Busiest Day", s.BusiestDay},
	}
}

// FormatFloat prints the shortest exact form, keeping one decimal for whole
// numbers (4 -> "4.0", 4.25 -> "4.25").
func FormatFloat(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eEnN") {
		out += ".0"
	}
	return out
}

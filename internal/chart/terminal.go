package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
)

const (
	DefaultWidth  = 60
	maxLabelWidth = 30
	lineHeight    = 10
)

// Renderer draws a chart to w.
type Renderer interface {
	Render(w io.Writer, c Chart) error
}

// Terminal draws charts as text. Width is the longest bar in columns.
type Terminal struct {
	Width int
	Color bool
}

func (t Terminal) Render(w io.Writer, c Chart) error {
	var b strings.Builder
	b.WriteString("\n" + c.Title + "\n")
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(c.Title)) + "\n")

	if len(c.Points) == 0 {
		b.WriteString("(no data)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	switch c.Kind {
	case KindBar:
		t.bars(&b, c, "█")
	case KindLine:
		t.line(&b, c)
	case KindPie:
		t.pie(&b, c)
	case KindHeatmap:
		t.heatmap(&b, c)
	default:
		return fmt.Errorf("unsupported chart kind %q", c.Kind)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (t Terminal) width() int {
	if t.Width <= 0 {
		return DefaultWidth
	}
	return t.Width
}

func (t Terminal) bars(b *strings.Builder, c Chart, glyph string) {
	if c.YLabel != "" {
		fmt.Fprintf(b, "%s by %s\n", c.YLabel, c.XLabel)
	}
	labelWidth := labelColumn(c.Points)
	_, hi := c.Range()
	for _, p := range c.Points {
		n := 0
		if hi > 0 {
			n = int(math.Round(p.Value / hi * float64(t.width())))
		}
		value := p.Annotation
		if value == "" {
			value = strconv.FormatFloat(p.Value, 'f', -1, 64)
		}
		fmt.Fprintf(b, "%-*s │%s %s\n", labelWidth, truncate(p.Label, labelWidth), strings.Repeat(glyph, n), value)
	}
}

func (t Terminal) line(b *strings.Builder, c Chart) {
	series := make([]float64, len(c.Points))
	for i, p := range c.Points {
		series[i] = p.Value
	}
	b.WriteString(asciigraph.Plot(series,
		asciigraph.Height(lineHeight),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("%s per %s", c.YLabel, c.XLabel)),
	))
	b.WriteString("\n")

	marker := " "
	if c.Markers {
		marker = "●"
	}
	cells := make([]string, len(c.Points))
	for i, p := range c.Points {
		cells[i] = fmt.Sprintf("%s %s=%s", marker, p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64))
	}
	fmt.Fprintf(b, "%s: %s\n", c.XLabel, strings.Join(cells, "  "))
}

func (t Terminal) pie(b *strings.Builder, c Chart) {
	t.bars(b, c, "■")
}

// heatmap colours each cell on a blue (low) to red (high) scale and
// prints the count inside it.
func (t Terminal) heatmap(b *strings.Builder, c Chart) {
	labelWidth := labelColumn(c.Points)
	lo, hi := c.Range()
	fmt.Fprintf(b, "%-*s │ %s\n", labelWidth, c.YLabel, c.XLabel)
	for _, p := range c.Points {
		scale := 0.5
		if hi > lo {
			scale = (p.Value - lo) / (hi - lo)
		}
		cell := coolwarm(scale)
		if t.Color {
			cell.EnableColor()
		} else {
			cell.DisableColor()
		}
		fmt.Fprintf(b, "%-*s │%s\n", labelWidth, truncate(p.Label, labelWidth), cell.Sprintf(" %6s ", p.Annotation))
	}
	fmt.Fprintf(b, "scale: low %s  high %s\n",
		strconv.FormatFloat(lo, 'f', -1, 64), strconv.FormatFloat(hi, 'f', -1, 64))
}

func coolwarm(scale float64) *color.Color {
	switch {
	case scale < 0.2:
		return color.New(color.BgBlue, color.FgWhite)
	case scale < 0.4:
		return color.New(color.BgHiBlue, color.FgBlack)
	case scale < 0.6:
		return color.New(color.BgWhite, color.FgBlack)
	case scale < 0.8:
		return color.New(color.BgHiRed, color.FgBlack)
	default:
		return color.New(color.BgRed, color.FgWhite)
	}
}

func labelColumn(pts []Point) int {
	w := 0
	for _, p := range pts {
		if n := utf8.RuneCountInString(p.Label); n > w {
			w = n
		}
	}
	if w > maxLabelWidth {
		w = maxLabelWidth
	}
	return w
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

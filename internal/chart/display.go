package chart

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const prompt = "Press Enter to continue..."

// Display shows charts one at a time. In interactive mode each Show blocks
// until a line is read from in, the terminal equivalent of closing a
// chart window.
type Display struct {
	out         io.Writer
	in          *bufio.Reader
	renderer    Renderer
	interactive bool
}

func NewDisplay(out io.Writer, in io.Reader, renderer Renderer, interactive bool) *Display {
	return &Display{
		out:         out,
		in:          bufio.NewReader(in),
		renderer:    renderer,
		interactive: interactive,
	}
}

// Show renders c and, when interactive, waits for the viewer.
// A closed input ends the wait without error.
func (d *Display) Show(c Chart) error {
	if err := d.renderer.Render(d.out, c); err != nil {
		return fmt.Errorf("failed to render %q: %w", c.Title, err)
	}
	if !d.interactive {
		return nil
	}

	fmt.Fprint(d.out, prompt)
	if _, err := d.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Fprintln(d.out)
	return nil
}

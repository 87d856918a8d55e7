package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	headerMain = "♪ "
	header     = "→ "
	pickedMark = "  ⮑  "
)

// Display writes styled, user-facing messages.
type Display struct {
	w       io.Writer
	palette *Palette
}

// NewDisplay creates a Display writing to w, defaulting to [os.Stdout].
func NewDisplay(w io.Writer) *Display {
	if w == nil {
		w = os.Stdout
	}
	return &Display{w: w, palette: styles}
}

// Writer returns the underlying writer.
func (d *Display) Writer() io.Writer { return d.w }

func (d *Display) println(s string) {
	fmt.Fprintln(d.w, s)
}

// Step announces a top-level operation.
func (d *Display) Step(msg string) { d.println(d.palette.step.Render(headerMain + msg)) }

// Substep announces a section, preceded by a blank line.
func (d *Display) Substep(msg string) { d.println("\n" + d.palette.substep.Render(header+msg)) }

// Validation reports a successful check or result.
func (d *Display) Validation(msg string) { d.println(d.palette.validation.Render(header + msg)) }

// Warning reports something the user should know about.
func (d *Display) Warning(msg string) { d.println(d.palette.warning.Render(header + msg)) }

// Error reports a failure. Errors are written to the display, never returned.
func (d *Display) Error(msg string) { d.println(d.palette.error.Render(msg)) }

// Question writes a prompt with no trailing newline.
func (d *Display) Question(msg string) { fmt.Fprint(d.w, d.palette.warning.Render(header+msg)) }

// PickedAlbum writes the i-th (zero based) picked album, alternating colors.
func (d *Display) PickedAlbum(i int, album string) {
	style := d.palette.even
	if i%2 == 1 {
		style = d.palette.odd
	}
	d.println(style.Render(pickedMark + album))
}

// Plain writes s as is.
func (d *Display) Plain(s string) { d.println(s) }

// Title capitalizes each word of a category name, e.g. "hard rock" becomes "Hard Rock".
func Title(name string) string {
	return cases.Title(language.English).String(name)
}

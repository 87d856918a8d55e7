package ui

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// Prompt asks yes/no questions on a [Display], reading answers line by line.
type Prompt struct {
	in      *bufio.Reader
	display *Display
}

// NewPrompt creates a Prompt reading from in, defaulting to [os.Stdin].
func NewPrompt(in io.Reader, display *Display) *Prompt {
	if in == nil {
		in = os.Stdin
	}
	return &Prompt{in: bufio.NewReader(in), display: display}
}

// Confirm asks question until the answer is y, yes, n or no (case-insensitive).
// End of input counts as no.
func (p *Prompt) Confirm(question string) (bool, error) {
	for {
		p.display.Question(question)

		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			p.display.Error("Quitting...")
			return false, nil
		}

		if errors.Is(err, io.EOF) {
			p.display.Plain("")
			p.display.Error("Quitting...")
			return false, nil
		}
		p.display.Error("You must answer 'yes'/'y' or 'no'/'n'.")
	}
}

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette(Colors{
	Step:       "#FF5F5F",
	Substep:    "#FFFFFF",
	Validation: "#5F87FF",
	Warning:    "#FFA500",
	Error:      "#FF0000",
	Even:       "#00D7D7",
	Odd:        "#04B575",
	Help:       "#626262",
})

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// Colors are the foreground colors of a [Palette], as hex strings.
type Colors struct {
	Step, Substep, Validation, Warning, Error, Even, Odd, Help string
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	step       lipgloss.Style
	substep    lipgloss.Style
	validation lipgloss.Style
	warning    lipgloss.Style
	error      lipgloss.Style
	even       lipgloss.Style
	odd        lipgloss.Style
	title      lipgloss.Style
	help       lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		step:       NewBold(c.Step),
		substep:    NewBold(c.Substep),
		validation: NewStyle(c.Validation),
		warning:    NewStyle(c.Warning),
		error:      NewStyle(c.Error),
		even:       NewStyle(c.Even),
		odd:        NewStyle(c.Odd),
		title:      NewBold(c.Step).MarginBottom(1),
		help:       NewEm(c.Help),
	}
}

// As renders s with fg as its foreground color.
func (p *Palette) As(s string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(s)
}

// On renders s with bg as its background color.
func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

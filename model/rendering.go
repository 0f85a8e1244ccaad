package model

import (
	"bufio"
	"io"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	// ANSI: cursor home, then erase the screen
	clearSequence = "\033[H\033[2J"
)

// CellView is the read side of a simulation consumed by renderers
type CellView interface {
	Size() int
	Alive(row, col int) bool
}

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out io.Writer
}

// NewTerminalRenderer returns a renderer writing to out
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{Out: out}
}

// Display renders the grid to the terminal
func (r *TerminalRenderer) Display(v CellView) error {
	w := bufio.NewWriter(r.Out)
	size := v.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if v.Alive(row, col) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.Out, clearSequence)
	return err
}

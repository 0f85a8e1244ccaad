package model

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownPattern is returned when a pattern name is not registered
var ErrUnknownPattern = errors.New("unknown pattern")

// Pattern is a small fixed bitmap of 0/1 cells stamped onto a grid
type Pattern struct {
	Name  string
	Cells [][]uint8
}

// Height returns the number of bitmap rows
func (p Pattern) Height() int { return len(p.Cells) }

// Width returns the length of the widest bitmap row
func (p Pattern) Width() (w int) {
	for _, row := range p.Cells {
		w = max(w, len(row))
	}
	return
}

// Population returns the number of live cells in the bitmap
func (p Pattern) Population() (n int) {
	for _, row := range p.Cells {
		for _, v := range row {
			if v == 1 {
				n++
			}
		}
	}
	return
}

var (
	// Glider translates one cell down and right every 4 generations
	Glider = Pattern{Name: "glider", Cells: [][]uint8{
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}}

	// Blinker is a period 2 oscillator
	Blinker = Pattern{Name: "blinker", Cells: [][]uint8{
		{1, 1, 1},
	}}

	// Block is a still life
	Block = Pattern{Name: "block", Cells: [][]uint8{
		{1, 1},
		{1, 1},
	}}

	// Beacon is a period 2 oscillator
	Beacon = Pattern{Name: "beacon", Cells: [][]uint8{
		{1, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 1},
	}}

	patterns = map[string]Pattern{
		Glider.Name:  Glider,
		Blinker.Name: Blinker,
		Block.Name:   Block,
		Beacon.Name:  Beacon,
	}
)

// LookupPattern returns the named seed pattern
func LookupPattern(name string) (Pattern, error) {
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "[LookupPattern] %q", name)
	}
	return p, nil
}

// PatternNames returns the registered pattern names in sorted order
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Placement positions a named pattern's top-left corner on the grid
type Placement struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Row     int    `json:"row" yaml:"row"`
	Col     int    `json:"col" yaml:"col"`
}

// DemoPlacements is the demonstration layout stamped onto a cleared grid
func DemoPlacements() []Placement {
	return []Placement{
		{Pattern: Glider.Name, Row: 5, Col: 5},
		{Pattern: Beacon.Name, Row: 10, Col: 15},
		{Pattern: Blinker.Name, Row: 15, Col: 25},
	}
}

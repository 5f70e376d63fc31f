// Package tagging stores the tag and coherence state of every cache line.
package tagging

import (
	"github.com/sarchlab/snoopsim/mem/coherence"
)

// A Line of a cache is the metadata that is associated with one way.
type Line struct {
	Tag     uint64
	WayID   int
	SetID   int
	IsValid bool
	State   coherence.State
}

// A Set is the group of ways that one block address maps to.
type Set struct {
	Lines []Line
}

// TagArray tracks which block every way of every set holds.
type TagArray interface {
	Lookup(setID int, tag uint64) (Line, bool)
	Update(line Line)
	GetSet(setID int) *Set
	ValidMask(setID int) []bool
	Reset()
}

// NewTagArray creates a TagArray with all lines invalid.
func NewTagArray(numSets, numWays int, defaultState coherence.State) TagArray {
	t := &tagArrayImpl{
		NumSets:      numSets,
		NumWays:      numWays,
		DefaultState: defaultState,
		Sets:         []Set{},
	}

	t.Reset()

	return t
}

type tagArrayImpl struct {
	NumSets      int
	NumWays      int
	DefaultState coherence.State
	Sets         []Set
}

// Lookup finds the valid line that holds tag in the given set. At most one
// valid line per (set, tag) can exist.
func (t *tagArrayImpl) Lookup(setID int, tag uint64) (Line, bool) {
	set := &t.Sets[setID]
	for _, line := range set.Lines {
		if line.IsValid && line.Tag == tag {
			return line, true
		}
	}

	return Line{}, false
}

// Update writes the line metadata back into the array.
func (t *tagArrayImpl) Update(line Line) {
	t.Sets[line.SetID].Lines[line.WayID] = line
}

// GetSet returns the set with the given index.
func (t *tagArrayImpl) GetSet(setID int) *Set {
	return &t.Sets[setID]
}

// ValidMask returns the valid bit of every way in the set.
func (t *tagArrayImpl) ValidMask(setID int) []bool {
	set := &t.Sets[setID]
	mask := make([]bool, len(set.Lines))
	for i, line := range set.Lines {
		mask[i] = line.IsValid
	}

	return mask
}

// Reset will mark all the lines in the array invalid
func (t *tagArrayImpl) Reset() {
	t.Sets = make([]Set, t.NumSets)
	for i := 0; i < t.NumSets; i++ {
		for j := 0; j < t.NumWays; j++ {
			line := Line{
				IsValid: false,
				SetID:   i,
				WayID:   j,
				State:   t.DefaultState,
			}

			t.Sets[i].Lines = append(t.Sets[i].Lines, line)
		}
	}
}

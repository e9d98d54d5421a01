package solver

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fillgrid/fillgrid/grid"
)

// testModel is a hand-built grid oracle for crafted scenarios.
type testModel struct {
	slots    []grid.Slot
	vocab    []string
	overlaps map[[2]grid.Slot]grid.Overlap
}

func (m *testModel) Slots() []grid.Slot   { return m.slots }
func (m *testModel) Vocabulary() []string { return m.vocab }

func (m *testModel) Overlap(a, b grid.Slot) (grid.Overlap, bool) {
	ov, ok := m.overlaps[[2]grid.Slot{a, b}]
	return ov, ok
}

func (m *testModel) Neighbors(s grid.Slot) []grid.Slot {
	var ns []grid.Slot
	for _, other := range m.slots {
		if other == s {
			continue
		}
		if _, ok := m.overlaps[[2]grid.Slot{s, other}]; ok {
			ns = append(ns, other)
		}
	}
	return ns
}

// crossing builds two slots that share a cell at the given character
// indices.
func crossing(lenX, lenY, idxX, idxY int, vocab []string) (*testModel, grid.Slot, grid.Slot) {
	x := grid.Slot{Row: 0, Col: 0, Dir: grid.Across, Length: lenX}
	y := grid.Slot{Row: 0, Col: idxX, Dir: grid.Down, Length: lenY}
	m := &testModel{
		slots: []grid.Slot{x, y},
		vocab: vocab,
		overlaps: map[[2]grid.Slot]grid.Overlap{
			{x, y}: {A: idxX, B: idxY},
			{y, x}: {A: idxY, B: idxX},
		},
	}
	return m, x, y
}

func TestEnforceNodeConsistency(t *testing.T) {
	is := is.New(t)
	a := grid.Slot{Row: 0, Col: 0, Dir: grid.Across, Length: 3}
	b := grid.Slot{Row: 2, Col: 0, Dir: grid.Across, Length: 4}
	m := &testModel{
		slots:    []grid.Slot{a, b},
		vocab:    []string{"cat", "dog", "tree", "seven"},
		overlaps: map[[2]grid.Slot]grid.Overlap{},
	}
	s := New(m)
	s.EnforceNodeConsistency()
	is.Equal(s.Domain(a), []string{"cat", "dog"})
	is.Equal(s.Domain(b), []string{"tree"})
}

func TestDomainsAreIndependentCopies(t *testing.T) {
	is := is.New(t)
	a := grid.Slot{Row: 0, Col: 0, Dir: grid.Across, Length: 3}
	b := grid.Slot{Row: 2, Col: 0, Dir: grid.Across, Length: 3}
	m := &testModel{
		slots:    []grid.Slot{a, b},
		vocab:    []string{"cat", "dog"},
		overlaps: map[[2]grid.Slot]grid.Overlap{},
	}
	s := New(m)
	delete(s.domains[0], "cat")
	is.Equal(s.Domain(b), []string{"cat", "dog"})
}

func TestRevise(t *testing.T) {
	is := is.New(t)
	// X's second letter must match Y's second letter. Only "tar"
	// remains for Y, so "dog" loses its support in X.
	m, x, y := crossing(3, 3, 1, 1, []string{"cat", "dog", "tar"})
	s := New(m)
	s.EnforceNodeConsistency()
	delete(s.domains[s.index[y]], "cat")
	delete(s.domains[s.index[y]], "dog")

	is.True(s.Revise(s.index[x], s.index[y]))
	is.Equal(s.Domain(x), []string{"cat", "tar"})
	// Y's domain is never touched by a revision of X.
	is.Equal(s.Domain(y), []string{"tar"})
	// Nothing left to remove: revise is idempotent.
	is.True(!s.Revise(s.index[x], s.index[y]))
}

func TestReviseNoOverlap(t *testing.T) {
	is := is.New(t)
	a := grid.Slot{Row: 0, Col: 0, Dir: grid.Across, Length: 3}
	b := grid.Slot{Row: 2, Col: 0, Dir: grid.Across, Length: 3}
	m := &testModel{
		slots:    []grid.Slot{a, b},
		vocab:    []string{"cat", "dog"},
		overlaps: map[[2]grid.Slot]grid.Overlap{},
	}
	s := New(m)
	is.True(!s.Revise(0, 1))
	is.Equal(s.Domain(a), []string{"cat", "dog"})
}

func TestAC3ReachesArcConsistency(t *testing.T) {
	is := is.New(t)
	m, x, y := crossing(3, 3, 1, 1, []string{"cat", "hat", "tar", "toe"})
	s := New(m)
	s.EnforceNodeConsistency()
	is.True(s.AC3(nil))

	// Every survivor in each domain has a partner in the other at the
	// crossing letter.
	xi, yi := s.index[x], s.index[y]
	for wx := range s.domains[xi] {
		supported := false
		for wy := range s.domains[yi] {
			if wx[1] == wy[1] {
				supported = true
			}
		}
		is.True(supported)
	}
	// "toe" has no partner with 'o' in the middle, on either side.
	is.Equal(s.Domain(x), []string{"cat", "hat", "tar"})
	is.Equal(s.Domain(y), []string{"cat", "hat", "tar"})
}

func TestAC3FailsOnEmptyDomain(t *testing.T) {
	is := is.New(t)
	// X is three letters, Y four, crossing at their first letters. No
	// four-letter word starts with 'c', so Y's domain empties.
	m, _, _ := crossing(3, 4, 0, 0, []string{"cat", "dogs"})
	s := New(m)
	s.EnforceNodeConsistency()
	is.True(!s.AC3(nil))
}

func TestAC3DomainsNeverGrow(t *testing.T) {
	is := is.New(t)
	m, x, y := crossing(3, 3, 1, 1, []string{"cat", "hat", "tar", "toe"})
	s := New(m)
	s.EnforceNodeConsistency()
	before := [2]int{len(s.domains[s.index[x]]), len(s.domains[s.index[y]])}
	is.True(s.AC3(nil))
	is.True(len(s.domains[s.index[x]]) <= before[0])
	is.True(len(s.domains[s.index[y]]) <= before[1])
}

// Package solver fills a crossword grid by treating it as a constraint
// satisfaction problem: slots are variables, candidate words are
// domains, and the constraints are word length, letter agreement at
// crossings, and global word uniqueness. Domains are pruned to arc
// consistency (AC-3) before a backtracking search with MRV/degree
// variable ordering and least-constraining-value ordering.
package solver

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/fillgrid/fillgrid/grid"
)

// Model is the read-only grid oracle the solver consults. *grid.Grid
// satisfies it; tests can hand-build one.
type Model interface {
	Slots() []grid.Slot
	Vocabulary() []string
	Overlap(a, b grid.Slot) (grid.Overlap, bool)
	Neighbors(s grid.Slot) []grid.Slot
}

// An Assignment maps each slot to the word filling it. A solve result
// is complete: every slot has an entry.
type Assignment map[grid.Slot]string

type Option func(*Solver)

// WithTieShuffle randomizes the order of equally-ranked slots and
// words in the search heuristics. Without it ties break in structural
// order and solves are fully deterministic.
func WithTieShuffle() Option {
	return func(s *Solver) { s.shuffleTies = true }
}

// Solver owns the mutable domain store for one solve. Slots are
// addressed by their index in the model's structural order; the
// domains arena is indexed the same way.
type Solver struct {
	slots     []grid.Slot
	index     map[grid.Slot]int
	domains   []map[string]struct{}
	neighbors [][]int
	overlaps  map[[2]int]grid.Overlap

	shuffleTies bool
	visited     int
}

// New builds a solver over the model, seeding every slot's domain with
// an independent copy of the full vocabulary.
func New(m Model, opts ...Option) *Solver {
	slots := m.Slots()
	s := &Solver{
		slots:     slots,
		index:     make(map[grid.Slot]int, len(slots)),
		domains:   make([]map[string]struct{}, len(slots)),
		neighbors: make([][]int, len(slots)),
		overlaps:  make(map[[2]int]grid.Overlap),
	}
	for i, sl := range slots {
		s.index[sl] = i
	}
	vocab := m.Vocabulary()
	for i := range slots {
		dom := make(map[string]struct{}, len(vocab))
		for _, w := range vocab {
			dom[w] = struct{}{}
		}
		s.domains[i] = dom
	}
	for i, sl := range slots {
		for _, n := range m.Neighbors(sl) {
			j := s.index[n]
			s.neighbors[i] = append(s.neighbors[i], j)
			if ov, ok := m.Overlap(sl, n); ok {
				s.overlaps[[2]int{i, j}] = ov
			}
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Domain returns the slot's remaining candidates, sorted. Mostly for
// tests and diagnostics.
func (s *Solver) Domain(sl grid.Slot) []string {
	i, ok := s.index[sl]
	if !ok {
		return nil
	}
	words := make([]string, 0, len(s.domains[i]))
	for w := range s.domains[i] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// EnforceNodeConsistency removes from every domain the words whose
// length does not match the slot's. A domain may legally become empty
// here; that surfaces as failure in AC3 or Solve.
func (s *Solver) EnforceNodeConsistency() {
	removed := 0
	for i, sl := range s.slots {
		for w := range s.domains[i] {
			if len(w) != sl.Length {
				delete(s.domains[i], w)
				removed++
			}
		}
	}
	log.Debug().Int("removed", removed).Msg("node-consistency")
}

// Revise makes slot x arc-consistent with slot y: it removes from x's
// domain every word with no compatible partner left in y's domain at
// their overlap. It returns whether anything was removed, and never
// touches y's domain. No overlap means nothing to revise.
func (s *Solver) Revise(x, y int) bool {
	ov, ok := s.overlaps[[2]int{x, y}]
	if !ok {
		return false
	}
	revised := false
	for wx := range s.domains[x] {
		supported := false
		for wy := range s.domains[y] {
			if wx[ov.A] == wy[ov.B] {
				supported = true
				break
			}
		}
		if !supported {
			delete(s.domains[x], wx)
			revised = true
		}
	}
	return revised
}

// AC3 propagates the overlap constraints to a fixed point. A nil arcs
// slice means starting from every ordered pair of distinct slots. It
// returns false as soon as any domain empties, meaning the puzzle has
// no solution under the current domains.
func (s *Solver) AC3(arcs [][2]int) bool {
	queue := arcs
	if queue == nil {
		for i := range s.slots {
			for j := range s.slots {
				if i != j {
					queue = append(queue, [2]int{i, j})
				}
			}
		}
	}
	// FIFO worklist. Order only affects work done, not the fixed
	// point reached.
	for len(queue) > 0 {
		arc := queue[0]
		queue = queue[1:]
		x, y := arc[0], arc[1]
		if !s.Revise(x, y) {
			continue
		}
		if len(s.domains[x]) == 0 {
			log.Debug().Stringer("slot", s.slots[x]).Msg("domain-emptied")
			return false
		}
		for _, z := range s.neighbors[x] {
			if z != y {
				queue = append(queue, [2]int{z, x})
			}
		}
	}
	return true
}

package solver

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/fillgrid/fillgrid/grid"
)

// Solve prunes the domains (node consistency, then AC-3) and runs the
// backtracking search. It returns the completed assignment, or false
// when the puzzle has no solution — an ordinary outcome, not an error.
// The context is checked between candidate attempts, so a deadline or
// cancellation also surfaces as (nil, false).
func (s *Solver) Solve(ctx context.Context) (Assignment, bool) {
	s.EnforceNodeConsistency()
	if !s.AC3(nil) {
		return nil, false
	}
	s.visited = 0
	asgn, ok := s.backtrack(ctx, make(Assignment, len(s.slots)))
	log.Debug().Int("visited", s.visited).Bool("solved", ok).Msg("search-done")
	if !ok {
		return nil, false
	}
	return asgn, true
}

// backtrack extends a consistent partial assignment one slot at a
// time, undoing each tentative entry on every failing path so the
// caller always sees exactly the assignment it passed in.
func (s *Solver) backtrack(ctx context.Context, asgn Assignment) (Assignment, bool) {
	if len(asgn) == len(s.slots) {
		return asgn, true
	}
	x := s.selectUnassigned(asgn)
	for _, word := range s.orderDomainValues(x, asgn) {
		if ctx.Err() != nil {
			return nil, false
		}
		s.visited++
		asgn[s.slots[x]] = word
		if s.consistent(asgn) {
			if result, ok := s.backtrack(ctx, asgn); ok {
				return result, true
			}
		}
		delete(asgn, s.slots[x])
	}
	return nil, false
}

// consistent reports whether the partial assignment satisfies every
// constraint: word lengths, letter agreement at each crossing, and no
// word used twice anywhere in the grid.
func (s *Solver) consistent(asgn Assignment) bool {
	for sl, w := range asgn {
		if sl.Length != len(w) {
			return false
		}
	}
	for a, wa := range asgn {
		for b, wb := range asgn {
			if a == b {
				continue
			}
			if wa == wb {
				return false
			}
			ov, ok := s.overlaps[[2]int{s.index[a], s.index[b]}]
			if ok && wa[ov.A] != wb[ov.B] {
				return false
			}
		}
	}
	return true
}

// selectUnassigned picks the next slot to fill: smallest remaining
// domain, ties broken by most crossings, then structural order (or a
// random tied slot with tie shuffling on).
func (s *Solver) selectUnassigned(asgn Assignment) int {
	var candidates []int
	for i, sl := range s.slots {
		if _, assigned := asgn[sl]; !assigned {
			candidates = append(candidates, i)
		}
	}
	better := func(i, j int) bool {
		if len(s.domains[i]) != len(s.domains[j]) {
			return len(s.domains[i]) < len(s.domains[j])
		}
		return len(s.neighbors[i]) > len(s.neighbors[j])
	}
	sort.Slice(candidates, func(a, b int) bool {
		i, j := candidates[a], candidates[b]
		if better(i, j) {
			return true
		}
		if better(j, i) {
			return false
		}
		return i < j
	})
	best := candidates[0]
	if !s.shuffleTies {
		return best
	}
	ties := lo.Filter(candidates, func(i int, _ int) bool {
		return !better(best, i) && !better(i, best)
	})
	return ties[frand.Intn(len(ties))]
}

// orderDomainValues orders the slot's candidates by how few options
// each would leave its unassigned neighbors (least constraining value
// first). The sort is stable over an alphabetical base order, so
// equally constraining words keep a deterministic order unless tie
// shuffling is on.
func (s *Solver) orderDomainValues(x int, asgn Assignment) []string {
	words := lo.Keys(s.domains[x])
	sort.Strings(words)
	if s.shuffleTies {
		frand.Shuffle(len(words), func(i, j int) {
			words[i], words[j] = words[j], words[i]
		})
	}
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w] = s.ruleOutCount(x, w, asgn)
	}
	sort.SliceStable(words, func(a, b int) bool {
		return counts[words[a]] < counts[words[b]]
	})
	return words
}

// ruleOutCount counts the candidates this word would eliminate across
// the slot's unassigned neighbors: a neighbor candidate is ruled out
// when its letter disagrees at the crossing, or when it is the very
// same word (the grid-wide uniqueness constraint applied early).
func (s *Solver) ruleOutCount(x int, word string, asgn Assignment) int {
	count := 0
	for _, n := range s.neighbors[x] {
		if _, assigned := asgn[s.slots[n]]; assigned {
			continue
		}
		ov := s.overlaps[[2]int{x, n}]
		for w := range s.domains[n] {
			if w == word || word[ov.A] != w[ov.B] {
				count++
			}
		}
	}
	return count
}

// Slots returns the slots in the solver's structural order.
func (s *Solver) Slots() []grid.Slot {
	return s.slots
}

// Package grid models a crossword grid: the blocked/blank cell
// structure, the word vocabulary, and the slots (maximal runs of blank
// cells) with their crossings. It is a read-only oracle for the solver.
package grid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

type Direction uint8

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Across {
		return "across"
	}
	return "down"
}

// A Slot is a maximal straight run of blank cells, in one direction,
// with a fixed length. Slots are values; two slots are equal iff all
// four fields match, so they can key maps directly.
type Slot struct {
	Row    int
	Col    int
	Dir    Direction
	Length int
}

func (s Slot) String() string {
	return fmt.Sprintf("(%d,%d %v len %d)", s.Row, s.Col, s.Dir, s.Length)
}

// Cell returns the grid coordinates of character index k of the slot's
// word.
func (s Slot) Cell(k int) (row, col int) {
	if s.Dir == Across {
		return s.Row, s.Col + k
	}
	return s.Row + k, s.Col
}

// An Overlap holds the aligned character indices where two slots
// cross: character A of the first slot must equal character B of the
// second.
type Overlap struct {
	A int
	B int
}

// Grid is the parsed puzzle structure. Construct with Load or Parse;
// read-only afterwards.
type Grid struct {
	height int
	width  int
	blank  [][]bool

	words     []string
	slots     []Slot
	overlaps  map[[2]Slot]Overlap
	neighbors map[Slot][]Slot
}

// BlankRune marks a fillable cell in a structure file; any other rune
// blocks the cell.
const BlankRune = '_'

// Load reads a structure file and a word list and builds the grid
// model.
func Load(structurePath, wordsPath string) (*Grid, error) {
	sf, err := os.Open(structurePath)
	if err != nil {
		return nil, fmt.Errorf("open structure: %w", err)
	}
	defer sf.Close()
	wf, err := os.Open(wordsPath)
	if err != nil {
		return nil, fmt.Errorf("open words: %w", err)
	}
	defer wf.Close()
	return Parse(sf, wf)
}

// Parse builds the grid model from a structure description and a word
// list. In the structure, '_' marks a blank (fillable) cell and any
// other rune marks a blocked cell; short lines are padded with blocked
// cells. The word list has one word per line; words are uppercased and
// de-duplicated.
func Parse(structure, words io.Reader) (*Grid, error) {
	g := &Grid{
		overlaps:  map[[2]Slot]Overlap{},
		neighbors: map[Slot][]Slot{},
	}
	if err := g.parseStructure(structure); err != nil {
		return nil, err
	}
	if err := g.parseWords(words); err != nil {
		return nil, err
	}
	g.findSlots()
	g.findOverlaps()
	log.Debug().
		Int("height", g.height).Int("width", g.width).
		Int("slots", len(g.slots)).Int("words", len(g.words)).
		Msg("parsed-grid")
	return g, nil
}

func (g *Grid) parseStructure(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	var rows [][]rune
	for scanner.Scan() {
		line := []rune(strings.TrimRight(scanner.Text(), "\r"))
		rows = append(rows, line)
		if len(line) > g.width {
			g.width = len(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read structure: %w", err)
	}
	if len(rows) == 0 || g.width == 0 {
		return fmt.Errorf("empty structure")
	}
	g.height = len(rows)
	g.blank = make([][]bool, g.height)
	for i, row := range rows {
		g.blank[i] = make([]bool, g.width)
		for j, r := range row {
			g.blank[i][j] = r == BlankRune
		}
	}
	return nil
}

func (g *Grid) parseWords(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	seen := map[string]bool{}
	for scanner.Scan() {
		w := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		g.words = append(g.words, w)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read words: %w", err)
	}
	sort.Strings(g.words)
	return nil
}

// findSlots scans for maximal runs of blank cells, across then down.
// Runs of a single cell do not make a slot.
func (g *Grid) findSlots() {
	for i := 0; i < g.height; i++ {
		for j := 0; j < g.width; j++ {
			if !g.blank[i][j] || (j > 0 && g.blank[i][j-1]) {
				continue
			}
			length := 0
			for j+length < g.width && g.blank[i][j+length] {
				length++
			}
			if length > 1 {
				g.slots = append(g.slots, Slot{Row: i, Col: j, Dir: Across, Length: length})
			}
		}
	}
	for i := 0; i < g.height; i++ {
		for j := 0; j < g.width; j++ {
			if !g.blank[i][j] || (i > 0 && g.blank[i-1][j]) {
				continue
			}
			length := 0
			for i+length < g.height && g.blank[i+length][j] {
				length++
			}
			if length > 1 {
				g.slots = append(g.slots, Slot{Row: i, Col: j, Dir: Down, Length: length})
			}
		}
	}
}

// findOverlaps records, for every ordered pair of crossing slots, the
// character indices that share a cell. Two slots in the same direction
// never share a cell (runs are maximal), so every crossing is a single
// across/down intersection.
func (g *Grid) findOverlaps() {
	type at struct {
		slot Slot
		idx  int
	}
	cells := map[[2]int][]at{}
	for _, s := range g.slots {
		for k := 0; k < s.Length; k++ {
			r, c := s.Cell(k)
			cells[[2]int{r, c}] = append(cells[[2]int{r, c}], at{s, k})
		}
	}
	for _, occupants := range cells {
		if len(occupants) < 2 {
			continue
		}
		for _, x := range occupants {
			for _, y := range occupants {
				if x.slot == y.slot {
					continue
				}
				g.overlaps[[2]Slot{x.slot, y.slot}] = Overlap{A: x.idx, B: y.idx}
				g.neighbors[x.slot] = append(g.neighbors[x.slot], y.slot)
			}
		}
	}
	for s, ns := range g.neighbors {
		sort.Slice(ns, func(i, j int) bool { return slotLess(ns[i], ns[j]) })
		g.neighbors[s] = ns
	}
}

func slotLess(a, b Slot) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	return a.Dir < b.Dir
}

func (g *Grid) Height() int { return g.height }
func (g *Grid) Width() int  { return g.width }

// Blocked reports whether the cell at (row, col) is unfillable.
func (g *Grid) Blocked(row, col int) bool {
	return !g.blank[row][col]
}

// Slots returns every slot in structural order (across slots row-major,
// then down slots).
func (g *Grid) Slots() []Slot {
	return g.slots
}

// Vocabulary returns the word list, sorted and de-duplicated.
func (g *Grid) Vocabulary() []string {
	return g.words
}

// Overlap returns the crossing indices for the ordered pair (a, b).
// The second return is false when the slots do not cross; that is a
// valid state, not an error.
func (g *Grid) Overlap(a, b Slot) (Overlap, bool) {
	ov, ok := g.overlaps[[2]Slot{a, b}]
	return ov, ok
}

// Neighbors returns every slot that crosses s.
func (g *Grid) Neighbors(s Slot) []Slot {
	return g.neighbors[s]
}

// Letters lays out a partial assignment as a 2D rune grid; zero runes
// mark cells no assigned word covers.
func (g *Grid) Letters(assignment map[Slot]string) [][]rune {
	letters := make([][]rune, g.height)
	for i := range letters {
		letters[i] = make([]rune, g.width)
	}
	for s, word := range assignment {
		for k, r := range []rune(word) {
			row, col := s.Cell(k)
			letters[row][col] = r
		}
	}
	return letters
}

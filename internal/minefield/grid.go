package minefield

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Cell is either Bomb or the number of bombs among its eight neighbors.
type Cell int8

const Bomb Cell = -1

func (c Cell) IsBomb() bool { return c == Bomb }

// Count returns the adjacent bomb count, or -1 for a bomb.
func (c Cell) Count() int { return int(c) }

type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a rows×cols matrix stored row-major.
type Grid struct {
	rows, cols int
	cells      []Cell
}

func NewGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

// GridFromBombs builds a grid with bombs at the given positions and counts
// already computed. Positions outside the grid are ignored.
func GridFromBombs(rows, cols int, bombs ...Pos) *Grid {
	g := NewGrid(rows, cols)
	for _, p := range bombs {
		if g.In(p) {
			g.cells[g.index(p)] = Bomb
		}
	}
	g.ComputeCounts()
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Size() int { return len(g.cells) }

func (g *Grid) In(p Pos) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < g.rows && p.Col < g.cols
}

func (g *Grid) index(p Pos) int { return p.Row*g.cols + p.Col }

func (g *Grid) pos(i int) Pos { return Pos{Row: i / g.cols, Col: i % g.cols} }

// At returns the cell at p. Callers must check In first.
func (g *Grid) At(p Pos) Cell { return g.cells[g.index(p)] }

// Around calls fn for every on-grid neighbor of p. There is no wraparound.
func (g *Grid) Around(p Pos, fn func(n Pos)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Pos{Row: p.Row + dr, Col: p.Col + dc}
			if g.In(n) {
				fn(n)
			}
		}
	}
}

func (g *Grid) BombCount() int {
	n := 0
	for _, c := range g.cells {
		if c.IsBomb() {
			n++
		}
	}
	return n
}

// Bombs returns bomb positions in row-major order.
func (g *Grid) Bombs() []Pos {
	var out []Pos
	for i, c := range g.cells {
		if c.IsBomb() {
			out = append(out, g.pos(i))
		}
	}
	return out
}

// PlaceBombs marks n distinct cells as bombs, never choosing exclude. It picks
// from the list of candidate indices with swap-remove, so it always terminates.
// n is capped at the number of candidates.
func (g *Grid) PlaceBombs(n int, exclude Pos, r *rand.Rand) {
	candidates := make([]int, 0, len(g.cells))
	skip := -1
	if g.In(exclude) {
		skip = g.index(exclude)
	}
	for i, c := range g.cells {
		if i == skip || c.IsBomb() {
			continue
		}
		candidates = append(candidates, i)
	}

	k := len(candidates)
	for placed := 0; placed < n && k > 0; placed++ {
		i := r.IntN(k)
		g.cells[candidates[i]] = Bomb
		k--
		candidates[i] = candidates[k]
	}

	Log.WithFields(logrus.Fields{
		"rows":    g.rows,
		"cols":    g.cols,
		"bombs":   g.BombCount(),
		"exclude": exclude,
	}).Debug("generated bombs")
}

// ComputeCounts stores the adjacent bomb count in every non-bomb cell.
func (g *Grid) ComputeCounts() {
	for i, c := range g.cells {
		if c.IsBomb() {
			continue
		}
		count := 0
		g.Around(g.pos(i), func(n Pos) {
			if g.At(n).IsBomb() {
				count++
			}
		})
		g.cells[i] = Cell(count)
	}
	if Log.IsLevelEnabled(logrus.DebugLevel) {
		Log.WithField("grid", "\n"+g.String()).Debug("counted bombs")
	}
}

func (g *Grid) clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// String renders the full layout: '*' for bombs, '.' for zero, digits otherwise.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			switch cell := g.At(Pos{Row: r, Col: c}); {
			case cell.IsBomb():
				sb.WriteByte('*')
			case cell == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(cell.Count()))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

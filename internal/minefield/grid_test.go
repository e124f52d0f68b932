package minefield

import (
	"math/rand/v2"
	"testing"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// bruteCount counts bombs around p without using Grid.Around.
func bruteCount(g *Grid, p Pos) int {
	n := 0
	for r := p.Row - 1; r <= p.Row+1; r++ {
		for c := p.Col - 1; c <= p.Col+1; c++ {
			if r == p.Row && c == p.Col {
				continue
			}
			if r < 0 || c < 0 || r >= g.Rows() || c >= g.Cols() {
				continue
			}
			if g.At(Pos{Row: r, Col: c}).IsBomb() {
				n++
			}
		}
	}
	return n
}

func TestPlaceBombsExactCountAndExclusion(t *testing.T) {
	cases := []struct {
		name       string
		rows, cols int
		bombs      int
	}{
		{"classic", 8, 8, 8},
		{"beginner", 9, 9, 10},
		{"expert", 16, 30, 99},
		{"all but one", 4, 4, 15},
		{"single row", 1, 5, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := uint64(0); seed < 50; seed++ {
				g := NewGrid(tc.rows, tc.cols)
				exclude := Pos{Row: int(seed) % tc.rows, Col: int(seed*7) % tc.cols}
				g.PlaceBombs(tc.bombs, exclude, seeded(seed))

				if got := g.BombCount(); got != tc.bombs {
					t.Fatalf("seed %d: got %d bombs, want %d", seed, got, tc.bombs)
				}
				if g.At(exclude).IsBomb() {
					t.Fatalf("seed %d: excluded cell %v holds a bomb", seed, exclude)
				}
			}
		})
	}
}

func TestPlaceBombsCapsAtCandidates(t *testing.T) {
	g := NewGrid(2, 2)
	g.PlaceBombs(10, Pos{Row: 0, Col: 0}, seeded(1))
	if got := g.BombCount(); got != 3 {
		t.Fatalf("got %d bombs, want 3", got)
	}
	if g.At(Pos{}).IsBomb() {
		t.Fatalf("excluded cell holds a bomb")
	}
}

func TestComputeCountsMatchesNeighbors(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		g := NewGrid(8, 8)
		g.PlaceBombs(12, Pos{Row: 3, Col: 3}, seeded(seed))
		g.ComputeCounts()

		for r := 0; r < 8; r++ {
			for c := 0; c < 8; c++ {
				p := Pos{Row: r, Col: c}
				cell := g.At(p)
				if cell.IsBomb() {
					continue
				}
				if want := bruteCount(g, p); cell.Count() != want {
					t.Fatalf("seed %d: count at %v = %d, want %d\n%s", seed, p, cell.Count(), want, g)
				}
			}
		}
	}
}

func TestComputeCountsNoWraparound(t *testing.T) {
	g := GridFromBombs(3, 3, Pos{Row: 0, Col: 2})

	want := []string{
		". 1 *",
		". 1 1",
		". . .",
	}
	got := g.String()
	exp := ""
	for _, line := range want {
		exp += line + "\n"
	}
	if got != exp {
		t.Fatalf("layout:\n%s\nwant:\n%s", got, exp)
	}
}

func TestAroundSkipsOffGrid(t *testing.T) {
	g := NewGrid(3, 4)
	cases := []struct {
		p    Pos
		want int
	}{
		{Pos{Row: 0, Col: 0}, 3},
		{Pos{Row: 0, Col: 1}, 5},
		{Pos{Row: 1, Col: 1}, 8},
		{Pos{Row: 2, Col: 3}, 3},
	}
	for _, tc := range cases {
		n := 0
		g.Around(tc.p, func(Pos) { n++ })
		if n != tc.want {
			t.Fatalf("Around(%v) visited %d, want %d", tc.p, n, tc.want)
		}
	}
}

func TestGridFromBombsIgnoresOffGrid(t *testing.T) {
	g := GridFromBombs(2, 2, Pos{Row: 5, Col: 5}, Pos{Row: 1, Col: 1}, Pos{Row: -1, Col: 0})
	if got := g.BombCount(); got != 1 {
		t.Fatalf("got %d bombs, want 1", got)
	}
	if bombs := g.Bombs(); len(bombs) != 1 || bombs[0] != (Pos{Row: 1, Col: 1}) {
		t.Fatalf("Bombs() = %v", bombs)
	}
}

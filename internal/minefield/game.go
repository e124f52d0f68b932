package minefield

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

const (
	DefaultSize  = 8
	DefaultBombs = 8
)

type Status int

const (
	NotStarted Status = iota
	InProgress
	Won
	Lost
)

var statusNames = [...]string{"not_started", "in_progress", "won", "lost"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Terminal reports whether the game has ended.
func (s Status) Terminal() bool { return s == Won || s == Lost }

type Mark uint8

const (
	NoMark Mark = iota
	Flag
	Question
)

type Config struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Bombs int `json:"bombs"`
}

func DefaultConfig() Config {
	return Config{Rows: DefaultSize, Cols: DefaultSize, Bombs: DefaultBombs}
}

// Normalize clamps the board to at least one cell and the bombs to
// [1, rows*cols-1]. A single-cell board gets no bombs.
func (c Config) Normalize() Config {
	c.Rows = max(c.Rows, 1)
	c.Cols = max(c.Cols, 1)
	maxBombs := c.Rows*c.Cols - 1
	if c.Bombs < 1 {
		c.Bombs = 1
	}
	if c.Bombs > maxBombs {
		c.Bombs = maxBombs
	}
	return c
}

// Override returns c with every positive field of o laid over it.
func (c Config) Override(o Config) Config {
	if o.Rows > 0 {
		c.Rows = o.Rows
	}
	if o.Cols > 0 {
		c.Cols = o.Cols
	}
	if o.Bombs > 0 {
		c.Bombs = o.Bombs
	}
	return c
}

// Safe is the number of cells that must be revealed to win.
func (c Config) Safe() int { return c.Rows*c.Cols - c.Bombs }

type Option func(*Game)

func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithGrid plays a fixed layout instead of placing bombs on the first
// reveal. The layout is reused on every restart.
func WithGrid(layout *Grid) Option {
	return func(g *Game) {
		g.layout = layout.clone()
		g.cfg = Config{Rows: layout.Rows(), Cols: layout.Cols(), Bombs: layout.BombCount()}
	}
}

// Game owns one minefield and the player's progress on it. It is not safe
// for concurrent use.
type Game struct {
	cfg    Config
	rng    *rand.Rand
	layout *Grid

	grid      *Grid
	placed    bool
	status    Status
	revealed  mapset.Set[Pos]
	flags     mapset.Set[Pos]
	questions mapset.Set[Pos]

	exploded    Pos
	hasExploded bool
}

func New(cfg Config, opts ...Option) *Game {
	g := &Game{cfg: cfg.Normalize()}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	if g.layout != nil {
		g.grid = g.layout.clone()
		g.placed = true
	} else {
		g.grid = NewGrid(g.cfg.Rows, g.cfg.Cols)
		g.placed = false
	}
	g.status = NotStarted
	g.revealed = mapset.New[Pos]()
	g.flags = mapset.New[Pos]()
	g.questions = mapset.New[Pos]()
	g.exploded = Pos{}
	g.hasExploded = false
}

// Restart discards the board and all progress and returns to NotStarted.
func (g *Game) Restart() {
	g.reset()
	Log.WithField("config", g.cfg).Debug("game restarted")
}

// Start moves a new game into play. It reports whether the status changed.
func (g *Game) Start() bool {
	if g.status != NotStarted {
		return false
	}
	g.status = InProgress
	return true
}

// Reveal opens the cell at p, placing bombs first if this is the first reveal.
// It returns the cells newly added to the revealed set and whether p was a bomb.
// Reveals outside play, off the grid, on revealed or flagged cells do nothing.
func (g *Game) Reveal(p Pos) (opened []Pos, hit bool) {
	if g.status != InProgress || !g.grid.In(p) {
		return nil, false
	}
	if !g.placed {
		return g.FirstReveal(p)
	}
	return g.reveal(p)
}

// FirstReveal places bombs around p, computes counts and reveals p, so the
// first revealed cell is never a bomb. It does nothing once bombs are placed.
func (g *Game) FirstReveal(p Pos) (opened []Pos, hit bool) {
	if g.placed || g.status != InProgress || !g.grid.In(p) {
		return nil, false
	}
	g.grid.PlaceBombs(g.cfg.Bombs, p, g.rng)
	g.grid.ComputeCounts()
	g.placed = true
	return g.reveal(p)
}

func (g *Game) reveal(p Pos) ([]Pos, bool) {
	if g.revealed.Has(p) || g.flags.Has(p) {
		return nil, false
	}
	if g.grid.At(p).IsBomb() {
		g.status = Lost
		g.exploded, g.hasExploded = p, true
		Log.WithField("pos", p).Debug("bomb revealed")
		return nil, true
	}

	opened := g.flood(p)
	if g.revealed.Size() == g.cfg.Safe() {
		g.status = Won
	}
	Log.WithFields(logrus.Fields{
		"pos":      p,
		"opened":   len(opened),
		"revealed": g.revealed.Size(),
		"status":   g.status,
	}).Debug("opened cells")
	return opened, false
}

// flood reveals p and, while it meets zero-count cells, their neighbors,
// breadth first. Each cell is queued at most once.
func (g *Game) flood(p Pos) []Pos {
	visited := mapset.New[Pos]()
	visited.Put(p)
	queue := []Pos{p}
	var opened []Pos

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		g.revealed.Put(cur)
		g.questions.Remove(cur)
		opened = append(opened, cur)

		if g.grid.At(cur) != 0 {
			continue
		}
		g.grid.Around(cur, func(n Pos) {
			if visited.Has(n) || g.revealed.Has(n) || g.flags.Has(n) || g.grid.At(n).IsBomb() {
				return
			}
			visited.Put(n)
			queue = append(queue, n)
		})
	}
	return opened
}

// Chord reveals every unflagged hidden neighbor of a revealed count cell
// whose adjacent flags match its count.
func (g *Game) Chord(p Pos) (opened []Pos, hit bool) {
	if g.status != InProgress || !g.grid.In(p) || !g.revealed.Has(p) {
		return nil, false
	}
	count := g.grid.At(p).Count()
	if count == 0 || g.adjacentFlags(p) != count {
		return nil, false
	}

	var targets []Pos
	g.grid.Around(p, func(n Pos) {
		if !g.revealed.Has(n) && !g.flags.Has(n) {
			targets = append(targets, n)
		}
	})
	for _, n := range targets {
		o, h := g.reveal(n)
		opened = append(opened, o...)
		if h {
			hit = true
		}
		if g.status != InProgress {
			break
		}
	}
	return opened, hit
}

func (g *Game) adjacentFlags(p Pos) int {
	n := 0
	g.grid.Around(p, func(q Pos) {
		if g.flags.Has(q) {
			n++
		}
	})
	return n
}

// CycleMark steps a hidden cell through flag, question (when allowed) and no mark.
// It reports whether anything changed.
func (g *Game) CycleMark(p Pos, allowQuestion bool) bool {
	if g.status != InProgress || !g.grid.In(p) || g.revealed.Has(p) {
		return false
	}
	switch {
	case g.flags.Has(p):
		g.flags.Remove(p)
		if allowQuestion {
			g.questions.Put(p)
		}
	case g.questions.Has(p):
		g.questions.Remove(p)
	default:
		g.flags.Put(p)
	}
	return true
}

// Hint suggests a hidden, unflagged cell that is not a bomb. Before bombs are
// placed every cell is safe and the center is suggested.
func (g *Game) Hint() (Pos, bool) {
	if g.status != InProgress {
		return Pos{}, false
	}
	if !g.placed {
		return Pos{Row: g.cfg.Rows / 2, Col: g.cfg.Cols / 2}, true
	}
	var options []Pos
	for i, c := range g.grid.cells {
		p := g.grid.pos(i)
		if c.IsBomb() || g.revealed.Has(p) || g.flags.Has(p) {
			continue
		}
		options = append(options, p)
	}
	if len(options) == 0 {
		return Pos{}, false
	}
	return options[g.rng.IntN(len(options))], true
}

func (g *Game) Status() Status  { return g.status }
func (g *Game) Config() Config  { return g.cfg }
func (g *Game) Placed() bool    { return g.placed }
func (g *Game) Rows() int       { return g.cfg.Rows }
func (g *Game) Cols() int       { return g.cfg.Cols }
func (g *Game) In(p Pos) bool   { return g.grid.In(p) }
func (g *Game) Cell(p Pos) Cell { return g.grid.At(p) }

func (g *Game) Revealed(p Pos) bool { return g.revealed.Has(p) }
func (g *Game) RevealedCount() int  { return g.revealed.Size() }
func (g *Game) FlagCount() int      { return g.flags.Size() }

// BombsRemaining is the bomb count minus placed flags; it can go negative.
func (g *Game) BombsRemaining() int { return g.cfg.Bombs - g.flags.Size() }

func (g *Game) Mark(p Pos) Mark {
	switch {
	case g.flags.Has(p):
		return Flag
	case g.questions.Has(p):
		return Question
	}
	return NoMark
}

// Exploded returns the bomb that ended the game, if any.
func (g *Game) Exploded() (Pos, bool) { return g.exploded, g.hasExploded }

// Layout renders the bomb layout; see Grid.String.
func (g *Game) Layout() string { return g.grid.String() }

// Package view turns a game into what a frontend draws.
package view

import (
	"strconv"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
)

const (
	StateHidden   = "hidden"
	StateOpened   = "opened"
	StateFlagged  = "flagged"
	StateQuestion = "question"
)

type CellView struct {
	State     string `json:"state"`
	Bomb      bool   `json:"bomb,omitempty"`
	Count     int    `json:"count,omitempty"`
	Exploded  bool   `json:"exploded,omitempty"`
	WrongFlag bool   `json:"wrong_flag,omitempty"`
}

// Glyph is the text shown for the cell: blank for hidden and zero cells.
func (c CellView) Glyph() string {
	switch c.State {
	case StateFlagged:
		return "F"
	case StateQuestion:
		return "?"
	case StateOpened:
		if c.Bomb {
			return "*"
		}
		if c.Count > 0 {
			return strconv.Itoa(c.Count)
		}
	}
	return ""
}

type GameView struct {
	ID             string       `json:"id,omitempty"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	Bombs          int          `json:"bombs"`
	Status         string       `json:"status"`
	Message        string       `json:"message"`
	BombsRemaining int          `json:"bombs_remaining"`
	Revealed       int          `json:"revealed"`
	Cells          [][]CellView `json:"cells"`
}

// StatusMessage is the message id shown for status s.
func StatusMessage(s minefield.Status) string {
	switch s {
	case minefield.InProgress:
		return i18n.MsgPlaying
	case minefield.Won:
		return i18n.MsgWon
	case minefield.Lost:
		return i18n.MsgLost
	}
	return i18n.MsgStart
}

// Build snapshots g. On a loss every bomb is shown and wrong flags are
// marked; on a win every bomb is shown flagged. The game is not modified.
func Build(g *minefield.Game, cat *i18n.Catalog) GameView {
	status := g.Status()
	cfg := g.Config()
	exploded, hasExploded := g.Exploded()

	v := GameView{
		Rows:           cfg.Rows,
		Cols:           cfg.Cols,
		Bombs:          cfg.Bombs,
		Status:         status.String(),
		Message:        cat.Get(StatusMessage(status)),
		BombsRemaining: g.BombsRemaining(),
		Revealed:       g.RevealedCount(),
		Cells:          make([][]CellView, cfg.Rows),
	}
	if status == minefield.Won {
		v.BombsRemaining = 0
	}

	for r := 0; r < cfg.Rows; r++ {
		v.Cells[r] = make([]CellView, cfg.Cols)
		for c := 0; c < cfg.Cols; c++ {
			p := minefield.Pos{Row: r, Col: c}
			v.Cells[r][c] = buildCell(g, p, status, hasExploded && exploded == p)
		}
	}
	return v
}

func buildCell(g *minefield.Game, p minefield.Pos, status minefield.Status, exploded bool) CellView {
	cell := g.Cell(p)
	mark := g.Mark(p)

	if g.Revealed(p) {
		return CellView{State: StateOpened, Count: cell.Count()}
	}

	switch status {
	case minefield.Lost:
		if cell.IsBomb() && mark != minefield.Flag {
			return CellView{State: StateOpened, Bomb: true, Exploded: exploded}
		}
		if mark == minefield.Flag && !cell.IsBomb() {
			return CellView{State: StateFlagged, WrongFlag: true}
		}
	case minefield.Won:
		if cell.IsBomb() {
			return CellView{State: StateFlagged}
		}
	}

	switch mark {
	case minefield.Flag:
		return CellView{State: StateFlagged}
	case minefield.Question:
		return CellView{State: StateQuestion}
	}
	return CellView{State: StateHidden}
}

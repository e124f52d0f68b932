package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/view"
)

var numberColors = []tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorWhite,
	tcell.ColorGray,
}

var (
	styleBase     = tcell.StyleDefault
	styleHidden   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFlag     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBomb     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleExploded = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleWon      = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLost     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func (u *UI) draw() {
	u.screen.Clear()
	v := u.View()
	cat := u.opts.Catalog

	header := fmt.Sprintf("%s  %s  %s", cat.Get(i18n.MsgTitle),
		cat.Get(i18n.MsgBombs, v.BombsRemaining), cat.Get(i18n.MsgTime, u.elapsed))
	u.text(0, 0, header, styleTitle)

	msgStyle := styleBase
	switch u.game.Status() {
	case minefield.Won:
		msgStyle = styleWon
	case minefield.Lost:
		msgStyle = styleLost
	}
	u.text(0, 1, v.Message, msgStyle)

	for r, row := range v.Cells {
		for c, cell := range row {
			u.drawCell(minefield.Pos{Row: r, Col: c}, cell)
		}
	}

	y := boardTop + v.Rows + 1
	switch u.game.Status() {
	case minefield.NotStarted:
		u.text(0, y, cat.Get(i18n.MsgPressStart), styleTitle)
		y++
	case minefield.Won, minefield.Lost:
		u.text(0, y, "n: "+cat.Get(i18n.MsgPlayAgain), styleTitle)
		y++
	}
	if u.notice != "" {
		u.text(0, y, u.notice, styleWon)
		y++
	}
	u.text(0, y+1, cat.Get(i18n.MsgHelpMove), styleHidden)
	u.text(0, y+2, cat.Get(i18n.MsgHelpGame), styleHidden)

	u.screen.Show()
}

func (u *UI) drawCell(p minefield.Pos, cell view.CellView) {
	x := boardLeft + p.Col*cellWidth
	y := boardTop + p.Row

	ch, style := cellRune(cell)
	if u.hint != nil && *u.hint == p && cell.State == view.StateHidden {
		style = styleHint
		ch = '◆'
	}
	if p == u.cursor && u.game.Status() == minefield.InProgress {
		style = style.Reverse(true)
	}
	u.screen.SetContent(x, y, ch, nil, style)
}

func cellRune(cell view.CellView) (rune, tcell.Style) {
	switch cell.State {
	case view.StateFlagged:
		if cell.WrongFlag {
			return 'X', styleFlag
		}
		return 'F', styleFlag
	case view.StateQuestion:
		return '?', styleBase
	case view.StateOpened:
		if cell.Bomb {
			if cell.Exploded {
				return '*', styleExploded
			}
			return '*', styleBomb
		}
		if cell.Count > 0 {
			return rune('0' + cell.Count), styleBase.Foreground(numberColors[cell.Count]).Bold(true)
		}
		return ' ', styleBase
	}
	return '■', styleHidden
}

func (u *UI) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

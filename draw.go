package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/view"
)

type theme struct {
	Name           string
	BG             color.Color
	Panel          color.Color
	Light          color.Color
	Dark           color.Color
	CellHidden     color.Color
	CellRevealed   color.Color
	CellGrid       color.Color
	CellText       color.Color
	Bomb           color.Color
	Flag           color.Color
	WrongFlag      color.Color
	Accent         color.Color
	Overlay        color.Color
	Digit          color.Color
	HeaderText     color.Color
	HeaderTextSoft color.Color
}

var themes = []theme{
	{
		Name:           "Classic",
		BG:             rgb(192, 192, 192),
		Panel:          rgb(192, 192, 192),
		Light:          rgb(255, 255, 255),
		Dark:           rgb(128, 128, 128),
		CellHidden:     rgb(192, 192, 192),
		CellRevealed:   rgb(214, 214, 214),
		CellGrid:       rgb(155, 155, 155),
		CellText:       rgb(15, 15, 15),
		Bomb:           rgb(10, 10, 10),
		Flag:           rgb(210, 32, 32),
		WrongFlag:      rgb(180, 0, 0),
		Accent:         rgb(32, 128, 255),
		Overlay:        color.RGBA{0, 0, 0, 120},
		Digit:          rgb(215, 40, 40),
		HeaderText:     rgb(12, 12, 12),
		HeaderTextSoft: rgb(30, 30, 30),
	},
	{
		Name:           "Pumpkin",
		BG:             rgb(34, 28, 40),
		Panel:          rgb(52, 40, 60),
		Light:          rgb(96, 78, 108),
		Dark:           rgb(18, 14, 22),
		CellHidden:     rgb(72, 56, 84),
		CellRevealed:   rgb(98, 84, 106),
		CellGrid:       rgb(30, 24, 36),
		CellText:       rgb(245, 238, 228),
		Bomb:           rgb(255, 140, 26),
		Flag:           rgb(255, 170, 60),
		WrongFlag:      rgb(255, 40, 40),
		Accent:         rgb(140, 230, 90),
		Overlay:        color.RGBA{0, 0, 0, 140},
		Digit:          rgb(255, 140, 26),
		HeaderText:     rgb(245, 238, 228),
		HeaderTextSoft: rgb(215, 205, 225),
	},
}

var numberColors = []color.Color{
	color.RGBA{},
	rgb(25, 25, 220),
	rgb(0, 130, 0),
	rgb(210, 20, 20),
	rgb(0, 0, 135),
	rgb(130, 0, 0),
	rgb(0, 128, 128),
	rgb(0, 0, 0),
	rgb(110, 110, 110),
}

func (g *game) Draw(screen *ebiten.Image) {
	th := themes[g.themeIdx]
	screen.Fill(th.BG)

	v := view.Build(g.mf, g.cat)
	status := g.mf.Status()
	windowW, _ := g.Layout(0, 0)

	// top panel
	drawRaisedRect(screen, outerPadding-2, 10, windowW-(outerPadding-2)*2, topPanelHeight-18, th)
	ebitenutil.DrawRect(screen, float64(outerPadding+4), 16, float64(windowW-outerPadding*2-8), 40, th.Panel)

	drawDigital(screen, outerPadding+10, 20, v.BombsRemaining, 3, th.Digit)
	drawDigital(screen, windowW-outerPadding-10-58, 20, g.elapsedSeconds, 3, th.Digit)

	faceSize := 28
	faceX := windowW/2 - faceSize/2
	faceY := 20
	g.faceRect = image.Rect(faceX, faceY, faceX+faceSize, faceY+faceSize)
	drawRaisedRect(screen, faceX, faceY, faceSize, faceSize, th)
	drawTextCentered(screen, g.face(status), g.fontMain, faceX, faceY+6, faceSize, th.HeaderText)

	boardX, boardY := outerPadding, topPanelHeight
	drawSunkenRect(screen, boardX-2, boardY-2, v.Cols*cellSize+4, v.Rows*cellSize+4, th)

	for r, row := range v.Cells {
		for c, cv := range row {
			g.drawCell(screen, minefield.Pos{Row: r, Col: c}, cv, th)
		}
	}

	info := fmt.Sprintf("%s  [%dx%d/%d]  %s  ?:%v", g.preset.Name, v.Cols, v.Rows, v.Bombs, th.Name, g.allowQuestion)
	text.Draw(screen, info, g.fontMain, outerPadding, 10, th.HeaderTextSoft)

	switch {
	case g.showCustom:
		g.drawCustomDialog(screen, th)
	case g.showHelp:
		drawOverlayPanel(screen, "HELP", helpLines, th)
	case g.showScores:
		drawOverlayPanel(screen, "BEST SCORES", g.scoreLines(), th)
	case status == minefield.NotStarted:
		drawOverlayPanel(screen, g.cat.Get(i18n.MsgStart), []string{
			g.cat.Get(i18n.MsgPressStart),
			g.preset.Name,
		}, th)
	case g.paused:
		drawOverlayPanel(screen, g.cat.Get(i18n.MsgPaused), []string{"P"}, th)
	case status.Terminal():
		drawBanner(screen, v.Message, th)
	}
}

var helpLines = []string{
	"N: New game | 0/1/2/3: Classic/Beginner/Intermediate/Expert",
	"Space or click: Start | C: Custom board | Enter: Apply custom",
	"Left click: Reveal / Chord | Right click: Flag/?",
	"Touch: tap = reveal/chord | long-press = flag/?",
	"H: Hint | P: Pause | T: Theme | S: Scores | Q: Toggle ? marks",
	"F1: Toggle Help | Click the face to restart",
}

func (g *game) face(status minefield.Status) string {
	switch status {
	case minefield.Lost:
		return "X("
	case minefield.Won:
		return "B)"
	case minefield.NotStarted:
		return ":o"
	}
	if g.paused {
		return ":|"
	}
	return ":)"
}

func (g *game) scoreLines() []string {
	if g.scores == nil {
		return []string{g.cat.Get(i18n.MsgNoRecords)}
	}
	lines := g.scores.Lines()
	if len(lines) == 0 {
		return []string{g.cat.Get(i18n.MsgNoRecords)}
	}
	return append(lines, "(Click or press S to close)")
}

func (g *game) drawCustomDialog(screen *ebiten.Image, th theme) {
	w, h := g.Layout(0, 0)
	pw, ph := min(440, w-40), 210
	px, py := (w-pw)/2, (h-ph)/2
	ebitenutil.DrawRect(screen, 0, 0, float64(w), float64(h), th.Overlay)
	drawSunkenRect(screen, px, py, pw, ph, th)
	ebitenutil.DrawRect(screen, float64(px+6), float64(py+6), float64(pw-12), float64(ph-12), th.Panel)

	text.Draw(screen, "CUSTOM BOARD", g.fontMain, px+16, py+24, th.HeaderText)
	text.Draw(screen, "Left/Right: field  Up/Down: value  Enter: start  Esc: cancel", g.fontMain, px+16, py+44, th.HeaderTextSoft)

	labels := []string{"Width", "Height", "Bombs"}
	values := []int{g.custom.Cols, g.custom.Rows, g.custom.Bombs}
	for i := range labels {
		x := px + 24 + i*130
		y := py + 96
		label := labels[i]
		if g.custom.field == i {
			label = "> " + label
		}
		text.Draw(screen, label, g.fontMain, x, y, th.HeaderText)
		text.Draw(screen, fmt.Sprintf("%d", values[i]), g.fontMain, x+18, y+28, th.Accent)
	}

	text.Draw(screen, fmt.Sprintf("Max bombs: %d", g.custom.Cols*g.custom.Rows-1), g.fontMain, px+16, py+170, th.HeaderTextSoft)
}

func (g *game) drawCell(screen *ebiten.Image, p minefield.Pos, cv view.CellView, th theme) {
	px := outerPadding + p.Col*cellSize
	py := topPanelHeight + p.Row*cellSize

	if cv.State == view.StateOpened {
		ebitenutil.DrawRect(screen, float64(px), float64(py), cellSize, cellSize, th.CellRevealed)
		vector.StrokeRect(screen, float32(px), float32(py), cellSize, cellSize, 1, th.CellGrid, false)

		if cv.Bomb {
			bombColor := th.Bomb
			if cv.Exploded {
				ebitenutil.DrawRect(screen, float64(px), float64(py), cellSize, cellSize, color.RGBA{210, 40, 40, 255})
				bombColor = color.RGBA{0, 0, 0, 255}
			}
			drawPumpkin(screen, px, py, bombColor, th.Accent)
			return
		}

		if cv.Count > 0 {
			col := numberColors[cv.Count]
			if g.themeIdx == 1 && cv.Count == 1 {
				col = rgb(120, 170, 255)
			}
			drawTextCentered(screen, cv.Glyph(), g.fontMain, px, py+5, cellSize, col)
		}
		return
	}

	drawRaisedRect(screen, px, py, cellSize, cellSize, th)

	switch cv.State {
	case view.StateFlagged:
		vector.DrawFilledRect(screen, float32(px+11), float32(py+6), 2, 12, th.CellText, false)
		vector.StrokeLine(screen, float32(px+11), float32(py+6), float32(px+5), float32(py+10), 1.5, th.Flag, false)
		vector.StrokeLine(screen, float32(px+5), float32(py+10), float32(px+11), float32(py+14), 1.5, th.Flag, false)
		vector.StrokeLine(screen, float32(px+11), float32(py+6), float32(px+11), float32(py+14), 1.5, th.Flag, false)
		vector.DrawFilledRect(screen, float32(px+8), float32(py+8), 3, 4, th.Flag, false)
		vector.DrawFilledRect(screen, float32(px+7), float32(py+17), 9, 2, th.CellText, false)
		if cv.WrongFlag {
			vector.StrokeLine(screen, float32(px+4), float32(py+4), float32(px+cellSize-4), float32(py+cellSize-4), 2, th.WrongFlag, false)
			vector.StrokeLine(screen, float32(px+cellSize-4), float32(py+4), float32(px+4), float32(py+cellSize-4), 2, th.WrongFlag, false)
		}
	case view.StateQuestion:
		drawTextCentered(screen, cv.Glyph(), g.fontMain, px, py+5, cellSize, th.CellText)
	}

	if g.hint != nil && *g.hint == p && g.mf.Status() == minefield.InProgress {
		vector.StrokeRect(screen, float32(px+2), float32(py+2), cellSize-4, cellSize-4, 2, th.Accent, false)
	}
}

// drawPumpkin draws a bomb as a round body with a short stem.
func drawPumpkin(screen *ebiten.Image, px, py int, body, stem color.Color) {
	cx, cy := float32(px+cellSize/2), float32(py+cellSize/2+1)
	vector.DrawFilledCircle(screen, cx-3, cy, 5, body, false)
	vector.DrawFilledCircle(screen, cx+3, cy, 5, body, false)
	vector.DrawFilledCircle(screen, cx, cy, 6, body, false)
	vector.DrawFilledRect(screen, cx-1, cy-9, 2, 4, stem, false)
}

func drawOverlayPanel(screen *ebiten.Image, title string, lines []string, th theme) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ebitenutil.DrawRect(screen, 0, 0, float64(w), float64(h), th.Overlay)
	pw := min(560, w-36)
	ph := min(280, h-36)
	px, py := (w-pw)/2, (h-ph)/2
	drawSunkenRect(screen, px, py, pw, ph, th)
	ebitenutil.DrawRect(screen, float64(px+6), float64(py+6), float64(pw-12), float64(ph-12), th.Panel)

	ff := basicfont.Face7x13
	text.Draw(screen, title, ff, px+16, py+24, th.HeaderText)
	y := py + 50
	for _, ln := range lines {
		text.Draw(screen, ln, ff, px+16, y, th.HeaderText)
		y += 20
		if y > py+ph-18 {
			break
		}
	}
}

func drawBanner(screen *ebiten.Image, label string, th theme) {
	w := screen.Bounds().Dx()
	ebitenutil.DrawRect(screen, float64((w-220)/2), 14, 220, 30, th.Overlay)
	drawTextCentered(screen, label, basicfont.Face7x13, (w-220)/2, 22, 220, th.Accent)
}

func drawRaisedRect(screen *ebiten.Image, x, y, w, h int, th theme) {
	ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), th.CellHidden)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+w), float32(y), 2, th.Light, false)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x), float32(y+h), 2, th.Light, false)
	vector.StrokeLine(screen, float32(x+w), float32(y), float32(x+w), float32(y+h), 2, th.Dark, false)
	vector.StrokeLine(screen, float32(x), float32(y+h), float32(x+w), float32(y+h), 2, th.Dark, false)
}

func drawSunkenRect(screen *ebiten.Image, x, y, w, h int, th theme) {
	ebitenutil.DrawRect(screen, float64(x), float64(y), float64(w), float64(h), th.Panel)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+w), float32(y), 2, th.Dark, false)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x), float32(y+h), 2, th.Dark, false)
	vector.StrokeLine(screen, float32(x+w), float32(y), float32(x+w), float32(y+h), 2, th.Light, false)
	vector.StrokeLine(screen, float32(x), float32(y+h), float32(x+w), float32(y+h), 2, th.Light, false)
}

func drawTextCentered(screen *ebiten.Image, s string, f font.Face, x, y, w int, clr color.Color) {
	b := text.BoundString(f, s)
	text.Draw(screen, s, f, x+(w-b.Dx())/2, y+13, clr)
}

// digits splits value into n decimal digits, clamped to what fits. A
// negative value shows -1 (a minus sign) in the first position.
func digits(value, n int) []int {
	neg := value < 0
	if neg {
		value = -value
	}
	if limit := int(math.Pow10(n)) - 1; value > limit {
		value = limit
	}
	out := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = value % 10
		value /= 10
	}
	if neg {
		out[0] = -1
	}
	return out
}

func drawDigital(screen *ebiten.Image, x, y, value, n int, clr color.Color) {
	ebitenutil.DrawRect(screen, float64(x-3), float64(y-3), float64(n*18+6), 28, color.RGBA{20, 20, 20, 255})
	for i, d := range digits(value, n) {
		drawSevenSegDigit(screen, x+i*18, y, d, clr)
	}
}

// segments maps digits to the a..g segment bits, a being the highest.
var segments = [...]int{
	0b1111110,
	0b0110000,
	0b1101101,
	0b1111001,
	0b0110011,
	0b1011011,
	0b1011111,
	0b1110000,
	0b1111111,
	0b1111011,
}

func segmentMask(d int) int {
	switch {
	case d == -1:
		return 0b0000001
	case d >= 0 && d <= 9:
		return segments[d]
	}
	return 0
}

func drawSevenSegDigit(screen *ebiten.Image, x, y, d int, clr color.Color) {
	mask := segmentMask(d)
	off := color.RGBA{60, 20, 20, 255}
	seg := func(on bool, rx, ry, rw, rh float64) {
		c := color.Color(off)
		if on {
			c = clr
		}
		ebitenutil.DrawRect(screen, float64(x)+rx, float64(y)+ry, rw, rh, c)
	}

	seg(mask&0b1000000 != 0, 3, 0, 10, 2)  // a
	seg(mask&0b0100000 != 0, 13, 2, 2, 9)  // b
	seg(mask&0b0010000 != 0, 13, 13, 2, 9) // c
	seg(mask&0b0001000 != 0, 3, 22, 10, 2) // d
	seg(mask&0b0000100 != 0, 1, 13, 2, 9)  // e
	seg(mask&0b0000010 != 0, 1, 2, 2, 9)   // f
	seg(mask&0b0000001 != 0, 3, 11, 10, 2) // g
}

func rgb(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

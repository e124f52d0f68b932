package main

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/04pril/booscaminas/internal/config"
	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/scores"
	"github.com/04pril/booscaminas/internal/sound"
)

const (
	cellSize          = 24
	outerPadding      = 12
	topPanelHeight    = 68
	touchMoveSlopPx   = 10
	touchLongPressDur = 360 * time.Millisecond
	maxTimer          = 999
)

type touchStart struct {
	X, Y         int
	LastX, LastY int
	At           time.Time
}

type customConfig struct {
	Cols, Rows, Bombs int
	field             int
}

type game struct {
	mf             *minefield.Game
	preset         config.Preset
	rng            *rand.Rand
	cat            *i18n.Catalog
	scores         *scores.Store
	sound          *sound.Player
	log            logrus.FieldLogger
	themeIdx       int
	allowQuestion  bool
	showHelp       bool
	showScores     bool
	showCustom     bool
	custom         customConfig
	hint           *minefield.Pos
	timerStart     time.Time
	pauseStarted   time.Time
	paused         bool
	elapsedSeconds int
	faceRect       image.Rectangle
	fontMain       font.Face
	touchStarts    map[ebiten.TouchID]touchStart
}

type gameOptions struct {
	Preset        config.Preset
	Rand          *rand.Rand
	Catalog       *i18n.Catalog
	Scores        *scores.Store
	Sound         *sound.Player
	QuestionMarks bool
	Log           logrus.FieldLogger
}

func newGame(opts gameOptions) *game {
	g := &game{
		preset:        opts.Preset,
		rng:           opts.Rand,
		cat:           opts.Catalog,
		scores:        opts.Scores,
		sound:         opts.Sound,
		log:           opts.Log,
		allowQuestion: opts.QuestionMarks,
		fontMain:      basicfont.Face7x13,
		touchStarts:   map[ebiten.TouchID]touchStart{},
	}
	g.custom = customConfig{Cols: 24, Rows: 20, Bombs: 99}
	g.newBoard()
	return g
}

func (g *game) newBoard() {
	g.mf = minefield.New(g.preset.Board(), minefield.WithRand(g.rng))
	g.resetTimers()
}

func (g *game) reset() {
	g.mf.Restart()
	g.resetTimers()
}

func (g *game) resetTimers() {
	g.timerStart = time.Time{}
	g.pauseStarted = time.Time{}
	g.paused = false
	g.elapsedSeconds = 0
	g.hint = nil
}

func (g *game) resizeWindow() {
	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(g.cat.Get(i18n.MsgTitle) + " - " + g.preset.Name)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.mf.Cols()*cellSize + outerPadding*2, topPanelHeight + g.mf.Rows()*cellSize + outerPadding*2
}

func (g *game) setPreset(p config.Preset) {
	g.preset = p
	g.newBoard()
	g.resizeWindow()
}

func (g *game) onGameWon() {
	if g.timerStart.IsZero() || g.scores == nil {
		return
	}
	cfg := g.mf.Config()
	key := scores.Key(g.preset.Name, cfg.Rows, cfg.Cols, cfg.Bombs)
	best, err := g.scores.Record(key, g.elapsedSeconds)
	if err != nil {
		g.log.WithError(err).Warn("saving best time")
		return
	}
	if best {
		g.log.WithField("key", key).WithField("seconds", g.elapsedSeconds).Info("new best time")
	}
}

func (g *game) boardPosFromCursor(mx, my int) (minefield.Pos, bool) {
	bx0, by0 := outerPadding, topPanelHeight
	if mx < bx0 || my < by0 {
		return minefield.Pos{}, false
	}
	p := minefield.Pos{Row: (my - by0) / cellSize, Col: (mx - bx0) / cellSize}
	if !g.mf.In(p) {
		return minefield.Pos{}, false
	}
	return p, true
}

func (g *game) handleRevealAt(mx, my int) bool {
	if pointInRect(mx, my, g.faceRect) {
		g.reset()
		return true
	}

	if g.showHelp {
		g.showHelp = false
		return true
	}
	if g.showScores {
		g.showScores = false
		return true
	}

	if g.mf.Status() == minefield.NotStarted {
		return g.mf.Start()
	}
	if g.paused || g.mf.Status() != minefield.InProgress {
		return false
	}

	p, ok := g.boardPosFromCursor(mx, my)
	if !ok {
		return false
	}

	var (
		opened []minefield.Pos
		hit    bool
	)
	if g.mf.Revealed(p) {
		opened, hit = g.mf.Chord(p)
	} else {
		opened, hit = g.mf.Reveal(p)
	}
	changed := len(opened) > 0 || hit

	if changed && g.timerStart.IsZero() && g.mf.Placed() {
		g.timerStart = time.Now()
	}
	if changed {
		g.hint = nil
	}

	switch {
	case hit:
		g.sound.Boom()
	case g.mf.Status() == minefield.Won:
		g.sound.Win()
		g.onGameWon()
	case changed:
		g.sound.Click()
	}
	return changed
}

func (g *game) handleMarkAt(mx, my int) bool {
	if g.paused || g.mf.Status() != minefield.InProgress || g.showHelp || g.showScores {
		return false
	}
	p, ok := g.boardPosFromCursor(mx, my)
	if !ok {
		return false
	}
	if g.mf.CycleMark(p, g.allowQuestion) {
		g.hint = nil
		return true
	}
	return false
}

func (g *game) handleTouchInput() {
	for _, id := range ebiten.TouchIDs() {
		x, y := ebiten.TouchPosition(id)
		st, ok := g.touchStarts[id]
		if !ok {
			g.touchStarts[id] = touchStart{X: x, Y: y, LastX: x, LastY: y, At: time.Now()}
			continue
		}
		st.LastX, st.LastY = x, y
		g.touchStarts[id] = st
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		g.touchStarts[id] = touchStart{X: x, Y: y, LastX: x, LastY: y, At: time.Now()}
	}

	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		st, ok := g.touchStarts[id]
		if !ok {
			continue
		}
		delete(g.touchStarts, id)

		dx := absInt(st.LastX - st.X)
		dy := absInt(st.LastY - st.Y)
		if dx > touchMoveSlopPx || dy > touchMoveSlopPx {
			continue
		}

		if time.Since(st.At) >= touchLongPressDur {
			g.handleMarkAt(st.LastX, st.LastY)
			continue
		}
		g.handleRevealAt(st.LastX, st.LastY)
	}
}

func (g *game) handleGlobalKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.mf.Start()
	}
	for i, keys := range [][]ebiten.Key{
		{ebiten.Key0, ebiten.KeyK},
		{ebiten.Key1, ebiten.KeyB},
		{ebiten.Key2, ebiten.KeyI},
		{ebiten.Key3, ebiten.KeyE},
	} {
		for _, k := range keys {
			if inpututil.IsKeyJustPressed(k) {
				g.setPreset(config.Presets[i])
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.themeIdx = (g.themeIdx + 1) % len(themes)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.allowQuestion = !g.allowQuestion
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showHelp = !g.showHelp
		if g.showHelp {
			g.showScores = false
			g.showCustom = false
		}
	}
	// S starts a new game, and toggles the score table once one is running.
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && !g.mf.Start() {
		g.showScores = !g.showScores
		if g.showScores {
			g.showHelp = false
			g.showCustom = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.showCustom = !g.showCustom
		if g.showCustom {
			g.showHelp = false
			g.showScores = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) && g.mf.Status() == minefield.InProgress {
		g.paused = !g.paused
		if g.paused {
			g.pauseStarted = time.Now()
		} else if !g.pauseStarted.IsZero() && !g.timerStart.IsZero() {
			g.timerStart = g.timerStart.Add(time.Since(g.pauseStarted))
			g.pauseStarted = time.Time{}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) && !g.paused {
		if p, ok := g.mf.Hint(); ok {
			g.hint = &p
		}
	}
}

func (g *game) handleCustomDialog() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.showCustom = false
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.custom.field = (g.custom.field + 2) % 3
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.custom.field = (g.custom.field + 1) % 3
	}

	delta := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		delta = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		delta = -1
	}
	if delta != 0 {
		g.custom.adjust(delta)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.setPreset(g.custom.preset())
		g.showCustom = false
	}
}

func (c *customConfig) adjust(delta int) {
	switch c.field {
	case 0:
		c.Cols = clamp(c.Cols+delta, minefield.DefaultSize, 60)
	case 1:
		c.Rows = clamp(c.Rows+delta, minefield.DefaultSize, 32)
	case 2:
		c.Bombs = clamp(c.Bombs+delta, 1, c.Cols*c.Rows-1)
	}
	c.Bombs = min(c.Bombs, c.Cols*c.Rows-1)
}

func (c customConfig) preset() config.Preset {
	return config.Preset{Name: "Custom", Rows: c.Rows, Cols: c.Cols, Bombs: c.Bombs}
}

func (g *game) tick(now time.Time) {
	if g.mf.Status() != minefield.InProgress || g.timerStart.IsZero() || g.paused {
		return
	}
	g.elapsedSeconds = min(int(now.Sub(g.timerStart).Seconds()), maxTimer)
}

func (g *game) Update() error {
	g.handleGlobalKeys()

	if g.showCustom {
		g.handleCustomDialog()
		return nil
	}

	g.tick(time.Now())

	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleRevealAt(mx, my)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.handleMarkAt(mx, my)
	}

	g.handleTouchInput()
	return nil
}

func pointInRect(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

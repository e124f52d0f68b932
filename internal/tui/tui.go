// Package tui is the terminal frontend.
package tui

import (
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/scores"
	"github.com/04pril/booscaminas/internal/sound"
	"github.com/04pril/booscaminas/internal/view"
)

const (
	frameMs   = 100
	boardTop  = 2
	boardLeft = 1
	cellWidth = 2
	maxTimer  = 999
)

type Options struct {
	Name          string
	Board         minefield.Config
	Rand          *rand.Rand
	Catalog       *i18n.Catalog
	Scores        *scores.Store
	Sound         *sound.Player
	QuestionMarks bool
	Log           logrus.FieldLogger
}

type UI struct {
	screen tcell.Screen
	opts   Options
	game   *minefield.Game

	cursor     minefield.Pos
	hint       *minefield.Pos
	timerStart time.Time
	elapsed    int
	notice     string
	buttons    tcell.ButtonMask
}

func New(screen tcell.Screen, opts Options) *UI {
	if opts.Catalog == nil {
		opts.Catalog = i18n.Load("en")
	}
	if opts.Sound == nil {
		opts.Sound = sound.New(false)
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	var gameOpts []minefield.Option
	if opts.Rand != nil {
		gameOpts = append(gameOpts, minefield.WithRand(opts.Rand))
	}
	u := &UI{
		screen: screen,
		opts:   opts,
		game:   minefield.New(opts.Board, gameOpts...),
	}
	u.cursor = minefield.Pos{Row: u.game.Rows() / 2, Col: u.game.Cols() / 2}
	return u
}

// Run draws and handles events until the player quits.
func (u *UI) Run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := pollEvents(u.screen, done)

	u.draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !u.handle(ev) {
				return
			}
		case <-ticker.C:
			u.tick(time.Now())
		}
		u.draw()
	}
}

type eventSource interface {
	PollEvent() tcell.Event
}

// pollEvents forwards events until the source is finalized or done is closed.
func pollEvents(screen eventSource, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

func (u *UI) tick(now time.Time) {
	if u.game.Status() != minefield.InProgress || u.timerStart.IsZero() {
		return
	}
	u.elapsed = min(int(now.Sub(u.timerStart).Seconds()), maxTimer)
}

func (u *UI) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a := keyAction(ev.Key(), ev.Rune())
		if a == actQuit {
			return false
		}
		u.apply(a)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons() &^ u.buttons
	u.buttons = ev.Buttons()
	if pressed == 0 {
		return
	}
	x, y := ev.Position()
	p, ok := cellAt(x, y)
	if !ok || !u.game.In(p) {
		if u.game.Status() == minefield.NotStarted && pressed&tcell.Button1 != 0 {
			u.apply(actStart)
		}
		return
	}
	u.cursor = p
	switch {
	case pressed&tcell.Button1 != 0:
		if u.game.Status() == minefield.NotStarted {
			u.apply(actStart)
			return
		}
		u.apply(actReveal)
	case pressed&tcell.Button2 != 0:
		u.apply(actMark)
	}
}

func cellAt(x, y int) (minefield.Pos, bool) {
	if x < boardLeft || y < boardTop {
		return minefield.Pos{}, false
	}
	return minefield.Pos{Row: y - boardTop, Col: (x - boardLeft) / cellWidth}, true
}

func (u *UI) apply(a action) {
	switch a {
	case actUp, actDown, actLeft, actRight:
		u.move(a)
	case actStart:
		u.game.Start()
	case actRestart:
		u.restart()
	case actReveal:
		u.reveal()
	case actMark:
		if u.game.CycleMark(u.cursor, u.opts.QuestionMarks) {
			u.hint = nil
		}
	case actHint:
		if p, ok := u.game.Hint(); ok {
			u.hint = &p
			u.cursor = p
		}
	}
}

func (u *UI) move(a action) {
	p := u.cursor
	switch a {
	case actUp:
		p.Row--
	case actDown:
		p.Row++
	case actLeft:
		p.Col--
	case actRight:
		p.Col++
	}
	if u.game.In(p) {
		u.cursor = p
	}
}

func (u *UI) restart() {
	u.game.Restart()
	u.timerStart = time.Time{}
	u.elapsed = 0
	u.hint = nil
	u.notice = ""
}

func (u *UI) reveal() {
	if u.game.Status() != minefield.InProgress {
		return
	}
	var (
		opened []minefield.Pos
		hit    bool
	)
	if u.game.Revealed(u.cursor) {
		opened, hit = u.game.Chord(u.cursor)
	} else {
		opened, hit = u.game.Reveal(u.cursor)
	}
	if len(opened) > 0 || hit {
		u.hint = nil
		if u.timerStart.IsZero() {
			u.timerStart = time.Now()
		}
	}

	switch u.game.Status() {
	case minefield.Lost:
		u.opts.Sound.Boom()
	case minefield.Won:
		u.opts.Sound.Win()
		u.won()
	default:
		if len(opened) > 0 {
			u.opts.Sound.Click()
		}
	}
}

func (u *UI) won() {
	u.tick(time.Now())
	if u.opts.Scores == nil {
		return
	}
	cfg := u.game.Config()
	key := scores.Key(u.opts.Name, cfg.Rows, cfg.Cols, cfg.Bombs)
	best, err := u.opts.Scores.Record(key, u.elapsed)
	if err != nil {
		u.opts.Log.WithError(err).Warn("saving best time")
		return
	}
	if best {
		u.notice = u.opts.Catalog.Get(i18n.MsgNewRecord, max(u.elapsed, 1))
	}
}

// View exposes the current board for callers that render elsewhere.
func (u *UI) View() view.GameView {
	return view.Build(u.game, u.opts.Catalog)
}

package tui

import (
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/scores"
)

func newUI(t *testing.T, board minefield.Config) (*UI, tcell.SimulationScreen, *scores.Store) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 30)

	log := logrus.New()
	log.SetOutput(io.Discard)
	st := scores.Open(filepath.Join(t.TempDir(), "scores.json"))
	u := New(screen, Options{
		Name:          "Test",
		Board:         board,
		Rand:          rand.New(rand.NewPCG(1, 2)),
		Catalog:       i18n.Load("en"),
		Scores:        st,
		QuestionMarks: true,
		Log:           log,
	})
	return u, screen, st
}

func screenLine(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestKeyAction(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		r    rune
		want action
	}{
		{tcell.KeyUp, 0, actUp},
		{tcell.KeyRune, 'j', actDown},
		{tcell.KeyRune, 'h', actLeft},
		{tcell.KeyRight, 0, actRight},
		{tcell.KeyRune, ' ', actReveal},
		{tcell.KeyEnter, 0, actReveal},
		{tcell.KeyRune, 'f', actMark},
		{tcell.KeyRune, 's', actStart},
		{tcell.KeyRune, 'n', actRestart},
		{tcell.KeyRune, '?', actHint},
		{tcell.KeyRune, 'q', actQuit},
		{tcell.KeyEscape, 0, actQuit},
		{tcell.KeyRune, 'z', actNone},
		{tcell.KeyTab, 0, actNone},
	}
	for _, tc := range cases {
		if got := keyAction(tc.key, tc.r); got != tc.want {
			t.Fatalf("keyAction(%v, %q) = %v, want %v", tc.key, tc.r, got, tc.want)
		}
	}
}

func TestCellAt(t *testing.T) {
	if _, ok := cellAt(0, boardTop); ok {
		t.Fatalf("left margin mapped to a cell")
	}
	if _, ok := cellAt(boardLeft, 0); ok {
		t.Fatalf("header mapped to a cell")
	}
	p, ok := cellAt(boardLeft+2*cellWidth+1, boardTop+3)
	if !ok || p != (minefield.Pos{Row: 3, Col: 2}) {
		t.Fatalf("cellAt = %v, %v", p, ok)
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	u, _, _ := newUI(t, minefield.DefaultConfig())
	for i := 0; i < 20; i++ {
		u.apply(actUp)
		u.apply(actLeft)
	}
	if u.cursor != (minefield.Pos{}) {
		t.Fatalf("cursor %v, want (0,0)", u.cursor)
	}
	for i := 0; i < 20; i++ {
		u.apply(actDown)
		u.apply(actRight)
	}
	if u.cursor != (minefield.Pos{Row: 7, Col: 7}) {
		t.Fatalf("cursor %v, want (7,7)", u.cursor)
	}
}

func TestRevealNeedsStart(t *testing.T) {
	u, screen, _ := newUI(t, minefield.DefaultConfig())
	u.apply(actReveal)
	if u.game.RevealedCount() != 0 {
		t.Fatalf("revealed before start")
	}
	u.draw()
	if line := screenLine(screen, 1); line != "Start Game" {
		t.Fatalf("status line %q", line)
	}

	u.apply(actStart)
	u.apply(actReveal)
	if u.game.RevealedCount() == 0 || u.game.Status() == minefield.Lost {
		t.Fatalf("first reveal: revealed %d status %v", u.game.RevealedCount(), u.game.Status())
	}
	if u.timerStart.IsZero() {
		t.Fatalf("timer not started")
	}
}

func TestWinRecordsBestTime(t *testing.T) {
	u, screen, st := newUI(t, minefield.Config{Rows: 2, Cols: 2, Bombs: 3})
	u.apply(actStart)
	u.apply(actReveal)

	if u.game.Status() != minefield.Won {
		t.Fatalf("status %v, want won", u.game.Status())
	}
	if _, ok := st.Best(scores.Key("Test", 2, 2, 3)); !ok {
		t.Fatalf("best time not recorded")
	}
	if !strings.HasPrefix(u.notice, "New record") {
		t.Fatalf("notice %q", u.notice)
	}

	u.draw()
	if line := screenLine(screen, 1); line != "You win :)" {
		t.Fatalf("status line %q", line)
	}
	if line := screenLine(screen, boardTop); !strings.Contains(line, "F") {
		t.Fatalf("bombs not flagged after win: %q", line)
	}

	u.apply(actRestart)
	if u.game.Status() != minefield.NotStarted || u.notice != "" || u.elapsed != 0 {
		t.Fatalf("restart left state behind: %v %q %d", u.game.Status(), u.notice, u.elapsed)
	}
}

func TestMarkAndHint(t *testing.T) {
	u, screen, _ := newUI(t, minefield.DefaultConfig())
	u.apply(actStart)
	u.cursor = minefield.Pos{}
	u.apply(actMark)
	if u.game.Mark(minefield.Pos{}) != minefield.Flag {
		t.Fatalf("mark %v, want flag", u.game.Mark(minefield.Pos{}))
	}

	u.apply(actHint)
	if u.hint == nil || *u.hint != (minefield.Pos{Row: 4, Col: 4}) {
		t.Fatalf("hint %v", u.hint)
	}
	u.draw()
	if line := screenLine(screen, 0); !strings.Contains(line, "Bombs: 7") {
		t.Fatalf("header %q", line)
	}
}

// endlessEvents never runs dry, so the forwarder fills its buffer.
type endlessEvents struct{}

func (endlessEvents) PollEvent() tcell.Event { return tcell.NewEventInterrupt(nil) }

func TestPollEventsStopsWhenDone(t *testing.T) {
	done := make(chan struct{})
	events := pollEvents(endlessEvents{}, done)
	<-events
	close(done)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("event forwarder still running after done was closed")
		}
	}
}

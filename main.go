package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/04pril/booscaminas/internal/config"
	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/scores"
	"github.com/04pril/booscaminas/internal/sound"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := config.Register(fs)
	mute := fs.Bool("mute", false, "disable sound")
	_ = fs.Parse(os.Args[1:])

	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		os.Exit(2)
	}

	log := opts.Logger(os.Stderr)
	minefield.Log = log
	i18n.Log = log
	scores.Log = log
	sound.Log = log

	player := sound.New(!*mute)
	defer player.Close()

	board := opts.Board()
	g := newGame(gameOptions{
		Preset:        config.Preset{Name: opts.Name(), Rows: board.Rows, Cols: board.Cols, Bombs: board.Bombs},
		Rand:          opts.Rand(),
		Catalog:       i18n.Load(opts.Lang),
		Scores:        scores.Open(scores.DefaultPath()),
		Sound:         player,
		QuestionMarks: opts.QuestionMarks,
		Log:           log,
	})

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	g.resizeWindow()
	log.WithField("board", board).Info("desktop game started")
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("game loop")
	}
}

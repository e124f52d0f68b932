package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/config"
	"github.com/04pril/booscaminas/internal/i18n"
	"github.com/04pril/booscaminas/internal/minefield"
	"github.com/04pril/booscaminas/internal/scores"
	"github.com/04pril/booscaminas/internal/sound"
	"github.com/04pril/booscaminas/internal/tui"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := config.Register(fs)
	mute := fs.Bool("mute", false, "disable sound")
	logFile := fs.String("log-file", "", "write logs here instead of discarding them")
	_ = fs.Parse(os.Args[1:])

	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		os.Exit(2)
	}

	var out io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := opts.Logger(out)
	minefield.Log = log
	i18n.Log = log
	scores.Log = log
	sound.Log = log
	logrus.SetOutput(out)

	player := sound.New(!*mute)
	defer player.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	defer screen.Fini()

	ui := tui.New(screen, tui.Options{
		Name:          opts.Name(),
		Board:         opts.Board(),
		Rand:          opts.Rand(),
		Catalog:       i18n.Load(opts.Lang),
		Scores:        scores.Open(scores.DefaultPath()),
		Sound:         player,
		QuestionMarks: opts.QuestionMarks,
		Log:           log,
	})
	log.WithField("board", opts.Board()).Info("terminal game started")
	ui.Run()
}

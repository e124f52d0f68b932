// Package config holds board presets and the command-line options shared by
// all frontends.
package config

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/04pril/booscaminas/internal/minefield"
)

type Preset struct {
	Name  string
	Rows  int
	Cols  int
	Bombs int
}

func (p Preset) Board() minefield.Config {
	return minefield.Config{Rows: p.Rows, Cols: p.Cols, Bombs: p.Bombs}.Normalize()
}

var Presets = []Preset{
	{Name: "Classic", Rows: minefield.DefaultSize, Cols: minefield.DefaultSize, Bombs: minefield.DefaultBombs},
	{Name: "Beginner", Rows: 9, Cols: 9, Bombs: 10},
	{Name: "Intermediate", Rows: 16, Cols: 16, Bombs: 40},
	{Name: "Expert", Rows: 16, Cols: 30, Bombs: 99},
}

// FindPreset looks a preset up by case-insensitive name.
func FindPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

type Options struct {
	Preset        string
	Rows          int
	Cols          int
	Bombs         int
	Seed          uint64
	Lang          string
	LogLevel      string
	QuestionMarks bool
}

// Register binds the shared flags on fs.
func Register(fs *flag.FlagSet) *Options {
	o := &Options{}
	fs.StringVar(&o.Preset, "preset", Presets[0].Name, "board preset: classic|beginner|intermediate|expert")
	fs.IntVar(&o.Rows, "rows", 0, "board rows (overrides the preset)")
	fs.IntVar(&o.Cols, "cols", 0, "board columns (overrides the preset)")
	fs.IntVar(&o.Bombs, "bombs", 0, "bomb count (overrides the preset)")
	fs.Uint64Var(&o.Seed, "seed", 0, "random seed, 0 for a random board")
	fs.StringVar(&o.Lang, "lang", os.Getenv("LANG"), "message language (en|es)")
	fs.StringVar(&o.LogLevel, "log-level", "info", "debug|info|warn|error")
	fs.BoolVar(&o.QuestionMarks, "question-marks", true, "cycle flags through a ? mark")
	return o
}

func (o *Options) Validate() error {
	if _, ok := FindPreset(o.Preset); !ok {
		return fmt.Errorf("unknown preset %q", o.Preset)
	}
	if o.Rows < 0 || o.Cols < 0 || o.Bombs < 0 {
		return fmt.Errorf("negative board size %dx%d/%d", o.Rows, o.Cols, o.Bombs)
	}
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (o *Options) custom() bool { return o.Rows > 0 || o.Cols > 0 || o.Bombs > 0 }

// Name is the preset name, or "Custom" when any dimension was overridden.
func (o *Options) Name() string {
	if o.custom() {
		return "Custom"
	}
	p, ok := FindPreset(o.Preset)
	if !ok {
		return Presets[0].Name
	}
	return p.Name
}

// Board applies the explicit dimensions over the preset.
func (o *Options) Board() minefield.Config {
	p, ok := FindPreset(o.Preset)
	if !ok {
		p = Presets[0]
	}
	cfg := minefield.Config{Rows: p.Rows, Cols: p.Cols, Bombs: p.Bombs}
	return cfg.Override(minefield.Config{Rows: o.Rows, Cols: o.Cols, Bombs: o.Bombs}).Normalize()
}

func (o *Options) Rand() *rand.Rand {
	if o.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(o.Seed, o.Seed))
}

// Logger builds a text logger at the configured level writing to out.
// Invalid levels fall back to info; Validate reports them.
func (o *Options) Logger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

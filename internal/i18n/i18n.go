// Package i18n holds the user-facing strings of every frontend.
package i18n

import (
	"embed"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/*.po
var locales embed.FS

const (
	MsgTitle      = "booscaminas"
	MsgStart      = "Start Game"
	MsgPressStart = "Press S or click to start"
	MsgPlaying    = "Playing"
	MsgWon        = "You win :)"
	MsgLost       = "You lost :("
	MsgPlayAgain  = "Play Again"
	MsgPaused     = "Paused"
	MsgBombs      = "Bombs: %d"
	MsgTime       = "Time: %ds"
	MsgNewRecord  = "New record: %ds"
	MsgBest       = "Best: %ds"
	MsgNoRecords  = "No records yet. Win a game to create one!"
	MsgHelpMove   = "arrows/hjkl: move  space: reveal  f: flag  ?: hint"
	MsgHelpGame   = "s: start  n: new game  q: quit"
)

// Catalog translates message ids. The zero language is English, where the
// id is the text.
type Catalog struct {
	lang string
	po   *gotext.Po
}

// Load returns the catalog for lang ("es", "es_AR", ...). Unknown languages
// fall back to English.
func Load(lang string) *Catalog {
	base := strings.ToLower(strings.SplitN(strings.SplitN(lang, ".", 2)[0], "_", 2)[0])
	po := gotext.NewPo()
	switch base {
	case "", "en", "c", "posix":
		return &Catalog{lang: "en", po: po}
	}
	data, err := locales.ReadFile("locales/" + base + ".po")
	if err != nil {
		Log.WithField("lang", lang).Warn("no catalog for language, using English")
		return &Catalog{lang: "en", po: po}
	}
	po.Parse(data)
	return &Catalog{lang: base, po: po}
}

func (c *Catalog) Lang() string { return c.lang }

// Get returns the translation of msgid formatted with args.
func (c *Catalog) Get(msgid string, args ...any) string {
	return c.po.Get(msgid, args...)
}

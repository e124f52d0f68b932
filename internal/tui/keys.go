package tui

import "github.com/gdamore/tcell/v2"

type action int

const (
	actNone action = iota
	actUp
	actDown
	actLeft
	actRight
	actReveal
	actMark
	actStart
	actRestart
	actHint
	actQuit
)

func keyAction(k tcell.Key, r rune) action {
	switch k {
	case tcell.KeyUp:
		return actUp
	case tcell.KeyDown:
		return actDown
	case tcell.KeyLeft:
		return actLeft
	case tcell.KeyRight:
		return actRight
	case tcell.KeyEnter:
		return actReveal
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyRune:
	default:
		return actNone
	}

	switch r {
	case 'k':
		return actUp
	case 'j':
		return actDown
	case 'h':
		return actLeft
	case 'l':
		return actRight
	case ' ':
		return actReveal
	case 'f':
		return actMark
	case 's':
		return actStart
	case 'n':
		return actRestart
	case '?':
		return actHint
	case 'q':
		return actQuit
	}
	return actNone
}

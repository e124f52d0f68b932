// Package sound plays short tones for game events.
package sound

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq float64
	dur  time.Duration
}

var (
	clickTones = []tone{{freq: 880, dur: 30 * time.Millisecond}}
	boomTones  = []tone{{freq: 220, dur: 120 * time.Millisecond}, {freq: 110, dur: 250 * time.Millisecond}}
	winTones   = []tone{{freq: 523.25, dur: 90 * time.Millisecond}, {freq: 659.25, dur: 90 * time.Millisecond}, {freq: 783.99, dur: 180 * time.Millisecond}}
)

// Player is silent when disabled or when the speaker could not be opened.
type Player struct {
	on bool
}

func New(enabled bool) *Player {
	if !enabled {
		return &Player{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		Log.WithError(err).Warn("audio unavailable, continuing without sound")
		return &Player{}
	}
	return &Player{on: true}
}

func (p *Player) Enabled() bool { return p.on }

func (p *Player) Click() { p.play(clickTones) }
func (p *Player) Boom()  { p.play(boomTones) }
func (p *Player) Win()   { p.play(winTones) }

func (p *Player) play(tones []tone) {
	if !p.on {
		return
	}
	s, err := sequence(tones)
	if err != nil {
		Log.WithError(err).Debug("building tone")
		return
	}
	speaker.Play(s)
}

func (p *Player) Close() {
	if p.on {
		speaker.Close()
		p.on = false
	}
}

// sequence chains sine tones back to back.
func sequence(tones []tone) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sampleRate.N(t.dur), sine))
	}
	return beep.Seq(parts...), nil
}

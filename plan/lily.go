package plan

import (
	"fmt"

	"github.com/stringsync/vexml-sub000/musicxml"
)

// Duration is a notated duration: the log2 of the note value (2 for a
// quarter) plus dots.
type Duration struct {
	DurationLog int
	Dots        int
	// Known is false when the note carried no <type>.
	Known bool
}

var typeLogs = map[string]int{
	"maxima":  -3,
	"long":    -2,
	"breve":   -1,
	"whole":   0,
	"half":    1,
	"quarter": 2,
	"eighth":  3,
	"16th":    4,
	"32nd":    5,
	"64th":    6,
	"128th":   7,
	"256th":   8,
	"512th":   9,
	"1024th":  10,
}

// DurationOf converts a MusicXML note type.
func DurationOf(typ string, dots int) Duration {
	l, ok := typeLogs[typ]
	return Duration{DurationLog: l, Dots: dots, Known: ok}
}

func (d Duration) String() string {
	if !d.Known {
		return ""
	}
	names := map[int]string{
		-1: "\\breve",
		-2: "\\longa",
		-3: "\\maxima",
	}
	n := names[d.DurationLog]
	if n == "" {
		i := uint(1)
		i <<= uint(d.DurationLog)
		n = fmt.Sprintf("%d", i)
	}

	for i := 0; i < d.Dots; i++ {
		n += "."
	}
	return n
}

// Pitch is a diatonic pitch. Octave 0 is the octave of middle C.
type Pitch struct {
	Octave     int
	Notename   int
	Alteration int
}

var stepNames = map[string]int{"C": 0, "D": 1, "E": 2, "F": 3, "G": 4, "A": 5, "B": 6}

// PitchOf converts a MusicXML pitch, where middle C is C4.
func PitchOf(p musicxml.Pitch) Pitch {
	alt := p.Alter
	if alt > 2 {
		alt = 2
	} else if alt < -2 {
		alt = -2
	}
	return Pitch{Octave: p.Octave - 4, Notename: stepNames[p.Step], Alteration: alt}
}

func (p *Pitch) SemitonePitch() int {
	p.Normalize()
	scale := []int{0, 2, 4, 5, 7, 9, 11}
	return p.Octave*12 + scale[p.Notename] + p.Alteration
}

func (p *Pitch) Normalize() {
	for p.Notename < 0 {
		p.Notename += 7
		p.Octave--
	}
	for p.Notename >= 7 {
		p.Notename -= 7
		p.Octave++
	}
}

func (p Pitch) String() string {
	names := []string{"c", "d", "e", "f", "g", "a", "b"}
	altsuffix := []string{"eses", "es", "", "is", "isis"}

	p.Normalize()
	n := names[p.Notename]
	n += altsuffix[p.Alteration+2]
	if p.Octave < 0 {
		for i := -1; i > p.Octave; i-- {
			n += ","
		}
	} else {
		for i := 0; i <= p.Octave; i++ {
			n += "'"
		}
	}
	return n
}

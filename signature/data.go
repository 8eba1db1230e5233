// Package signature tracks the clef, key, time, stave configuration and
// tempo active for every part and stave.
package signature

import (
	"fmt"
	"strings"

	"github.com/stringsync/vexml-sub000/fraction"
)

type Clef struct {
	Sign         string
	Line         int
	OctaveChange int
}

func (c Clef) String() string {
	s := fmt.Sprintf("%s%d", c.Sign, c.Line)
	switch {
	case c.OctaveChange > 0:
		s += fmt.Sprintf("^%d", 7*c.OctaveChange+1)
	case c.OctaveChange < 0:
		s += fmt.Sprintf("_%d", -7*c.OctaveChange+1)
	}
	return s
}

// Key is a traditional key signature.
type Key struct {
	Fifths int
	Mode   string
	// Previous is the key this one replaced, for cancellation accidentals.
	// It is nil until the first key change.
	Previous *Key
}

// Equal compares by value and ignores Previous.
func (k Key) Equal(o Key) bool {
	return k.Fifths == o.Fifths && k.Mode == o.Mode
}

func (k Key) String() string {
	return fmt.Sprintf("%d %s", k.Fifths, k.Mode)
}

type Symbol string

const (
	SymbolNone         Symbol = ""
	SymbolCommon       Symbol = "common"
	SymbolCut          Symbol = "cut"
	SymbolSingleNumber Symbol = "single-number"
	SymbolHidden       Symbol = "hidden"
)

// Component is one beats/beat-type group. Beats has several values for
// additive meters such as 3+2/8.
type Component struct {
	Beats    []int
	BeatType int
}

type Time struct {
	Components []Component
	Symbol     Symbol
}

func (t Time) Equal(o Time) bool {
	if t.Symbol != o.Symbol || len(t.Components) != len(o.Components) {
		return false
	}
	for i, c := range t.Components {
		d := o.Components[i]
		if c.BeatType != d.BeatType || len(c.Beats) != len(d.Beats) {
			return false
		}
		for j := range c.Beats {
			if c.Beats[j] != d.Beats[j] {
				return false
			}
		}
	}
	return true
}

// Length is the nominal measure length in quarter notes.
func (t Time) Length() fraction.Division {
	total := fraction.Whole(0)
	for _, c := range t.Components {
		sum := 0
		for _, b := range c.Beats {
			sum += b
		}
		total = total.Add(fraction.New(4*sum, c.BeatType))
	}
	return fraction.FromBeats(total)
}

func (t Time) String() string {
	var parts []string
	for _, c := range t.Components {
		var beats []string
		for _, b := range c.Beats {
			beats = append(beats, fmt.Sprint(b))
		}
		parts = append(parts, fmt.Sprintf("%s/%d", strings.Join(beats, "+"), c.BeatType))
	}
	s := strings.Join(parts, " ")
	if t.Symbol != SymbolNone {
		s += " " + string(t.Symbol)
	}
	return s
}

// Tempo is a metronome mark.
type Tempo struct {
	BeatUnit  string
	Dots      int
	PerMinute int
}

func (t Tempo) String() string {
	return fmt.Sprintf("%s%s=%d", t.BeatUnit, strings.Repeat(".", t.Dots), t.PerMinute)
}

// Defaults substituted when the document has not said otherwise.
var (
	DefaultClef       = Clef{Sign: "G", Line: 2}
	DefaultKey        = Key{Fifths: 0, Mode: "none"}
	DefaultTime       = Time{Components: []Component{{Beats: []int{4}, BeatType: 4}}}
	DefaultLines      = 5
	DefaultStaveCount = 1
	DefaultTempo      = Tempo{BeatUnit: "quarter", PerMinute: 120}
)

// Stave identifies one stave of one part. Number is 1-based.
type Stave struct {
	Part   string
	Number int
}

// Kind names a construct that can change between signatures.
type Kind string

const (
	KindClef           Kind = "clef"
	KindKey            Kind = "key"
	KindTime           Kind = "time"
	KindStaveLineCount Kind = "stavelinecount"
	KindStaveCount     Kind = "stavecount"
	KindTempo          Kind = "metronome"
)

// Change is one entry of a changed-set. Stave is 0 for part-wide
// constructs (stave count, tempo).
type Change struct {
	Kind  Kind
	Part  string
	Stave int
}

func (c Change) String() string {
	if c.Stave == 0 {
		return fmt.Sprintf("%s(%s)", c.Kind, c.Part)
	}
	return fmt.Sprintf("%s(%s/%d)", c.Kind, c.Part, c.Stave)
}

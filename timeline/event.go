// Package timeline turns the raw entry stream of each measure into
// beat-stamped events and cuts measures into fragments wherever the active
// signature changes.
package timeline

import (
	"fmt"
	"sort"

	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/signature"
)

type Kind int

const (
	KindNote Kind = iota
	KindChord
	KindRest
	KindClef
	KindKey
	KindTime
	KindStaveCount
	KindStaveLineCount
	KindMetronome
	KindMultiRest
	KindSegno
	KindCoda
	KindDynamics
	KindWedge
	KindPedal
	KindOctaveShift
	KindWords
)

var kindNames = map[Kind]string{
	KindNote:           "note",
	KindChord:          "chord",
	KindRest:           "rest",
	KindClef:           "clef",
	KindKey:            "key",
	KindTime:           "time",
	KindStaveCount:     "stavecount",
	KindStaveLineCount: "stavelinecount",
	KindMetronome:      "metronome",
	KindMultiRest:      "multirest",
	KindSegno:          "segno",
	KindCoda:           "coda",
	KindDynamics:       "dynamics",
	KindWedge:          "wedge",
	KindPedal:          "pedal",
	KindOctaveShift:    "octaveshift",
	KindWords:          "words",
}

func (k Kind) String() string {
	return kindNames[k]
}

// IsChange reports kinds that feed the signature resolver.
func (k Kind) IsChange() bool {
	switch k {
	case KindClef, KindKey, KindTime, KindStaveCount, KindStaveLineCount, KindMetronome:
		return true
	}
	return false
}

// IsVoiceEntry reports kinds that occupy time in a voice.
func (k Kind) IsVoiceEntry() bool {
	return k == KindNote || k == KindChord || k == KindRest
}

// Event is a beat-stamped measure event. Kind decides which payload field
// is set.
type Event struct {
	Kind         Kind
	PartID       string
	MeasureIndex int
	// EntryIndex is the document position within the measure; events at
	// the same beat keep this order.
	EntryIndex int
	Beat       fraction.Division
	// Stave is 0 on key and time events that apply to every stave.
	Stave int
	Voice string

	// note, rest: Notes[0]; chord: head first, then tails.
	Notes    []*musicxml.Note
	Duration fraction.Division

	Clef       signature.Clef
	Key        musicxml.Key
	Time       signature.Time
	StaveCount int
	Lines      int
	Tempo      signature.Tempo
	Measures   int

	Direction   *musicxml.Direction
	Dynamics    []string
	Words       []string
	Wedge       musicxml.Mark
	Pedal       musicxml.Mark
	OctaveShift musicxml.OctaveShift
}

func (e *Event) String() string {
	return fmt.Sprintf("%s@%v[%s m%d s%d v%s]", e.Kind, e.Beat, e.PartID, e.MeasureIndex, e.Stave, e.Voice)
}

// update converts a change event into a resolver update.
func (e *Event) update(u *signature.Update) {
	st := signature.Stave{Part: e.PartID, Number: e.Stave}
	switch e.Kind {
	case KindClef:
		u.Clefs = append(u.Clefs, signature.ClefUpdate{Stave: st, Clef: e.Clef})
	case KindKey:
		u.Keys = append(u.Keys, signature.KeyUpdate{Stave: st, Fifths: e.Key.Fifths, Mode: e.Key.Mode})
	case KindTime:
		u.Times = append(u.Times, signature.TimeUpdate{Stave: st, Time: e.Time})
	case KindStaveCount:
		u.StaveCounts = append(u.StaveCounts, signature.StaveCountUpdate{Part: e.PartID, Count: e.StaveCount})
	case KindStaveLineCount:
		u.StaveLines = append(u.StaveLines, signature.StaveLineUpdate{Stave: st, Lines: e.Lines})
	case KindMetronome:
		u.Tempos = append(u.Tempos, signature.TempoUpdate{Stave: st, Tempo: e.Tempo})
	}
}

// SortByBeat orders events by beat, keeping document order between events
// at the same beat.
func SortByBeat(es []*Event) {
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].Beat.IsLessThan(es[j].Beat)
	})
}

package timeline

import (
	"math"

	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/signature"
)

// Extractor walks the measures of one part in order. It carries the
// divisions-per-quarter unit from one measure to the next.
type Extractor struct {
	PartID    string
	divisions int
}

func NewExtractor(partID string) *Extractor {
	return &Extractor{PartID: partID, divisions: 1}
}

// Divisions is the current divisions-per-quarter unit.
func (x *Extractor) Divisions() int {
	return x.divisions
}

func (x *Extractor) span(count int) fraction.Division {
	if count <= 0 {
		return fraction.Zero
	}
	return fraction.FromDivisions(count, x.divisions)
}

// Measure returns the events of one measure in beat order and the extent,
// the furthest beat any entry reached.
//
// There is a single cursor per measure. Voices are laid out one after the
// other in the entry stream, and <backup>/<forward> move the cursor between
// them; the cursor never goes below zero.
func (x *Extractor) Measure(index int, m musicxml.Measure) ([]*Event, fraction.Division) {
	var es []*Event
	cursor := fraction.Zero
	extent := fraction.Zero

	emit := func(i int, kind Kind, stave int) *Event {
		e := &Event{
			Kind:         kind,
			PartID:       x.PartID,
			MeasureIndex: index,
			EntryIndex:   i,
			Beat:         cursor,
			Stave:        stave,
		}
		es = append(es, e)
		return e
	}

	entries := m.Entries()
	for i := 0; i < len(entries); i++ {
		switch t := entries[i].(type) {
		case *musicxml.Note:
			if t.IsChordTail() {
				// Consumed together with its head.
				continue
			}
			notes := []*musicxml.Note{t}
			for j := i + 1; j < len(entries); j++ {
				n, ok := entries[j].(*musicxml.Note)
				if !ok || !n.IsChordTail() {
					break
				}
				notes = append(notes, n)
			}

			kind := KindNote
			switch {
			case t.IsRest():
				kind = KindRest
			case len(notes) > 1:
				kind = KindChord
			}
			dur := fraction.Zero
			if !t.IsGrace() {
				dur = x.span(t.Duration())
			}
			e := emit(i, kind, t.Staff())
			e.Voice = t.Voice()
			e.Notes = notes
			e.Duration = dur
			cursor = cursor.Add(dur)
		case *musicxml.Backup:
			cursor = cursor.Subtract(x.span(t.Duration()))
		case *musicxml.Forward:
			cursor = cursor.Add(x.span(t.Duration()))
		case *musicxml.Attributes:
			x.attributes(i, t, emit)
		case *musicxml.Direction:
			x.direction(i, t, emit)
		case *musicxml.Sound:
			if bpm, ok := t.Tempo(); ok {
				e := emit(i, KindMetronome, 1)
				e.Tempo = soundTempo(bpm)
			}
		}
		extent = fraction.Max(extent, cursor)
	}

	SortByBeat(es)
	return es, extent
}

func (x *Extractor) attributes(i int, a *musicxml.Attributes, emit func(int, Kind, int) *Event) {
	if d, ok := a.Divisions(); ok {
		x.divisions = d
	}
	if n, ok := a.Staves(); ok {
		e := emit(i, KindStaveCount, 0)
		e.StaveCount = n
	}
	for _, c := range a.Clefs() {
		e := emit(i, KindClef, c.Stave)
		e.Clef = signature.Clef{Sign: c.Sign, Line: c.Line, OctaveChange: c.OctaveChange}
	}
	for _, k := range a.Keys() {
		e := emit(i, KindKey, k.Stave)
		e.Key = k
	}
	for _, t := range a.Times() {
		e := emit(i, KindTime, t.Stave)
		e.Time = convertTime(t)
	}
	for _, d := range a.StaveDetails() {
		e := emit(i, KindStaveLineCount, d.Stave)
		e.Lines = d.Lines
	}
	if n, ok := a.MultipleRest(); ok {
		e := emit(i, KindMultiRest, 1)
		e.Measures = n
	}
}

func convertTime(t musicxml.Time) signature.Time {
	var st signature.Time
	for _, c := range t.Components {
		st.Components = append(st.Components, signature.Component{Beats: c.Beats, BeatType: c.BeatType})
	}
	switch {
	case t.Hidden || t.SenzaMisura:
		st.Symbol = signature.SymbolHidden
	case t.Symbol == "common":
		st.Symbol = signature.SymbolCommon
	case t.Symbol == "cut":
		st.Symbol = signature.SymbolCut
	case t.Symbol == "single-number":
		st.Symbol = signature.SymbolSingleNumber
	}
	if len(st.Components) == 0 {
		st.Components = signature.DefaultTime.Components
	}
	return st
}

func soundTempo(bpm float64) signature.Tempo {
	return signature.Tempo{BeatUnit: "quarter", PerMinute: int(math.Round(bpm))}
}

func (x *Extractor) direction(i int, d *musicxml.Direction, emit func(int, Kind, int) *Event) {
	stave := d.Staff()
	if m, ok := d.Metronome(); ok {
		e := emit(i, KindMetronome, stave)
		e.Tempo = signature.Tempo{BeatUnit: m.BeatUnit, Dots: m.Dots, PerMinute: m.PerMinute}
		e.Direction = d
	} else if bpm, ok := d.SoundTempo(); ok {
		e := emit(i, KindMetronome, stave)
		e.Tempo = soundTempo(bpm)
		e.Direction = d
	}
	if d.HasSegno() {
		emit(i, KindSegno, stave).Direction = d
	}
	if d.HasCoda() {
		emit(i, KindCoda, stave).Direction = d
	}
	if dyn := d.Dynamics(); len(dyn) > 0 {
		e := emit(i, KindDynamics, stave)
		e.Dynamics = dyn
		e.Direction = d
	}
	if w := d.Words(); len(w) > 0 {
		e := emit(i, KindWords, stave)
		e.Words = w
		e.Direction = d
	}
	for _, w := range d.Wedges() {
		e := emit(i, KindWedge, stave)
		e.Wedge = w
		e.Voice = d.Voice()
		e.Direction = d
	}
	for _, p := range d.Pedals() {
		e := emit(i, KindPedal, stave)
		e.Pedal = p
		e.Voice = d.Voice()
		e.Direction = d
	}
	for _, o := range d.OctaveShifts() {
		e := emit(i, KindOctaveShift, stave)
		e.OctaveShift = o
		e.Voice = d.Voice()
		e.Direction = d
	}
}

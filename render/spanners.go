package render

import (
	"fmt"
	"sort"

	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/spanner"
	"github.com/stringsync/vexml-sub000/timeline"
)

// resolveSpanners feeds every spanner fragment to the resolvers in
// document order: part by part, measure by measure, entry by entry.
// Beams that are still open close at the end of every measure.
func (r *renderer) resolveSpanners() {
	for _, part := range r.partIDs {
		for _, c := range r.cols {
			if c.hidden {
				continue
			}
			es := partEvents(c.events, part)
			sort.SliceStable(es, func(i, j int) bool { return es[i].EntryIndex < es[j].EntryIndex })
			for _, e := range es {
				switch e.Kind {
				case timeline.KindNote, timeline.KindChord, timeline.KindRest:
					r.noteFragments(e)
				case timeline.KindWedge, timeline.KindPedal, timeline.KindOctaveShift:
					r.directionFragment(c, e)
				}
			}
			r.set.CloseAll(spanner.KindBeam, func(k spanner.Key) bool { return k.Part == part })
		}
	}
}

func (r *renderer) commit(p *placed, f spanner.Fragment) {
	f.Ref = p.entry
	f.Address = p.address
	if sp := r.set.Process(f); sp != nil {
		p.entry.AddSpanner(sp)
	}
}

var notePhases = map[string]spanner.Phase{
	"start":    spanner.PhaseStart,
	"continue": spanner.PhaseContinue,
	"stop":     spanner.PhaseStop,
	"let-ring": spanner.PhaseLetRing,
}

// noteFragments commits the fragments notated on one entry. On a single
// entry stops go first, so a note can end one slur and start the next.
func (r *renderer) noteFragments(e *timeline.Event) {
	p := r.entries[e]
	if p == nil {
		return
	}
	var stops, others []spanner.Fragment
	add := func(kind spanner.Kind, m musicxml.Mark, pitch string) {
		ph, ok := notePhases[m.Type]
		if !ok {
			r.log.Debug("unknown spanner phase", "kind", string(kind), "type", m.Type)
			return
		}
		f := spanner.Fragment{Kind: kind, Phase: ph, PartID: e.PartID, Voice: e.Voice, Number: m.Number, Pitch: pitch}
		if ph == spanner.PhaseStop {
			stops = append(stops, f)
		} else {
			others = append(others, f)
		}
	}

	head := e.Notes[0]
	for _, n := range e.Notes {
		pitch := ""
		if pt, ok := n.Pitch(); ok {
			pitch = pt.String()
		}
		for _, m := range n.Ties() {
			add(spanner.KindTie, m, pitch)
		}
		for _, m := range n.Slurs() {
			add(spanner.KindSlur, m, "")
		}
		for _, m := range n.Slides() {
			add(spanner.KindSlide, m, "")
		}
		for _, m := range n.HammerOns() {
			add(spanner.KindHammerOn, m, "")
		}
		for _, m := range n.PullOffs() {
			add(spanner.KindPullOff, m, "")
		}
		for _, m := range n.WavyLines() {
			add(spanner.KindVibrato, m, "")
		}
	}

	tuplets := head.Tuplets()
	for _, m := range tuplets {
		add(spanner.KindTuplet, m, "")
	}
	if _, _, ok := head.TimeModification(); ok && len(tuplets) == 0 {
		others = append(others, spanner.Fragment{
			Kind: spanner.KindTuplet, Phase: spanner.PhaseUnspecified, PartID: e.PartID, Voice: e.Voice, Number: 1,
		})
	}

	var closes []spanner.Key
	for _, b := range head.Beams() {
		f := spanner.Fragment{Kind: spanner.KindBeam, PartID: e.PartID, Voice: e.Voice, Number: b.Number}
		switch b.Value {
		case "begin":
			f.Phase = spanner.PhaseStart
		case "continue":
			f.Phase = spanner.PhaseContinue
		case "end":
			f.Phase = spanner.PhaseContinue
			closes = append(closes, spanner.Key{Part: e.PartID, Voice: e.Voice, Number: b.Number})
		default:
			// Hooks belong to a single note.
			continue
		}
		others = append(others, f)
	}

	for _, f := range stops {
		r.commit(p, f)
	}
	for _, f := range others {
		r.commit(p, f)
	}
	for _, k := range closes {
		r.set.Close(spanner.KindBeam, k)
	}
}

// directionFragment commits a wedge, pedal or octave shift to the entry
// it is attached to.
func (r *renderer) directionFragment(c *column, e *timeline.Event) {
	f := spanner.Fragment{PartID: e.PartID, Voice: e.Voice}
	var typ string
	switch e.Kind {
	case timeline.KindWedge:
		f.Kind, f.Number, typ = spanner.KindWedge, e.Wedge.Number, e.Wedge.Type
		switch typ {
		case "crescendo", "diminuendo":
			f.Phase, f.Detail = spanner.PhaseStart, typ
		case "continue":
			f.Phase = spanner.PhaseContinue
		case "stop":
			f.Phase = spanner.PhaseStop
		}
	case timeline.KindPedal:
		f.Kind, f.Number, typ = spanner.KindPedal, e.Pedal.Number, e.Pedal.Type
		switch typ {
		case "start", "sostenuto":
			f.Phase, f.Detail = spanner.PhaseStart, typ
		case "change", "continue", "resume":
			f.Phase, f.Detail = spanner.PhaseContinue, typ
		case "stop", "discontinue":
			f.Phase = spanner.PhaseStop
		}
	case timeline.KindOctaveShift:
		o := e.OctaveShift
		f.Kind, f.Number, typ = spanner.KindOctaveShift, o.Number, o.Type
		switch typ {
		case "up", "down":
			f.Phase, f.Detail = spanner.PhaseStart, fmt.Sprintf("%s %d", typ, o.Size)
		case "continue":
			f.Phase = spanner.PhaseContinue
		case "stop":
			f.Phase = spanner.PhaseStop
		}
	}
	if f.Phase == "" {
		r.log.Debug("unknown direction type", "kind", e.Kind.String(), "type", typ)
		return
	}
	p := r.attach(c, e)
	if p == nil {
		r.log.Debug("direction without entry dropped", "event", e.String())
		return
	}
	r.commit(p, f)
}

// attach picks the entry a direction belongs to: the next entry of the
// same stave in the measure, or the last one when none follows. A stave
// without entries falls back to the whole part.
func (r *renderer) attach(c *column, d *timeline.Event) *placed {
	var same, all []*timeline.Event
	for _, e := range c.events {
		if e.PartID != d.PartID || r.entries[e] == nil {
			continue
		}
		all = append(all, e)
		if e.Stave == d.Stave {
			same = append(same, e)
		}
	}
	cands := same
	if len(cands) == 0 {
		cands = all
	}
	if len(cands) == 0 {
		return nil
	}
	for _, e := range cands {
		if e.Beat.IsGreaterThan(d.Beat) || (e.Beat.IsEqual(d.Beat) && e.EntryIndex > d.EntryIndex) {
			return r.entries[e]
		}
	}
	return r.entries[cands[len(cands)-1]]
}

package render

import (
	"sort"
	"strings"

	"github.com/stringsync/vexml-sub000/address"
	"github.com/stringsync/vexml-sub000/layout"
	"github.com/stringsync/vexml-sub000/plan"
	"github.com/stringsync/vexml-sub000/signature"
	"github.com/stringsync/vexml-sub000/timeline"
)

// placed is a voice entry together with where it sits in the plan.
type placed struct {
	entry   *plan.Entry
	address address.VoiceAddress
}

func (r *renderer) system(index int, s *layout.System) *plan.System {
	sa := address.System(index)
	ps := &plan.System{Address: sa, Width: s.Width, Justified: s.Justified}
	for pi, id := range r.partIDs {
		pa := sa.Part(pi)
		pp := &plan.Part{Address: pa, ID: id, Name: r.score.PartName(id)}
		for k := range s.Placements {
			pp.Measures = append(pp.Measures, r.measure(pa, id, &s.Placements[k], k == 0))
		}
		ps.Parts = append(ps.Parts, pp)
	}
	return ps
}

func (r *renderer) measure(pa address.PartAddress, part string, pl *layout.Placement, systemStart bool) *plan.Measure {
	c := r.cols[pl.Measure.Index]
	b := c.bars[part]
	pm := &plan.Measure{
		Address:      pa.Measure(c.index),
		Index:        c.index,
		Number:       c.number,
		X:            pl.X,
		Width:        pl.Width(),
		MultiRest:    c.multiRest,
		StartBarline: b.start,
		EndBarline:   b.end,
		Repeats:      b.repeats,
	}
	for j, rg := range c.ranges {
		fa := pm.Address.Fragment(j)
		staves := rg.Signature.StaveCount(part)
		pf := &plan.Fragment{
			Address: fa,
			Start:   rg.Start,
			End:     rg.End,
			Width:   pl.Widths[j],
			Changes: headerChanges(part, staves, rg.Changes, systemStart && j == 0, c.index == 0 && j == 0),
		}
		header := rg.Signature.Fragment(part)
		events := partEvents(c.rangeEvents(j), part)
		for n := 1; n <= staves; n++ {
			h, _ := header.Stave(part, n)
			pf.Staves = append(pf.Staves, r.stave(fa.Stave(n), h, events))
		}
		for _, e := range events {
			if e.Stave > staves {
				r.log.Debug("event on missing stave dropped", "event", e.String(), "staves", staves)
			}
		}
		pm.Fragments = append(pm.Fragments, pf)
	}
	return pm
}

func partEvents(es []*timeline.Event, part string) []*timeline.Event {
	var out []*timeline.Event
	for _, e := range es {
		if e.PartID == part {
			out = append(out, e)
		}
	}
	return out
}

var headerOrder = map[signature.Kind]int{
	signature.KindStaveCount:     0,
	signature.KindClef:           1,
	signature.KindKey:            2,
	signature.KindTime:           3,
	signature.KindStaveLineCount: 4,
	signature.KindTempo:          5,
}

// headerChanges lists what the part draws at the start of a fragment: its
// own changes, plus clef and key on every stave at the start of a system,
// plus the time at the start of the piece.
func headerChanges(part string, staves int, changes []signature.Change, systemStart, pieceStart bool) []signature.Change {
	set := map[signature.Change]bool{}
	for _, c := range changes {
		if c.Part == part {
			set[c] = true
		}
	}
	if systemStart {
		for n := 1; n <= staves; n++ {
			set[signature.Change{Kind: signature.KindClef, Part: part, Stave: n}] = true
			set[signature.Change{Kind: signature.KindKey, Part: part, Stave: n}] = true
			if pieceStart {
				set[signature.Change{Kind: signature.KindTime, Part: part, Stave: n}] = true
			}
		}
	}
	out := make([]signature.Change, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stave != out[j].Stave {
			return out[i].Stave < out[j].Stave
		}
		return headerOrder[out[i].Kind] < headerOrder[out[j].Kind]
	})
	return out
}

func (r *renderer) stave(sa address.StaveAddress, h signature.StaveHeader, events []*timeline.Event) *plan.Stave {
	ps := &plan.Stave{Address: sa, Number: h.Stave, Header: h}
	ca := sa.Chorus()
	ps.Chorus = &plan.Chorus{Address: ca}

	voices := map[string]*plan.Voice{}
	for _, e := range events {
		if e.Stave != h.Stave {
			continue
		}
		if text, ok := annotation(e); ok {
			ps.Annotations = append(ps.Annotations, plan.Annotation{Kind: e.Kind.String(), Beat: e.Beat, Text: text})
			continue
		}
		if !e.Kind.IsVoiceEntry() {
			continue
		}
		v := voices[e.Voice]
		if v == nil {
			v = &plan.Voice{Address: ca.Voice(len(ps.Chorus.Voices)), ID: e.Voice}
			voices[e.Voice] = v
			ps.Chorus.Voices = append(ps.Chorus.Voices, v)
		}
		entry := newEntry(e)
		v.Entries = append(v.Entries, entry)
		for _, l := range e.Notes[0].Lyrics() {
			ps.Annotations = append(ps.Annotations, plan.Annotation{Kind: "lyric", Beat: e.Beat, Text: l})
		}
		r.entries[e] = &placed{entry: entry, address: v.Address}
	}
	return ps
}

func annotation(e *timeline.Event) (string, bool) {
	switch e.Kind {
	case timeline.KindDynamics:
		return strings.Join(e.Dynamics, " "), true
	case timeline.KindWords:
		return strings.Join(e.Words, " "), true
	case timeline.KindMetronome:
		return e.Tempo.String(), true
	case timeline.KindSegno, timeline.KindCoda:
		return "", true
	}
	return "", false
}

func newEntry(e *timeline.Event) *plan.Entry {
	head := e.Notes[0]
	entry := &plan.Entry{
		Beat:        e.Beat,
		Length:      e.Duration,
		Duration:    plan.DurationOf(head.Type(), head.Dots()),
		Grace:       head.IsGrace(),
		MeasureRest: head.IsMeasureRest(),
	}
	switch e.Kind {
	case timeline.KindRest:
		entry.Kind = plan.EntryRest
	case timeline.KindChord:
		entry.Kind = plan.EntryChord
	default:
		entry.Kind = plan.EntryNote
	}
	if e.Kind != timeline.KindRest {
		for _, n := range e.Notes {
			if p, ok := n.Pitch(); ok {
				entry.Pitches = append(entry.Pitches, plan.PitchOf(p))
			}
		}
		// Chord notes are written low to high.
		sort.SliceStable(entry.Pitches, func(i, j int) bool {
			return entry.Pitches[i].SemitonePitch() < entry.Pitches[j].SemitonePitch()
		})
	}
	return entry
}

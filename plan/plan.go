// Package plan is the render plan handed to the drawing layer: systems,
// parts, measures, fragments, staves and voices, with every entry tagged
// by the spanners it takes part in.
package plan

import (
	"fmt"
	"strings"

	"github.com/stringsync/vexml-sub000/address"
	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/signature"
	"github.com/stringsync/vexml-sub000/spanner"
)

type Plan struct {
	ID       string
	Title    string
	Width    float64
	Systems  []*System
	Spanners []*spanner.Spanner
}

// Spanner looks up a resolved spanner by the ID stored on entries.
func (p *Plan) Spanner(id int) (*spanner.Spanner, bool) {
	if id < 1 || id > len(p.Spanners) {
		return nil, false
	}
	return p.Spanners[id-1], true
}

// Entries walks every entry in plan order.
func (p *Plan) Entries(f func(*Entry)) {
	for _, s := range p.Systems {
		for _, pt := range s.Parts {
			for _, m := range pt.Measures {
				for _, fr := range m.Fragments {
					for _, st := range fr.Staves {
						for _, v := range st.Chorus.Voices {
							for _, e := range v.Entries {
								f(e)
							}
						}
					}
				}
			}
		}
	}
}

func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%% %s %q\n", p.ID, p.Title)
	for _, s := range p.Systems {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

type System struct {
	Address   address.SystemAddress
	Width     float64
	Justified bool
	Parts     []*Part
}

func (s *System) String() string {
	var lines []string
	for _, p := range s.Parts {
		lines = append(lines, p.String())
	}
	return fmt.Sprintf("%s %.1f\n%s", s.Address, s.Width, strings.Join(lines, "\n"))
}

type Part struct {
	Address  address.PartAddress
	ID       string
	Name     string
	Measures []*Measure
}

func (p *Part) String() string {
	elts := []string{}
	for _, m := range p.Measures {
		elts = append(elts, m.String())
	}
	return fmt.Sprintf("%s = { %s }", p.ID, strings.Join(elts, " | "))
}

type Measure struct {
	Address address.MeasureAddress
	// Index is the position in the document; Number is the printed label.
	Index  int
	Number string
	X      float64
	Width  float64
	// MultiRest is the number of measures this one stands for when it
	// starts a multi-measure rest.
	MultiRest int
	// StartBarline and EndBarline are MusicXML bar styles; Repeat marks
	// "forward", "backward" or both.
	StartBarline string
	EndBarline   string
	Repeats      []string
	Fragments    []*Fragment
}

func (m *Measure) String() string {
	elts := []string{}
	if m.MultiRest > 0 {
		elts = append(elts, fmt.Sprintf("R*%d", m.MultiRest))
	}
	for _, f := range m.Fragments {
		elts = append(elts, f.String())
	}
	return strings.Join(elts, " ")
}

type Fragment struct {
	Address address.FragmentAddress
	Start   fraction.Division
	End     fraction.Division
	Width   float64
	// Changes lists what this part's header draws at the fragment start.
	Changes []signature.Change
	Staves  []*Stave
}

func (f *Fragment) String() string {
	elts := []string{}
	for _, c := range f.Changes {
		elts = append(elts, "\\"+string(c.Kind))
	}
	for _, s := range f.Staves {
		elts = append(elts, s.String())
	}
	return strings.Join(elts, " ")
}

// Annotation is a stave attached direction (dynamics, words, segno, coda,
// metronome) or a lyric syllable.
type Annotation struct {
	Kind string
	Beat fraction.Division
	Text string
}

func (a Annotation) String() string {
	if a.Text == "" {
		return "\\" + a.Kind
	}
	return fmt.Sprintf("\\%s %q", a.Kind, a.Text)
}

type Stave struct {
	Address     address.StaveAddress
	Number      int
	Header      signature.StaveHeader
	Annotations []Annotation
	Chorus      *Chorus
}

func (s *Stave) String() string {
	elts := []string{}
	for _, a := range s.Annotations {
		elts = append(elts, a.String())
	}
	elts = append(elts, s.Chorus.String())
	return strings.Join(elts, " ")
}

// Chorus is the set of voices sounding together on one stave.
type Chorus struct {
	Address address.ChorusAddress
	Voices  []*Voice
}

func (c *Chorus) String() string {
	if len(c.Voices) == 1 {
		return c.Voices[0].String()
	}
	elts := []string{}
	for _, v := range c.Voices {
		elts = append(elts, v.String())
	}
	return fmt.Sprintf("<< %s >>", strings.Join(elts, " \\\\ "))
}

type Voice struct {
	Address address.VoiceAddress
	ID      string
	Entries []*Entry
}

func (v *Voice) String() string {
	elts := []string{}
	for _, e := range v.Entries {
		elts = append(elts, e.String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(elts, " "))
}

type EntryKind string

const (
	EntryNote  EntryKind = "note"
	EntryChord EntryKind = "chord"
	EntryRest  EntryKind = "rest"
)

type Entry struct {
	Kind     EntryKind
	Beat     fraction.Division
	Length   fraction.Division
	Duration Duration
	Pitches  []Pitch
	Grace    bool
	// MeasureRest is a rest filling the whole measure.
	MeasureRest bool
	// Spanners holds the IDs of every spanner with a fragment on this
	// entry, in commit order.
	Spanners []int
	// Marks are the spanner kinds matching Spanners, for display.
	Marks []spanner.Kind
}

// AddSpanner records that the entry takes part in sp.
func (e *Entry) AddSpanner(sp *spanner.Spanner) {
	for _, id := range e.Spanners {
		if id == sp.ID {
			return
		}
	}
	e.Spanners = append(e.Spanners, sp.ID)
	e.Marks = append(e.Marks, sp.Kind)
}

func (e *Entry) String() string {
	var s string
	switch e.Kind {
	case EntryRest:
		s = "r"
		if e.MeasureRest {
			s = "R"
		}
	case EntryChord:
		pitches := []string{}
		for _, p := range e.Pitches {
			pitches = append(pitches, p.String())
		}
		s = "<" + strings.Join(pitches, " ") + ">"
	default:
		s = "s"
		if len(e.Pitches) > 0 {
			s = e.Pitches[0].String()
		}
	}
	if e.Grace {
		s = "\\grace " + s
	}
	if d := e.Duration.String(); d != "" {
		s += d
	} else {
		s += "*" + e.Length.String()
	}
	if len(e.Spanners) > 0 {
		marks := []string{}
		for i, id := range e.Spanners {
			marks = append(marks, fmt.Sprintf("%s%d", e.Marks[i], id))
		}
		s += "{" + strings.Join(marks, ",") + "}"
	}
	return s
}

// Package spanner accumulates the per-note fragments of multi-note
// constructs (ties, slurs, beams, wedges, ...) into spanners.
package spanner

import (
	"fmt"
	"strings"

	"github.com/stringsync/vexml-sub000/address"
)

type Kind string

const (
	KindTie         Kind = "tie"
	KindSlur        Kind = "slur"
	KindBeam        Kind = "beam"
	KindTuplet      Kind = "tuplet"
	KindWedge       Kind = "wedge"
	KindVibrato     Kind = "vibrato"
	KindPedal       Kind = "pedal"
	KindOctaveShift Kind = "octaveshift"
	KindHammerOn    Kind = "hammeron"
	KindPullOff     Kind = "pulloff"
	KindSlide       Kind = "slide"
)

// Kinds lists every kind in processing order.
var Kinds = []Kind{
	KindTie, KindSlur, KindBeam, KindTuplet, KindWedge, KindVibrato,
	KindPedal, KindOctaveShift, KindHammerOn, KindPullOff, KindSlide,
}

type Phase string

const (
	PhaseStart       Phase = "start"
	PhaseContinue    Phase = "continue"
	PhaseStop        Phase = "stop"
	PhaseUnspecified Phase = "unspecified"
	PhaseLetRing     Phase = "let-ring"
)

// Key identifies the open spanner a fragment belongs to. Which fields are
// significant depends on the kind.
type Key struct {
	Part   string
	Voice  string
	Number int
	Pitch  string
}

func (k Key) String() string {
	s := k.Part
	if k.Voice != "" {
		s += "/v" + k.Voice
	}
	if k.Pitch != "" {
		s += "/" + k.Pitch
	}
	return fmt.Sprintf("%s#%d", s, k.Number)
}

// Fragment is one note's participation in a spanner.
type Fragment struct {
	Kind   Kind
	Phase  Phase
	PartID string
	Voice  string
	// Number is the MusicXML number attribute, or the beam level.
	Number int
	// Pitch is set on ties.
	Pitch string
	// Detail carries kind specific text: the wedge type, the octave shift
	// direction and size, the pedal line style.
	Detail string
	// Ref identifies the owning entry; the resolver never looks at it.
	Ref     interface{}
	Address address.VoiceAddress
}

func (f *Fragment) String() string {
	s := fmt.Sprintf("%s:%s", f.Kind, f.Phase)
	if f.Detail != "" {
		s += "(" + f.Detail + ")"
	}
	return s
}

// Spanner is one or more fragments of the same construct. It is open until
// a terminal phase, a caller Close, or a system break freezes it.
type Spanner struct {
	ID        int
	Kind      Kind
	Key       Key
	Fragments []Fragment
	Closed    bool
}

func (s *Spanner) First() *Fragment {
	return &s.Fragments[0]
}

func (s *Spanner) Last() *Fragment {
	return &s.Fragments[len(s.Fragments)-1]
}

// Phases lists the phase of every fragment in order.
func (s *Spanner) Phases() []Phase {
	ps := make([]Phase, len(s.Fragments))
	for i := range s.Fragments {
		ps[i] = s.Fragments[i].Phase
	}
	return ps
}

func (s *Spanner) String() string {
	var ps []string
	for _, p := range s.Phases() {
		ps = append(ps, string(p))
	}
	state := "open"
	if s.Closed {
		state = "closed"
	}
	return fmt.Sprintf("%s%d[%s %s %s]", s.Kind, s.ID, s.Key, strings.Join(ps, ","), state)
}

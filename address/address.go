// Package address identifies a node of the render plan by its path from
// the system down to the voice.
//
// Each level is only constructible from its parent level:
//
//	address.System(0).Part(1).Measure(4).Fragment(0).Stave(2).Chorus().Voice(0)
package address

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindSystem Kind = iota
	KindPart
	KindMeasure
	KindFragment
	KindStave
	KindChorus
	KindVoice

	depth = int(KindVoice) + 1
)

var kindNames = [depth]string{"system", "part", "measure", "fragment", "stave", "chorus", "voice"}

func (k Kind) String() string {
	if k < 0 || int(k) >= depth {
		return "unknown"
	}
	return kindNames[k]
}

// Path is the comparable value shared by all address levels. Two paths are
// the same node iff they are ==.
type Path struct {
	segs [depth]int
	n    int
}

func (p Path) child(index int) Path {
	c := p
	c.segs[c.n] = index
	c.n++
	return c
}

// Kind is the level of the deepest segment.
func (p Path) Kind() Kind {
	return Kind(p.n - 1)
}

// Index returns the segment at level k, if the path reaches that deep.
func (p Path) Index(k Kind) (int, bool) {
	if int(k) >= p.n || k < 0 {
		return 0, false
	}
	return p.segs[k], true
}

func (p Path) SystemIndex() int {
	return p.segs[KindSystem]
}

// IsMemberOf reports whether p lies inside the given system.
func (p Path) IsMemberOf(s SystemAddress) bool {
	return p.n > 0 && p.segs[KindSystem] == s.segs[KindSystem]
}

// SameSystem reports whether p and o lie in the same system.
func (p Path) SameSystem(o Path) bool {
	return p.n > 0 && o.n > 0 && p.segs[KindSystem] == o.segs[KindSystem]
}

// System returns the system level of p.
func (p Path) System() SystemAddress {
	return System(p.segs[KindSystem])
}

func (p Path) String() string {
	parts := make([]string, 0, p.n)
	for i := 0; i < p.n; i++ {
		if Kind(i) == KindChorus {
			parts = append(parts, kindNames[i])
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%d", kindNames[i], p.segs[i]))
	}
	return strings.Join(parts, "/")
}

type SystemAddress struct{ Path }

func System(index int) SystemAddress {
	return SystemAddress{Path{}.child(index)}
}

func (a SystemAddress) Part(index int) PartAddress {
	return PartAddress{a.child(index)}
}

type PartAddress struct{ Path }

func (a PartAddress) Measure(index int) MeasureAddress {
	return MeasureAddress{a.child(index)}
}

type MeasureAddress struct{ Path }

func (a MeasureAddress) Fragment(index int) FragmentAddress {
	return FragmentAddress{a.child(index)}
}

type FragmentAddress struct{ Path }

// Stave takes the 1-based stave number used by the document.
func (a FragmentAddress) Stave(number int) StaveAddress {
	return StaveAddress{a.child(number)}
}

type StaveAddress struct{ Path }

// Chorus has a single instance per stave.
func (a StaveAddress) Chorus() ChorusAddress {
	return ChorusAddress{a.child(0)}
}

type ChorusAddress struct{ Path }

func (a ChorusAddress) Voice(index int) VoiceAddress {
	return VoiceAddress{a.child(index)}
}

type VoiceAddress struct{ Path }

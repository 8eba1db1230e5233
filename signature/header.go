package signature

import (
	"fmt"
	"strings"
)

// StaveHeader is what a fragment renders at the start of one stave.
type StaveHeader struct {
	Part  string
	Stave int
	Clef  Clef
	Key   Key
	Time  Time
	Lines int
	Tempo Tempo
}

func (h StaveHeader) Equal(o StaveHeader) bool {
	return h.Part == o.Part && h.Stave == o.Stave &&
		h.Clef == o.Clef && h.Key.Equal(o.Key) && h.Time.Equal(o.Time) &&
		h.Lines == o.Lines && h.Tempo == o.Tempo
}

func (h StaveHeader) String() string {
	return fmt.Sprintf("%s/%d clef=%v key=%v time=%v lines=%d tempo=%v",
		h.Part, h.Stave, h.Clef, h.Key, h.Time, h.Lines, h.Tempo)
}

// FragmentSignature is the rendered subset of a Signature, one header per
// stave of the included parts.
type FragmentSignature struct {
	Staves []StaveHeader
}

// Fragment derives the fragment signature for the given parts, in order.
func (s *Signature) Fragment(parts ...string) FragmentSignature {
	var fs FragmentSignature
	for _, p := range parts {
		tempo, _ := s.Tempo(p)
		for n := 1; n <= s.StaveCount(p); n++ {
			fs.Staves = append(fs.Staves, StaveHeader{
				Part:  p,
				Stave: n,
				Clef:  s.Clef(p, n),
				Key:   s.Key(p, n),
				Time:  s.Time(p, n),
				Lines: s.StaveLineCount(p, n),
				Tempo: tempo,
			})
		}
	}
	return fs
}

// Stave looks up the header of one stave.
func (f FragmentSignature) Stave(part string, n int) (StaveHeader, bool) {
	for _, h := range f.Staves {
		if h.Part == part && h.Stave == n {
			return h, true
		}
	}
	return StaveHeader{}, false
}

// Part restricts f to one part.
func (f FragmentSignature) Part(part string) FragmentSignature {
	var out FragmentSignature
	for _, h := range f.Staves {
		if h.Part == part {
			out.Staves = append(out.Staves, h)
		}
	}
	return out
}

// Equivalent compares every tagged value by value.
func (f FragmentSignature) Equivalent(o FragmentSignature) bool {
	return len(f.Diff(o)) == 0
}

// Diff lists the tagged values that differ between f and o. A stave
// present on one side only is reported as a stave count change.
func (f FragmentSignature) Diff(o FragmentSignature) []Change {
	var cs []Change
	seen := map[Stave]bool{}
	countChanged := map[string]bool{}
	for _, a := range f.Staves {
		seen[Stave{a.Part, a.Stave}] = true
		b, ok := o.Stave(a.Part, a.Stave)
		if !ok {
			countChanged[a.Part] = true
			continue
		}
		if a.Clef != b.Clef {
			cs = append(cs, Change{KindClef, a.Part, a.Stave})
		}
		if !a.Key.Equal(b.Key) {
			cs = append(cs, Change{KindKey, a.Part, a.Stave})
		}
		if !a.Time.Equal(b.Time) {
			cs = append(cs, Change{KindTime, a.Part, a.Stave})
		}
		if a.Lines != b.Lines {
			cs = append(cs, Change{KindStaveLineCount, a.Part, a.Stave})
		}
		if a.Tempo != b.Tempo && a.Stave == 1 {
			cs = append(cs, Change{KindTempo, a.Part, 0})
		}
	}
	for _, b := range o.Staves {
		if !seen[Stave{b.Part, b.Stave}] {
			countChanged[b.Part] = true
		}
	}
	for _, h := range f.Staves {
		if countChanged[h.Part] {
			cs = append(cs, Change{KindStaveCount, h.Part, 0})
			delete(countChanged, h.Part)
		}
	}
	for _, h := range o.Staves {
		if countChanged[h.Part] {
			cs = append(cs, Change{KindStaveCount, h.Part, 0})
			delete(countChanged, h.Part)
		}
	}
	return cs
}

func (f FragmentSignature) String() string {
	var hs []string
	for _, h := range f.Staves {
		hs = append(hs, h.String())
	}
	return strings.Join(hs, "; ")
}

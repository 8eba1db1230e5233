package layout

import (
	"fmt"

	"github.com/stringsync/vexml-sub000/diag"
)

// DefaultJustifyThreshold is the share of the budget the last system must
// fill before it is stretched.
const DefaultJustifyThreshold = 0.75

type Planner struct {
	// Width is the budget of one system. Zero or less puts everything on
	// one unjustified system.
	Width float64
	// StaveOffset is reserved once at the start of every system.
	StaveOffset float64
	// BarlineWidth is reserved once per measure.
	BarlineWidth     float64
	JustifyThreshold float64
}

// Placement is a measure positioned inside a system.
type Placement struct {
	Measure *Measure
	// X is the left edge of the measure relative to the system.
	X float64
	// Widths is the final width of every fragment, after stretching.
	Widths []float64
}

// Width is the final width of the measure without its barline.
func (p *Placement) Width() float64 {
	var w float64
	for _, f := range p.Widths {
		w += f
	}
	return w
}

type System struct {
	Index      int
	Placements []Placement
	// NaturalWidth is the packed width before stretching, offsets
	// included.
	NaturalWidth float64
	Width        float64
	Justified    bool
}

func (s *System) String() string {
	return fmt.Sprintf("system%d[%d measures %.1f/%.1f justified=%v]",
		s.Index, len(s.Placements), s.Width, s.NaturalWidth, s.Justified)
}

func (p *Planner) threshold() float64 {
	if p.JustifyThreshold <= 0 {
		return DefaultJustifyThreshold
	}
	return p.JustifyThreshold
}

func (p *Planner) cost(m *Measure) float64 {
	return m.Width() + p.BarlineWidth
}

// Plan packs measures greedily in order. A measure that does not fit
// closes the current system and opens the next; a measure wider than the
// whole budget sits alone on its system.
func (p *Planner) Plan(measures []*Measure) []*System {
	var systems []*System
	var cur *System
	for _, m := range measures {
		c := p.cost(m)
		if cur == nil || (p.Width > 0 && len(cur.Placements) > 0 && cur.NaturalWidth+c > p.Width) {
			cur = &System{Index: len(systems), NaturalWidth: p.StaveOffset}
			systems = append(systems, cur)
		}
		cur.Placements = append(cur.Placements, Placement{Measure: m})
		cur.NaturalWidth += c
		if len(cur.Placements) == 1 && p.Width > 0 && cur.NaturalWidth > p.Width {
			diag.Logger().Debug("measure overflows system", "measure", m.Index, "width", cur.NaturalWidth, "budget", p.Width)
		}
	}

	for i, s := range systems {
		last := i == len(systems)-1
		stretch := p.Width > 0 && s.NaturalWidth < p.Width &&
			(!last || s.NaturalWidth >= p.threshold()*p.Width)
		p.place(s, stretch)
	}
	return systems
}

// place assigns fragment widths and positions. When stretching, the extra
// width is shared in proportion to each fragment's width and the final
// fragment takes the rounding remainder.
func (p *Planner) place(s *System, stretch bool) {
	var natural float64
	var count int
	for _, pl := range s.Placements {
		natural += pl.Measure.Width()
		count += len(pl.Measure.Fragments)
	}
	target := natural
	if stretch {
		target = natural + p.Width - s.NaturalWidth
	}

	var assigned float64
	n := 0
	for i := range s.Placements {
		pl := &s.Placements[i]
		pl.Widths = make([]float64, len(pl.Measure.Fragments))
		for j, f := range pl.Measure.Fragments {
			n++
			w := f.Width
			if stretch {
				switch {
				case n == count:
					w = target - assigned
				case natural > 0:
					w = f.Width * target / natural
				default:
					w = target / float64(count)
				}
			}
			pl.Widths[j] = w
			assigned += w
		}
	}

	x := p.StaveOffset
	for i := range s.Placements {
		pl := &s.Placements[i]
		pl.X = x
		x += pl.Width() + p.BarlineWidth
	}
	s.Width = x
	s.Justified = stretch
}

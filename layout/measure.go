// Package layout partitions measures into systems under a width budget and
// justifies the result.
package layout

import (
	"github.com/stringsync/vexml-sub000/diag"
	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/signature"
	"github.com/stringsync/vexml-sub000/timeline"
)

// FragmentInput is everything the engraving backend sees of one fragment
// when asked for its minimum width.
type FragmentInput struct {
	MeasureIndex  int
	FragmentIndex int
	Start         fraction.Division
	End           fraction.Division
	Header        signature.FragmentSignature
	// Changes lists the header glyphs drawn at the start of the fragment.
	// The first fragment of a system draws every clef and key instead.
	Changes []signature.Change
	// Events holds the events of every part in beat order.
	Events []*timeline.Event
	// MultiRest is the number of measures collapsed into this one, or 0.
	MultiRest int
}

// Measurer returns the minimum width of one fragment. It must be a pure
// function of its input.
type Measurer interface {
	MeasureFragment(in *FragmentInput) float64
}

// MeasurerFunc adapts a plain function to Measurer.
type MeasurerFunc func(in *FragmentInput) float64

func (f MeasurerFunc) MeasureFragment(in *FragmentInput) float64 {
	return f(in)
}

type Fragment struct {
	Input FragmentInput
	// Width is the minimum width reported by the measurer.
	Width float64
}

// Measure is one measure column across all parts. Fragment widths are
// measured once, when the measure is built.
type Measure struct {
	Index     int
	Fragments []*Fragment
	width     float64
}

// NewMeasure measures every fragment exactly once.
func NewMeasure(index int, inputs []FragmentInput, m Measurer) *Measure {
	diag.Assert(len(inputs) > 0, "measure %d has no fragments", index)
	ms := &Measure{Index: index}
	for i := range inputs {
		f := &Fragment{Input: inputs[i]}
		f.Width = m.MeasureFragment(&f.Input)
		diag.Assert(f.Width >= 0, "negative width %v for measure %d fragment %d", f.Width, index, i)
		ms.Fragments = append(ms.Fragments, f)
		ms.width += f.Width
	}
	diag.Logger().Debug("measure widths", "measure", index, "fragments", len(inputs), "width", ms.width)
	return ms
}

// Width is the sum of the fragment widths.
func (m *Measure) Width() float64 {
	return m.width
}

package layout

import (
	"fmt"
	"math"
	"testing"
)

// widths builds measures whose fragments report the given widths.
func widths(ws ...[]float64) []*Measure {
	var ms []*Measure
	for i, w := range ws {
		w := w
		inputs := make([]FragmentInput, len(w))
		for j := range inputs {
			inputs[j] = FragmentInput{MeasureIndex: i, FragmentIndex: j}
		}
		ms = append(ms, NewMeasure(i, inputs, MeasurerFunc(func(in *FragmentInput) float64 {
			return w[in.FragmentIndex]
		})))
	}
	return ms
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPackingInvariant(t *testing.T) {
	p := &Planner{Width: 300, StaveOffset: 20, BarlineWidth: 2}
	ms := widths([]float64{100}, []float64{60, 40}, []float64{90}, []float64{400}, []float64{50}, []float64{120}, []float64{10})
	systems := p.Plan(ms)

	var got [][]int
	for _, s := range systems {
		var idx []int
		sum := p.StaveOffset
		for _, pl := range s.Placements {
			idx = append(idx, pl.Measure.Index)
			sum += pl.Measure.Width() + p.BarlineWidth
		}
		got = append(got, idx)
		if sum > p.Width && len(s.Placements) != 1 {
			t.Errorf("system %d natural %v exceeds budget", s.Index, sum)
		}
		if !near(sum, s.NaturalWidth) {
			t.Errorf("system %d NaturalWidth = %v want %v", s.Index, s.NaturalWidth, sum)
		}
	}
	want := "[[0 1] [2] [3] [4 5 6]]"
	if s := fmt.Sprint(got); s != want {
		t.Errorf("systems = %s want %s", s, want)
	}
}

func TestStretchLastSystem(t *testing.T) {
	p := &Planner{Width: 1000, JustifyThreshold: 0.75}
	ms := widths([]float64{300, 100}, []float64{400})
	systems := p.Plan(ms)
	if len(systems) != 1 {
		t.Fatalf("len = %d want 1", len(systems))
	}
	s := systems[0]
	if !s.Justified || !near(s.Width, 1000) {
		t.Errorf("system = %v", s)
	}
	var sum float64
	for _, pl := range s.Placements {
		for _, w := range pl.Widths {
			sum += w
		}
	}
	if sum != 1000 {
		t.Errorf("fragment sum = %v want exactly 1000", sum)
	}
	// Every fragment grows by its share of 800.
	for i, want := range [][]float64{{375, 125}, {500}} {
		for j, w := range s.Placements[i].Widths {
			if !near(w, want[j]) {
				t.Errorf("measure %d fragment %d = %v want %v", i, j, w, want[j])
			}
		}
	}
	if !near(s.Placements[1].X, 500) {
		t.Errorf("X = %v want 500", s.Placements[1].X)
	}
}

func TestShortLastSystemNotStretched(t *testing.T) {
	p := &Planner{Width: 1000, JustifyThreshold: 0.75}
	systems := p.Plan(widths([]float64{600}, []float64{300}, []float64{200}))
	if len(systems) != 2 {
		t.Fatalf("len = %d want 2", len(systems))
	}
	if !systems[0].Justified || !near(systems[0].Width, 1000) {
		t.Errorf("first system = %v want justified", systems[0])
	}
	if systems[1].Justified || systems[1].Placements[0].Widths[0] != 200 {
		t.Errorf("last system = %v want natural width", systems[1])
	}
}

func TestOverwideMeasure(t *testing.T) {
	p := &Planner{Width: 100}
	systems := p.Plan(widths([]float64{30}, []float64{250}, []float64{30}))
	if len(systems) != 3 {
		t.Fatalf("len = %d want 3", len(systems))
	}
	s := systems[1]
	if len(s.Placements) != 1 || s.Justified || s.Width != 250 {
		t.Errorf("overwide system = %v", s)
	}
}

func TestMeasuredOnce(t *testing.T) {
	calls := map[[2]int]int{}
	m := MeasurerFunc(func(in *FragmentInput) float64 {
		calls[[2]int{in.MeasureIndex, in.FragmentIndex}]++
		return 50
	})
	var ms []*Measure
	for i := 0; i < 6; i++ {
		ms = append(ms, NewMeasure(i, []FragmentInput{{MeasureIndex: i}, {MeasureIndex: i, FragmentIndex: 1}}, m))
	}
	p := &Planner{Width: 250}
	p.Plan(ms)
	p.Plan(ms)
	if len(calls) != 12 {
		t.Errorf("measured %d fragments want 12", len(calls))
	}
	for k, n := range calls {
		if n != 1 {
			t.Errorf("fragment %v measured %d times", k, n)
		}
	}
}

func TestUnboundedWidth(t *testing.T) {
	p := &Planner{}
	systems := p.Plan(widths([]float64{500}, []float64{500}, []float64{500}))
	if len(systems) != 1 || systems[0].Justified {
		t.Errorf("systems = %v", systems)
	}
}

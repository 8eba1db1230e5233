package render

import (
	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/timeline"
)

// column is one measure index across every part.
type column struct {
	index  int
	number string
	// events of every part in beat order.
	events []*timeline.Event
	extent fraction.Division
	ranges []timeline.Range
	// multiRest is set on the measure that starts a multi-measure rest;
	// the measures it stands for are hidden.
	multiRest int
	hidden    bool
	bars      map[string]bars
}

type bars struct {
	start, end string
	repeats    []string
}

// extract runs the extractor over every part one measure at a time and
// splits each measure, growing the signature chain in document order.
func (r *renderer) extract(n int) {
	xs := make([]*timeline.Extractor, len(r.parts))
	for i, id := range r.partIDs {
		xs[i] = timeline.NewExtractor(id)
	}

	skip := 0
	for i := 0; i < n; i++ {
		c := &column{index: i, extent: fraction.Zero, bars: map[string]bars{}}
		for pi, ms := range r.measures {
			if i >= len(ms) {
				continue
			}
			if c.number == "" {
				c.number = ms[i].Number()
			}
			es, ext := xs[pi].Measure(i, ms[i])
			c.events = append(c.events, es...)
			c.extent = fraction.Max(c.extent, ext)
			c.bars[r.partIDs[pi]] = barlines(ms[i])
		}
		timeline.SortByBeat(c.events)
		c.ranges = timeline.Split(r.chain, i, c.events, c.extent)

		switch {
		case skip > 0:
			c.hidden = true
			skip--
		default:
			if m := multiRest(c.events); m > 1 {
				c.multiRest = m
				skip = m - 1
			}
		}
		r.cols = append(r.cols, c)
	}
}

func multiRest(es []*timeline.Event) int {
	n := 0
	for _, e := range es {
		if e.Kind == timeline.KindMultiRest {
			n = max(n, e.Measures)
		}
	}
	return n
}

func barlines(m musicxml.Measure) bars {
	var b bars
	for _, e := range m.Entries() {
		bl, ok := e.(*musicxml.Barline)
		if !ok {
			continue
		}
		if bl.Location() == "left" {
			b.start = bl.Style()
		} else if bl.Location() == "right" {
			b.end = bl.Style()
		}
		if rp := bl.Repeat(); rp != "" {
			b.repeats = append(b.repeats, rp)
		}
	}
	return b
}

// rangeEvents returns the events of fragment j. Events at the very end of
// the measure belong to the last fragment.
func (c *column) rangeEvents(j int) []*timeline.Event {
	rg := c.ranges[j]
	last := j == len(c.ranges)-1
	var es []*timeline.Event
	for _, e := range c.events {
		if e.Beat.IsLessThan(rg.Start) {
			continue
		}
		if e.Beat.IsLessThan(rg.End) || last {
			es = append(es, e)
		}
	}
	return es
}

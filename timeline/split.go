package timeline

import (
	"github.com/stringsync/vexml-sub000/diag"
	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/signature"
)

// Range is one fragment of a measure: a uniform signature over
// [Start, End).
type Range struct {
	Signature *signature.Signature
	Changes   []signature.Change
	Start     fraction.Division
	End       fraction.Division
}

// Split cuts a measure at every beat where a change event alters the
// active signature. events holds the events of every part for the measure,
// in beat order. New signatures are appended to chain.
//
// A measure without effective changes yields a single range that reuses the
// incoming signature. The last range ends at extent, the furthest beat seen
// in the measure, not at the nominal time signature length.
func Split(chain *signature.Chain, measureIndex int, events []*Event, extent fraction.Division) []Range {
	current := chain.Leading(measureIndex)
	ranges := []Range{{Signature: current, Start: fraction.Zero}}

	var changes []*Event
	for _, e := range events {
		if e.Kind.IsChange() {
			changes = append(changes, e)
		}
	}

	for i := 0; i < len(changes); {
		beat := changes[i].Beat
		u := signature.Update{
			MeasureIndex: measureIndex,
			EntryIndex:   changes[i].EntryIndex,
			Beat:         beat,
		}
		j := i
		for ; j < len(changes) && changes[j].Beat.IsEqual(beat); j++ {
			if changes[j].EntryIndex < u.EntryIndex {
				u.EntryIndex = changes[j].EntryIndex
			}
			changes[j].update(&u)
		}
		i = j

		next, changed := signature.Resolve(current, u)
		if len(changed) == 0 {
			continue
		}
		chain.Append(next)
		current = next

		last := &ranges[len(ranges)-1]
		diag.Assert(!beat.IsLessThan(last.Start), "change at beat %v before range start %v", beat, last.Start)
		if last.Start.IsEqual(beat) {
			last.Signature = next
			last.Changes = append(last.Changes, changed...)
			continue
		}
		last.End = beat
		ranges = append(ranges, Range{Signature: next, Changes: changed, Start: beat})
		diag.Logger().Debug("fragment split", "measure", measureIndex, "beat", beat.String(), "changes", len(changed))
	}

	last := &ranges[len(ranges)-1]
	last.End = fraction.Max(extent, last.Start)
	return ranges
}

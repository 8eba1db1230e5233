package signature

import (
	"sort"

	"github.com/stringsync/vexml-sub000/diag"
	"github.com/stringsync/vexml-sub000/fraction"
)

// Chain is the append-only sequence of signatures, ordered by measure and
// beat. The predecessor of signature i is signature i-1.
type Chain struct {
	sigs []*Signature
}

// NewChain starts a chain with the all-defaults signature.
func NewChain() *Chain {
	c := &Chain{}
	c.Append(Initial())
	return c
}

// Append adds s at the end and assigns its Index.
func (c *Chain) Append(s *Signature) {
	if n := len(c.sigs); n > 0 {
		last := c.sigs[n-1]
		diag.Assert(!before(s.MeasureIndex, s.Beat, last.MeasureIndex, last.Beat),
			"signature at measure %d beat %v appended after measure %d beat %v",
			s.MeasureIndex, s.Beat, last.MeasureIndex, last.Beat)
	}
	s.Index = len(c.sigs)
	c.sigs = append(c.sigs, s)
}

func before(m1 int, b1 fraction.Division, m2 int, b2 fraction.Division) bool {
	if m1 != m2 {
		return m1 < m2
	}
	return b1.IsLessThan(b2)
}

func (c *Chain) Len() int {
	return len(c.sigs)
}

func (c *Chain) Signature(i int) *Signature {
	return c.sigs[i]
}

func (c *Chain) Last() *Signature {
	return c.sigs[len(c.sigs)-1]
}

// Previous returns the predecessor of s, or nil for the first signature.
func (c *Chain) Previous(s *Signature) *Signature {
	if s.Index == 0 {
		return nil
	}
	return c.sigs[s.Index-1]
}

// Active returns the latest signature at or before the given point.
func (c *Chain) Active(measure int, beat fraction.Division) *Signature {
	i := sort.Search(len(c.sigs), func(i int) bool {
		s := c.sigs[i]
		return before(measure, beat, s.MeasureIndex, s.Beat)
	})
	diag.Assert(i > 0, "no signature at or before measure %d beat %v", measure, beat)
	return c.sigs[i-1]
}

// Leading returns the signature in effect at the start of a measure. Every
// measure has one; a miss is a bug.
func (c *Chain) Leading(measure int) *Signature {
	diag.Assert(measure >= 0, "no leading signature for measure %d", measure)
	return c.Active(measure, fraction.Zero)
}

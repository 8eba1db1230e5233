package fraction

// Division is a beat position or duration measured in quarter notes. It is
// built by scaling a raw divisions count by the divisions-per-quarter unit
// of the document.
type Division struct {
	beats Fraction
}

// FromDivisions converts a count of divisions into quarter notes.
// perQuarter must be positive.
func FromDivisions(count, perQuarter int) Division {
	return Division{beats: New(count, perQuarter).Simplify()}
}

// FromBeats wraps a quarter-note count.
func FromBeats(beats Fraction) Division {
	return Division{beats: beats.Simplify()}
}

// Zero is the start of a measure.
var Zero = Division{}

func (d Division) Beats() Fraction {
	return d.beats.Simplify()
}

func (d Division) Add(o Division) Division {
	return Division{beats: d.beats.Add(o.beats)}
}

// Subtract returns d-o, clamped to zero.
func (d Division) Subtract(o Division) Division {
	r := d.beats.Subtract(o.beats)
	if r.Num < 0 {
		return Zero
	}
	return Division{beats: r}
}

func (d Division) IsEqual(o Division) bool {
	return d.beats.IsEqual(o.beats)
}

func (d Division) IsLessThan(o Division) bool {
	return d.beats.IsLessThan(o.beats)
}

func (d Division) IsGreaterThan(o Division) bool {
	return d.beats.IsGreaterThan(o.beats)
}

func (d Division) IsLessThanOrEqual(o Division) bool {
	return !d.IsGreaterThan(o)
}

func (d Division) IsGreaterThanOrEqual(o Division) bool {
	return !d.IsLessThan(o)
}

func (d Division) Compare(o Division) int {
	return d.beats.Compare(o.beats)
}

func (d Division) ToDecimal() float64 {
	return d.beats.ToDecimal()
}

func (d Division) String() string {
	return d.beats.String()
}

func Max(a, b Division) Division {
	if a.IsLessThan(b) {
		return b
	}
	return a
}

func Min(a, b Division) Division {
	if b.IsLessThan(a) {
		return b
	}
	return a
}

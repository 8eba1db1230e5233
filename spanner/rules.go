package spanner

// BreakPolicy decides what happens to an open spanner whose next fragment
// lands in another system.
type BreakPolicy int

const (
	// Continue keeps one logical spanner across the break; the backend
	// draws the broken halves.
	Continue BreakPolicy = iota
	// Reopen freezes the spanner and starts a fresh one at the fragment,
	// so every system gets a complete segment.
	Reopen
)

// Rules is the phase state machine of one kind.
type Rules struct {
	Key func(f *Fragment) Key
	// Starters are the phases that open a spanner when none is open.
	Starters []Phase
	// Successors maps the phase of the last committed fragment to the
	// phases allowed next. A phase without successors closes the spanner.
	Successors map[Phase][]Phase
	Break      BreakPolicy
}

func (r *Rules) starts(p Phase) bool {
	return contains(r.Starters, p)
}

func (r *Rules) allows(last, next Phase) bool {
	return contains(r.Successors[last], next)
}

func (r *Rules) terminal(p Phase) bool {
	return len(r.Successors[p]) == 0
}

func contains(ps []Phase, p Phase) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func byPartNumber(f *Fragment) Key {
	return Key{Part: f.PartID, Number: f.Number}
}

func byPart(f *Fragment) Key {
	return Key{Part: f.PartID}
}

func byPartVoice(f *Fragment) Key {
	return Key{Part: f.PartID, Voice: f.Voice}
}

var (
	startOnly = []Phase{PhaseStart}
	// Constructs that may arrive without an explicit phase open on
	// unspecified too.
	implicitStart = []Phase{PhaseStart, PhaseUnspecified}

	openClose = map[Phase][]Phase{
		PhaseStart:    {PhaseContinue, PhaseStop},
		PhaseContinue: {PhaseContinue, PhaseStop},
	}
	openUnspecifiedClose = map[Phase][]Phase{
		PhaseStart:       {PhaseContinue, PhaseUnspecified, PhaseStop},
		PhaseContinue:    {PhaseContinue, PhaseUnspecified, PhaseStop},
		PhaseUnspecified: {PhaseContinue, PhaseUnspecified, PhaseStop},
	}
	pair = map[Phase][]Phase{
		PhaseStart: {PhaseStop},
	}
)

// DefaultRules is the rule table for every kind.
var DefaultRules = map[Kind]Rules{
	KindTie: {
		Key: func(f *Fragment) Key {
			return Key{Part: f.PartID, Number: f.Number, Pitch: f.Pitch}
		},
		Starters: startOnly,
		Successors: map[Phase][]Phase{
			PhaseStart:    {PhaseContinue, PhaseStop, PhaseLetRing},
			PhaseContinue: {PhaseContinue, PhaseStop, PhaseLetRing},
			PhaseLetRing:  {PhaseStop},
		},
	},
	KindSlur: {Key: byPartNumber, Starters: startOnly, Successors: openClose},
	KindBeam: {
		Key: func(f *Fragment) Key {
			return Key{Part: f.PartID, Voice: f.Voice, Number: f.Number}
		},
		Starters: startOnly,
		// No stop phase: the caller closes beams.
		Successors: map[Phase][]Phase{
			PhaseStart:    {PhaseContinue},
			PhaseContinue: {PhaseContinue},
		},
	},
	KindTuplet: {
		Key:      byPartNumber,
		Starters: startOnly,
		Successors: map[Phase][]Phase{
			PhaseStart:       {PhaseUnspecified, PhaseStop},
			PhaseUnspecified: {PhaseUnspecified, PhaseStop},
		},
	},
	KindWedge:       {Key: byPart, Starters: implicitStart, Successors: openUnspecifiedClose, Break: Reopen},
	KindVibrato:     {Key: byPartVoice, Starters: implicitStart, Successors: openUnspecifiedClose, Break: Reopen},
	KindPedal:       {Key: byPart, Starters: startOnly, Successors: openClose, Break: Reopen},
	KindOctaveShift: {Key: byPartVoice, Starters: startOnly, Successors: openClose, Break: Reopen},
	KindHammerOn:    {Key: byPartNumber, Starters: startOnly, Successors: pair},
	KindPullOff:     {Key: byPartNumber, Starters: startOnly, Successors: pair},
	KindSlide:       {Key: byPartNumber, Starters: startOnly, Successors: pair},
}

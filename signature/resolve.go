package signature

import (
	"sort"

	"github.com/stringsync/vexml-sub000/fraction"
)

// Signature is an immutable snapshot of the configuration of every part
// and stave at one point of the piece. Values that were never set report
// the defaults.
type Signature struct {
	// Index is the position in the Chain.
	Index        int
	MeasureIndex int
	EntryIndex   int
	Beat         fraction.Division

	clefs  map[Stave]Clef
	keys   map[Stave]Key
	times  map[Stave]Time
	lines  map[Stave]int
	staves map[string]int
	tempos map[string]tempoMark

	changes []Change
}

type tempoMark struct {
	stave int
	tempo Tempo
}

// Initial is the all-defaults signature at the start of the piece.
func Initial() *Signature {
	return &Signature{
		EntryIndex: -1,
		clefs:      map[Stave]Clef{},
		keys:       map[Stave]Key{},
		times:      map[Stave]Time{},
		lines:      map[Stave]int{},
		staves:     map[string]int{},
		tempos:     map[string]tempoMark{},
	}
}

func (s *Signature) Clef(part string, stave int) Clef {
	if c, ok := s.clefs[Stave{part, stave}]; ok {
		return c
	}
	return DefaultClef
}

func (s *Signature) Key(part string, stave int) Key {
	if k, ok := s.keys[Stave{part, stave}]; ok {
		return k
	}
	return DefaultKey
}

func (s *Signature) Time(part string, stave int) Time {
	if t, ok := s.times[Stave{part, stave}]; ok {
		return t
	}
	return DefaultTime
}

func (s *Signature) StaveLineCount(part string, stave int) int {
	if l, ok := s.lines[Stave{part, stave}]; ok {
		return l
	}
	return DefaultLines
}

func (s *Signature) StaveCount(part string) int {
	if n, ok := s.staves[part]; ok {
		return n
	}
	return DefaultStaveCount
}

// Tempo returns the active metronome mark of the part and the stave it is
// displayed on.
func (s *Signature) Tempo(part string) (Tempo, int) {
	if t, ok := s.tempos[part]; ok {
		return t.tempo, t.stave
	}
	return DefaultTempo, 1
}

// Changes is the changed-set relative to the predecessor.
func (s *Signature) Changes() []Change {
	return s.changes
}

func (s *Signature) clone() *Signature {
	n := Initial()
	for k, v := range s.clefs {
		n.clefs[k] = v
	}
	for k, v := range s.keys {
		n.keys[k] = v
	}
	for k, v := range s.times {
		n.times[k] = v
	}
	for k, v := range s.lines {
		n.lines[k] = v
	}
	for k, v := range s.staves {
		n.staves[k] = v
	}
	for k, v := range s.tempos {
		n.tempos[k] = v
	}
	return n
}

// Update is the set of explicit values observed at one point. Stave 0 on
// a key or time applies to every stave of the part.
type Update struct {
	MeasureIndex int
	EntryIndex   int
	Beat         fraction.Division

	Clefs       []ClefUpdate
	Keys        []KeyUpdate
	Times       []TimeUpdate
	StaveCounts []StaveCountUpdate
	StaveLines  []StaveLineUpdate
	Tempos      []TempoUpdate
}

type ClefUpdate struct {
	Stave
	Clef Clef
}

type KeyUpdate struct {
	Stave
	Fifths int
	Mode   string
}

type TimeUpdate struct {
	Stave
	Time Time
}

type StaveCountUpdate struct {
	Part  string
	Count int
}

type StaveLineUpdate struct {
	Stave
	Lines int
}

type TempoUpdate struct {
	Stave
	Tempo Tempo
}

func (u *Update) IsEmpty() bool {
	return len(u.Clefs) == 0 && len(u.Keys) == 0 && len(u.Times) == 0 &&
		len(u.StaveCounts) == 0 && len(u.StaveLines) == 0 && len(u.Tempos) == 0
}

// Resolve merges u against prev (nil meaning the defaults) and returns the
// resulting signature with its changed-set. Values not named by u carry
// forward unchanged.
func Resolve(prev *Signature, u Update) (*Signature, []Change) {
	if prev == nil {
		prev = Initial()
	}
	next := prev.clone()
	next.MeasureIndex = u.MeasureIndex
	next.EntryIndex = u.EntryIndex
	next.Beat = u.Beat

	touched := map[Change]bool{}

	// Stave counts go first: part-wide keys and times fan out over them.
	for _, sc := range u.StaveCounts {
		if sc.Count > 0 {
			next.staves[sc.Part] = sc.Count
			touched[Change{KindStaveCount, sc.Part, 0}] = true
		}
	}
	for _, c := range u.Clefs {
		next.clefs[c.Stave] = c.Clef
		touched[Change{KindClef, c.Part, c.Number}] = true
	}
	for _, k := range u.Keys {
		for _, st := range next.fanOut(k.Stave) {
			next.keys[st] = Key{Fifths: k.Fifths, Mode: k.Mode}
			touched[Change{KindKey, st.Part, st.Number}] = true
		}
	}
	for _, t := range u.Times {
		for _, st := range next.fanOut(t.Stave) {
			next.times[st] = t.Time
			touched[Change{KindTime, st.Part, st.Number}] = true
		}
	}
	for _, l := range u.StaveLines {
		next.lines[l.Stave] = l.Lines
		touched[Change{KindStaveLineCount, l.Part, l.Number}] = true
	}
	for _, t := range u.Tempos {
		next.tempos[t.Part] = tempoMark{stave: t.Number, tempo: t.Tempo}
		touched[Change{KindTempo, t.Part, 0}] = true
	}

	var changes []Change
	for _, c := range sortedChanges(touched) {
		if next.differs(prev, c) {
			changes = append(changes, c)
			continue
		}
		// Unchanged keys keep their original cancellation reference.
		if c.Kind == KindKey {
			st := Stave{c.Part, c.Stave}
			if k, ok := prev.keys[st]; ok {
				next.keys[st] = k
			}
		}
	}

	for _, c := range changes {
		if c.Kind == KindKey {
			st := Stave{c.Part, c.Stave}
			old := prev.Key(c.Part, c.Stave)
			old.Previous = nil
			k := next.keys[st]
			k.Previous = &old
			next.keys[st] = k
		}
	}

	next.changes = changes
	return next, changes
}

func (s *Signature) fanOut(st Stave) []Stave {
	if st.Number > 0 {
		return []Stave{st}
	}
	n := s.StaveCount(st.Part)
	all := make([]Stave, 0, n)
	for i := 1; i <= n; i++ {
		all = append(all, Stave{st.Part, i})
	}
	return all
}

func (s *Signature) differs(prev *Signature, c Change) bool {
	switch c.Kind {
	case KindClef:
		return s.Clef(c.Part, c.Stave) != prev.Clef(c.Part, c.Stave)
	case KindKey:
		return !s.Key(c.Part, c.Stave).Equal(prev.Key(c.Part, c.Stave))
	case KindTime:
		return !s.Time(c.Part, c.Stave).Equal(prev.Time(c.Part, c.Stave))
	case KindStaveLineCount:
		return s.StaveLineCount(c.Part, c.Stave) != prev.StaveLineCount(c.Part, c.Stave)
	case KindStaveCount:
		return s.StaveCount(c.Part) != prev.StaveCount(c.Part)
	case KindTempo:
		a, _ := s.Tempo(c.Part)
		b, _ := prev.Tempo(c.Part)
		return a != b
	}
	return false
}

var kindOrder = map[Kind]int{
	KindStaveCount: 0, KindClef: 1, KindKey: 2, KindTime: 3, KindStaveLineCount: 4, KindTempo: 5,
}

func sortedChanges(set map[Change]bool) []Change {
	cs := make([]Change, 0, len(set))
	for c := range set {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Part != b.Part {
			return a.Part < b.Part
		}
		if a.Stave != b.Stave {
			return a.Stave < b.Stave
		}
		return kindOrder[a.Kind] < kindOrder[b.Kind]
	})
	return cs
}

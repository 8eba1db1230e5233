package spanner

import (
	"sort"

	"github.com/stringsync/vexml-sub000/diag"
)

// Resolver runs the state machine of one kind. Fragments must be fed in
// document order.
type Resolver struct {
	Kind  Kind
	rules Rules
	open  map[Key]*Spanner
	set   *Set
}

// Process commits f to the open spanner of its key, starts a new one, or
// drops f when its phase is not legal at this point. It returns the
// spanner f joined, or nil when f was dropped.
func (r *Resolver) Process(f Fragment) *Spanner {
	key := r.rules.Key(&f)
	sp := r.open[key]
	if sp == nil {
		if !r.rules.starts(f.Phase) {
			r.drop(&f, "no open spanner")
			return nil
		}
		f.Phase = PhaseStart
		return r.start(key, f)
	}

	last := sp.Last()
	if !r.rules.allows(last.Phase, f.Phase) {
		r.drop(&f, "after "+string(last.Phase))
		return nil
	}

	if r.rules.Break == Reopen && last.Address.SystemIndex() != f.Address.SystemIndex() {
		r.close(sp)
		stop := r.rules.terminal(f.Phase)
		f.Phase = PhaseStart
		sp = r.start(key, f)
		if stop {
			r.close(sp)
		}
		return sp
	}

	sp.Fragments = append(sp.Fragments, f)
	if r.rules.terminal(f.Phase) {
		r.close(sp)
	}
	return sp
}

func (r *Resolver) start(key Key, f Fragment) *Spanner {
	sp := &Spanner{Kind: r.Kind, Key: key, Fragments: []Fragment{f}}
	r.set.add(sp)
	r.open[key] = sp
	return sp
}

func (r *Resolver) close(sp *Spanner) {
	sp.Closed = true
	if r.open[sp.Key] == sp {
		delete(r.open, sp.Key)
	}
}

func (r *Resolver) drop(f *Fragment, reason string) {
	diag.Logger().Debug("spanner fragment dropped",
		"kind", string(f.Kind), "phase", string(f.Phase), "part", f.PartID,
		"address", f.Address.String(), "reason", reason)
}

// Open returns the open spanner of key, if any.
func (r *Resolver) Open(key Key) *Spanner {
	return r.open[key]
}

// Set holds one resolver per kind and every spanner they created. IDs are
// assigned from 1 in creation order.
type Set struct {
	resolvers map[Kind]*Resolver
	spanners  []*Spanner
}

func NewSet() *Set {
	return NewSetWithRules(DefaultRules)
}

func NewSetWithRules(rules map[Kind]Rules) *Set {
	s := &Set{resolvers: map[Kind]*Resolver{}}
	for k, r := range rules {
		s.resolvers[k] = &Resolver{Kind: k, rules: r, open: map[Key]*Spanner{}, set: s}
	}
	return s
}

func (s *Set) add(sp *Spanner) {
	s.spanners = append(s.spanners, sp)
	sp.ID = len(s.spanners)
}

// Resolver returns the resolver of kind k.
func (s *Set) Resolver(k Kind) *Resolver {
	r, ok := s.resolvers[k]
	diag.Assert(ok, "no spanner rules for kind %q", k)
	return r
}

// Process routes f to the resolver of its kind.
func (s *Set) Process(f Fragment) *Spanner {
	return s.Resolver(f.Kind).Process(f)
}

// Close freezes the open spanner of kind k under key, if any.
func (s *Set) Close(k Kind, key Key) {
	r := s.Resolver(k)
	if sp := r.open[key]; sp != nil {
		r.close(sp)
	}
}

// CloseAll freezes every open spanner of kind k whose key matches.
func (s *Set) CloseAll(k Kind, match func(Key) bool) {
	r := s.Resolver(k)
	var keys []Key
	for key := range r.open {
		if match == nil || match(key) {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		r.close(r.open[key])
	}
}

// Lookup returns the spanner with the given ID.
func (s *Set) Lookup(id int) (*Spanner, bool) {
	if id < 1 || id > len(s.spanners) {
		return nil, false
	}
	return s.spanners[id-1], true
}

// Spanners returns every spanner in ID order.
func (s *Set) Spanners() []*Spanner {
	return s.spanners
}

// Count returns the number of spanners per kind.
func (s *Set) Count() map[Kind]int {
	m := map[Kind]int{}
	for _, sp := range s.spanners {
		m[sp.Kind]++
	}
	return m
}

// OpenCount returns how many spanners were never closed, sorted by kind
// for stable logging.
func (s *Set) OpenCount() []KindCount {
	m := map[Kind]int{}
	for _, sp := range s.spanners {
		if !sp.Closed {
			m[sp.Kind]++
		}
	}
	var cs []KindCount
	for k, n := range m {
		cs = append(cs, KindCount{k, n})
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Kind < cs[j].Kind })
	return cs
}

type KindCount struct {
	Kind  Kind
	Count int
}

// Package render runs the whole pipeline: it extracts measure events,
// splits measures into fragments, packs them into systems and resolves
// spanners into a plan.Plan.
package render

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/stringsync/vexml-sub000/config"
	"github.com/stringsync/vexml-sub000/diag"
	"github.com/stringsync/vexml-sub000/layout"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/plan"
	"github.com/stringsync/vexml-sub000/signature"
	"github.com/stringsync/vexml-sub000/spanner"
	"github.com/stringsync/vexml-sub000/timeline"
)

var ErrEmptyScore = errors.New("score has no measures")

// renderer is the state of one Render call.
type renderer struct {
	score    *musicxml.Score
	cfg      config.Config
	measurer layout.Measurer
	log      *slog.Logger

	parts    []musicxml.Part
	partIDs  []string
	measures [][]musicxml.Measure
	chain    *signature.Chain
	cols     []*column
	set      *spanner.Set
	// entries maps every placed voice entry event to its plan node.
	entries map[*timeline.Event]*placed
}

// Render turns a parsed score into a render plan. measurer is called once
// per fragment. Internal invariant failures come back as errors carrying a
// stack.
func Render(score *musicxml.Score, cfg config.Config, measurer layout.Measurer) (p *plan.Plan, err error) {
	defer diag.Recover(&err)

	r := &renderer{
		score:    score,
		cfg:      cfg,
		measurer: measurer,
		log:      diag.Logger().With("render", score.ID().String()),
		parts:    score.Parts(),
		chain:    signature.NewChain(),
		set:      spanner.NewSet(),
		entries:  map[*timeline.Event]*placed{},
	}
	n := 0
	for _, pt := range r.parts {
		ms := pt.Measures()
		r.partIDs = append(r.partIDs, pt.ID())
		r.measures = append(r.measures, ms)
		n = max(n, len(ms))
	}
	if n == 0 {
		return nil, ErrEmptyScore
	}

	r.extract(n)
	if r.chain.Len() == 1 {
		r.log.Warn("no attributes in document, using defaults")
	}

	measures := r.layoutMeasures()
	systems := cfg.Planner().Plan(measures)

	p = &plan.Plan{
		ID:    score.ID().String(),
		Title: score.Title(),
		Width: cfg.Layout.Width,
	}
	for i, s := range systems {
		p.Systems = append(p.Systems, r.system(i, s))
		r.log.Debug("system", "index", i, "measures", len(s.Placements), "width", s.Width, "justified", s.Justified)
	}

	r.resolveSpanners()
	p.Spanners = r.set.Spanners()

	r.log.Info("rendered",
		"parts", len(r.parts), "measures", n, "systems", len(systems),
		"signatures", r.chain.Len(), "spanners", len(p.Spanners))
	for _, oc := range r.set.OpenCount() {
		r.log.Debug("open spanners", "kind", string(oc.Kind), "count", oc.Count)
	}
	return p, nil
}

// layoutMeasures measures every visible column once.
func (r *renderer) layoutMeasures() []*layout.Measure {
	var ms []*layout.Measure
	for _, c := range r.cols {
		if c.hidden {
			continue
		}
		var inputs []layout.FragmentInput
		for j, rg := range c.ranges {
			inputs = append(inputs, layout.FragmentInput{
				MeasureIndex:  c.index,
				FragmentIndex: j,
				Start:         rg.Start,
				End:           rg.End,
				Header:        rg.Signature.Fragment(r.partIDs...),
				Changes:       rg.Changes,
				Events:        c.rangeEvents(j),
				MultiRest:     c.multiRest,
			})
		}
		ms = append(ms, layout.NewMeasure(c.index, inputs, r.measurer))
	}
	return ms
}

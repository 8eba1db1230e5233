package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/stringsync/vexml-sub000/config"
	"github.com/stringsync/vexml-sub000/engrave"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/plan"
	"github.com/stringsync/vexml-sub000/render"
	"github.com/stringsync/vexml-sub000/spanner"
)

// Convert renders score with the reference engraver and prints the plan
// followed by the spanner table.
func Convert(w io.Writer, score *musicxml.Score, cfg config.Config) error {
	m, err := engrave.New(cfg.Engrave)
	if err != nil {
		return err
	}
	defer m.Close()

	p, err := render.Render(score, cfg, m)
	if err != nil {
		return errors.Wrap(err, "render")
	}
	fmt.Fprint(w, p.String())
	printSpanners(w, p)
	return nil
}

func printSpanners(w io.Writer, p *plan.Plan) {
	byKind := map[spanner.Kind][]*spanner.Spanner{}
	for _, sp := range p.Spanners {
		byKind[sp.Kind] = append(byKind[sp.Kind], sp)
	}
	kinds := make([]spanner.Kind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		for _, sp := range byKind[k] {
			fmt.Fprintf(w, "%% %v\n", sp)
		}
	}
}

package main

import (
	"fmt"
	"io"

	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/signature"
	"github.com/stringsync/vexml-sub000/timeline"
)

func analyze(w io.Writer, score *musicxml.Score) {
	analyzeMeas(w, score)
	chain := analyzeEvents(w, score)
	analyzeSignatures(w, score, chain)
}

func analyzeMeas(w io.Writer, score *musicxml.Score) {
	for _, p := range score.Parts() {
		for i, m := range p.Measures() {
			fmt.Fprintf(w, "%s meas %d: number %q implicit %v entries %d\n",
				p.ID(), i, m.Number(), m.IsImplicit(), len(m.Entries()))
		}
	}
}

// analyzeEvents prints the events and fragments of every measure and
// returns the resulting signature chain.
func analyzeEvents(w io.Writer, score *musicxml.Score) *signature.Chain {
	parts := score.Parts()
	xs := make([]*timeline.Extractor, len(parts))
	n := 0
	for i, p := range parts {
		xs[i] = timeline.NewExtractor(p.ID())
		n = max(n, len(p.Measures()))
	}

	chain := signature.NewChain()
	for i := 0; i < n; i++ {
		var es []*timeline.Event
		extent := fraction.Zero
		for pi, p := range parts {
			ms := p.Measures()
			if i >= len(ms) {
				continue
			}
			got, ext := xs[pi].Measure(i, ms[i])
			es = append(es, got...)
			extent = fraction.Max(extent, ext)
		}
		timeline.SortByBeat(es)
		fmt.Fprintf(w, "meas %d: extent %v\n", i, extent)
		for _, e := range es {
			fmt.Fprintf(w, "  %v\n", e)
		}
		for j, r := range timeline.Split(chain, i, es, extent) {
			fmt.Fprintf(w, "  fragment %d [%v, %v) sig %d changes %v\n", j, r.Start, r.End, r.Signature.Index, r.Changes)
		}
	}
	return chain
}

func analyzeSignatures(w io.Writer, score *musicxml.Score, chain *signature.Chain) {
	var ids []string
	for _, p := range score.Parts() {
		ids = append(ids, p.ID())
	}
	for i := 0; i < chain.Len(); i++ {
		s := chain.Signature(i)
		fmt.Fprintf(w, "sig %d meas %d beat %v: %v\n", s.Index, s.MeasureIndex, s.Beat, s.Changes())
		fmt.Fprintf(w, "  %v\n", s.Fragment(ids...))
	}
}

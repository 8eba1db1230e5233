// Package engrave is a reference measuring backend. It estimates the
// minimum width of a fragment from a spacing table and real text metrics.
package engrave

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/stringsync/vexml-sub000/config"
	"github.com/stringsync/vexml-sub000/layout"
	"github.com/stringsync/vexml-sub000/signature"
	"github.com/stringsync/vexml-sub000/timeline"
)

// Metrics implements layout.Measurer.
type Metrics struct {
	cfg  config.Engrave
	face font.Face
}

var _ layout.Measurer = (*Metrics)(nil)

// New loads the Go Regular face at the configured size.
func New(cfg config.Engrave) (*Metrics, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new face")
	}
	return &Metrics{cfg: cfg, face: face}, nil
}

func (m *Metrics) Close() error {
	return m.face.Close()
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

// TextWidth is the advance width of s.
func (m *Metrics) TextWidth(s string) float64 {
	return fixedToFloat64(font.MeasureString(m.face, s))
}

type voiceKey struct {
	part  string
	stave int
	voice string
}

type staveKey struct {
	part  string
	stave int
}

// MeasureFragment returns the header width plus the widest voice or text
// line of the fragment.
func (m *Metrics) MeasureFragment(in *layout.FragmentInput) float64 {
	voices := map[voiceKey]float64{}
	texts := map[staveKey]float64{}
	for _, e := range in.Events {
		switch {
		case e.Kind.IsVoiceEntry():
			voices[voiceKey{e.PartID, e.Stave, e.Voice}] += m.entryWidth(e)
		case e.Kind == timeline.KindDynamics:
			texts[staveKey{e.PartID, e.Stave}] += m.TextWidth(strings.Join(e.Dynamics, " ")) + m.cfg.Padding
		case e.Kind == timeline.KindWords:
			texts[staveKey{e.PartID, e.Stave}] += m.TextWidth(strings.Join(e.Words, " ")) + m.cfg.Padding
		}
	}

	var body float64
	for _, w := range voices {
		body = max(body, w)
	}
	for _, w := range texts {
		body = max(body, w)
	}
	if in.MultiRest > 0 {
		body = max(body, m.cfg.MultiRestWidth)
	}
	return m.headerWidth(in) + body + m.cfg.Padding
}

func (m *Metrics) entryWidth(e *timeline.Event) float64 {
	head := e.Notes[0]
	w, ok := m.cfg.NoteSpacing[head.Type()]
	if !ok {
		w = m.cfg.UntypedSpacing * e.Duration.ToDecimal()
		if w <= 0 {
			w = m.cfg.UntypedSpacing
		}
	}
	if head.IsGrace() {
		w *= m.cfg.GraceScale
	}
	for _, n := range e.Notes {
		if n.Accidental() != "" {
			w += m.cfg.AccidentalWidth
			break
		}
	}
	w += float64(head.Dots()) * m.cfg.DotWidth
	return w
}

// headerWidth is the widest stave header among the changes drawn at the
// start of the fragment.
func (m *Metrics) headerWidth(in *layout.FragmentInput) float64 {
	staves := map[staveKey]float64{}
	for _, c := range in.Changes {
		k := staveKey{c.Part, c.Stave}
		switch c.Kind {
		case signature.KindClef:
			staves[k] += m.cfg.ClefWidth
		case signature.KindKey:
			h, ok := in.Header.Stave(c.Part, c.Stave)
			if !ok {
				continue
			}
			n := abs(h.Key.Fifths)
			if h.Key.Previous != nil {
				// Cancellation naturals.
				n = max(n, abs(h.Key.Previous.Fifths))
			}
			staves[k] += float64(n) * m.cfg.KeyWidth
		case signature.KindTime:
			staves[k] += m.cfg.TimeWidth
		case signature.KindTempo:
			if h, ok := in.Header.Stave(c.Part, 1); ok {
				staves[staveKey{c.Part, 1}] += m.TextWidth(h.Tempo.String()) + m.cfg.Padding
			}
		}
	}
	var w float64
	for _, s := range staves {
		w = max(w, s)
	}
	return w
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

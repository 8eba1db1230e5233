package musicxml

import (
	"strings"

	xmldom "github.com/subchen/go-xmldom"
)

type Direction struct {
	node *xmldom.Node
}

func (d *Direction) Staff() int {
	return intText(d.node, "staff", 1)
}

func (d *Direction) Voice() string {
	return stringText(d.node, "voice", "1")
}

func (d *Direction) types(name string) []*xmldom.Node {
	return descendants(d.node, "direction-type", name)
}

type Metronome struct {
	BeatUnit  string
	Dots      int
	PerMinute int
}

func (d *Direction) Metronome() (Metronome, bool) {
	for _, m := range d.types("metronome") {
		pm, ok := leadingInt(text(m, "per-minute"))
		if !ok {
			continue
		}
		return Metronome{
			BeatUnit:  stringText(m, "beat-unit", "quarter"),
			Dots:      len(m.GetChildren("beat-unit-dot")),
			PerMinute: pm,
		}, true
	}
	return Metronome{}, false
}

// SoundTempo is the playback tempo in quarter notes per minute.
func (d *Direction) SoundTempo() (float64, bool) {
	s := d.node.GetChild("sound")
	if s == nil {
		return 0, false
	}
	return floatAttr(s, "tempo")
}

// Wedges have type crescendo, diminuendo, continue or stop.
func (d *Direction) Wedges() []Mark {
	return marks(d.types("wedge"))
}

// Pedals have type start, stop, change, continue, sostenuto, discontinue or
// resume.
func (d *Direction) Pedals() []Mark {
	return marks(d.types("pedal"))
}

// Dynamics returns the marking names, e.g. "mf" or the text of
// <other-dynamics>.
func (d *Direction) Dynamics() []string {
	var ds []string
	for _, dyn := range d.types("dynamics") {
		for _, c := range dyn.Children {
			if c.Name == "other-dynamics" {
				ds = append(ds, strings.TrimSpace(c.Text))
				continue
			}
			ds = append(ds, c.Name)
		}
	}
	return ds
}

type OctaveShift struct {
	// Type is up, down, stop or continue.
	Type   string
	Size   int
	Number int
}

func (d *Direction) OctaveShifts() []OctaveShift {
	var shifts []OctaveShift
	for _, n := range d.types("octave-shift") {
		shifts = append(shifts, OctaveShift{
			Type:   n.GetAttributeValue("type"),
			Size:   intAttr(n, "size", 8),
			Number: intAttr(n, "number", 1),
		})
	}
	return shifts
}

func (d *Direction) HasSegno() bool {
	return len(d.types("segno")) > 0
}

func (d *Direction) HasCoda() bool {
	return len(d.types("coda")) > 0
}

func (d *Direction) Words() []string {
	var ws []string
	for _, w := range d.types("words") {
		if t := strings.TrimSpace(w.Text); t != "" {
			ws = append(ws, t)
		}
	}
	return ws
}

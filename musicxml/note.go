package musicxml

import (
	"fmt"
	"strconv"
	"strings"

	xmldom "github.com/subchen/go-xmldom"
)

type Note struct {
	node *xmldom.Node
}

// Duration is in divisions; grace notes have none.
func (n *Note) Duration() int {
	return intText(n.node, "duration", 0)
}

// IsChordTail reports the <chord/> marker: the note sounds together with
// the preceding note and shares its timing.
func (n *Note) IsChordTail() bool {
	return n.node.GetChild("chord") != nil
}

func (n *Note) IsGrace() bool {
	return n.node.GetChild("grace") != nil
}

func (n *Note) IsRest() bool {
	return n.node.GetChild("rest") != nil
}

// IsMeasureRest is a rest that fills the whole measure.
func (n *Note) IsMeasureRest() bool {
	r := n.node.GetChild("rest")
	return r != nil && r.GetAttributeValue("measure") == "yes"
}

func (n *Note) Staff() int {
	return intText(n.node, "staff", 1)
}

func (n *Note) Voice() string {
	return stringText(n.node, "voice", "1")
}

// Type is the notated value ("quarter", "eighth", ...), empty if absent.
func (n *Note) Type() string {
	return text(n.node, "type")
}

func (n *Note) Dots() int {
	return len(n.node.GetChildren("dot"))
}

func (n *Note) Accidental() string {
	return text(n.node, "accidental")
}

type Pitch struct {
	Step   string
	Alter  int
	Octave int
}

func (p Pitch) String() string {
	alt := ""
	switch {
	case p.Alter > 0:
		alt = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		alt = strings.Repeat("b", -p.Alter)
	}
	return fmt.Sprintf("%s%s%d", p.Step, alt, p.Octave)
}

// Pitch returns the sounding pitch, or the display position of unpitched
// notes. Rests report false.
func (n *Note) Pitch() (Pitch, bool) {
	if p := n.node.GetChild("pitch"); p != nil {
		alter := 0
		if a := text(p, "alter"); a != "" {
			// Microtones are rounded to the nearest semitone.
			if f, err := strconv.ParseFloat(a, 64); err == nil {
				if f < 0 {
					alter = int(f - 0.5)
				} else {
					alter = int(f + 0.5)
				}
			}
		}
		return Pitch{
			Step:   text(p, "step"),
			Alter:  alter,
			Octave: intText(p, "octave", 4),
		}, true
	}
	if u := n.node.GetChild("unpitched"); u != nil {
		return Pitch{
			Step:   stringText(u, "display-step", "B"),
			Octave: intText(u, "display-octave", 4),
		}, true
	}
	return Pitch{}, false
}

// TimeModification returns the actual:normal ratio of a tuplet note.
func (n *Note) TimeModification() (actual, normal int, ok bool) {
	tm := n.node.GetChild("time-modification")
	if tm == nil {
		return 0, 0, false
	}
	actual = intText(tm, "actual-notes", 0)
	normal = intText(tm, "normal-notes", 0)
	if actual <= 0 || normal <= 0 {
		return 0, 0, false
	}
	return actual, normal, true
}

// Beam is one <beam> element; Number is the beam level, 1 for eighths.
type Beam struct {
	Number int
	Value  string
}

func (n *Note) Beams() []Beam {
	var bs []Beam
	for _, b := range n.node.GetChildren("beam") {
		bs = append(bs, Beam{
			Number: intAttr(b, "number", 1),
			Value:  strings.TrimSpace(b.Text),
		})
	}
	return bs
}

func (n *Note) notations(names ...string) []*xmldom.Node {
	return descendants(n.node, append([]string{"notations"}, names...)...)
}

// Ties are the <tied> notations; type is start, stop, continue or let-ring.
func (n *Note) Ties() []Mark {
	return marks(n.notations("tied"))
}

func (n *Note) Slurs() []Mark {
	return marks(n.notations("slur"))
}

func (n *Note) Tuplets() []Mark {
	return marks(n.notations("tuplet"))
}

func (n *Note) Slides() []Mark {
	return marks(n.notations("slide"))
}

func (n *Note) HammerOns() []Mark {
	return marks(n.notations("technical", "hammer-on"))
}

func (n *Note) PullOffs() []Mark {
	return marks(n.notations("technical", "pull-off"))
}

// WavyLines are the vibrato/trill extension lines.
func (n *Note) WavyLines() []Mark {
	return marks(n.notations("ornaments", "wavy-line"))
}

func (n *Note) Lyrics() []string {
	var ls []string
	for _, l := range n.node.GetChildren("lyric") {
		if t := text(l, "text"); t != "" {
			ls = append(ls, t)
		}
	}
	return ls
}

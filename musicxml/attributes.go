package musicxml

import (
	"strconv"
	"strings"

	xmldom "github.com/subchen/go-xmldom"
)

// Attributes is a configuration change block.
type Attributes struct {
	node *xmldom.Node
}

// Divisions is the number of divisions per quarter note.
func (a *Attributes) Divisions() (int, bool) {
	v := intText(a.node, "divisions", 0)
	return v, v > 0
}

// Staves is the stave count of the part.
func (a *Attributes) Staves() (int, bool) {
	v := intText(a.node, "staves", 0)
	return v, v > 0
}

type Clef struct {
	Stave        int
	Sign         string
	Line         int
	OctaveChange int
}

var defaultClefLine = map[string]int{
	"G": 2, "F": 4, "C": 3, "percussion": 3, "TAB": 5, "jianpu": 3, "none": 3,
}

func (a *Attributes) Clefs() []Clef {
	var cs []Clef
	for _, c := range a.node.GetChildren("clef") {
		sign := stringText(c, "sign", "G")
		cs = append(cs, Clef{
			Stave:        intAttr(c, "number", 1),
			Sign:         sign,
			Line:         intText(c, "line", defaultClefLine[sign]),
			OctaveChange: intText(c, "clef-octave-change", 0),
		})
	}
	return cs
}

// Key is a traditional key signature. Stave 0 means every stave of the
// part.
type Key struct {
	Stave  int
	Fifths int
	Mode   string
}

func (a *Attributes) Keys() []Key {
	var ks []Key
	for _, k := range a.node.GetChildren("key") {
		if k.GetChild("fifths") == nil {
			// Non-traditional keys are not rendered as signatures.
			continue
		}
		ks = append(ks, Key{
			Stave:  intAttr(k, "number", 0),
			Fifths: intText(k, "fifths", 0),
			Mode:   stringText(k, "mode", "none"),
		})
	}
	return ks
}

// TimeComponent is one beats/beat-type pair; "3+2" beats are split.
type TimeComponent struct {
	Beats    []int
	BeatType int
}

type Time struct {
	Stave      int
	Components []TimeComponent
	// Symbol is common, cut, single-number, note, dotted-note or normal.
	Symbol      string
	Hidden      bool
	SenzaMisura bool
}

func (a *Attributes) Times() []Time {
	var ts []Time
	for _, t := range a.node.GetChildren("time") {
		tm := Time{
			Stave:       intAttr(t, "number", 0),
			Symbol:      t.GetAttributeValue("symbol"),
			Hidden:      t.GetAttributeValue("print-object") == "no",
			SenzaMisura: t.GetChild("senza-misura") != nil,
		}
		beats := t.GetChildren("beats")
		types := t.GetChildren("beat-type")
		for i := 0; i < len(beats) && i < len(types); i++ {
			bt, err := strconv.Atoi(strings.TrimSpace(types[i].Text))
			if err != nil || bt <= 0 {
				continue
			}
			var c TimeComponent
			c.BeatType = bt
			for _, b := range strings.Split(beats[i].Text, "+") {
				if v, err := strconv.Atoi(strings.TrimSpace(b)); err == nil && v > 0 {
					c.Beats = append(c.Beats, v)
				}
			}
			if len(c.Beats) > 0 {
				tm.Components = append(tm.Components, c)
			}
		}
		ts = append(ts, tm)
	}
	return ts
}

type StaveDetails struct {
	Stave int
	Lines int
}

// StaveDetails only reports blocks that set the line count.
func (a *Attributes) StaveDetails() []StaveDetails {
	var ds []StaveDetails
	for _, d := range a.node.GetChildren("staff-details") {
		lines := intText(d, "staff-lines", -1)
		if lines < 0 {
			continue
		}
		ds = append(ds, StaveDetails{
			Stave: intAttr(d, "number", 1),
			Lines: lines,
		})
	}
	return ds
}

// MultipleRest is the measure count of a multi-measure rest starting here.
func (a *Attributes) MultipleRest() (int, bool) {
	for _, ms := range a.node.GetChildren("measure-style") {
		if v := intText(ms, "multiple-rest", 0); v > 0 {
			return v, true
		}
	}
	return 0, false
}

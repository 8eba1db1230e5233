// Package musicxml is a read-only accessor layer over a parsed
// score-partwise document. Accessors apply the documented defaults for
// missing identifiers so callers never see an absent stave or voice.
package musicxml

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	xmldom "github.com/subchen/go-xmldom"
)

type Score struct {
	id   uuid.UUID
	root *xmldom.Node
}

// ID is derived from the document bytes, so the same input always yields
// the same ID.
func (s *Score) ID() uuid.UUID {
	return s.id
}

func (s *Score) Title() string {
	if t := text(s.root, "movement-title"); t != "" {
		return t
	}
	if w := s.root.GetChild("work"); w != nil {
		return text(w, "work-title")
	}
	return ""
}

func (s *Score) Parts() []Part {
	var parts []Part
	for _, n := range s.root.GetChildren("part") {
		parts = append(parts, Part{node: n})
	}
	return parts
}

// PartName looks the id up in the part-list.
func (s *Score) PartName(id string) string {
	pl := s.root.GetChild("part-list")
	if pl == nil {
		return ""
	}
	for _, sp := range pl.GetChildren("score-part") {
		if sp.GetAttributeValue("id") == id {
			return text(sp, "part-name")
		}
	}
	return ""
}

type Part struct {
	node *xmldom.Node
}

func (p Part) ID() string {
	return p.node.GetAttributeValue("id")
}

func (p Part) Measures() []Measure {
	var ms []Measure
	for _, n := range p.node.GetChildren("measure") {
		ms = append(ms, Measure{node: n})
	}
	return ms
}

type Measure struct {
	node *xmldom.Node
}

// Number is the printed label, which need not be numeric.
func (m Measure) Number() string {
	return m.node.GetAttributeValue("number")
}

func (m Measure) IsImplicit() bool {
	return m.node.GetAttributeValue("implicit") == "yes"
}

// Entries returns the measure content in document order. Elements the
// engine has no use for (print, harmony, figured-bass, ...) are skipped.
func (m Measure) Entries() []Entry {
	var es []Entry
	for _, c := range m.node.Children {
		switch c.Name {
		case "note":
			es = append(es, &Note{node: c})
		case "backup":
			es = append(es, &Backup{node: c})
		case "forward":
			es = append(es, &Forward{node: c})
		case "attributes":
			es = append(es, &Attributes{node: c})
		case "direction":
			es = append(es, &Direction{node: c})
		case "barline":
			es = append(es, &Barline{node: c})
		case "sound":
			es = append(es, &Sound{node: c})
		}
	}
	return es
}

// Entry is one of *Note, *Backup, *Forward, *Attributes, *Direction,
// *Barline or *Sound.
type Entry interface {
	entry()
}

func (*Note) entry()       {}
func (*Backup) entry()     {}
func (*Forward) entry()    {}
func (*Attributes) entry() {}
func (*Direction) entry()  {}
func (*Barline) entry()    {}
func (*Sound) entry()      {}

type Backup struct {
	node *xmldom.Node
}

func (b *Backup) Duration() int {
	return intText(b.node, "duration", 0)
}

type Forward struct {
	node *xmldom.Node
}

func (f *Forward) Duration() int {
	return intText(f.node, "duration", 0)
}

func (f *Forward) Staff() int {
	return intText(f.node, "staff", 1)
}

func (f *Forward) Voice() string {
	return stringText(f.node, "voice", "1")
}

type Barline struct {
	node *xmldom.Node
}

func (b *Barline) Location() string {
	if l := b.node.GetAttributeValue("location"); l != "" {
		return l
	}
	return "right"
}

func (b *Barline) Style() string {
	return text(b.node, "bar-style")
}

// Repeat is "forward", "backward" or empty.
func (b *Barline) Repeat() string {
	if r := b.node.GetChild("repeat"); r != nil {
		return r.GetAttributeValue("direction")
	}
	return ""
}

type Sound struct {
	node *xmldom.Node
}

func (s *Sound) Tempo() (float64, bool) {
	return floatAttr(s.node, "tempo")
}

// Mark is a typed, numbered notation such as <slur type="start" number="2"/>.
type Mark struct {
	Type   string
	Number int
}

func marks(nodes []*xmldom.Node) []Mark {
	var ms []Mark
	for _, n := range nodes {
		ms = append(ms, Mark{
			Type:   n.GetAttributeValue("type"),
			Number: intAttr(n, "number", 1),
		})
	}
	return ms
}

func text(n *xmldom.Node, name string) string {
	if n == nil {
		return ""
	}
	c := n.GetChild(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

func stringText(n *xmldom.Node, name, def string) string {
	if t := text(n, name); t != "" {
		return t
	}
	return def
}

func intText(n *xmldom.Node, name string, def int) int {
	v, err := strconv.Atoi(text(n, name))
	if err != nil {
		return def
	}
	return v
}

// leadingInt parses "c. 120" or "120-126" as 120.
func leadingInt(s string) (int, bool) {
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(s[start:end])
	return v, err == nil
}

func intAttr(n *xmldom.Node, name string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(n.GetAttributeValue(name)))
	if err != nil {
		return def
	}
	return v
}

func floatAttr(n *xmldom.Node, name string) (float64, bool) {
	s := strings.TrimSpace(n.GetAttributeValue(name))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// descendants collects every element reached by following names from n,
// fanning out over repeated elements.
func descendants(n *xmldom.Node, names ...string) []*xmldom.Node {
	cur := []*xmldom.Node{n}
	for _, name := range names {
		var next []*xmldom.Node
		for _, c := range cur {
			next = append(next, c.GetChildren(name)...)
		}
		cur = next
	}
	return cur
}

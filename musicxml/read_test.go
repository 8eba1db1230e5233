package musicxml

import (
	"archive/zip"
	"bytes"
	"testing"

	xmldom "github.com/subchen/go-xmldom"
	"golang.org/x/text/encoding/unicode"
)

const twoPartScore = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
<score-partwise version="4.0">
  <movement-title>Etude</movement-title>
  <part-list>
    <score-part id="P1"><part-name>Piano</part-name></score-part>
    <score-part id="P2"><part-name>Violin</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>2</divisions>
        <key><fifths>-3</fifths><mode>minor</mode></key>
        <time symbol="common"><beats>4</beats><beat-type>4</beat-type></time>
        <staves>2</staves>
        <clef number="1"><sign>G</sign><line>2</line></clef>
        <clef number="2"><sign>F</sign></clef>
        <staff-details number="2"><staff-lines>4</staff-lines></staff-details>
      </attributes>
      <direction placement="above">
        <direction-type><metronome><beat-unit>quarter</beat-unit><beat-unit-dot/><per-minute>c. 96</per-minute></metronome></direction-type>
        <direction-type><wedge type="crescendo" number="2"/></direction-type>
        <staff>1</staff>
        <sound tempo="144"/>
      </direction>
      <note>
        <pitch><step>C</step><alter>1</alter><octave>5</octave></pitch>
        <duration>2</duration><voice>1</voice><type>quarter</type><staff>1</staff>
        <beam number="1">begin</beam>
        <notations><tied type="start"/><slur type="start" number="2"/></notations>
        <notations><technical><hammer-on type="start"/></technical><ornaments><wavy-line type="start"/></ornaments></notations>
        <lyric><text>la</text></lyric>
      </note>
      <note>
        <chord/>
        <pitch><step>E</step><octave>5</octave></pitch>
        <duration>2</duration><type>quarter</type>
      </note>
      <backup><duration>2</duration></backup>
      <note>
        <rest measure="yes"/>
        <duration>8</duration><voice>2</voice><staff>2</staff>
      </note>
      <forward><duration>1</duration></forward>
      <barline location="right"><bar-style>light-heavy</bar-style><repeat direction="backward"/></barline>
    </measure>
  </part>
  <part id="P2">
    <measure number="1">
      <note><grace/><pitch><step>G</step><octave>4</octave></pitch><type>eighth</type></note>
      <note>
        <pitch><step>A</step><octave>4</octave></pitch><duration>1</duration><type>eighth</type>
        <time-modification><actual-notes>3</actual-notes><normal-notes>2</normal-notes></time-modification>
        <notations><tuplet type="start"/></notations>
      </note>
    </measure>
  </part>
</score-partwise>`

func TestParseScore(t *testing.T) {
	s, err := Parse([]byte(twoPartScore))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := s.Title(); got != "Etude" {
		t.Errorf("Title = %q", got)
	}
	parts := s.Parts()
	if len(parts) != 2 {
		t.Fatalf("len(Parts) = %d want 2", len(parts))
	}
	if got := s.PartName("P2"); got != "Violin" {
		t.Errorf("PartName(P2) = %q", got)
	}

	ms := parts[0].Measures()
	if len(ms) != 1 || ms[0].Number() != "1" {
		t.Fatalf("measures %v", ms)
	}

	es := ms[0].Entries()
	var kinds []string
	for _, e := range es {
		switch e.(type) {
		case *Note:
			kinds = append(kinds, "note")
		case *Backup:
			kinds = append(kinds, "backup")
		case *Forward:
			kinds = append(kinds, "forward")
		case *Attributes:
			kinds = append(kinds, "attributes")
		case *Direction:
			kinds = append(kinds, "direction")
		case *Barline:
			kinds = append(kinds, "barline")
		}
	}
	want := []string{"attributes", "direction", "note", "note", "backup", "note", "forward", "barline"}
	if len(kinds) != len(want) {
		t.Fatalf("entries %v want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("entry %d = %s want %s", i, kinds[i], want[i])
		}
	}

	attr := es[0].(*Attributes)
	if d, ok := attr.Divisions(); !ok || d != 2 {
		t.Errorf("Divisions = %d, %v", d, ok)
	}
	if n, ok := attr.Staves(); !ok || n != 2 {
		t.Errorf("Staves = %d, %v", n, ok)
	}
	clefs := attr.Clefs()
	if len(clefs) != 2 || clefs[1] != (Clef{Stave: 2, Sign: "F", Line: 4}) {
		t.Errorf("Clefs = %+v", clefs)
	}
	keys := attr.Keys()
	if len(keys) != 1 || keys[0] != (Key{Stave: 0, Fifths: -3, Mode: "minor"}) {
		t.Errorf("Keys = %+v", keys)
	}
	times := attr.Times()
	if len(times) != 1 || times[0].Symbol != "common" || len(times[0].Components) != 1 ||
		times[0].Components[0].BeatType != 4 || times[0].Components[0].Beats[0] != 4 {
		t.Errorf("Times = %+v", times)
	}
	if ds := attr.StaveDetails(); len(ds) != 1 || ds[0] != (StaveDetails{Stave: 2, Lines: 4}) {
		t.Errorf("StaveDetails = %+v", ds)
	}

	dir := es[1].(*Direction)
	if m, ok := dir.Metronome(); !ok || m != (Metronome{BeatUnit: "quarter", Dots: 1, PerMinute: 96}) {
		t.Errorf("Metronome = %+v, %v", m, ok)
	}
	if tempo, ok := dir.SoundTempo(); !ok || tempo != 144 {
		t.Errorf("SoundTempo = %v, %v", tempo, ok)
	}
	if w := dir.Wedges(); len(w) != 1 || w[0] != (Mark{Type: "crescendo", Number: 2}) {
		t.Errorf("Wedges = %+v", w)
	}

	head := es[2].(*Note)
	if p, ok := head.Pitch(); !ok || p.String() != "C#5" {
		t.Errorf("Pitch = %v, %v", p, ok)
	}
	if head.Duration() != 2 || head.Voice() != "1" || head.Staff() != 1 || head.IsChordTail() {
		t.Errorf("head note accessors wrong")
	}
	if ties := head.Ties(); len(ties) != 1 || ties[0].Type != "start" || ties[0].Number != 1 {
		t.Errorf("Ties = %+v", ties)
	}
	if slurs := head.Slurs(); len(slurs) != 1 || slurs[0].Number != 2 {
		t.Errorf("Slurs = %+v", slurs)
	}
	if h := head.HammerOns(); len(h) != 1 {
		t.Errorf("HammerOns = %+v", h)
	}
	if w := head.WavyLines(); len(w) != 1 || w[0].Type != "start" {
		t.Errorf("WavyLines = %+v", w)
	}
	if b := head.Beams(); len(b) != 1 || b[0] != (Beam{Number: 1, Value: "begin"}) {
		t.Errorf("Beams = %+v", b)
	}
	if l := head.Lyrics(); len(l) != 1 || l[0] != "la" {
		t.Errorf("Lyrics = %v", l)
	}

	tail := es[3].(*Note)
	if !tail.IsChordTail() || tail.Voice() != "1" {
		t.Errorf("tail: chord %v voice %q", tail.IsChordTail(), tail.Voice())
	}
	rest := es[5].(*Note)
	if !rest.IsRest() || !rest.IsMeasureRest() || rest.Staff() != 2 {
		t.Errorf("rest accessors wrong")
	}
	if _, ok := rest.Pitch(); ok {
		t.Errorf("rest has a pitch")
	}
	bar := es[7].(*Barline)
	if bar.Location() != "right" || bar.Style() != "light-heavy" || bar.Repeat() != "backward" {
		t.Errorf("barline %q %q %q", bar.Location(), bar.Style(), bar.Repeat())
	}

	p2 := parts[1].Measures()[0].Entries()
	grace := p2[0].(*Note)
	if !grace.IsGrace() || grace.Duration() != 0 {
		t.Errorf("grace accessors wrong")
	}
	if a, n, ok := p2[1].(*Note).TimeModification(); !ok || a != 3 || n != 2 {
		t.Errorf("TimeModification = %d:%d %v", a, n, ok)
	}
}

func TestParseRejectsTimewise(t *testing.T) {
	_, err := Parse([]byte(`<score-timewise/>`))
	if err != ErrNotScorePartwise {
		t.Errorf("err = %v want %v", err, ErrNotScorePartwise)
	}
}

func TestIDIsStable(t *testing.T) {
	a, _ := Parse([]byte(twoPartScore))
	b, _ := Parse([]byte(twoPartScore))
	c, _ := Parse([]byte(`<score-partwise/>`))
	if a.ID() != b.ID() {
		t.Errorf("ID differs for identical input")
	}
	if a.ID() == c.ID() {
		t.Errorf("ID equal for different input")
	}
}

func TestLatin1(t *testing.T) {
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<score-partwise><movement-title>Caf\xe9</movement-title></score-partwise>")
	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := s.Title(); got != "Café" {
		t.Errorf("Title = %q want Café", got)
	}
}

func TestUTF16(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-16"?><score-partwise><movement-title>Étude</movement-title></score-partwise>`
	raw, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := s.Title(); got != "Étude" {
		t.Errorf("Title = %q", got)
	}
}

func TestCompressed(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"META-INF/container.xml": `<container><rootfiles><rootfile full-path="score/etude.musicxml" media-type="application/vnd.recordare.musicxml+xml"/></rootfiles></container>`,
		"score/etude.musicxml":   twoPartScore,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len(s.Parts()); got != 2 {
		t.Errorf("len(Parts) = %d want 2", got)
	}
}

// Documents built with the DOM writer read back through the accessors.
func TestBuiltDocument(t *testing.T) {
	doc := xmldom.NewDocument("score-partwise")
	part := doc.Root.CreateNode("part").SetAttributeValue("id", "P1")
	m := part.CreateNode("measure").SetAttributeValue("number", "1")
	for _, step := range []string{"C", "D"} {
		n := m.CreateNode("note")
		p := n.CreateNode("pitch")
		p.CreateNode("step").Text = step
		p.CreateNode("octave").Text = "4"
		n.CreateNode("duration").Text = "1"
		n.CreateNode("notations").CreateNode("slur").
			SetAttributeValue("type", map[string]string{"C": "start", "D": "stop"}[step])
	}

	s, err := Parse([]byte(doc.XML()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	es := s.Parts()[0].Measures()[0].Entries()
	if len(es) != 2 {
		t.Fatalf("len(Entries) = %d want 2", len(es))
	}
	if sl := es[1].(*Note).Slurs(); len(sl) != 1 || sl[0].Type != "stop" {
		t.Errorf("Slurs = %+v", sl)
	}
	if p, _ := es[0].(*Note).Pitch(); p.String() != "C4" {
		t.Errorf("Pitch = %v", p)
	}
}

package timeline

import (
	"reflect"
	"testing"

	"github.com/stringsync/vexml-sub000/fraction"
	"github.com/stringsync/vexml-sub000/musicxml"
	"github.com/stringsync/vexml-sub000/signature"
)

func parse(t *testing.T, doc string) []musicxml.Part {
	t.Helper()
	s, err := musicxml.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s.Parts()
}

func beats(n, d int) fraction.Division {
	return fraction.FromBeats(fraction.New(n, d))
}

const voicesDoc = `<score-partwise><part id="P1">
<measure number="1">
  <attributes><divisions>2</divisions><clef><sign>G</sign><line>2</line></clef></attributes>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>2</duration><voice>1</voice></note>
  <note><chord/><pitch><step>E</step><octave>4</octave></pitch><duration>2</duration><voice>1</voice></note>
  <note><pitch><step>D</step><octave>4</octave></pitch><duration>2</duration><voice>1</voice></note>
  <backup><duration>4</duration></backup>
  <note><grace/><pitch><step>A</step><octave>3</octave></pitch><voice>2</voice></note>
  <note><pitch><step>F</step><octave>3</octave></pitch><duration>4</duration><voice>2</voice><staff>2</staff></note>
  <forward><duration>2</duration></forward>
</measure>
<measure number="2">
  <note><rest/><duration>4</duration></note>
  <backup><duration>99</duration></backup>
  <note><pitch><step>G</step><octave>4</octave></pitch><duration>1</duration><voice>2</voice></note>
</measure>
</part></score-partwise>`

func TestExtractVoices(t *testing.T) {
	parts := parse(t, voicesDoc)
	x := NewExtractor("P1")
	ms := parts[0].Measures()

	es, extent := x.Measure(0, ms[0])
	var kinds []Kind
	for _, e := range es {
		kinds = append(kinds, e.Kind)
	}
	wantKinds := []Kind{KindClef, KindChord, KindNote, KindNote, KindNote}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Fatalf("kinds = %v want %v", kinds, wantKinds)
	}

	chord := es[1]
	if len(chord.Notes) != 2 || !chord.Beat.IsEqual(fraction.Zero) || !chord.Duration.IsEqual(beats(1, 1)) {
		t.Errorf("chord = %v notes %d dur %v", chord, len(chord.Notes), chord.Duration)
	}
	grace := es[2]
	if !grace.Duration.IsEqual(fraction.Zero) || grace.Voice != "2" {
		t.Errorf("grace = %v dur %v", grace, grace.Duration)
	}
	low := es[3]
	if low.Stave != 2 || !low.Beat.IsEqual(fraction.Zero) || !low.Duration.IsEqual(beats(2, 1)) {
		t.Errorf("voice 2 note = %v", low)
	}
	d := es[4]
	if !d.Beat.IsEqual(beats(1, 1)) {
		t.Errorf("D beat = %v want 1", d.Beat)
	}
	if !extent.IsEqual(beats(3, 1)) {
		t.Errorf("extent = %v want 3", extent)
	}

	// Divisions carry over; the oversized backup clamps to zero.
	es, extent = x.Measure(1, ms[1])
	if len(es) != 2 {
		t.Fatalf("len = %d want 2", len(es))
	}
	if es[0].Kind != KindRest || !es[0].Duration.IsEqual(beats(2, 1)) {
		t.Errorf("rest = %v dur %v", es[0], es[0].Duration)
	}
	if !es[1].Beat.IsEqual(fraction.Zero) || es[1].MeasureIndex != 1 {
		t.Errorf("clamped note = %v", es[1])
	}
	if !extent.IsEqual(beats(2, 1)) {
		t.Errorf("extent = %v want 2", extent)
	}
}

const directionsDoc = `<score-partwise><part id="P1"><measure number="1">
  <attributes>
    <divisions>1</divisions>
    <key><fifths>1</fifths></key>
    <time symbol="cut"><beats>2</beats><beat-type>2</beat-type></time>
    <staves>2</staves>
    <staff-details number="2"><staff-lines>1</staff-lines></staff-details>
    <measure-style><multiple-rest>4</multiple-rest></measure-style>
  </attributes>
  <direction><direction-type><segno/></direction-type><direction-type><dynamics><mf/></dynamics></direction-type><staff>2</staff></direction>
  <direction><direction-type><wedge type="diminuendo"/></direction-type><direction-type><pedal type="start"/></direction-type><direction-type><octave-shift type="down" size="15"/></direction-type></direction>
  <direction><direction-type><words>rit.</words></direction-type><sound tempo="72.4"/></direction>
  <sound tempo="90"/>
</measure></part></score-partwise>`

func TestExtractDirections(t *testing.T) {
	parts := parse(t, directionsDoc)
	es, _ := NewExtractor("P1").Measure(0, parts[0].Measures()[0])

	byKind := map[Kind][]*Event{}
	for _, e := range es {
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}
	if k := byKind[KindKey]; len(k) != 1 || k[0].Stave != 0 || k[0].Key.Fifths != 1 {
		t.Errorf("key events %v", k)
	}
	if tm := byKind[KindTime]; len(tm) != 1 || tm[0].Time.Symbol != signature.SymbolCut {
		t.Errorf("time events %v", tm)
	}
	if sc := byKind[KindStaveCount]; len(sc) != 1 || sc[0].StaveCount != 2 {
		t.Errorf("stavecount events %v", sc)
	}
	if sl := byKind[KindStaveLineCount]; len(sl) != 1 || sl[0].Lines != 1 || sl[0].Stave != 2 {
		t.Errorf("stavelinecount events %v", sl)
	}
	if mr := byKind[KindMultiRest]; len(mr) != 1 || mr[0].Measures != 4 {
		t.Errorf("multirest events %v", mr)
	}
	if d := byKind[KindDynamics]; len(d) != 1 || d[0].Dynamics[0] != "mf" || d[0].Stave != 2 {
		t.Errorf("dynamics events %v", d)
	}
	if len(byKind[KindSegno]) != 1 || len(byKind[KindWedge]) != 1 || len(byKind[KindPedal]) != 1 {
		t.Errorf("segno/wedge/pedal events missing")
	}
	if o := byKind[KindOctaveShift]; len(o) != 1 || o[0].OctaveShift.Size != 15 {
		t.Errorf("octave shift events %v", o)
	}
	if w := byKind[KindWords]; len(w) != 1 || w[0].Words[0] != "rit." {
		t.Errorf("words events %v", w)
	}
	m := byKind[KindMetronome]
	if len(m) != 2 || m[0].Tempo.PerMinute != 72 || m[1].Tempo.PerMinute != 90 {
		t.Errorf("metronome events %v", m)
	}
}

const keyChangeDoc = `<score-partwise>
<part id="P1"><measure number="1">
  <attributes><divisions>1</divisions><time><beats>4</beats><beat-type>4</beat-type></time></attributes>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
</measure></part>
<part id="P2"><measure number="1">
  <attributes><divisions>1</divisions><time><beats>4</beats><beat-type>4</beat-type></time></attributes>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
  <attributes><key><fifths>2</fifths><mode>major</mode></key></attributes>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
  <note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
</measure></part>
</score-partwise>`

func measureEvents(t *testing.T, doc string, index int) ([]*Event, fraction.Division) {
	t.Helper()
	var all []*Event
	extent := fraction.Zero
	for _, p := range parse(t, doc) {
		x := NewExtractor(p.ID())
		ms := p.Measures()
		for i := 0; i <= index; i++ {
			es, ext := x.Measure(i, ms[i])
			if i == index {
				all = append(all, es...)
				extent = fraction.Max(extent, ext)
			}
		}
	}
	SortByBeat(all)
	return all, extent
}

func TestSplitKeyChange(t *testing.T) {
	es, extent := measureEvents(t, keyChangeDoc, 0)
	chain := signature.NewChain()
	ranges := Split(chain, 0, es, extent)

	if len(ranges) != 2 {
		t.Fatalf("len(ranges) = %d want 2", len(ranges))
	}
	if !ranges[0].Start.IsEqual(beats(0, 1)) || !ranges[0].End.IsEqual(beats(2, 1)) ||
		!ranges[1].Start.IsEqual(beats(2, 1)) || !ranges[1].End.IsEqual(beats(4, 1)) {
		t.Errorf("ranges = [%v,%v) [%v,%v)", ranges[0].Start, ranges[0].End, ranges[1].Start, ranges[1].End)
	}

	a := ranges[0].Signature.Fragment("P1", "P2")
	b := ranges[1].Signature.Fragment("P1", "P2")
	want := []signature.Change{{Kind: signature.KindKey, Part: "P2", Stave: 1}}
	if got := a.Diff(b); !reflect.DeepEqual(got, want) {
		t.Errorf("Diff = %v want %v", got, want)
	}
	if !reflect.DeepEqual(ranges[1].Changes, want) {
		t.Errorf("Changes = %v want %v", ranges[1].Changes, want)
	}
	if chain.Len() != 2 {
		t.Errorf("chain.Len = %d want 2", chain.Len())
	}
}

func TestSplitNoChanges(t *testing.T) {
	es, extent := measureEvents(t, keyChangeDoc, 0)
	chain := signature.NewChain()
	// Keep only the notes.
	var notes []*Event
	for _, e := range es {
		if e.Kind.IsVoiceEntry() {
			notes = append(notes, e)
		}
	}
	ranges := Split(chain, 0, notes, extent)
	if len(ranges) != 1 {
		t.Fatalf("len(ranges) = %d want 1", len(ranges))
	}
	if ranges[0].Signature != chain.Leading(0) || chain.Len() != 1 {
		t.Errorf("incoming signature not reused")
	}
	if !ranges[0].End.IsEqual(beats(4, 1)) {
		t.Errorf("End = %v want 4", ranges[0].End)
	}
}

func TestSplitChangeAtStart(t *testing.T) {
	es, extent := measureEvents(t, directionsDoc, 0)
	chain := signature.NewChain()
	ranges := Split(chain, 0, es, extent)
	if len(ranges) != 1 {
		t.Fatalf("len(ranges) = %d want 1", len(ranges))
	}
	s := ranges[0].Signature
	if s.StaveCount("P1") != 2 || s.Key("P1", 2).Fifths != 1 || s.StaveLineCount("P1", 2) != 1 {
		t.Errorf("signature not applied at beat 0")
	}
	if tempo, _ := s.Tempo("P1"); tempo.PerMinute != 90 {
		t.Errorf("tempo = %v want the last one at beat 0", tempo)
	}
	if chain.Last() != s {
		t.Errorf("signature not appended")
	}
}

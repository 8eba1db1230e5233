package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stringsync/vexml-sub000/config"
	"github.com/stringsync/vexml-sub000/musicxml"
)

const scoreDoc = `<score-partwise><work><work-title>Song</work-title></work><part id="P1">` +
	`<measure number="1"><attributes><divisions>1</divisions><key><fifths>0</fifths></key>` +
	`<time><beats>4</beats><beat-type>4</beat-type></time><clef><sign>G</sign><line>2</line></clef></attributes>` +
	`<note><pitch><step>C</step><octave>4</octave></pitch><duration>2</duration><type>half</type><notations><slur type="start"/></notations></note>` +
	`<attributes><key><fifths>1</fifths></key></attributes>` +
	`<note><pitch><step>G</step><octave>4</octave></pitch><duration>2</duration><type>half</type><notations><slur type="stop"/></notations></note>` +
	`</measure></part></score-partwise>`

func parseScore(t *testing.T) *musicxml.Score {
	t.Helper()
	s, err := musicxml.Parse([]byte(scoreDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestConvert(t *testing.T) {
	var b bytes.Buffer
	if err := Convert(&b, parseScore(t), config.Defaults()); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	out := b.String()
	for _, want := range []string{`"Song"`, "P1 = {", "c'2", "g'2", "\\key", "% slur1["} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyze(t *testing.T) {
	var b bytes.Buffer
	analyze(&b, parseScore(t))
	out := b.String()
	for _, want := range []string{"P1 meas 0:", "fragment 0", "fragment 1", "sig 1 meas 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

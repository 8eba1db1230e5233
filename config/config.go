// Package config holds the tunables of a render: the system width budget,
// the spacing table of the reference engraver and the log level.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stringsync/vexml-sub000/layout"
)

type Config struct {
	Layout  Layout  `yaml:"layout"`
	Engrave Engrave `yaml:"engrave"`
	Logging Logging `yaml:"logging"`
}

type Layout struct {
	// Width is the system width budget. Zero disables line breaking.
	Width            float64 `yaml:"width"`
	StaveOffset      float64 `yaml:"stave_offset"`
	BarlineWidth     float64 `yaml:"barline_width"`
	JustifyThreshold float64 `yaml:"justify_threshold"`
}

type Engrave struct {
	// FontSize is the point size used to measure text.
	FontSize float64 `yaml:"font_size"`
	// NoteSpacing maps a MusicXML note type to the width of one entry.
	NoteSpacing map[string]float64 `yaml:"note_spacing"`
	// UntypedSpacing is the width per quarter of entries without a type.
	UntypedSpacing  float64 `yaml:"untyped_spacing"`
	GraceScale      float64 `yaml:"grace_scale"`
	AccidentalWidth float64 `yaml:"accidental_width"`
	DotWidth        float64 `yaml:"dot_width"`
	ClefWidth       float64 `yaml:"clef_width"`
	// KeyWidth is the width of one key signature accidental.
	KeyWidth       float64 `yaml:"key_width"`
	TimeWidth      float64 `yaml:"time_width"`
	MultiRestWidth float64 `yaml:"multirest_width"`
	Padding        float64 `yaml:"padding"`
}

type Logging struct {
	Level string `yaml:"level"`
}

func Defaults() Config {
	return Config{
		Layout: Layout{
			Width:            800,
			StaveOffset:      20,
			BarlineWidth:     1,
			JustifyThreshold: layout.DefaultJustifyThreshold,
		},
		Engrave: Engrave{
			FontSize: 12,
			NoteSpacing: map[string]float64{
				"breve":   70,
				"whole":   60,
				"half":    45,
				"quarter": 35,
				"eighth":  28,
				"16th":    24,
				"32nd":    22,
				"64th":    20,
				"128th":   20,
			},
			UntypedSpacing:  30,
			GraceScale:      0.6,
			AccidentalWidth: 10,
			DotWidth:        5,
			ClefWidth:       24,
			KeyWidth:        8,
			TimeWidth:       18,
			MultiRestWidth:  80,
			Padding:         10,
		},
		Logging: Logging{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. Unknown fields are an error.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes raw YAML over the defaults and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	l := c.Layout
	switch {
	case l.Width < 0:
		return errors.Errorf("layout.width %v is negative", l.Width)
	case l.StaveOffset < 0 || l.BarlineWidth < 0:
		return errors.New("layout offsets must not be negative")
	case l.JustifyThreshold <= 0 || l.JustifyThreshold > 1:
		return errors.Errorf("layout.justify_threshold %v not in (0, 1]", l.JustifyThreshold)
	}
	e := c.Engrave
	if e.FontSize <= 0 {
		return errors.Errorf("engrave.font_size %v must be positive", e.FontSize)
	}
	if e.GraceScale < 0 || e.GraceScale > 1 {
		return errors.Errorf("engrave.grace_scale %v not in [0, 1]", e.GraceScale)
	}
	for typ, w := range e.NoteSpacing {
		if w < 0 {
			return errors.Errorf("engrave.note_spacing.%s %v is negative", typ, w)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("logging.level %q unknown", c.Logging.Level)
	}
	return nil
}

// Planner builds the layout planner for these settings.
func (c Config) Planner() *layout.Planner {
	return &layout.Planner{
		Width:            c.Layout.Width,
		StaveOffset:      c.Layout.StaveOffset,
		BarlineWidth:     c.Layout.BarlineWidth,
		JustifyThreshold: c.Layout.JustifyThreshold,
	}
}

package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/stringsync/vexml-sub000/config"
	"github.com/stringsync/vexml-sub000/diag"
	"github.com/stringsync/vexml-sub000/musicxml"
)

func main() {
	debug := flag.Bool("debug", false, "dump measures, events and signatures instead of the plan")
	configFile := flag.String("config", "", "YAML configuration file")
	width := flag.Float64("width", -1, "system width; overrides the configuration")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] score.musicxml|score.mxl", os.Args[0])
	}

	cfg := config.Defaults()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Load: %v", err)
		}
	}
	if *width >= 0 {
		cfg.Layout.Width = *width
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	diag.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: diag.ParseLevel(cfg.Logging.Level),
	})))

	score, err := musicxml.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("ReadFile: %v", err)
	}
	if *debug {
		analyze(os.Stdout, score)
		return
	}
	if err := Convert(os.Stdout, score, cfg); err != nil {
		log.Fatalf("Convert: %+v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	def := DefaultConfig()
	fs := flag.NewFlagSet("phold", flag.ContinueOnError)
	remote := fs.Float64("remote", def.Remote, "fraction of events scheduled for other LPs, in [0,1]")
	minimum := fs.Float64("minimum", def.Minimum, "minimum inter-event delay, in seconds")
	average := fs.Float64("average", def.Average, "average additional inter-event delay, in seconds")
	stop := fs.Float64("stop", def.Stop, "total simulation time, in seconds")
	number := fs.Int("number", def.Number, "total number of LPs, at least 2")
	events := fs.Int("events", def.Events, "initial events per LP")
	buffer := fs.Int("buffer", def.BufferBytes, "opaque payload bytes per event")
	partitions := fs.Int("partitions", def.Partitions, "scheduler partitions (parallel workers)")
	delays := fs.Bool("delays", def.DelaysOut, "record the delay histogram")
	fixed := fs.Bool("fixed", def.Fixed, "use the mean delay instead of drawing, for debugging")
	verbose := fs.Int("verbose", def.Verbosity, "verbosity level")
	configPath := fs.String("config", "", "YAML configuration file; explicit flags override it")
	if err := fs.Parse(args); err != nil {
		return ExitConfig
	}

	cfg := def
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read config: %v\n", err)
			return ExitConfig
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "parse config: %v\n", err)
			return ExitConfig
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "remote":
			cfg.Remote = *remote
		case "minimum":
			cfg.Minimum = *minimum
		case "average":
			cfg.Average = *average
		case "stop":
			cfg.Stop = *stop
		case "number":
			cfg.Number = *number
		case "events":
			cfg.Events = *events
		case "buffer":
			cfg.BufferBytes = *buffer
		case "partitions":
			cfg.Partitions = *partitions
		case "delays":
			cfg.DelaysOut = *delays
		case "fixed":
			cfg.Fixed = *fixed
		case "verbose":
			cfg.Verbosity = *verbose
		}
	})

	log := GetLogger()
	log.SetLevel(LevelForVerbosity(cfg.Verbosity))

	sim, err := NewSimulation(cfg)
	if err != nil {
		log.Errorf("%v", err)
		return ExitCode(err)
	}
	report, err := sim.Run(context.Background())
	if err != nil {
		log.Errorf("%v", err)
		return ExitCode(err)
	}
	PrintReport(report, cfg.DelaysOut)
	return ExitOK
}

package main

import (
	"strconv"

	"github.com/bytearena/geoswarm/config"
	"github.com/bytearena/geoswarm/programs"
)

// flagContext is the part of *cli.Context the overrides read.
type flagContext interface {
	IsSet(name string) bool
	String(name string) string
	Int(name string) int
	Int64(name string) int64
	Float64(name string) float64
	Bool(name string) bool
}

// applyFlags overrides the configuration with the flags given explicitly on
// the command line; flag defaults never shadow the configuration file.
func applyFlags(conf *config.Config, c flagContext) {
	if c.IsSet("rounds") {
		conf.Simulation.Rounds = uint32(c.Int("rounds"))
	}

	if c.IsSet("range") {
		conf.Simulation.Range = c.Float64("range")
	}

	if c.IsSet("tps") {
		conf.Simulation.Tps = c.Int("tps")
	}

	if c.IsSet("parallel") {
		conf.Simulation.Parallel = c.Bool("parallel")
	}

	if c.IsSet("seed") {
		conf.Simulation.Seed = c.Int64("seed")
	}

	if c.IsSet("strategy") {
		conf.Simulation.Strategy = c.String("strategy")
	}

	if c.IsSet("grid") {
		conf.Swarm.Edge = c.Int("grid")
	}

	if c.IsSet("program") {
		conf.Swarm.Program = c.String("program")
	}

	if c.IsSet("viz-port") {
		conf.Viz.Addr = "0.0.0.0:" + strconv.Itoa(c.Int("viz-port"))
	}

	if c.IsSet("record-file") {
		conf.Recording.File = c.String("record-file")
	}

	if c.IsSet("broker") {
		conf.Broker.Host = c.String("broker")
	}
}

func programNames() []string {
	return programs.DefaultLoader().Names()
}

// Package swarm lays out the initial population of a simulation.
package swarm

import (
	"strconv"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/swarmserver"
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// Layout is an Edge x Edge grid. Agent i*Edge+j sits Spacing*i degrees north
// and Spacing*j degrees east of Origin.
type Layout struct {
	Edge    int          `yaml:"edge"`
	Origin  geo.Position `yaml:"origin"`
	Spacing float64      `yaml:"spacing"` // degrees
	Leaders []int        `yaml:"leaders"`
}

func DefaultLayout() Layout {
	return Layout{
		Edge:    5,
		Origin:  geo.FromDegrees(42.3858, -71.1515, 300),
		Spacing: 0.002,
		Leaders: []int{5},
	}
}

func (layout Layout) Size() int {
	return layout.Edge * layout.Edge
}

func (layout Layout) Validate() error {
	if layout.Edge <= 0 {
		return errors.Wrap(swarmserver.ErrInvalidConfiguration, "grid edge must be positive; got "+strconv.Itoa(layout.Edge))
	}

	if layout.Spacing <= 0 {
		return errors.Wrap(swarmserver.ErrInvalidConfiguration, "grid spacing must be positive")
	}

	for _, leader := range layout.Leaders {
		if leader < 0 || leader >= layout.Size() {
			return errors.Wrapf(swarmserver.ErrInvalidConfiguration, "leader %d outside of the %dx%d grid", leader, layout.Edge, layout.Edge)
		}
	}

	for _, position := range layout.Positions() {
		if err := position.Validate(); err != nil {
			return errors.Wrapf(swarmserver.ErrInvalidConfiguration, "grid does not fit on the globe: %v", err)
		}
	}

	return nil
}

func (layout Layout) Positions() []geo.Position {
	positions := make([]geo.Position, 0, layout.Size())

	for i := 0; i < layout.Edge; i++ {
		for j := 0; j < layout.Edge; j++ {
			positions = append(positions, geo.FromDegrees(
				layout.Origin.Latitude+float64(i)*layout.Spacing,
				layout.Origin.Longitude+float64(j)*layout.Spacing,
				layout.Origin.Elevation,
			))
		}
	}

	return positions
}

func (layout Layout) IsLeader(index int) bool {
	for _, leader := range layout.Leaders {
		if leader == index {
			return true
		}
	}

	return false
}

type Registrar interface {
	RegisterAgent(ag *agent.Agent) error
}

type ProgramLoader interface {
	Load(name string) (agent.Program, error)
}

// Populate creates one agent per grid cell, each with its own program
// instance, marks the leaders and registers them in grid order.
func (layout Layout) Populate(registrar Registrar, loader ProgramLoader, program string) ([]*agent.Agent, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	positions := layout.Positions()
	agents := make([]*agent.Agent, len(positions))

	for index, position := range positions {
		p, err := loader.Load(program)
		if err != nil {
			return nil, errors.Wrap(err, "could not load program for agent "+strconv.Itoa(index))
		}

		ag := agent.NewAgent(p, position)
		if layout.IsLeader(index) {
			ag.GetEnvironment().Put("leader", protocol.Bool(true))
		}

		if err := registrar.RegisterAgent(ag); err != nil {
			return nil, err
		}

		agents[index] = ag
	}

	return agents, nil
}

func (layout Layout) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for index, position := range layout.Positions() {
		feature := geojson.NewFeature(position.ToOrbPoint())
		feature.Properties["index"] = index
		feature.Properties["elevation"] = position.Elevation
		feature.Properties["leader"] = layout.IsLeader(index)

		fc.Append(feature)
	}

	return fc
}

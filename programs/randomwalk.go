package programs

import (
	"math"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/common/utils/vector"
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
)

const EnvAnchor = "anchor"

// RandomWalk moves Step metres in a random horizontal direction every round,
// and heads back whenever the next step would leave the disc of radius Leash
// around the position it started from.
type RandomWalk struct {
	Step  float64
	Leash float64
}

func MakeRandomWalk() RandomWalk {
	return RandomWalk{
		Step:  20,
		Leash: 250,
	}
}

func (walk RandomWalk) RunOneRound(ctx agent.ExecutionContext) (protocol.Message, error) {
	walk.move(ctx)
	return protocol.MakeEmptyMessage(), nil
}

func (walk RandomWalk) move(ctx agent.ExecutionContext) {
	position := ctx.GetPosition()
	anchor := anchorOf(ctx.GetEnvironment(), position)

	heading := 2 * math.Pi * ctx.NextRandomDouble()
	step := vector.MakeVector3(math.Cos(heading), math.Sin(heading), 0).MultScalar(walk.Step)

	offset := anchor.LocalVector(position)
	offset = vector.MakeVector3(offset.GetX(), offset.GetY(), 0)

	if offset.Add(step).Mag() > walk.Leash {
		// back towards the anchor, without overshooting it
		step = offset.MultScalar(-1).Limit(walk.Step)
	}

	east, north, _ := step.Get()
	ctx.Move(east, north, 0)
}

// anchorOf reads the walk anchor from the environment, recording the current
// position as the anchor on first use.
func anchorOf(env *protocol.Environment, position geo.Position) geo.Position {
	if value, ok := env.Get(EnvAnchor); ok {
		if elements, ok := value.AsTuple(); ok && len(elements) == 3 {
			lat, _ := elements[0].AsNumber()
			lon, _ := elements[1].AsNumber()
			elevation, _ := elements[2].AsNumber()

			return geo.FromDegrees(lat, lon, elevation)
		}
	}

	env.Put(EnvAnchor, protocol.Tuple(
		protocol.Number(position.Latitude),
		protocol.Number(position.Longitude),
		protocol.Number(position.Elevation),
	))

	return position
}

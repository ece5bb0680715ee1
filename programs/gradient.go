package programs

import (
	"math"

	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
)

const (
	PathGradient protocol.CodePath = "gradient"
	PathHops     protocol.CodePath = "hops"

	EnvLeader = "leader"
)

// Gradient exports the shortest known distance, in metres, to the nearest
// leader, along with the hop count of that path. Leaders export zero; agents
// no leader reaches yet export nothing.
type Gradient struct{}

func MakeGradient() Gradient {
	return Gradient{}
}

func (g Gradient) RunOneRound(ctx agent.ExecutionContext) (protocol.Message, error) {
	distance, hops, ok := g.compute(ctx)
	if !ok {
		return protocol.MakeEmptyMessage(), nil
	}

	return protocol.NewMessageBuilder().
		Set(PathGradient, protocol.Number(distance)).
		Set(PathHops, protocol.Number(hops)).
		Build(), nil
}

func (g Gradient) compute(ctx agent.ExecutionContext) (float64, float64, bool) {
	if ctx.GetEnvironment().GetBool(EnvLeader) {
		return 0, 0, true
	}

	ranges := ctx.NeighborRangeField()

	best := math.Inf(1)
	besthops := 0.0

	for sender, message := range ctx.GetInbox() {
		distance, ok := numberAt(message, PathGradient)
		if !ok {
			continue
		}

		hops, _ := numberAt(message, PathHops)

		if candidate := distance + ranges[sender]; candidate < best {
			best = candidate
			besthops = hops + 1
		}
	}

	if math.IsInf(best, 1) {
		return 0, 0, false
	}

	return best, besthops, true
}

func numberAt(message protocol.Message, path protocol.CodePath) (float64, bool) {
	value, ok := message.Get(path)
	if !ok {
		return 0, false
	}

	return value.AsNumber()
}

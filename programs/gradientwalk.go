package programs

import (
	"strconv"

	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
)

const EnvReached = "reached"

// GradientWalk is the demo program: leaders stay put, everybody else walks
// randomly, and all of them maintain the leader gradient. An agent announces
// the round it is first reached by the gradient.
type GradientWalk struct {
	gradient Gradient
	walk     RandomWalk
}

func MakeGradientWalk() GradientWalk {
	return GradientWalk{
		gradient: MakeGradient(),
		walk:     MakeRandomWalk(),
	}
}

func (program GradientWalk) RunOneRound(ctx agent.ExecutionContext) (protocol.Message, error) {
	env := ctx.GetEnvironment()

	message, err := program.gradient.RunOneRound(ctx)
	if err != nil {
		return message, err
	}

	if !env.GetBool(EnvLeader) {
		program.walk.move(ctx)
	}

	if hops, ok := numberAt(message, PathHops); ok && !env.GetBool(EnvReached) {
		env.Put(EnvReached, protocol.Bool(true))
		ctx.Announce("reached by the leader gradient after " + strconv.Itoa(int(hops)) + " hops, round " + strconv.Itoa(int(ctx.GetRound())))
	}

	return message, nil
}

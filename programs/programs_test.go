package programs

import (
	"context"
	"errors"
	"testing"

	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver"
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.LogFn = func(service, message string) {}
}

var origin = geo.FromDegrees(42.3858, -71.1515, 300)

func TestLoader(t *testing.T) {
	loader := DefaultLoader()

	assert.Equal(t, []string{"gradient", "gradient-walk", "randomwalk", "static"}, loader.Names())

	for _, name := range loader.Names() {
		program, err := loader.Load(name)
		assert.Nil(t, err)
		assert.NotNil(t, program)
	}

	_, err := Load("hello")
	assert.True(t, errors.Is(err, ErrUnknownProgram))
}

func lineServer(t *testing.T, count int, program string) (*swarmserver.Server, []*agent.Agent) {
	server, err := swarmserver.NewServer(swarmserver.Options{Range: 150, Seed: 1})
	require.Nil(t, err)

	agents := make([]*agent.Agent, count)
	for i := range agents {
		p, err := Load(program)
		require.Nil(t, err)

		agents[i] = agent.NewAgent(p, origin.Move(0, float64(i)*100, 0))
		require.Nil(t, server.RegisterAgent(agents[i]))
	}

	agents[0].GetEnvironment().Put(EnvLeader, protocol.Bool(true))

	return server, agents
}

func TestGradient(t *testing.T) {
	server, agents := lineServer(t, 4, "gradient")

	require.Nil(t, server.Run(context.Background(), 5))

	for i, ag := range agents {
		hops, ok := numberAt(ag.GetOutgoing(), PathHops)
		require.True(t, ok)
		assert.Equal(t, float64(i), hops)

		expected := 0.0
		for j := 1; j <= i; j++ {
			expected += agents[j-1].GetPosition().Distance3D(agents[j].GetPosition())
		}

		distance, ok := numberAt(ag.GetOutgoing(), PathGradient)
		require.True(t, ok)
		assert.InDelta(t, expected, distance, 1e-6)
	}
}

func TestGradientWithoutLeaderExportsNothing(t *testing.T) {
	server, agents := lineServer(t, 3, "gradient")
	agents[0].GetEnvironment().Remove(EnvLeader)

	require.Nil(t, server.Run(context.Background(), 3))

	for _, ag := range agents {
		assert.Equal(t, 0, ag.GetOutgoing().Len())
	}
}

func TestRandomWalkStaysOnLeash(t *testing.T) {
	server, agents := lineServer(t, 2, "randomwalk")
	walk := MakeRandomWalk()

	start := agents[1].GetPosition()
	moved := false

	for round := 0; round < 300; round++ {
		require.Nil(t, server.Step(context.Background()))

		position := agents[1].GetPosition()
		offset := start.LocalVector(position)
		assert.True(t, offset.Mag() <= walk.Leash+1e-6)
		assert.InDelta(t, start.Elevation, position.Elevation, 1e-9)

		if offset.Mag() > 0 {
			moved = true
		}
	}

	assert.True(t, moved)
}

func TestGradientWalk(t *testing.T) {
	server, agents := lineServer(t, 3, "gradient-walk")
	leader := agents[0].GetPosition()

	require.Nil(t, server.Run(context.Background(), 3))

	assert.Equal(t, leader, agents[0].GetPosition())
	assert.NotEqual(t, origin.Move(0, 100, 0), agents[1].GetPosition())

	reached := 0
	for {
		select {
		case event := <-server.Events():
			if _, ok := event.(swarmserver.EventAnnounce); ok {
				reached++
			}
			continue
		default:
		}
		break
	}

	// the leader is reached on round 1, its neighbour on round 2
	assert.True(t, reached >= 2)
	assert.True(t, agents[0].GetEnvironment().GetBool(EnvReached))
	assert.True(t, agents[1].GetEnvironment().GetBool(EnvReached))
}

func TestStatic(t *testing.T) {
	server, agents := lineServer(t, 2, "static")
	require.Nil(t, server.Run(context.Background(), 2))

	assert.Equal(t, origin, agents[0].GetPosition())
	assert.Equal(t, 0, agents[1].GetOutgoing().Len())
}

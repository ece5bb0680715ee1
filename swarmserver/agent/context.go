package agent

import (
	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/common/utils/vector"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	uuid "github.com/satori/go.uuid"
)

type executionContext struct {
	agent   *Agent
	round   uint32
	sensing Sensing

	// frozen position of the agent itself, as seen by the sensing
	origin geo.Position

	position      geo.Position
	environment   *protocol.Environment
	announcements []string
}

func newExecutionContext(agent *Agent, round uint32, sensing Sensing) *executionContext {
	origin := agent.position
	if sensing != nil {
		if frozen, ok := sensing.Position(agent.id); ok {
			origin = frozen
		}
	}

	return &executionContext{
		agent:       agent,
		round:       round,
		sensing:     sensing,
		origin:      origin,
		position:    agent.position,
		environment: agent.environment.Clone(),
	}
}

func (ctx *executionContext) GetId() uuid.UUID {
	return ctx.agent.id
}

func (ctx *executionContext) GetPosition() geo.Position {
	return ctx.position
}

func (ctx *executionContext) GetRound() uint32 {
	return ctx.round
}

func (ctx *executionContext) NextRandomDouble() float64 {
	return ctx.agent.random.Float64()
}

func (ctx *executionContext) GetEnvironment() *protocol.Environment {
	return ctx.environment
}

func (ctx *executionContext) neighbors() []uuid.UUID {
	if ctx.sensing == nil {
		return nil
	}

	return ctx.sensing.Neighbors(ctx.agent.id)
}

func (ctx *executionContext) GetInbox() map[uuid.UUID]protocol.Message {
	inbox := make(map[uuid.UUID]protocol.Message)
	for _, neighbor := range ctx.neighbors() {
		if message, ok := ctx.agent.inbox[neighbor]; ok {
			inbox[neighbor] = message
		}
	}

	return inbox
}

func (ctx *executionContext) NeighborRangeField() map[uuid.UUID]float64 {
	field := make(map[uuid.UUID]float64)
	for _, neighbor := range ctx.neighbors() {
		if position, ok := ctx.sensing.Position(neighbor); ok {
			field[neighbor] = ctx.origin.Distance3D(position)
		}
	}

	return field
}

func (ctx *executionContext) NeighborVectorField() map[uuid.UUID]vector.Vector3 {
	field := make(map[uuid.UUID]vector.Vector3)
	for _, neighbor := range ctx.neighbors() {
		if position, ok := ctx.sensing.Position(neighbor); ok {
			field[neighbor] = ctx.origin.LocalVector(position)
		}
	}

	return field
}

func (ctx *executionContext) Move(east, north, up float64) {
	ctx.position = ctx.position.Move(east, north, up)
}

func (ctx *executionContext) Announce(message string) {
	ctx.announcements = append(ctx.announcements, message)
}

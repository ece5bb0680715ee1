package agent

import (
	"github.com/bytearena/geoswarm/common/geo"
	"github.com/bytearena/geoswarm/common/utils/vector"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	uuid "github.com/satori/go.uuid"
)

// Program is the opaque per-device execution capability. Every agent holds
// its own instance.
type Program interface {
	RunOneRound(ctx ExecutionContext) (protocol.Message, error)
}

type ProgramFunc func(ctx ExecutionContext) (protocol.Message, error)

func (fn ProgramFunc) RunOneRound(ctx ExecutionContext) (protocol.Message, error) {
	return fn(ctx)
}

// ExecutionContext is what a program sees while it runs one round.
type ExecutionContext interface {
	GetId() uuid.UUID
	GetPosition() geo.Position
	GetRound() uint32
	NextRandomDouble() float64
	GetEnvironment() *protocol.Environment

	// Messages received from the agents that are currently neighbours.
	GetInbox() map[uuid.UUID]protocol.Message

	// Distances (metres) and east/north/up vectors to the current
	// neighbours, computed from positions frozen at the end of the previous
	// round.
	NeighborRangeField() map[uuid.UUID]float64
	NeighborVectorField() map[uuid.UUID]vector.Vector3

	Move(east, north, up float64)
	Announce(message string)
}

// Sensing is the neighbourhood view an agent executes against; the topology
// computed at the end of the previous round implements it.
type Sensing interface {
	Neighbors(id uuid.UUID) []uuid.UUID
	Position(id uuid.UUID) (geo.Position, bool)
}

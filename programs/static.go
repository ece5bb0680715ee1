package programs

import (
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/protocol"
)

// Static neither moves nor exports anything.
type Static struct{}

func (Static) RunOneRound(ctx agent.ExecutionContext) (protocol.Message, error) {
	return protocol.MakeEmptyMessage(), nil
}

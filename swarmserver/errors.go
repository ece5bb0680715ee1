package swarmserver

import (
	"github.com/bytearena/geoswarm/swarmserver/agent"
	"github.com/bytearena/geoswarm/swarmserver/relay"
	"github.com/bytearena/geoswarm/swarmserver/topology"
	"github.com/pkg/errors"
)

var (
	ErrInvalidConfiguration  = topology.ErrInvalidConfiguration
	ErrProgramFault          = agent.ErrProgramFault
	ErrDeliveryTargetMissing = relay.ErrDeliveryTargetMissing

	// ErrHalted is returned by every Step after a fatal error.
	ErrHalted = errors.New("simulation halted")
)

type ProgramFault = agent.ProgramFault
type DeliveryTargetMissing = relay.DeliveryTargetMissing

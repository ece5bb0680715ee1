// Package relay hands every agent's outgoing message to its current
// neighbours once the round's topology is known.
package relay

import (
	"github.com/bytearena/geoswarm/swarmserver/protocol"
	"github.com/bytearena/geoswarm/swarmserver/topology"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var ErrDeliveryTargetMissing = errors.New("delivery target missing")

// DeliveryTargetMissing means the topology names an agent nobody can
// deliver to. The population is fixed during a run, so this is fatal.
type DeliveryTargetMissing struct {
	Sender uuid.UUID
	Target uuid.UUID
}

func (e *DeliveryTargetMissing) Error() string {
	return "cannot deliver message from " + e.Sender.String() + ": no agent " + e.Target.String()
}

func (e *DeliveryTargetMissing) Is(target error) bool {
	return target == ErrDeliveryTargetMissing
}

type Receiver interface {
	GetId() uuid.UUID
	ReceiveMessage(sender uuid.UUID, message protocol.Message)
}

// Deliver performs one transfer per topology edge whose source produced a
// message, and returns how many transfers were made. Targets are checked
// before anything is delivered, so a failed call leaves every inbox untouched.
func Deliver(receivers []Receiver, topo *topology.Topology, outgoing map[uuid.UUID]protocol.Message) (int, error) {
	byid := make(map[uuid.UUID]Receiver, len(receivers))
	for _, receiver := range receivers {
		byid[receiver.GetId()] = receiver
	}

	type transfer struct {
		from uuid.UUID
		to   Receiver
		msg  protocol.Message
	}

	transfers := make([]transfer, 0, topo.EdgeCount()*2)

	for _, src := range topo.Ids() {
		message, ok := outgoing[src]
		if !ok {
			continue
		}

		for _, dst := range topo.Neighbors(src) {
			receiver, found := byid[dst]
			if !found {
				return 0, &DeliveryTargetMissing{Sender: src, Target: dst}
			}

			transfers = append(transfers, transfer{from: src, to: receiver, msg: message})
		}
	}

	for _, t := range transfers {
		t.to.ReceiveMessage(t.from, t.msg)
	}

	return len(transfers), nil
}

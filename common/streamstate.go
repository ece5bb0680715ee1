package common

import (
	"github.com/bytearena/geoswarm/common/mq"
	"github.com/bytearena/geoswarm/swarmserver"
	"github.com/bytearena/geoswarm/swarmserver/state"
)

const (
	VizChannel = "viz"
	VizTopic   = "message"
)

// StateStreamer publishes every snapshot on the viz lane of a broker.
type StateStreamer struct {
	brokerclient mq.ClientInterface
}

func NewStateStreamer(brokerclient mq.ClientInterface) *StateStreamer {
	return &StateStreamer{
		brokerclient: brokerclient,
	}
}

func (streamer *StateStreamer) Observe(snapshot state.Snapshot) error {
	return streamer.brokerclient.Publish(VizChannel, VizTopic, snapshot)
}

func StreamState(srv *swarmserver.Server, brokerclient mq.ClientInterface) {
	srv.AddObserver(NewStateStreamer(brokerclient))
}

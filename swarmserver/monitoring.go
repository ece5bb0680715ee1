package swarmserver

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bytearena/geoswarm/common/utils"
)

func (server *Server) monitoring(stopChannel chan bool) {
	monitorfreq := time.Second
	debugNbRounds := uint64(0)
	debugNbTransfers := uint64(0)

	for {
		select {
		case <-stopChannel:
			return
		case <-time.After(monitorfreq):
			{
				nbrounds := atomic.LoadUint64(&server.debugNbRounds)
				nbtransfers := atomic.LoadUint64(&server.debugNbTransfers)

				utils.Debug("monitoring",
					"-- MONITORING -- "+
						strconv.FormatUint(nbrounds-debugNbRounds, 10)+" rounds per "+monitorfreq.String()+"; "+
						strconv.FormatUint(nbtransfers-debugNbTransfers, 10)+" messages per "+monitorfreq.String(),
				)

				debugNbRounds = nbrounds
				debugNbTransfers = nbtransfers
			}
		}
	}
}

func (server *Server) startMonitoring() {
	server.monitoringonce.Do(func() {
		stopChannel := make(chan bool)
		go server.monitoring(stopChannel)

		server.AddTearDownCall(func() error {
			close(stopChannel)
			return nil
		})
	})
}

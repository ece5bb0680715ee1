package main

import (
	"github.com/bytearena/geoswarm/common/healthcheck"
	"github.com/bytearena/geoswarm/common/mq"
	"github.com/bytearena/geoswarm/swarmserver"
)

type pinger interface {
	Ping() error
}

func registerHealthChecks(server *healthcheck.HealthCheckServer, srv *swarmserver.Server, brokerclient mq.ClientInterface) {
	server.Register("simulation", func() (bool, error) {
		if srv.GetStatus() == swarmserver.StatusHalted {
			return false, srv.GetHaltCause()
		}

		return true, nil
	})

	if client, ok := brokerclient.(pinger); ok {
		server.Register("mq", func() (bool, error) {
			if err := client.Ping(); err != nil {
				return false, err
			}

			return true, nil
		})
	}
}

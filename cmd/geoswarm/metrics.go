package main

import (
	"sync"
	"time"

	"github.com/bytearena/geoswarm/common/influxdb"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/config"
	"github.com/bytearena/geoswarm/swarmserver"
	"github.com/bytearena/geoswarm/swarmserver/state"
)

const metricsPeriod = 10 * time.Second

// roundMetrics accumulates what happened between two metric reports.
type roundMetrics struct {
	rounds    *influxdb.Counter
	transfers *influxdb.Counter

	lock         *sync.Mutex
	nbedges      int
	nbcomponents int
}

func newRoundMetrics() *roundMetrics {
	return &roundMetrics{
		rounds:    influxdb.NewCounter(),
		transfers: influxdb.NewCounter(),
		lock:      &sync.Mutex{},
	}
}

func (m *roundMetrics) Observe(snapshot state.Snapshot) error {
	m.rounds.Add(1)

	for _, ag := range snapshot.Agents {
		m.transfers.Add(len(ag.Neighbors))
	}

	m.lock.Lock()
	m.nbedges = snapshot.NbEdges
	m.nbcomponents = snapshot.NbComponents
	m.lock.Unlock()

	return nil
}

func (m *roundMetrics) fields() map[string]interface{} {
	m.lock.Lock()
	defer m.lock.Unlock()

	return map[string]interface{}{
		"rounds":     m.rounds.GetAndReset(),
		"transfers":  m.transfers.GetAndReset(),
		"edges":      m.nbedges,
		"components": m.nbcomponents,
	}
}

func startMetrics(conf *config.Config, srv *swarmserver.Server) (*influxdb.Client, error) {
	client, err := influxdb.NewClient("geoswarm", conf.Metrics.InfluxdbAddr, conf.Metrics.InfluxdbDb)
	if err != nil {
		return nil, err
	}

	metrics := newRoundMetrics()
	srv.AddObserver(metrics)

	client.Loop(metricsPeriod, func() {
		if err := client.WriteAppMetric("swarm", metrics.fields()); err != nil {
			utils.Debug("metrics", "could not write metrics: "+err.Error())
		}
	})

	return client, nil
}

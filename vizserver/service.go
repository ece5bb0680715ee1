package vizserver

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/bytearena/geoswarm/common/mq"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver/state"
	apphandler "github.com/bytearena/geoswarm/vizserver/handler"
	"github.com/bytearena/geoswarm/vizserver/types"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type VizService struct {
	addr   string
	runs   *types.VizRunMap
	health http.Handler
	server *http.Server
}

// NewVizService serves the given runs; health may be nil, in which case
// /health is not routed.
func NewVizService(addr string, runs *types.VizRunMap, health http.Handler) *VizService {
	viz := &VizService{
		addr:   addr,
		runs:   runs,
		health: health,
	}

	viz.server = &http.Server{
		Addr:    addr,
		Handler: viz.Router(),
	}

	return viz
}

func (viz *VizService) Router() http.Handler {
	logger := os.Stdout
	router := mux.NewRouter()

	router.Handle("/", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Home(viz.runs)),
	)).Methods("GET")

	router.Handle("/run/{id:[a-zA-Z0-9\\-]+}", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Run(viz.runs)),
	)).Methods("GET")

	router.Handle("/run/{id:[a-zA-Z0-9\\-]+}/geojson", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.GeoJSON(viz.runs)),
	)).Methods("GET")

	router.Handle("/run/{id:[a-zA-Z0-9\\-]+}/ws", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Websocket(viz.runs)),
	)).Methods("GET")

	if viz.health != nil {
		router.Handle("/health", viz.health).Methods("GET")
	}

	return router
}

// OnStateMessage is the broker subscription feeding the viz: it records the
// snapshot on its run and forwards it to the run's watchers.
func (viz *VizService) OnStateMessage(msg mq.BrokerMessage) {
	var snapshot state.Snapshot
	if err := json.Unmarshal(msg.Data, &snapshot); err != nil {
		utils.Debug("viz-server", "Failed to decode snapshot; "+err.Error())
		return
	}

	run := viz.runs.Get(snapshot.RunId)
	if run == nil {
		utils.Debug("viz-server", "Snapshot for unknown run "+snapshot.RunId)
		return
	}

	if !run.SetSnapshot(snapshot) {
		return
	}

	frame, err := types.MakeVizMessage(types.VizMessageFrameBatch, msg.Data)
	if err != nil {
		utils.Debug("viz-server", "Failed to encode frame; "+err.Error())
		return
	}

	run.Broadcast(frame)
}

func (viz *VizService) ListenAndServe() error {
	utils.Debug("viz-server", "VIZ Listening on "+viz.addr)

	err := viz.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}

	return errors.Wrap(err, "viz server on "+viz.addr)
}

func (viz *VizService) Stop(ctx context.Context) error {
	return viz.server.Shutdown(ctx)
}

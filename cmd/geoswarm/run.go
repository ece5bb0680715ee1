package main

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/bytearena/geoswarm/common"
	"github.com/bytearena/geoswarm/common/healthcheck"
	"github.com/bytearena/geoswarm/common/mq"
	"github.com/bytearena/geoswarm/common/recording"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/config"
	"github.com/bytearena/geoswarm/programs"
	"github.com/bytearena/geoswarm/swarmserver"
	"github.com/bytearena/geoswarm/vizserver"
	"github.com/bytearena/geoswarm/vizserver/types"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"
	"github.com/ttacon/chalk"
)

const (
	TIME_BEFORE_FORCE_QUIT = 10 * time.Second
)

func makeBrokerClient(host string) (mq.ClientInterface, func() error, error) {
	if host == "" {
		client := mq.NewMemoryClient()
		return client, client.Close, nil
	}

	client, err := mq.NewClient(host)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not connect to message broker "+host)
	}

	return client, client.Close, nil
}

func runAction(conf *config.Config, isDebug bool, openBrowser bool) error {
	debug := func(str string) {}

	if isDebug {
		debug = func(str string) {
			fmt.Printf("debug %s\n", str)
		}

		utils.LogFn = func(service, message string) {
			fmt.Println(chalk.Dim.TextStyle("[" + service + "] " + message))
		}
	} else {
		utils.LogFn = func(service, message string) {}
	}

	srv, err := swarmserver.NewServer(swarmserver.Options{
		RunId:    petname.Generate(2, "-"),
		Range:    conf.Simulation.Range,
		Strategy: conf.GetStrategy(),
		Parallel: conf.Simulation.Parallel,
		Seed:     conf.Simulation.Seed,
		Tps:      conf.Simulation.Tps,
	})
	if err != nil {
		return err
	}

	runid := srv.GetRunId()

	agents, err := conf.Swarm.Layout.Populate(srv, programs.DefaultLoader(), conf.Swarm.Program)
	if err != nil {
		return err
	}

	brokerclient, closeBroker, err := makeBrokerClient(conf.Broker.Host)
	if err != nil {
		return err
	}

	srv.AddTearDownCall(closeBroker)

	common.StreamState(srv, brokerclient)

	var recorder recording.Recorder = recording.MakeEmptyRecorder()
	if conf.Recording.File != "" {
		recorder = recording.MakeSingleRunRecorder(conf.Recording.File)
	}

	err = recorder.RecordMetadata(runid, recording.MakeRecordMetadata(runid, conf.Simulation.Range, len(agents), conf.Swarm.Program))
	if err != nil {
		return err
	}

	health := healthcheck.NewHealthCheckServer(conf.Health.Port)
	registerHealthChecks(health, srv, brokerclient)

	vizruns := types.NewVizRunMap()
	vizruns.Add(types.NewVizRun(runid, conf.Simulation.Tps, conf.Simulation.Range))
	vizservice := vizserver.NewVizService(conf.Viz.Addr, vizruns, health)

	err = brokerclient.Subscribe(common.VizChannel, common.VizTopic, func(msg mq.BrokerMessage) {
		if err := recorder.Record(runid, string(msg.Data)); err != nil {
			debug("could not record frame: " + err.Error())
		}

		vizservice.OnStateMessage(msg)
	})
	if err != nil {
		return errors.Wrap(err, "could not subscribe to the viz stream")
	}

	metrics, err := startMetrics(conf, srv)
	if err != nil {
		utils.WarnWith(err)
	}

	// consume server events
	go func() {
		for msg := range srv.Events() {
			switch t := msg.(type) {
			case swarmserver.EventStatusUpdate:
				fmt.Println(chalk.Cyan.Color("status " + t.Status.String()))

			case swarmserver.EventAnnounce:
				fmt.Printf("announce %s round %d: %s\n", t.AgentId, t.Round, t.Value)

			case swarmserver.EventLog:
				fmt.Println("log", t.Value)

			case swarmserver.EventDebug:
				debug(t.Value)

			case swarmserver.EventError:
				fmt.Println(chalk.Red.Color("error " + t.Err.Error()))

			case swarmserver.EventWarn:
				utils.WarnWith(t.Err)

			case swarmserver.EventClose:
				return

			default:
				debug(fmt.Sprintf("Unsupported message of type %s", reflect.TypeOf(msg)))
			}
		}
	}()

	if conf.Health.Port > 0 {
		go func() {
			if err := health.Listen(); err != nil {
				utils.WarnWith(errors.Wrap(err, "health check server stopped"))
			}
		}()
	}

	if conf.Viz.Enabled {
		go func() {
			if err := vizservice.ListenAndServe(); err != nil {
				utils.WarnWith(err)
			}
		}()

		url := "http://" + strings.Replace(conf.Viz.Addr, "0.0.0.0", "localhost", 1) + "/run/" + runid
		fmt.Println(chalk.Blue.Color("\nRun " + runid + " served at " + url + "\n"))

		if openBrowser {
			if err := open.Run(url); err != nil {
				utils.WarnWith(errors.Wrap(err, "could not open browser"))
			}
		}
	}

	// handling signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := common.SignalHandler()
	shutdownChan := make(chan bool, 1)

	go func() {
		<-signals
		utils.Debug("sighandler", "RECEIVED SHUTDOWN SIGNAL; closing.")
		shutdownChan <- true
		cancel()
	}()

	runErr := <-srv.Start(ctx, conf.Simulation.Rounds)

	if runErr == nil && conf.Viz.Enabled && ctx.Err() == nil {
		fmt.Println("Run " + srv.GetStatus().String() + " after " + srv.GetTurn().String() + "; serving the viz until interrupted.")
		<-shutdownChan
	}

	// Force quit if the teardown hangs
	go func() {
		<-time.After(TIME_BEFORE_FORCE_QUIT)
		utils.FailWith(errors.New("Forced shutdown"))
	}()

	debug("Shutdown...")

	// observers drain before the broker closes, and closing the broker flushes
	// the viz lane into the recorder
	srv.Stop()

	if err := recorder.Close(runid); err != nil {
		utils.WarnWith(err)
	}

	if metrics != nil {
		metrics.TearDown()
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), TIME_BEFORE_FORCE_QUIT/2)
	defer stopCancel()

	if err := vizservice.Stop(stopCtx); err != nil {
		utils.WarnWith(err)
	}

	return runErr
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytearena/geoswarm/common"
	"github.com/bytearena/geoswarm/common/mq"
	"github.com/bytearena/geoswarm/common/replay"
	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/swarmserver/state"
	"github.com/bytearena/geoswarm/vizserver"
	"github.com/bytearena/geoswarm/vizserver/types"
	"github.com/cheggaaa/pb"
	"github.com/pkg/errors"
)

func replayAction(filename string, tps int, vizAddr string) error {
	replayer, err := replay.NewReplayer(filename)
	if err != nil {
		return err
	}

	metadata := replayer.GetMetadata()
	fmt.Printf("run %s (%s, %d agents, range %.0fm), %d rounds\n", metadata.RunId, metadata.Program, metadata.NbAgents, metadata.Range, replayer.GetNbFrames())

	var vizservice *vizserver.VizService
	if vizAddr != "" {
		vizruns := types.NewVizRunMap()
		vizruns.Add(types.NewVizRun(metadata.RunId, tps, metadata.Range))
		vizservice = vizserver.NewVizService(vizAddr, vizruns, nil)

		go func() {
			if err := vizservice.ListenAndServe(); err != nil {
				utils.WarnWith(err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := common.SignalHandler()
	go func() {
		<-signals
		cancel()
	}()

	var period time.Duration
	if tps > 0 {
		period = time.Second / time.Duration(tps)
	}

	// without a viz the replay only reports progress and a summary
	var bar *pb.ProgressBar
	if vizservice == nil {
		bar = pb.New(replayer.GetNbFrames())
		bar.SetWidth(80)
		bar.Start()
	}

	var last state.Snapshot
	maxcomponents := 0

	for msg := range replayer.Read(ctx, period) {
		var snapshot state.Snapshot
		if err := json.Unmarshal([]byte(msg.Line), &snapshot); err != nil {
			if bar != nil {
				bar.Finish()
			}

			return errors.Wrap(err, "corrupted frame in "+filename)
		}

		last = snapshot
		if snapshot.NbComponents > maxcomponents {
			maxcomponents = snapshot.NbComponents
		}

		if bar != nil {
			bar.Increment()
		} else {
			fmt.Printf("round %d: %d edges, %d components\n", snapshot.Round, snapshot.NbEdges, snapshot.NbComponents)
		}

		if vizservice != nil {
			vizservice.OnStateMessage(mq.BrokerMessage{
				Channel: common.VizChannel,
				Topic:   common.VizTopic,
				Data:    []byte(msg.Line),
			})
		}
	}

	if bar != nil {
		bar.Finish()
		fmt.Printf("last round %d: %d edges, %d components (at most %d)\n", last.Round, last.NbEdges, last.NbComponents, maxcomponents)
	}

	if vizservice != nil {
		if ctx.Err() == nil {
			fmt.Println("end of record; serving the viz until interrupted.")
			<-ctx.Done()
		}

		stopCtx, stopCancel := context.WithTimeout(context.Background(), TIME_BEFORE_FORCE_QUIT/2)
		defer stopCancel()

		return vizservice.Stop(stopCtx)
	}

	return nil
}

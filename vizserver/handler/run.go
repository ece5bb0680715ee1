package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bytearena/geoswarm/vizserver/types"
	"github.com/gorilla/mux"
)

type RunSummary struct {
	Id           string  `json:"id"`
	Tps          int     `json:"tps"`
	Range        float64 `json:"range"`
	Watchers     int     `json:"watchers"`
	Round        uint32  `json:"round"`
	NbAgents     int     `json:"nbagents"`
	NbEdges      int     `json:"nbedges"`
	NbComponents int     `json:"nbcomponents"`
}

func Run(runs *types.VizRunMap) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		run := runs.Get(mux.Vars(r)["id"])
		if run == nil {
			http.Error(w, "RUN NOT FOUND !", http.StatusNotFound)
			return
		}

		summary := RunSummary{
			Id:       run.GetId(),
			Tps:      run.GetTps(),
			Range:    run.GetRange(),
			Watchers: run.GetNumberWatchers(),
		}

		if snapshot, ok := run.GetSnapshot(); ok {
			summary.Round = snapshot.Round
			summary.NbAgents = len(snapshot.Agents)
			summary.NbEdges = snapshot.NbEdges
			summary.NbComponents = snapshot.NbComponents
		}

		data, err := json.Marshal(summary)
		if err != nil {
			http.Error(w, "ERROR: could not render run", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

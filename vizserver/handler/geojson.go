package handler

import (
	"net/http"

	"github.com/bytearena/geoswarm/vizserver/types"
	"github.com/gorilla/mux"
)

func GeoJSON(runs *types.VizRunMap) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		run := runs.Get(mux.Vars(r)["id"])
		if run == nil {
			http.Error(w, "RUN NOT FOUND !", http.StatusNotFound)
			return
		}

		snapshot, ok := run.GetSnapshot()
		if !ok {
			http.Error(w, "NO ROUND YET", http.StatusNotFound)
			return
		}

		data, err := snapshot.MarshalGeoJSON()
		if err != nil {
			http.Error(w, "ERROR: could not render snapshot", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(data)
	}
}

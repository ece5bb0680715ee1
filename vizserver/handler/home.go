package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/bytearena/geoswarm/vizserver/types"
)

func Home(runs *types.VizRunMap) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<h2>Welcome on VIZ SERVER !</h2>"))

		for _, run := range runs.GetAll() {
			id := html.EscapeString(run.GetId())
			fmt.Fprintf(
				w,
				"<a href='/run/%s'>%s</a> (<a href='/run/%s/geojson'>geojson</a>, %d watchers right now)<br />",
				id, id, id, run.GetNumberWatchers(),
			)
		}
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/bytearena/geoswarm/vizserver/types"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Websocket registers the client as a watcher of the run and blocks until the
// client goes away; frames are pushed by VizRun.Broadcast.
func Websocket(runs *types.VizRunMap) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		run := runs.Get(mux.Vars(r)["id"])
		if run == nil {
			http.Error(w, "RUN NOT FOUND !", http.StatusNotFound)
			return
		}

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			utils.Debug("viz-server", "upgrade: "+err.Error())
			return
		}

		watcher := types.NewWatcher(c)
		run.SetWatcher(watcher)

		defer func(c *websocket.Conn) {
			run.RemoveWatcher(watcher.GetId())
			c.Close()
			utils.Debug("viz-server", "watcher left "+run.GetId()+"; "+strconv.Itoa(run.GetNumberWatchers())+" remaining")
		}(c)

		// Reading is mandatory to notice when the websocket is closed client side
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}
}

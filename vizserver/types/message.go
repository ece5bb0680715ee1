package types

import (
	"encoding/json"
)

const (
	VizMessageInit       = "init"
	VizMessageFrameBatch = "framebatch"
)

type VizMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type VizInitMessageData struct {
	RunId string  `json:"runid"`
	Tps   int     `json:"tps"`
	Range float64 `json:"range"`
}

func MakeVizMessage(msgtype string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(VizMessage{
		Type: msgtype,
		Data: raw,
	})
}

package mq

import (
	"encoding/json"
)

type BrokerMessage struct {
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Topic     string          `json:"topic"`
	Channel   string          `json:"channel"`
}

type SubscriptionCallback func(msg BrokerMessage)

type ClientInterface interface {
	Subscribe(channel string, topic string, onmessage SubscriptionCallback) error
	Publish(channel string, topic string, payload interface{}) error
}

func lane(channel string, topic string) string {
	return channel + ":" + topic
}

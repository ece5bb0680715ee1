package mq

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/bytearena/geoswarm/common/utils"
	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

type brokerAction struct {
	Action  string      `json:"action"`
	Channel string      `json:"channel"`
	Topic   string      `json:"topic"`
	Data    interface{} `json:"data"`
}

// Client talks to a remote message broker over a websocket and reconnects
// with exponential backoff when the connection drops.
type Client struct {
	conn          *websocket.Conn
	subscriptions *SubscriptionMap
	mu            sync.Mutex
	url           string
	closed        bool
}

// NewClient dials host; a host without a scheme is reached over ws://.
func NewClient(host string) (*Client, error) {
	url := host
	if !strings.Contains(host, "://") {
		url = "ws://" + host
	}

	c := &Client{
		subscriptions: NewSubscriptionMap(),
		url:           url,
	}

	if err := c.connect(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to messagebroker host "+host)
	}

	go c.waitAndListen()

	return c, nil
}

func (client *Client) connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(client.url, http.Header{})
	if err != nil {
		return err
	}

	client.mu.Lock()
	client.conn = conn
	client.mu.Unlock()

	return nil
}

func (client *Client) reconnect() error {
	utils.Debug("mq-client", "Unexpected close")

	f := func() error {
		utils.Debug("mq-client", "Try to reconnect")

		if err := client.connect(); err != nil {
			return err
		}

		utils.Debug("mq-client", "Reconnected")

		for _, subscriptionLane := range client.subscriptions.GetKeys() {
			parts := strings.SplitN(subscriptionLane, ":", 2)
			utils.Debug("mq-client", "Re-subscribing to "+subscriptionLane)

			if err := client.Subscribe(parts[0], parts[1], client.subscriptions.Get(subscriptionLane)); err != nil {
				return err
			}
		}

		return nil
	}

	return backoff.Retry(f, backoff.NewExponentialBackOff())
}

func (client *Client) isClosed() bool {
	client.mu.Lock()
	defer client.mu.Unlock()

	return client.closed
}

func (client *Client) waitAndListen() {
	for {
		client.mu.Lock()
		conn := client.conn
		client.mu.Unlock()

		_, rawData, err := conn.ReadMessage()
		if err != nil {
			if client.isClosed() {
				return
			}

			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure) {
				if reconnecterr := client.reconnect(); reconnecterr != nil {
					utils.Debug("mq-client", "giving up: "+reconnecterr.Error())
					return
				}

				continue
			}

			utils.Debug("mq-client", "read failed: "+err.Error())
			return
		}

		var message BrokerMessage
		if err := json.Unmarshal(rawData, &message); err != nil {
			utils.Debug("mq-client", "Received invalid message: "+err.Error())
			continue
		}

		subscription := client.subscriptions.Get(lane(message.Channel, message.Topic))
		if subscription == nil {
			utils.Debug("mq-client", "unexpected (unsubscribed) message type "+lane(message.Channel, message.Topic))
			continue
		}

		subscription(message)
	}
}

func (client *Client) write(action brokerAction) error {
	client.mu.Lock()
	defer client.mu.Unlock()

	return client.conn.WriteJSON(action)
}

/* <mq.ClientInterface> */
func (client *Client) Subscribe(channel string, topic string, onmessage SubscriptionCallback) error {
	err := client.write(brokerAction{
		Action:  "sub",
		Channel: channel,
		Topic:   topic,
	})

	if err != nil {
		return errors.Wrap(err, "cannot subscribe to message broker ("+channel+", "+topic+")")
	}

	client.subscriptions.Set(lane(channel, topic), onmessage)

	return nil
}

func (client *Client) Publish(channel string, topic string, payload interface{}) error {
	err := client.write(brokerAction{
		Action:  "pub",
		Channel: channel,
		Topic:   topic,
		Data:    payload,
	})

	if err != nil {
		return errors.Wrap(err, "cannot publish to message broker ("+channel+", "+topic+")")
	}

	return nil
}

/* </mq.ClientInterface> */

func (client *Client) Ping() error {
	var data interface{}
	return client.Publish("ping", "ping", data)
}

func (client *Client) Close() error {
	client.mu.Lock()
	client.closed = true
	conn := client.conn
	client.mu.Unlock()

	return conn.Close()
}

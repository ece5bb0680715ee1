package mq

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const memoryQueueSize = 256

var ErrClientClosed = errors.New("message broker client closed")

// MemoryClient is an in-process broker for single process runs. Each lane is
// served by one goroutine, so its callback sees messages in publish order.
// Publish blocks while the lane queue is full.
type MemoryClient struct {
	subscriptions map[string]*memorySubscription
	lock          *sync.Mutex
	stop          chan struct{}
	closeonce     *sync.Once
}

type memorySubscription struct {
	queue chan BrokerMessage
	done  chan struct{}

	lock      *sync.Mutex
	onmessage SubscriptionCallback
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		subscriptions: make(map[string]*memorySubscription),
		lock:          &sync.Mutex{},
		stop:          make(chan struct{}),
		closeonce:     &sync.Once{},
	}
}

func (sub *memorySubscription) deliver(msg BrokerMessage) {
	sub.lock.Lock()
	onmessage := sub.onmessage
	sub.lock.Unlock()

	onmessage(msg)
}

// work delivers until stop, then flushes what is still queued.
func (sub *memorySubscription) work(stop chan struct{}) {
	defer close(sub.done)

	for {
		select {
		case msg := <-sub.queue:
			sub.deliver(msg)
		case <-stop:
			for {
				select {
				case msg := <-sub.queue:
					sub.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

// Subscribe replaces the callback of a lane that already has one.
func (client *MemoryClient) Subscribe(channel string, topic string, onmessage SubscriptionCallback) error {
	select {
	case <-client.stop:
		return ErrClientClosed
	default:
	}

	client.lock.Lock()
	defer client.lock.Unlock()

	if sub, ok := client.subscriptions[lane(channel, topic)]; ok {
		sub.lock.Lock()
		sub.onmessage = onmessage
		sub.lock.Unlock()
		return nil
	}

	sub := &memorySubscription{
		queue:     make(chan BrokerMessage, memoryQueueSize),
		done:      make(chan struct{}),
		lock:      &sync.Mutex{},
		onmessage: onmessage,
	}

	client.subscriptions[lane(channel, topic)] = sub
	go sub.work(client.stop)

	return nil
}

func (client *MemoryClient) Publish(channel string, topic string, payload interface{}) error {
	select {
	case <-client.stop:
		return ErrClientClosed
	default:
	}

	client.lock.Lock()
	sub := client.subscriptions[lane(channel, topic)]
	client.lock.Unlock()

	if sub == nil {
		return nil
	}

	res, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "cannot encode payload for "+lane(channel, topic))
	}

	msg := BrokerMessage{
		Timestamp: time.Now().Format(time.RFC3339),
		Topic:     topic,
		Channel:   channel,
		Data:      res,
	}

	select {
	case sub.queue <- msg:
		return nil
	case <-client.stop:
		return ErrClientClosed
	}
}

// Close stops accepting messages and returns once every message published
// before it has been delivered. A Publish racing with Close may be dropped.
func (client *MemoryClient) Close() error {
	client.closeonce.Do(func() {
		close(client.stop)
	})

	client.lock.Lock()
	subs := make([]*memorySubscription, 0, len(client.subscriptions))
	for _, sub := range client.subscriptions {
		subs = append(subs, sub)
	}
	client.lock.Unlock()

	for _, sub := range subs {
		<-sub.done
	}

	return nil
}

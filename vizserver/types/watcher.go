package types

import (
	"sync"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

// Watcher is one websocket client following a run. Writes on a websocket
// connection must not be concurrent, hence the lock.
type Watcher struct {
	id   uuid.UUID
	conn *websocket.Conn
	lock *sync.Mutex
}

func NewWatcher(conn *websocket.Conn) *Watcher {
	return &Watcher{
		id:   uuid.NewV4(),
		conn: conn,
		lock: &sync.Mutex{},
	}
}

func (watcher *Watcher) GetId() string {
	return watcher.id.String()
}

func (watcher *Watcher) Send(data []byte) error {
	watcher.lock.Lock()
	defer watcher.lock.Unlock()

	return watcher.conn.WriteMessage(websocket.TextMessage, data)
}

func (watcher *Watcher) SendJSON(v interface{}) error {
	watcher.lock.Lock()
	defer watcher.lock.Unlock()

	return watcher.conn.WriteJSON(v)
}

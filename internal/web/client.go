package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 10 * time.Second
	writeWait    = 10 * time.Second
)

// Client is one websocket subscriber. Writes go through the client so
// that pushes from other goroutines never interleave on the conn.
type Client struct {
	ID string

	conn *websocket.Conn
	mtx  sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
	}
}

func (client *Client) Send(netData *NetData) error {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	// pushes happen under the server lock; a stuck peer must not hold it
	client.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return netData.sendToConn(client.conn)
}

func (client *Client) ping() error {
	return client.conn.WriteControl(websocket.PingMessage, []byte{},
		time.Now().Add(pingInterval))
}

func (client *Client) close(code int, text string) {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
	client.conn.Close()
}

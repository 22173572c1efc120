package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bkazemi/drawpoker/internal/poker"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

var ErrBadRequest = errors.New("bad request")

// requests/responses sent between client and server
type NetAction uint16

const (
	NetDataClose NetAction = 1 << iota
	NetDataNewConn
	NetDataClientExited
	NetDataServerClosed

	NetDataRound
	NetDataDeal
	NetDataToggleSelect
	NetDataDraw
	NetDataShowdown

	NetDataBadRequest
)

// requests that change the round and get pushed to every client
const NetActionMutatesBitMask = (NetDataDeal | NetDataToggleSelect | NetDataDraw | NetDataShowdown)

var netActionNameMap = map[NetAction]string{
	NetDataClose:        "close",
	NetDataNewConn:      "new connection",
	NetDataClientExited: "client exited",
	NetDataServerClosed: "server closed",
	NetDataRound:        "round",
	NetDataDeal:         "deal",
	NetDataToggleSelect: "toggle select",
	NetDataDraw:         "draw",
	NetDataShowdown:     "showdown",
	NetDataBadRequest:   "bad request",
}

func (action NetAction) String() string {
	if name, ok := netActionNameMap[action]; ok {
		return name
	}

	return fmt.Sprintf("NetAction(%d)", uint16(action))
}

func (action NetAction) Mutates() bool {
	return action&NetActionMutatesBitMask != 0
}

// data that gets sent between client and server
type NetData struct {
	Request  NetAction       `json:"request,omitempty" msgpack:"request,omitempty"`
	Response NetAction       `json:"response,omitempty" msgpack:"response,omitempty"`
	Position int             `json:"position" msgpack:"position"` // NetDataToggleSelect only
	Msg      string          `json:"msg,omitempty" msgpack:"msg,omitempty"`
	Round    *poker.Snapshot `json:"round,omitempty" msgpack:"round,omitempty"`
}

// clear all fields. used when recycling a netData instance
func (netData *NetData) ClearData() {
	netData.Request = 0
	netData.Response = 0
	netData.Position = 0
	netData.Msg = ""
	netData.Round = nil
}

func (netData *NetData) String() string {
	var b strings.Builder

	if netData.Request != 0 {
		fmt.Fprintf(&b, "req %s", netData.Request)
	}
	if netData.Response != 0 {
		fmt.Fprintf(&b, " resp %s", netData.Response)
	}
	if netData.Request == NetDataToggleSelect {
		fmt.Fprintf(&b, " pos %d", netData.Position)
	}
	if netData.Round != nil {
		fmt.Fprintf(&b, " [%s]", netData.Round.Phase)
	}

	return strings.TrimSpace(b.String())
}

// send a NetData struct to a websocket.Conn as a msgpack frame.
func (netData *NetData) sendToConn(conn *websocket.Conn) error {
	b, err := msgpack.Marshal(netData)
	if err != nil {
		return fmt.Errorf("NetData.sendToConn(): msgpack: %w", err)
	}

	return conn.WriteMessage(websocket.BinaryMessage, b)
}

// decodeNetData reuses netData for the next frame. msgpack leaves fields
// missing from the frame untouched, so they are cleared first.
func decodeNetData(rawData []byte, netData *NetData) error {
	netData.ClearData()

	if err := msgpack.Unmarshal(rawData, netData); err != nil {
		netData.ClearData()
		return fmt.Errorf("%w: msgpack: %s", ErrBadRequest, err.Error())
	}

	return nil
}

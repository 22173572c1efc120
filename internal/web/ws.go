package web

import (
	"compress/flate"
	"errors"
	"net/http"
	"time"

	"github.com/bkazemi/drawpoker/internal/poker"

	"github.com/gorilla/websocket"
)

// WSClient upgrades the request and serves one subscriber until it exits.
// Every frame in either direction is a msgpack encoded NetData.
func (server *Server) WSClient(w http.ResponseWriter, req *http.Request) {
	conn, err := server.upgrader.Upgrade(w, req, nil)
	if err != nil {
		server.log.Logf("WS upgrade err %s\n", err.Error())

		return
	}

	conn.SetReadLimit(server.MaxConnBytes)
	conn.EnableWriteCompression(true)
	conn.SetCompressionLevel(flate.BestCompression)

	client, err := server.addClient(conn)
	if err != nil {
		server.log.Logf("client %s: send new conn: %s\n", client.ID, err.Error())
		client.close(websocket.CloseInternalServerErr, "")

		return
	}
	server.log.Logf("client %s: => new conn from %s\n", client.ID, conn.RemoteAddr().String())

	cleanExit := false
	defer func() {
		server.removeClient(client)

		if r := recover(); r != nil {
			err := poker.PanicRetToError(r)
			server.log.Logf("client %s: BUG: recovered panic: %s\n", client.ID, err.Error())
			client.close(websocket.CloseInternalServerErr, "server error")

			return
		}

		if !cleanExit {
			server.log.Logf("client %s: unclean exit\n", client.ID)
		}

		server.log.Logf("client %s: <= closing conn to %s\n", client.ID, conn.RemoteAddr().String())
		client.close(websocket.CloseNormalClosure, "")
	}()

	stopPing := make(chan bool)
	defer close(stopPing)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stopPing:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					server.log.Logf("client %s: ping err: %s\n", client.ID, err.Error())
					return
				}
			}
		}
	}()

	var netData NetData

	for {
		_, rawData, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				server.log.Logf("client %s: readConn() err: %v\n", client.ID, err)
			} else {
				server.log.Logf("client %s: readConn() ws closed cleanly: %v\n", client.ID, err)
				cleanExit = true
			}

			return
		}

		if err := decodeNetData(rawData, &netData); err != nil {
			server.log.Logf("client %s: %s\n", client.ID, err.Error())
			client.Send(&NetData{Response: NetDataBadRequest, Msg: err.Error()})

			continue
		}

		server.log.Logf("client %s: recv %s (%d bytes)\n", client.ID, netData.String(), len(rawData))

		if netData.Request == NetDataClientExited || netData.Request == NetDataClose {
			cleanExit = true

			return
		}

		if err := server.handleWSRequest(client, &netData); err != nil {
			server.log.Logf("client %s: send: %s\n", client.ID, err.Error())

			return
		}
	}
}

// handleWSRequest applies a request from one client. Mutations reach the
// client through the broadcast in apply; reads and errors are answered
// directly.
func (server *Server) handleWSRequest(client *Client, netData *NetData) error {
	snap, err := server.apply(netData)
	if err != nil {
		resp := &NetData{
			Request:  netData.Request,
			Response: NetDataBadRequest,
			Msg:      err.Error(),
			Round:    &snap,
		}

		if errors.Is(err, ErrBadRequest) {
			resp.Round = nil
		}

		return client.Send(resp)
	}

	if !netData.Request.Mutates() {
		return client.Send(&NetData{Response: NetDataRound, Round: &snap})
	}

	return nil
}

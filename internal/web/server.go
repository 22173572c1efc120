// Package web serves a single local table over HTTP. Plain JSON endpoints
// drive the round and a websocket pushes a msgpack snapshot to every
// subscriber after each change.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/bkazemi/drawpoker/internal/logger"
	"github.com/bkazemi/drawpoker/internal/poker"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type Server struct {
	round *poker.Round
	log   *logger.Logger

	clients map[*Client]struct{}

	MaxConnBytes int64

	router *mux.Router

	http     *http.Server
	upgrader websocket.Upgrader

	sigChan chan os.Signal
	errChan chan error

	// guards round and clients
	mtx sync.Mutex
}

func NewServer(addr string, round *poker.Round, log *logger.Logger) *Server {
	const (
		MaxConnBytes = 10e3
		IdleTimeout  = 0
		ReadTimeout  = 0
	)

	if log == nil {
		log = logger.Discard()
	}

	router := mux.NewRouter()

	server := &Server{
		round: round,
		log:   log,

		clients: make(map[*Client]struct{}),

		MaxConnBytes: MaxConnBytes,

		errChan: make(chan error, 1),

		upgrader: websocket.Upgrader{
			EnableCompression: true,
			ReadBufferSize:    4096,
			WriteBufferSize:   4096,
		},

		router: router,

		http: &http.Server{
			Addr:        addr,
			IdleTimeout: IdleTimeout,
			ReadTimeout: ReadTimeout,
			Handler:     router,
		},

		sigChan: make(chan os.Signal, 1),
	}

	handleSelect := func(w http.ResponseWriter, req *http.Request) {
		pos, err := strconv.Atoi(mux.Vars(req)["pos"])
		if err != nil {
			server.writeError(w, &NetData{Request: NetDataToggleSelect},
				poker.ErrInvalidPosition)
			return
		}

		server.handleRequest(w, &NetData{Request: NetDataToggleSelect, Position: pos})
	}

	server.http.SetKeepAlivesEnabled(true)
	router.HandleFunc("/status", server.status).Methods("GET")
	router.HandleFunc("/round", server.requestHandler(NetDataRound)).Methods("GET")
	router.HandleFunc("/round/deal", server.requestHandler(NetDataDeal)).Methods("POST")
	router.HandleFunc("/round/select/{pos}", handleSelect).Methods("POST")
	router.HandleFunc("/round/draw", server.requestHandler(NetDataDraw)).Methods("POST")
	router.HandleFunc("/round/showdown", server.requestHandler(NetDataShowdown)).Methods("POST")
	router.HandleFunc("/round/ws", server.WSClient).Methods("GET")

	return server
}

func (server *Server) Handler() http.Handler {
	return server.router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	jsonBody, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode JSON", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonBody)
}

func (server *Server) status(w http.ResponseWriter, req *http.Request) {
	server.mtx.Lock()
	res := struct {
		Status  string      `json:"status"`
		Phase   poker.Phase `json:"phase"`
		Clients int         `json:"clients"`
	}{
		Status:  "running",
		Phase:   server.round.Phase(),
		Clients: len(server.clients),
	}
	server.mtx.Unlock()

	writeJSON(w, http.StatusOK, res)
}

// errToHTTPStatus maps engine errors onto HTTP status codes.
func errToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, poker.ErrInvalidPhase):
		return http.StatusConflict
	case errors.Is(err, poker.ErrInvalidPosition),
		errors.Is(err, poker.ErrTooManyReplacements),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func (server *Server) writeError(w http.ResponseWriter, netData *NetData, err error) {
	server.log.Logf("%s: %s\n", netData.Request, err.Error())

	writeJSON(w, errToHTTPStatus(err), struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	})
}

func (server *Server) requestHandler(action NetAction) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		server.handleRequest(w, &NetData{Request: action})
	}
}

func (server *Server) handleRequest(w http.ResponseWriter, netData *NetData) {
	snap, err := server.apply(netData)
	if err != nil {
		server.writeError(w, netData, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// apply runs one request against the round. Successful mutations are
// pushed to every websocket client before mtx is released, so clients see
// snapshots in the order they were applied.
func (server *Server) apply(netData *NetData) (poker.Snapshot, error) {
	server.mtx.Lock()
	defer server.mtx.Unlock()

	var (
		snap poker.Snapshot
		err  error
	)

	switch netData.Request {
	case NetDataRound:
		snap = server.round.Snapshot()
	case NetDataDeal:
		snap = server.round.StartRound()
	case NetDataToggleSelect:
		snap, err = server.round.ToggleSelect(netData.Position)
	case NetDataDraw:
		snap, err = server.round.Draw()
	case NetDataShowdown:
		_, err = server.round.Resolve()
		snap = server.round.Snapshot()
	default:
		snap = server.round.Snapshot()
		err = ErrBadRequest
	}

	if err != nil {
		return snap, err
	}

	if netData.Request.Mutates() {
		server.sendResponseToAll(&NetData{Response: NetDataRound, Round: &snap},
			server.clientList())
	}

	return snap, nil
}

// must hold server.mtx
func (server *Server) clientList() []*Client {
	clients := make([]*Client, 0, len(server.clients))
	for client := range server.clients {
		clients = append(clients, client)
	}

	return clients
}

func (server *Server) sendResponseToAll(netData *NetData, clients []*Client) {
	for _, client := range clients {
		if err := client.Send(netData); err != nil {
			server.log.Logf("client %s: send %s: %s\n", client.ID, netData, err.Error())
		}
	}
}

// addClient sends the current round to a new conn and subscribes it. Both
// happen under mtx so no push can arrive ahead of the first snapshot.
func (server *Server) addClient(conn *websocket.Conn) (*Client, error) {
	server.mtx.Lock()
	defer server.mtx.Unlock()

	client := NewClient(conn)
	snap := server.round.Snapshot()

	if err := client.Send(&NetData{Response: NetDataNewConn, Round: &snap}); err != nil {
		return client, err
	}
	server.clients[client] = struct{}{}

	return client, nil
}

func (server *Server) removeClient(client *Client) {
	server.mtx.Lock()
	defer server.mtx.Unlock()

	delete(server.clients, client)
}

func (server *Server) Run() error {
	server.log.Logf("starting server on %v\n", server.http.Addr)

	signal.Notify(server.sigChan, os.Interrupt)
	defer signal.Stop(server.sigChan)

	go func() {
		if err := server.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.errChan <- err
		}
	}()

	var runErr error

	select {
	case sig := <-server.sigChan:
		server.log.Logf("received signal: %s\n", sig.String())
	case runErr = <-server.errChan:
		server.log.Logf("irrecoverable server error: %s\n", runErr.Error())
	}

	server.mtx.Lock()
	clients := server.clientList()
	server.mtx.Unlock()

	server.sendResponseToAll(&NetData{Response: NetDataServerClosed}, clients)
	for _, client := range clients {
		client.close(websocket.CloseGoingAway, "server closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.http.Shutdown(ctx); err != nil {
		server.log.Logf("server.http.Shutdown(): %s\n", err.Error())
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

func (server *Server) Init() error {
	if server.round == nil {
		return errors.New("web: nil round")
	}

	return nil
}

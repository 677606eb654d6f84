package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"dla/calculator"
	"dla/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	defaults calculator.Config
}

func NewServer(addr string, upgrader websocket.Upgrader, defaults calculator.Config) *Server {
	return &Server{
		addr:     addr,
		upgrader: upgrader,
		defaults: defaults,
	}
}

// Handler routes /ws to the simulation feed and /metrics to prometheus.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	hub := NewHub(conn, s.defaults)
	defer close(hub.done)
	go hub.handleRequest()
	go hub.handleResponse()
	hub.logger.WithField("remote", r.RemoteAddr).Info("client connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				hub.logger.WithError(err).Warn("connection lost")
			} else {
				hub.logger.Info("client disconnected")
			}
			return
		}
		var msg model.Msg
		if err := json.Unmarshal(data, &msg); err != nil {
			hub.sendError(fmt.Errorf("bad message: %w", err))
			continue
		}
		hub.msg <- msg
	}
}

func (s *Server) Serve() error {
	log.WithField("addr", s.addr).Info("serving /ws and /metrics")
	return http.ListenAndServe(s.addr, s.Handler())
}

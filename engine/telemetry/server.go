// Package telemetry exposes a local websocket feed of frame metrics and
// optimizer events so external dashboards can watch a running session.
//
// Publish is called from the frame loop only. Each subscriber gets its own
// buffered send queue drained by a writer goroutine; a full queue drops the
// message instead of stalling the frame.
package telemetry

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DevonLowjamski/canopy/engine/perf"
	"github.com/DevonLowjamski/canopy/engine/schedule"
)

const sendQueueSize = 32

type perfMessage struct {
	Type string `json:"type"`
	perf.Snapshot
}

type stateMessage struct {
	Type string `json:"type"`
	Old  string `json:"old"`
	New  string `json:"new"`
	At   int64  `json:"at"`
}

type taskMessage struct {
	Type string `json:"type"`
	schedule.TaskResult
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	addr     string
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	subs    map[*subscriber]struct{}
	latest  []byte // last perf payload, sent to new subscribers
	dropped uint64

	srv *http.Server
}

func NewServer(addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:   addr,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subs: map[*subscriber]struct{}{},
	}
}

// Start serves the feed in the background. Returns immediately.
func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/snapshot", s.handleSnapshot)

	s.srv = &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		s.logger.Printf("telemetry listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("telemetry server: %v", err)
		}
	}()
}

// Stop closes the listener and every subscriber connection.
func (s *Server) Stop() {
	if s.srv != nil {
		_ = s.srv.Close()
	}
	s.mu.Lock()
	for sub := range s.subs {
		close(sub.send)
		delete(s.subs, sub)
	}
	s.mu.Unlock()
}

// Subscribers reports the current connection count.
func (s *Server) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Dropped reports messages discarded because a subscriber queue was full.
func (s *Server) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// PublishPerf broadcasts a frame snapshot.
func (s *Server) PublishPerf(snap perf.Snapshot) {
	s.publish(perfMessage{Type: "perf", Snapshot: snap}, true)
}

// PublishStateChange broadcasts a perf state transition.
func (s *Server) PublishStateChange(old, new string) {
	s.publish(stateMessage{Type: "perfState", Old: old, New: new, At: time.Now().UnixMilli()}, false)
}

// PublishTask broadcasts a completed optimization task result.
func (s *Server) PublishTask(res schedule.TaskResult) {
	s.publish(taskMessage{Type: "task", TaskResult: res}, false)
}

func (s *Server) publish(v any, remember bool) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Printf("telemetry marshal: %v", err)
		return
	}

	s.mu.Lock()
	if remember {
		s.latest = data
	}
	for sub := range s.subs {
		select {
		case sub.send <- data:
		default:
			s.dropped++
		}
	}
	s.mu.Unlock()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("telemetry upgrade: %v", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendQueueSize)}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	if len(s.latest) > 0 {
		sub.send <- s.latest
	}
	s.mu.Unlock()

	go s.writeLoop(sub)
	go s.readLoop(sub)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	data := s.latest
	s.mu.Unlock()
	if len(data) == 0 {
		http.Error(w, "no snapshot yet", http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// writeLoop is the single writer for a connection.
func (s *Server) writeLoop(sub *subscriber) {
	for data := range sub.send {
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(sub)
			return
		}
	}
	_ = sub.conn.Close()
}

// readLoop discards inbound frames and detects disconnects.
func (s *Server) readLoop(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			s.drop(sub)
			return
		}
	}
}

func (s *Server) drop(sub *subscriber) {
	s.mu.Lock()
	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.send)
	}
	s.mu.Unlock()
	_ = sub.conn.Close()
}

// Package ws publishes engine state to connected observers: a one-way
// websocket stream of effective parameters and color tokens, a diagnostics
// stream, and a plain health endpoint.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-hypercube/internal/diagnostics"
	"github.com/coreman2200/funtimes-hypercube/internal/engine"
)

// State is the broadcaster. It implements chroma.TokenSink and
// diagnostics.Reporter so the engine pushes into it directly.
type State struct {
	mu    sync.RWMutex
	coord *engine.Coordinator

	startTime time.Time
	frameID   uint64
	tokens    map[string]string
	lastPush  time.Time
	minPush   time.Duration

	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

// NewState wires a broadcaster over the coordinator. maxHz throttles the
// state stream; diagnostics are never throttled.
func NewState(coord *engine.Coordinator, maxHz int) *State {
	if maxHz <= 0 {
		maxHz = 30
	}
	s := &State{
		coord:       coord,
		startTime:   time.Now(),
		tokens:      map[string]string{},
		minPush:     time.Second / time.Duration(maxHz),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
	coord.OnChange(func(ev engine.Event) {
		s.Report(diagnostics.Infof("ENGINE."+string(ev.Kind), describe(ev)))
	})
	return s
}

func describe(ev engine.Event) string {
	switch ev.Kind {
	case engine.GeometryChanged:
		return "geometry: " + ev.Geometry
	case engine.ProjectionChanged:
		return "projection: " + ev.Projection
	case engine.BaseParamChanged:
		return "param: " + ev.Key
	case engine.PresetApplied:
		return "preset: " + ev.Preset
	}
	return string(ev.Kind)
}

// PushTokens stores this frame's color tokens for the next state push.
func (s *State) PushTokens(tokens map[string]string) {
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()
}

// Report broadcasts one diagnostic to every diag client.
func (s *State) Report(d diagnostics.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

// PushFrame broadcasts the current engine state, rate-limited. Call once per
// rendered frame; excess calls are dropped.
func (s *State) PushFrame() {
	s.mu.Lock()
	now := time.Now()
	if now.Sub(s.lastPush) < s.minPush {
		s.mu.Unlock()
		return
	}
	s.lastPush = now
	s.frameID++
	id := s.frameID
	tokens := s.tokens
	s.mu.Unlock()

	fam, _ := s.coord.Geometry()
	sig := s.coord.Signals()
	msg := map[string]any{
		"t":          now.UnixNano(),
		"frame_id":   id,
		"geometry":   fam,
		"projection": string(s.coord.Projection()),
		"pattern":    string(sig.Pattern),
		"effective":  s.coord.EffectiveParameters().ToPlain(),
		"tokens":     tokens,
	}
	b, _ := json.Marshal(msg)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write state frame")
		}
	}
}

// HandleStateWS upgrades and subscribes a state-stream client. The read side
// is drained only to notice the close.
func (s *State) HandleStateWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleDiagWS upgrades and subscribes a diagnostics client.
func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.diagClients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports uptime and the active scene identity.
func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	id := s.frameID
	s.mu.RUnlock()
	fam, _ := s.coord.Geometry()
	resp := map[string]any{
		"frame_id":   id,
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"geometry":   fam,
		"projection": string(s.coord.Projection()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Serve registers the handlers and runs an HTTP server on addr. Blocks.
func (s *State) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/state", s.HandleStateWS)
	mux.HandleFunc("/ws/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return http.ListenAndServe(addr, mux)
}

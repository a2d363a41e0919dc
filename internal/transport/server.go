// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pdiddy/deep-research/internal/session"
	"github.com/pdiddy/deep-research/internal/stream"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	defaultWriteTimeout = 10 * time.Second
	wsPongWait          = 60 * time.Second
	wsPingEvery         = (wsPongWait * 9) / 10
)

// Server is the update collector: it accepts frames over HTTP, journals
// them, and fans them out to websocket subscribers in arrival order.
type Server struct {
	cfg    types.ServerConfig
	logger *zap.Logger
	hub    *Hub

	mu      sync.Mutex
	journal *stream.Journal

	store  *session.Store // optional; nil means in-memory only
	server *http.Server

	upgrader websocket.Upgrader
}

// NewServer creates a collector. store may be nil to keep the journal in
// memory only.
func NewServer(cfg types.ServerConfig, store *session.Store, logger *zap.Logger) *Server {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		hub:     NewHub(cfg.SubscriberBuffer),
		journal: stream.NewJournal(),
		store:   store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/updates", s.handleIngest)
	r.Get("/ws", s.handleWS)
	r.Get("/session", s.handleSnapshot)
	r.Get("/health", s.handleHealth)
	return r
}

// Start runs the server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Router(),
	}
	s.logger.Info("starting collector", zap.String("addr", s.cfg.Listen))
	return s.server.ListenAndServe()
}

// Stop shuts the server down and drops all subscribers.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Ingest validates a frame, journals it, and broadcasts it. It is the
// single entry point for both the HTTP handler and in-process producers.
func (s *Server) Ingest(ctx context.Context, u types.StreamUpdate) error {
	s.mu.Lock()
	err := s.journal.Apply(u)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.Append(ctx, u); err != nil {
			return err
		}
	}

	s.hub.Broadcast(u)
	return nil
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}

	u, err := types.Decode[types.StreamUpdate](body)
	if err != nil {
		var ve *types.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "malformed JSON")
		}
		return
	}

	if err := s.Ingest(r.Context(), u); err != nil {
		s.logger.Error("ingest failed", zap.String("step_id", u.Data.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "journaling update")
		return
	}

	s.logger.Debug("update ingested",
		zap.String("step_id", u.Data.ID),
		zap.String("type", u.Data.Type),
		zap.String("status", string(u.Data.Status)))
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.journal.Snapshot()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error("writing snapshot", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleWS upgrades the connection and streams frames: first the current
// coalesced snapshot, then live updates as they arrive, preserving order.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	// Subscribe before taking the snapshot so no frame falls in between;
	// a frame delivered both ways is coalesced by the consumer's id rule.
	ch, cancel := s.hub.Subscribe()
	defer cancel()

	s.mu.Lock()
	snap := s.journal.Snapshot()
	s.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Discard inbound frames; the socket is one-way.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	writeFrame := func(u types.StreamUpdate) error {
		if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
		return conn.WriteJSON(u)
	}

	for _, d := range snap {
		if err := writeFrame(types.NewStreamUpdate(d)); err != nil {
			return
		}
	}

	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return
			}
			if err := writeFrame(u); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

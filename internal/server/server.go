// Package server exposes an inventory store over HTTP and a websocket so a
// browser front end can render it and send drag gestures.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Yizune/Inventory-Manager/internal/icons"
	"github.com/Yizune/Inventory-Manager/internal/inventory"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 16
)

// Config holds the optional parts of a [Server].
type Config struct {
	// AllowedOrigin is sent as Access-Control-Allow-Origin and accepted for
	// websocket upgrades. "*" allows any origin.
	AllowedOrigin string

	// Icons serves /icons/. Nil disables the route.
	Icons *icons.Resolver

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server handles inventory events from HTTP and websocket clients. Events are
// applied one at a time and every change is broadcast to all websocket
// connections.
type Server struct {
	store   *inventory.Store
	session *inventory.Session
	icons   *icons.Resolver
	origin  string
	logger  *log.Logger

	upgrader websocket.Upgrader

	// mu serialises events so broadcasts go out in commit order.
	mu sync.Mutex

	subsMu sync.Mutex
	subs   map[string]*subscriber
}

// New returns a server over store.
func New(store *inventory.Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		store:   store,
		session: inventory.NewSession(store),
		icons:   cfg.Icons,
		origin:  cfg.AllowedOrigin,
		logger:  logger,
		subs:    make(map[string]*subscriber),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/filter", s.handleFilter)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/drag/start", s.handleDragStart)
	mux.HandleFunc("POST /api/drag/end", s.handleDragEnd)
	mux.HandleFunc("GET /ws", s.handleWS)

	if s.icons != nil {
		mux.HandleFunc("GET /icons/{file}", s.handleIcon)
	}

	return s.cors(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.closeAll()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Printf("stopped")

	return nil
}

// state builds the current State. Callers hold s.mu.
func (s *Server) state() State {
	view := s.store.View(false)
	dragging, _ := s.session.Dragging()

	return State{
		Backpack: view.Backpack,
		Chest:    view.Chest,
		Filter:   view.Filter,
		Dragging: dragging,
	}
}

// Snapshot returns the current State.
func (s *Server) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (s *Server) dragStart(active string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Start(active)
	st := s.state()
	s.broadcast(st)

	return st
}

func (s *Server) dragEnd(ctx context.Context, active, over string) (Outcome, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.session.End(ctx, active, over)
	if err != nil {
		s.logger.Printf("drag end %s -> %q: %v", active, over, err)

		return Outcome{}, State{}, err
	}

	st := s.state()
	s.broadcast(st)

	return outcomeOf(out), st, nil
}

func (s *Server) setFilter(ctx context.Context, category, rarity *string) (State, error) {
	var (
		c   inventory.Category
		r   inventory.Rarity
		err error
	)

	if category != nil {
		c, err = inventory.ParseCategorySelector(*category)
		if err != nil {
			return State{}, err
		}
	}

	if rarity != nil {
		r, err = inventory.ParseRaritySelector(*rarity)
		if err != nil {
			return State{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if category != nil {
		err = s.store.SetCategoryFilter(ctx, c)
		if err != nil {
			return State{}, err
		}
	}

	if rarity != nil {
		err = s.store.SetRarityFilter(ctx, r)
		if err != nil {
			return State{}, err
		}
	}

	st := s.state()
	s.broadcast(st)

	return st, nil
}

func (s *Server) reset(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Cancel()

	err := s.store.Reset(ctx)
	if err != nil {
		return State{}, err
	}

	st := s.state()
	s.broadcast(st)

	return st, nil
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest

	if !decodeBody(w, r, &req) {
		return
	}

	st, err := s.setFilter(r.Context(), req.Category, req.Rarity)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	st, err := s.reset(r.Context())
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest

	if !decodeBody(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, s.dragStart(req.Active))
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	var req dragEndRequest

	if !decodeBody(w, r, &req) {
		return
	}

	out, st, err := s.dragEnd(r.Context(), req.Active, req.Over)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, dragEndResponse{Outcome: out, State: st})
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	ref, ok := strings.CutSuffix(r.PathValue("file"), ".png")
	if !ok {
		http.NotFound(w, r)

		return
	}

	size := 0

	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid size", http.StatusBadRequest)

			return
		}

		size = n
	}

	var buf bytes.Buffer

	err := s.icons.Render(&buf, ref, size)

	switch {
	case errors.Is(err, icons.ErrUnknownIcon):
		http.NotFound(w, r)
	case errors.Is(err, icons.ErrInvalidSize):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		s.logger.Printf("icon %s: %v", ref, err)
		http.Error(w, "cannot render icon", http.StatusInternalServerError)
	default:
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.origin == "*" || origin == s.origin {
		return true
	}

	// Same-origin pages are always allowed.
	host := origin
	if _, rest, ok := strings.Cut(origin, "://"); ok {
		host = rest
	}

	return host == r.Host
}

// decodeBody reads a JSON request body into v. An empty body leaves v zero.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)

		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, inventory.ErrInvalidCategory) || errors.Is(err, inventory.ErrInvalidRarity) {
		status = http.StatusBadRequest
	}

	writeJSON(w, status, serverMessage{Type: TypeError, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

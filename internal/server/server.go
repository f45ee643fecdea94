package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/neox5/emitbox/internal/emitter"
)

// Emitter accepts decoded events.
type Emitter interface {
	Emit(ev emitter.Event)
}

// Server accepts metric events over HTTP and hands them to an Emitter.
type Server struct {
	addr         string
	path         string
	maxBodyBytes int64
	emitter      Emitter
	server       *http.Server
}

// response is the body returned for an ingest request.
type response struct {
	Received int `json:"received"`
	Invalid  int `json:"invalid"`
}

// New creates an ingest server on host:port serving path.
func New(host string, port int, path string, maxBodyBytes int64, em Emitter) *Server {
	addr := net.JoinHostPort(host, fmt.Sprint(port))

	s := &Server{
		addr:         addr,
		path:         path,
		maxBodyBytes: maxBodyBytes,
		emitter:      em,
	}

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving the ingest and health endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleEvents)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := r.Body
	if s.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	}

	batch, err := decodeBatch(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		slog.Debug("rejecting event batch", "error", err)
		http.Error(w, fmt.Sprintf("invalid event batch: %v", err), http.StatusBadRequest)
		return
	}

	resp := response{Received: len(batch)}
	for _, raw := range batch {
		ev, err := toEvent(raw)
		if err != nil {
			resp.Invalid++
			slog.Debug("skipping invalid event", "error", err)
			continue
		}
		s.emitter.Emit(ev)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Start listens on the configured address and serves until ctx is cancelled.
// A listen failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting ingest server", "addr", s.addr, "path", s.path)
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down ingest server")
	return s.server.Shutdown(ctx)
}

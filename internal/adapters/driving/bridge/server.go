// Package bridge serves the analysis bridge over local HTTP so a browser
// extension, or any other page-side client, can ask for page analysis and
// read the focus session.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// DefaultPort is the first port tried when none is configured.
const DefaultPort = 7421

// maxMessageBytes bounds a request body; page text is capped well below it.
const maxMessageBytes = 1 << 20

// ErrMissingAnalyzer is returned when the analyzer is not provided.
var ErrMissingAnalyzer = errors.New("bridge: analyzer is required")

// Ports aggregates the driving ports served by the bridge.
type Ports struct {
	// Analyzer answers ANALYZE and GET_PAGE_TEXT messages.
	Analyzer driving.Analyzer

	// Session exposes and drives the focus session. Optional.
	Session driving.SessionService

	// Scanner is notified when the page side reports a listing change. Optional.
	Scanner driving.Scanner
}

// Server is the local HTTP bridge.
type Server struct {
	mu       sync.Mutex
	ports    Ports
	port     int
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a bridge server. If port is 0, a random available
// port is chosen on Start.
func NewServer(ports Ports, port int) (*Server, error) {
	if ports.Analyzer == nil {
		return nil, ErrMissingAnalyzer
	}
	return &Server{
		ports:   ports,
		port:    port,
		errChan: make(chan error, 1),
	}, nil
}

// Handler returns the bridge routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/messages", s.handleMessages)
	mux.HandleFunc("/v1/session", s.handleSession)
	mux.HandleFunc("/v1/listing/changed", s.handleListingChanged)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleStatusPage)
	return withCORS(mux)
}

// Start listens on 127.0.0.1 and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Analysis waits on the model, so writes get a generous bound.
		WriteTimeout: 2 * time.Minute,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// Wait blocks until ctx is done or the server fails.
func (s *Server) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-s.errChan:
		return err
	}
}

// Stop shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the base URL of the bridge.
func (s *Server) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", s.Port())
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var msg domain.Message
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", domain.ErrInvalidInput, err))
		return
	}

	logger.Debug("bridge: %s %s", msg.Type, msg.URL)
	writeJSON(w, http.StatusOK, s.ports.Analyzer.Handle(r.Context(), msg))
}

// sessionView is the JSON form of domain.SessionView.
type sessionView struct {
	State     domain.SessionState `json:"state"`
	Goal      string              `json:"goal"`
	FocusMode bool                `json:"focusMode"`
	EndAt     *int64              `json:"focusEndAt,omitempty"`
	Remaining string              `json:"remaining,omitempty"`
	Enforcing bool                `json:"enforcing"`
}

func toSessionView(v domain.SessionView) sessionView {
	out := sessionView{
		State:     v.State,
		Goal:      v.Goal,
		FocusMode: v.FocusMode,
		Remaining: v.Display(),
		Enforcing: v.Enforcing(),
	}
	if v.EndAt != nil {
		ms := v.EndAt.UnixMilli()
		out.EndAt = &ms
	}
	return out
}

// sessionUpdate is the body of POST /v1/session. Nil fields are unchanged.
type sessionUpdate struct {
	Goal      *string `json:"goal,omitempty"`
	FocusMode *bool   `json:"focusMode,omitempty"`
	Minutes   int     `json:"minutes,omitempty"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.ports.Session == nil {
		writeError(w, http.StatusNotFound, "session not available")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toSessionView(s.ports.Session.Snapshot()))
	case http.MethodPost:
		var upd sessionUpdate
		if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s: %v", domain.ErrInvalidInput, err))
			return
		}
		view, err := s.applySession(r.Context(), upd)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toSessionView(view))
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or POST required")
	}
}

func (s *Server) applySession(ctx context.Context, upd sessionUpdate) (domain.SessionView, error) {
	session := s.ports.Session
	switch {
	case upd.FocusMode != nil && *upd.FocusMode:
		goal := ""
		if upd.Goal != nil {
			goal = *upd.Goal
		}
		return session.Enable(ctx, goal, upd.Minutes)
	case upd.FocusMode != nil:
		if upd.Goal != nil {
			if _, err := session.SetGoal(ctx, *upd.Goal); err != nil {
				return session.Snapshot(), err
			}
		}
		return session.Disable(ctx)
	case upd.Goal != nil:
		return session.SetGoal(ctx, *upd.Goal)
	default:
		return session.Snapshot(), nil
	}
}

func (s *Server) handleListingChanged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.ports.Scanner != nil {
		s.ports.Scanner.Notify()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	title, message := "FocusCoach bridge is running", "No focus session."
	if s.ports.Session != nil {
		v := s.ports.Session.Snapshot()
		switch {
		case v.Enforcing() && v.Display() != "":
			message = fmt.Sprintf("Focusing on %q, %s left.", v.Goal, v.Display())
		case v.Enforcing():
			message = fmt.Sprintf("Focusing on %q.", v.Goal)
		case v.Goal != "":
			message = fmt.Sprintf("Goal: %q. Focus mode is off.", v.Goal)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, statusHTML(html.EscapeString(title), html.EscapeString(message)))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyGoal):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("bridge: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// withCORS lets extension pages call the bridge.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func statusHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>FocusCoach</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; font-weight: 600; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}

// Package web serves an HTTP control surface for one indicator
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"poppy/host/indicator"
)

// Controller is the part of indicator.Client the server needs
type Controller interface {
	SetLevel(ctx context.Context, level int) error
	EnterBootloader(ctx context.Context) error
	Status(ctx context.Context) (indicator.Status, error)
}

type ServerConfig struct {
	ListenAddr     string
	Verbose        bool
	RequestTimeout time.Duration
}

var DefaultServerConfig = ServerConfig{
	ListenAddr:     "localhost:3737",
	RequestTimeout: 2 * time.Second,
}

type Server struct {
	Config ServerConfig
	Device Controller

	router *mux.Router
}

// StatusResponse is the JSON body of GET /status
type StatusResponse struct {
	Report string `json:"report"`
	Level  int    `json:"level"`
	Booted bool   `json:"booted"`
	Error  string `json:"error,omitempty"`
}

// NewServer registers the routes for dev
func NewServer(cfg ServerConfig, dev Controller) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultServerConfig.RequestTimeout
	}
	srv := &Server{Config: cfg, Device: dev}

	verbose := cfg.Verbose
	srv.router = mux.NewRouter()

	// shh
	srv.router.Handle("/favicon.ico", http.HandlerFunc(NilHandler))

	srv.router.Handle("/level/{level:[0-9]+}",
		Logger(http.HandlerFunc(srv.SetLevel), "level", verbose)).
		Methods("POST")
	srv.router.Handle("/bootloader",
		Logger(http.HandlerFunc(srv.EnterBootloader), "bootloader", verbose)).
		Methods("POST")
	srv.router.Handle("/status",
		Logger(http.HandlerFunc(srv.Status), "status", verbose)).
		Methods("GET", "HEAD")
	return srv
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on Config.ListenAddr
func (s *Server) ListenAndServe() error {
	log.Printf("serving on http://%s", s.Config.ListenAddr)
	return http.ListenAndServe(s.Config.ListenAddr, s.router)
}

func (s *Server) SetLevel(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(mux.Vars(r)["level"])
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid level: %s", err), http.StatusBadRequest)
		return
	}
	if level > 0xFF {
		http.Error(w, fmt.Sprintf("level %d out of range 0..255", level), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.Config.RequestTimeout)
	defer cancel()
	if err := s.Device.SetLevel(ctx, level); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) EnterBootloader(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.Config.RequestTimeout)
	defer cancel()
	if err := s.Device.EnterBootloader(ctx); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.Config.RequestTimeout)
	defer cancel()

	st, err := s.Device.Status(ctx)
	resp := StatusResponse{
		Report: fmt.Sprintf("% x", st.Report[:]),
		Level:  st.Level,
		Booted: st.Booted,
	}
	code := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		code = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("error encoding status:", err)
	}
}

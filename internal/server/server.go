package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CaioPinho9/space-planner/internal/catalog"
	"github.com/CaioPinho9/space-planner/internal/predictor"
	"github.com/CaioPinho9/space-planner/internal/simulation"
	"github.com/CaioPinho9/space-planner/pkg/constants"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Controller is the part of the engine the HTTP surface drives.
type Controller interface {
	Start(req simulation.StartRequest) (bool, error)
	Stop()
	Save() error
	Reset() bool
	Status() simulation.Status
	Buy(name string) (bool, error)
	Buyable() []catalog.Listing
}

// ParameterLister exposes the fitted price curves.
type ParameterLister interface {
	Parameters() []predictor.Parameters
}

// Options tune the handler. Zero values select defaults.
type Options struct {
	MaxRequestSize int64
	StatusInterval time.Duration
	Version        string
	Parameters     ParameterLister
}

type handler struct {
	logger         *zap.Logger
	engine         Controller
	params         ParameterLister
	maxRequestSize int64
	statusInterval time.Duration
	version        string
	upgrader       websocket.Upgrader
}

// NewHandler constructs the HTTP handler that serves the simulation API.
func NewHandler(logger *zap.Logger, engine Controller, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = constants.DefaultMaxRequestSizeBytes
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = constants.DefaultStatusIntervalMillis * time.Millisecond
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:         logger,
		engine:         engine,
		params:         opts.Parameters,
		maxRequestSize: opts.MaxRequestSize,
		statusInterval: opts.StatusInterval,
		version:        trimmedVersion,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}

	mux := http.NewServeMux()

	// Simulation lifecycle
	mux.HandleFunc("/api/simulation/start", h.handleStart)
	mux.HandleFunc("/api/simulation/stop", h.handleStop)
	mux.HandleFunc("/api/simulation/save", h.handleSave)
	mux.HandleFunc("/api/simulation/reset", h.handleReset)
	mux.HandleFunc("/api/simulation/status", h.handleStatus)
	mux.HandleFunc("/api/simulation/stream", h.handleStream)

	// Canonical catalog
	mux.HandleFunc("/api/catalog/buyable", h.handleBuyable)
	mux.HandleFunc("/api/catalog/buy/{name}", h.handleBuy)

	mux.HandleFunc("/api/predictor/parameters", h.handleParameters)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

func (h *handler) handleStart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStart"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req simulation.StartRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid start request: %v", err), op)
		return
	}

	started, err := h.engine.Start(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, simulation.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}
	if !started {
		h.respondErrorWithOp(w, http.StatusBadRequest, "Simulation already running", op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Simulation started"})
}

func (h *handler) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.engine.Stop()
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Simulation stopped"})
}

func (h *handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if err := h.engine.Save(); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save: %v", err), "server.handleSave")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Saved"})
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if !h.engine.Reset() {
		h.writeJSON(w, http.StatusConflict, map[string]string{"message": "Stop the simulation before resetting"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Best result cleared"})
}

func (h *handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, h.engine.Status())
}

// handleStream pushes a status frame every interval until the client goes away.
func (h *handler) handleStream(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStream"
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("op", op), zap.Error(err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	id := uuid.NewString()
	logger := h.logger.With(zap.String("op", op), zap.String("stream", id))
	logger.Debug("status stream opened")

	// Reads only detect the close; clients send nothing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.statusInterval)
	defer ticker.Stop()

	for {
		if err := conn.WriteJSON(h.engine.Status()); err != nil {
			logger.Debug("status stream closed", zap.Error(err))
			return
		}
		select {
		case <-closed:
			logger.Debug("status stream closed by client")
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *handler) handleBuyable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, h.engine.Buyable())
}

func (h *handler) handleBuy(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBuy"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("name")
	bought, err := h.engine.Buy(name)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownItem) {
			h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	if !bought {
		h.writeJSON(w, http.StatusConflict, map[string]string{"message": fmt.Sprintf("%s is not buyable", name)})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Bought %s", name)})
}

func (h *handler) handleParameters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	params := []predictor.Parameters{}
	if h.params != nil {
		params = h.params.Parameters()
	}
	h.writeJSON(w, http.StatusOK, params)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

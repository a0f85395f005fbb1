package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bingeclub/bingeclub-engine/pkg/config"
)

// DebugHandler reports which configuration the process is running with.
// It only ever exposes presence booleans, never the values themselves.
type DebugHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewDebugHandler creates a new DebugHandler with the given configuration.
func NewDebugHandler(cfg *config.Config, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{cfg: cfg, logger: logger}
}

// RegisterRoutes registers the debug handler's routes on the given mux.
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/debug/config", h.Config)
}

// Config handles GET /api/debug/config requests.
func (h *DebugHandler) Config(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "OK",
		"environment": map[string]interface{}{
			"env":                 h.cfg.Env,
			"hasOMDbKey":          h.cfg.OMDb.APIKey != "",
			"hasDatabasePassword": h.cfg.Database.Password != "",
			"hasJWKSEndpoints":    len(h.cfg.Auth.JWKSEndpoints) > 0,
			"authVerification":    h.cfg.Auth.EnableVerification,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode debug response", zap.Error(err))
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

// HealthHandler reports whether transit data has been loaded.
type HealthHandler struct {
	Data *transit.Data
}

func (h *HealthHandler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.Data == nil || h.Data.NumStops() == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "error",
			"data":      "not loaded",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"stops":     h.Data.NumStops(),
		"timestamp": time.Now().UTC(),
	})
}

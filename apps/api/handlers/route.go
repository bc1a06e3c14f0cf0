package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/twtwtiwa05/korean-raptor/internal/audit"
	"github.com/twtwtiwa05/korean-raptor/internal/engine"
	"github.com/twtwtiwa05/korean-raptor/internal/itinerary"
	"github.com/twtwtiwa05/korean-raptor/internal/metrics"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

var validate = validator.New()

// routeQuery is the validated shape of GET /api/route's query
// parameters.
type routeQuery struct {
	FromLat      float64 `validate:"gte=-90,lte=90"`
	FromLon      float64 `validate:"gte=-180,lte=180"`
	ToLat        float64 `validate:"gte=-90,lte=90"`
	ToLon        float64 `validate:"gte=-180,lte=180"`
	DepartureSec int32   `validate:"gte=0"`
	MaxResults   int     `validate:"gte=0,lte=20"`
}

// RouteHandler serves the coordinate-to-coordinate and stop-to-stop
// routing endpoints.
type RouteHandler struct {
	Engine  *engine.Engine
	Metrics *metrics.Collector
	Audit   *audit.Sink // nil disables audit logging
}

// ServeRoute handles GET /api/route?fromLat=&fromLon=&toLat=&toLon=&departure=&maxResults=.
func (h *RouteHandler) ServeRoute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFromContext(r.Context())

	q := r.URL.Query()
	query := routeQuery{
		FromLat:      parseFloat(q.Get("fromLat")),
		FromLon:      parseFloat(q.Get("fromLon")),
		ToLat:        parseFloat(q.Get("toLat")),
		ToLon:        parseFloat(q.Get("toLon")),
		DepartureSec: int32(parseInt(q.Get("departure"))),
		MaxResults:   parseIntDefault(q.Get("maxResults"), 5),
	}
	if err := validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	result, err := h.Engine.Route(r.Context(), engine.Request{
		FromLat: query.FromLat, FromLon: query.FromLon,
		ToLat: query.ToLat, ToLon: query.ToLon,
		DepartureSec: query.DepartureSec,
		MaxResults:   query.MaxResults,
	})
	h.recordAndRespond(w, requestID, query, start, result, err)
}

// routeResponse is the JSON shape of a successful GET /api/route call.
// A routing failure is not a server error (§7): Diagnostic carries
// NoAccess/NoEgress/NoPath/Timeout alongside whatever itineraries were
// found, and the status code stays 200.
type routeResponse struct {
	Itineraries []itinerary.Itinerary `json:"itineraries"`
	Diagnostic  string                `json:"diagnostic,omitempty"`
}

func (h *RouteHandler) recordAndRespond(w http.ResponseWriter, requestID string, query routeQuery, start time.Time, result engine.Result, err error) {
	duration := time.Since(start)

	if err != nil {
		if h.Metrics != nil {
			h.Metrics.QueriesTotal.WithLabelValues("error").Inc()
			h.Metrics.QueryDuration.Observe(duration.Seconds())
		}
		h.logAudit(requestID, query, duration, 0, engine.DiagnosticOK, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := "ok"
	if result.Diagnostic != engine.DiagnosticOK {
		outcome = string(result.Diagnostic)
	}
	if h.Metrics != nil {
		h.Metrics.QueriesTotal.WithLabelValues(outcome).Inc()
		h.Metrics.QueryDuration.Observe(duration.Seconds())
		h.Metrics.ItinerariesFound.Observe(float64(len(result.Itineraries)))
	}
	h.logAudit(requestID, query, duration, len(result.Itineraries), result.Diagnostic, nil)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	json.NewEncoder(w).Encode(routeResponse{Itineraries: result.Itineraries, Diagnostic: string(result.Diagnostic)})
}

func (h *RouteHandler) logAudit(requestID string, query routeQuery, duration time.Duration, numResults int, diagnostic engine.Diagnostic, err error) {
	if h.Audit == nil {
		return
	}
	rec := audit.Record{
		RequestID:    requestID,
		FromLat:      query.FromLat,
		FromLon:      query.FromLon,
		ToLat:        query.ToLat,
		ToLon:        query.ToLon,
		DepartureSec: query.DepartureSec,
		NumResults:   numResults,
		DurationMs:   duration.Milliseconds(),
		TimedOut:     diagnostic == engine.DiagnosticTimeout,
		LoggedAt:     time.Now().UTC(),
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
	}
	h.Audit.Record(rec)
}

// stopRouteQuery is the validated shape of GET /api/route-by-stop.
type stopRouteQuery struct {
	FromStop     int32 `validate:"gte=0"`
	ToStop       int32 `validate:"gte=0"`
	DepartureSec int32 `validate:"gte=0"`
}

// ServeRouteByStop handles GET /api/route-by-stop?fromStop=&toStop=&departure=.
func (h *RouteHandler) ServeRouteByStop(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFromContext(r.Context())
	q := r.URL.Query()
	query := stopRouteQuery{
		FromStop:     int32(parseInt(q.Get("fromStop"))),
		ToStop:       int32(parseInt(q.Get("toStop"))),
		DepartureSec: int32(parseInt(q.Get("departure"))),
	}
	if err := validate.Struct(query); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	result, err := h.Engine.RouteByStop(r.Context(), engine.StopRequest{
		FromStop: transit.StopIndex(query.FromStop), ToStop: transit.StopIndex(query.ToStop), DepartureSec: query.DepartureSec,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-Id", requestID)
	json.NewEncoder(w).Encode(stopRouteResponse{Itinerary: result.Itinerary, Diagnostic: string(result.Diagnostic)})
}

// stopRouteResponse is the JSON shape of a successful
// GET /api/route-by-stop call; see routeResponse for the diagnostic
// convention.
type stopRouteResponse struct {
	Itinerary  itinerary.Itinerary `json:"itinerary"`
	Diagnostic string              `json:"diagnostic,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

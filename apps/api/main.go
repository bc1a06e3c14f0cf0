package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/twtwtiwa05/korean-raptor/apps/api/handlers"
	"github.com/twtwtiwa05/korean-raptor/internal/access"
	"github.com/twtwtiwa05/korean-raptor/internal/audit"
	"github.com/twtwtiwa05/korean-raptor/internal/config"
	"github.com/twtwtiwa05/korean-raptor/internal/engine"
	"github.com/twtwtiwa05/korean-raptor/internal/gtfsloader"
	"github.com/twtwtiwa05/korean-raptor/internal/metrics"
	"github.com/twtwtiwa05/korean-raptor/internal/osmloader"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

func main() {
	// Load .env files from repository root
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load("../../.env")
	_ = godotenv.Overload("../../.env.local") // Overload forces override of existing values

	cfg := config.Load()

	log.Printf("Loading GTFS feed: %s", cfg.GTFSZipPath)
	data, err := loadTransitData(cfg)
	if err != nil {
		log.Fatalf("Failed to load transit data: %v", err)
	}
	log.Printf("Loaded %d stops, %d patterns", data.NumStops(), data.NumPatterns())

	resolver := access.NewResolver(data, cfg.MaxAccessWalkMeters, cfg.WalkSpeedMPS, maxInt(cfg.MaxAccessStops, cfg.MaxEgressStops))
	if cfg.OSMPBFPath != "" {
		log.Printf("Loading OSM extract: %s", cfg.OSMPBFPath)
		graph, skipped, err := osmloader.Load(cfg.OSMPBFPath)
		if err != nil {
			log.Fatalf("Failed to load OSM extract: %v", err)
		}
		log.Printf("Loaded pedestrian graph (%d ways skipped for missing nodes)", skipped)
		resolver = resolver.WithStreetGraph(graph).WithCache(access.NewWalkCache(access.DefaultCacheSize))
	} else {
		log.Println("OSM_PBF_PATH not set, falling back to haversine access/egress estimates")
	}

	eng := engine.New(data, resolver, cfg)
	collector := metrics.NewCollector()

	var auditSink *audit.Sink
	if cfg.DatabaseURL != "" {
		s, err := audit.NewSink(cfg.DatabaseURL, 1000)
		if err != nil {
			log.Printf("audit sink disabled: %v", err)
		} else {
			auditSink = s
			defer auditSink.Close()
		}
	}

	routeHandler := &handlers.RouteHandler{Engine: eng, Metrics: collector, Audit: auditSink}
	healthHandler := &handlers.HealthHandler{Data: data}

	r := chi.NewRouter()
	r.Use(handlers.WithRequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.ServeHealth)
	r.Get("/metrics", collector.Handler().ServeHTTP)
	r.Get("/api/route", routeHandler.ServeRoute)
	r.Get("/api/route-by-stop", routeHandler.ServeRouteByStop)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("API server starting on :%s", port)
	log.Println("Routing endpoints:")
	log.Println("  GET /api/route?fromLat=&fromLon=&toLat=&toLon=&departure=&maxResults=")
	log.Println("  GET /api/route-by-stop?fromStop=&toStop=&departure=")
	log.Println("  GET /health")
	log.Println("  GET /metrics")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func loadTransitData(cfg *config.Config) (*transit.Data, error) {
	feed, warnings, err := gtfsloader.Load(cfg.GTFSZipPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Printf("gtfs: %s:%d: %s", w.File, w.Line, w.Message)
	}

	data, warnings, err := gtfsloader.Build(feed, cfg.MaxTransferDistanceMeters, cfg.WalkSpeedMPS)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Printf("gtfs: %s:%d: %s", w.File, w.Line, w.Message)
	}
	return data, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

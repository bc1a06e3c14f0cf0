// Package config reads the configuration keys recognized by the routing
// engine from environment variables, with the defaults specified for the
// engine's tuning parameters.
package config

import (
	"os"
	"strconv"
)

// Config holds every tuning parameter the engine recognizes.
type Config struct {
	MaxAccessWalkMeters        float64
	MaxEgressWalkMeters        float64
	MaxTransferDistanceMeters  float64
	WalkSpeedMPS               float64
	SearchWindowSeconds        int
	MaxAccessStops             int
	MaxEgressStops             int
	NumberOfAdditionalTransfers int
	AStarMaxIterations         int
	AStarMaxDistanceMeters     float64

	// Ambient / deployment keys, not part of the routing algorithm itself.
	Port            string
	MetricsAddr     string
	DatabaseURL     string
	SQLiteCachePath string

	// Data source paths consumed by the loader at startup.
	GTFSZipPath string
	OSMPBFPath  string
}

// Load reads configuration from environment variables, falling back to
// the defaults given in the engine's specification.
func Load() *Config {
	return &Config{
		MaxAccessWalkMeters:          getEnvFloat("MAX_ACCESS_WALK_METERS", 400),
		MaxEgressWalkMeters:          getEnvFloat("MAX_EGRESS_WALK_METERS", 400),
		MaxTransferDistanceMeters:    getEnvFloat("MAX_TRANSFER_DISTANCE_METERS", 500),
		WalkSpeedMPS:                 getEnvFloat("WALK_SPEED_MPS", 1.2),
		SearchWindowSeconds:          getEnvInt("SEARCH_WINDOW_SECONDS", 900),
		MaxAccessStops:               getEnvInt("MAX_ACCESS_STOPS", 5),
		MaxEgressStops:               getEnvInt("MAX_EGRESS_STOPS", 5),
		NumberOfAdditionalTransfers:  getEnvInt("NUMBER_OF_ADDITIONAL_TRANSFERS", 3),
		AStarMaxIterations:           getEnvInt("A_STAR_MAX_ITERATIONS", 15000),
		AStarMaxDistanceMeters:       getEnvFloat("A_STAR_MAX_DISTANCE_METERS", 500),

		Port:            getEnv("PORT", "8081"),
		MetricsAddr:     getEnv("METRICS_ADDR", ":9100"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLiteCachePath: getEnv("SQLITE_CACHE_PATH", ""),

		GTFSZipPath: getEnv("GTFS_ZIP_PATH", "../../data/gtfs.zip"),
		OSMPBFPath:  getEnv("OSM_PBF_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/twtwtiwa05/korean-raptor/internal/config"
	"github.com/twtwtiwa05/korean-raptor/internal/gtfsloader"
	"github.com/twtwtiwa05/korean-raptor/internal/manifest"
	"github.com/twtwtiwa05/korean-raptor/internal/osmloader"
	"github.com/twtwtiwa05/korean-raptor/internal/transit"
)

func main() {
	cfg := config.Load()

	gtfsPath := flag.String("gtfs", cfg.GTFSZipPath, "Path to GTFS zip archive")
	osmPath := flag.String("osm", cfg.OSMPBFPath, "Path to OSM PBF extract (optional)")
	manifestPath := flag.String("manifest-out", "", "If set, write the build manifest as JSON to this path")
	flag.Parse()

	started := time.Now()

	log.Printf("Loading GTFS feed: %s", *gtfsPath)
	feed, warnings, err := gtfsloader.Load(*gtfsPath)
	if err != nil {
		log.Fatalf("Failed to load GTFS feed: %v", err)
	}
	for _, w := range warnings {
		log.Printf("gtfs: %s:%d: %s", w.File, w.Line, w.Message)
	}

	data, buildWarnings, err := gtfsloader.Build(feed, cfg.MaxTransferDistanceMeters, cfg.WalkSpeedMPS)
	if err != nil {
		log.Fatalf("Failed to build transit data: %v", err)
	}
	for _, w := range buildWarnings {
		log.Printf("gtfs: %s:%d: %s", w.File, w.Line, w.Message)
	}
	log.Printf("Built transit data: %d stops, %d patterns", data.NumStops(), data.NumPatterns())

	m := manifest.BuildManifest{
		GTFSZipPath:  *gtfsPath,
		StopCount:    data.NumStops(),
		PatternCount: data.NumPatterns(),
		GTFSWarnings: len(warnings) + len(buildWarnings),
	}
	m.TripCount, m.TransferCount = countTripsAndTransfers(data)

	if *osmPath != "" {
		log.Printf("Loading OSM extract: %s", *osmPath)
		graph, skipped, err := osmloader.Load(*osmPath)
		if err != nil {
			log.Fatalf("Failed to load OSM extract: %v", err)
		}
		m.OSMPBFPath = *osmPath
		m.OSMNodeCount = graph.NumNodes()
		m.OSMEdgeCount = graph.NumEdges()
		m.OSMWaysSkipped = skipped
		log.Printf("Built street graph: %d nodes, %d edges (%d ways skipped)", graph.NumNodes(), graph.NumEdges(), skipped)
	}

	m.BuiltAt = time.Now().UTC()
	m.BuildDuration = time.Since(started)
	log.Printf("Build complete in %s", m.BuildDuration)

	if *manifestPath != "" {
		if err := writeManifest(*manifestPath, m); err != nil {
			log.Fatalf("Failed to write manifest: %v", err)
		}
		log.Printf("Wrote build manifest to %s", *manifestPath)
	}
}

func countTripsAndTransfers(data *transit.Data) (trips, transfers int) {
	for p := 0; p < data.NumPatterns(); p++ {
		trips += data.Timetable(transit.PatternIndex(p)).NumTrips()
	}
	for s := 0; s < data.NumStops(); s++ {
		transfers += len(data.TransfersFrom(transit.StopIndex(s)))
	}
	return trips, transfers
}

func writeManifest(path string, m manifest.BuildManifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

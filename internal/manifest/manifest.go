// Package manifest describes the summary record the loader emits after
// building transit.Data and streetgraph.Graph. apps/loader writes it as
// JSON when -manifest-out is set; the API's /health response and the
// audit sink do not read it.
package manifest

import "time"

// BuildManifest summarizes one loader run.
type BuildManifest struct {
	GTFSZipPath string `json:"gtfsZipPath"`
	OSMPBFPath  string `json:"osmPbfPath,omitempty"`

	StopCount     int `json:"stopCount"`
	PatternCount  int `json:"patternCount"`
	TripCount     int `json:"tripCount"`
	TransferCount int `json:"transferCount"`

	OSMNodeCount   int `json:"osmNodeCount,omitempty"`
	OSMEdgeCount   int `json:"osmEdgeCount,omitempty"`
	OSMWaysSkipped int `json:"osmWaysSkipped,omitempty"`

	GTFSWarnings int `json:"gtfsWarnings"`

	BuiltAt       time.Time     `json:"builtAt"`
	BuildDuration time.Duration `json:"buildDurationNs"`
}

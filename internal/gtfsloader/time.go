package gtfsloader

import (
	"fmt"
	"strconv"
	"strings"
)

// parseGTFSTime parses an HH:MM:SS time-of-day value into seconds since
// midnight. GTFS allows hours >= 24 to represent service continuing
// past midnight (invariant I4's NoTime sentinel is for absence, not
// this), so the value is not wrapped to a 24h range.
func parseGTFSTime(s string) (int32, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed minute in %q: %w", s, err)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed second in %q: %w", s, err)
	}
	if h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("negative time %q", s)
	}
	return int32(h*3600 + m*60 + sec), nil
}

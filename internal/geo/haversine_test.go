package geo

import "testing"

func TestHaversineZero(t *testing.T) {
	d := Haversine(37.5547, 126.9707, 37.5547, 126.9707)
	if d != 0 {
		t.Errorf("Haversine(same point) = %f, want 0", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Seoul Station to Gangnam Station, roughly 10km.
	d := Haversine(37.5547, 126.9707, 37.4979, 127.0276)
	if d < 6000 || d > 12000 {
		t.Errorf("Haversine(Seoul Station, Gangnam) = %f, want roughly 6000-12000m", d)
	}
}

func TestSecondsForDistanceRoundsUp(t *testing.T) {
	if got := SecondsForDistance(121, 1.2); got != 101 {
		t.Errorf("SecondsForDistance(121, 1.2) = %d, want 101", got)
	}
	if got := SecondsForDistance(120, 1.2); got != 100 {
		t.Errorf("SecondsForDistance(120, 1.2) = %d, want 100", got)
	}
}

func TestSecondsForDistanceDefaultSpeed(t *testing.T) {
	if got := SecondsForDistance(120, 0); got != 100 {
		t.Errorf("SecondsForDistance with zero speed should fall back to 1.2 m/s, got %d", got)
	}
}

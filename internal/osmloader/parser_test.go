package osmloader

import (
	"testing"

	"github.com/paulmach/osm"
)

func tags(kv ...string) osm.Tags {
	var t osm.Tags
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

func TestWalkableClassAcceptsFootway(t *testing.T) {
	class, ok := walkableClass(tags("highway", "footway"))
	if !ok || class != "footway" {
		t.Errorf("walkableClass = %q/%v, want footway/true", class, ok)
	}
}

func TestWalkableClassRejectsMotorway(t *testing.T) {
	_, ok := walkableClass(tags("highway", "motorway"))
	if ok {
		t.Error("motorway should not be walkable")
	}
}

func TestWalkableClassRejectsNoFootAccess(t *testing.T) {
	_, ok := walkableClass(tags("highway", "residential", "foot", "no"))
	if ok {
		t.Error("foot=no should override an otherwise-walkable highway")
	}
}

func TestWalkableClassRejectsPrivateAccessUnlessFootDesignated(t *testing.T) {
	_, ok := walkableClass(tags("highway", "service", "access", "private"))
	if ok {
		t.Error("access=private should reject without foot=yes/designated")
	}

	class, ok := walkableClass(tags("highway", "service", "access", "private", "foot", "designated"))
	if !ok || class != "service" {
		t.Errorf("foot=designated should override access=private, got %q/%v", class, ok)
	}
}

func TestWalkableClassMissingHighwayTag(t *testing.T) {
	_, ok := walkableClass(tags("name", "some way"))
	if ok {
		t.Error("a way with no highway tag is never walkable")
	}
}

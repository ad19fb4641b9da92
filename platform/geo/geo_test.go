package geo

import "testing"

func TestDistanceMetersZeroForSamePoint(t *testing.T) {
	d := DistanceMeters(52.370216, 4.895168, 52.370216, 4.895168)
	if d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestDistanceMetersKnownDistance(t *testing.T) {
	// Amsterdam Centraal to Dam Square is roughly 1.1 km.
	d := DistanceMeters(52.379189, 4.899431, 52.373058, 4.892557)
	if d < 700 || d > 1300 {
		t.Fatalf("expected roughly 0.8-1.2km, got %f m", d)
	}
}

func TestWithinRadius(t *testing.T) {
	if !WithinRadius(52.379189, 4.899431, 52.379200, 4.899440, 50) {
		t.Fatalf("expected nearby point to be inside 50m radius")
	}
	if WithinRadius(52.379189, 4.899431, 52.373058, 4.892557, 100) {
		t.Fatalf("expected 1km away point to be outside 100m radius")
	}
}

package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Paris to London is roughly 344 km great-circle.
	d := Haversine(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 344, d, 3)
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	assert.Zero(t, Haversine(40.0, -70.0, 40.0, -70.0))
}

func TestHaversineSymmetry(t *testing.T) {
	a := Haversine(35.6762, 139.6503, 37.5665, 126.978)
	b := Haversine(37.5665, 126.978, 35.6762, 139.6503)
	assert.InDelta(t, a, b, 1e-9)
}

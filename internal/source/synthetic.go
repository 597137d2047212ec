package source

import (
	"math/rand"

	"github.com/miradorstack/enginewatch/internal/models"
)

const (
	// DefaultSeed makes the synthetic day reproducible.
	DefaultSeed = 42
	// DefaultPoints is one sample per simulated hour.
	DefaultPoints = 24
)

// Synthetic generates a simulated day of engine telemetry: RPM around
// 2500±200 with a spike over hours 5-7 and a drop over hours 15-17, and
// temperature around 85±12 °C.
func Synthetic(seed int64, points int) []models.Sample {
	if points <= 0 {
		points = DefaultPoints
	}
	rng := rand.New(rand.NewSource(seed))
	normal := func(mean, stdDev float64) float64 {
		return rng.NormFloat64()*stdDev + mean
	}

	rpm := make([]float64, points)
	for i := range rpm {
		rpm[i] = normal(2500, 200)
	}
	for i := 5; i < 8 && i < points; i++ {
		rpm[i] += normal(400, 100)
	}
	for i := 15; i < 18 && i < points; i++ {
		rpm[i] -= normal(300, 80)
	}

	samples := make([]models.Sample, points)
	for i := range samples {
		samples[i] = models.Sample{
			TimeIndex:   float64(i),
			RPM:         rpm[i],
			Temperature: normal(85, 12),
		}
	}
	return samples
}

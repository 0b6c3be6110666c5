package running

import (
	"math"
	"time"

	"github.com/Temutjin2k/running-app/internal/domain/models"
)

const EarthRadiusKm = 6371.0

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// HaversineDistance calculates the great-circle distance in kilometers between two points.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := degreesToRadians(lon2 - lon1)

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Pow(math.Sin(deltaLon/2), 2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// pathDistance sums the distance between consecutive positions of path.
func pathDistance(path []models.Position) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		total += HaversineDistance(prev.Lat(), prev.Lon(), cur.Lat(), cur.Lon())
	}
	return total
}

// deriveSummary builds a summary from line geometries. It returns nil when
// they hold fewer than two positions in total.
func deriveSummary(geometries []models.DecodedGeometry, startedAt, endedAt *time.Time) *models.SessionSummary {
	var (
		distance   float64
		linePoints int
		points     int
	)
	for _, g := range geometries {
		points += g.PositionCount()
		if !g.IsLine() {
			continue
		}
		for _, path := range g.Paths {
			linePoints += len(path)
			distance += pathDistance(path)
		}
	}
	if linePoints < 2 {
		return nil
	}

	summary := &models.SessionSummary{
		DistanceKm: round(distance, 3),
		PointCount: points,
		StartedAt:  startedAt,
		EndedAt:    endedAt,
	}

	if startedAt != nil && endedAt != nil {
		summary.DurationSeconds = int64(endedAt.Sub(*startedAt).Seconds())
	}
	fillRates(summary)

	return summary
}

// fillRates computes pace and speed from distance and duration when both are positive.
func fillRates(s *models.SessionSummary) {
	if s.DistanceKm <= 0 || s.DurationSeconds <= 0 {
		return
	}
	seconds := float64(s.DurationSeconds)
	s.AvgPaceSecPerKm = round(seconds/s.DistanceKm, 1)
	s.AvgSpeedKmh = round(s.DistanceKm/(seconds/3600), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

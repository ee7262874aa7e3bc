package analytics

import (
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// HourBucket is one hour of a trailing-24-hour histogram.
type HourBucket struct {
	Hour  time.Time `json:"hour"`
	Name  string    `json:"name"`
	Count int       `json:"count"`
}

// ScansPerHour counts flattened scan timestamps into the 24 hours ending at
// the hour containing now.
func ScansPerHour(scans []models.Scan, now time.Time, loc *time.Location) []HourBucket {
	return hourly(scans, now, location(loc))
}

// ErrorsPerHour is ScansPerHour restricted to failed scans.
func ErrorsPerHour(scans []models.Scan, now time.Time, loc *time.Location) []HourBucket {
	failed := make([]models.Scan, 0, len(scans))
	for _, s := range scans {
		if s.Error {
			failed = append(failed, s)
		}
	}
	return hourly(failed, now, location(loc))
}

func hourly(scans []models.Scan, now time.Time, loc *time.Location) []HourBucket {
	current := truncateHour(now, loc)
	buckets := make([]HourBucket, 24)
	index := make(map[int64]int, 24)
	for i := range buckets {
		h := current.Add(-time.Duration(23-i) * time.Hour)
		buckets[i] = HourBucket{Hour: h, Name: HourLabel(h.Hour())}
		index[h.Unix()] = i
	}

	// Matching is on the exact truncated instant; anything else is dropped.
	for _, t := range flatten(scans, loc) {
		if i, ok := index[truncateHour(t, loc).Unix()]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// HourOfDayBucket counts timestamps by hour of day across all dates.
type HourOfDayBucket struct {
	Hour  int    `json:"hour"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HourOfDay buckets every flattened timestamp by its hour in loc.
func HourOfDay(scans []models.Scan, loc *time.Location) []HourOfDayBucket {
	loc = location(loc)
	buckets := make([]HourOfDayBucket, 24)
	for h := range buckets {
		buckets[h] = HourOfDayBucket{Hour: h, Name: HourLabel(h)}
	}
	for _, t := range flatten(scans, loc) {
		buckets[t.In(loc).Hour()].Count++
	}
	return buckets
}

// PositiveTrend reports whether the second half of the series holds at least
// as many events as the first half.
func PositiveTrend(buckets []HourBucket) bool {
	mid := len(buckets) / 2
	first, second := 0, 0
	for i, b := range buckets {
		if i < mid {
			first += b.Count
		} else {
			second += b.Count
		}
	}
	return second >= first
}

package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// LightSummary is one row of the lights table.
type LightSummary struct {
	ID          string `json:"id"`
	LightID     string `json:"lightId"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	ScanCount   int    `json:"scanCount"`
	ErrorRate   string `json:"errorRate"`
	AvgLatency  string `json:"avgLatency"`
	LastScanned string `json:"lastScanned"`
}

// LightSummaries builds one row per light from the scans that reference its
// internal id. Scans pointing at unknown lights are ignored.
func LightSummaries(lights []models.Light, scans []models.Scan, now time.Time, loc *time.Location) []LightSummary {
	loc = location(loc)
	byLight := make(map[string][]models.Scan, len(lights))
	for _, s := range scans {
		byLight[s.LightID] = append(byLight[s.LightID], s)
	}

	out := make([]LightSummary, 0, len(lights))
	for _, l := range lights {
		own := byLight[l.ID]
		row := LightSummary{
			ID:          l.ID,
			LightID:     l.LightID,
			Name:        l.Name,
			Color:       models.Color(l.Name),
			ScanCount:   len(own),
			ErrorRate:   "0%",
			AvgLatency:  "0ms",
			LastScanned: "Never",
		}
		if len(own) > 0 {
			errs, sum := 0, 0.0
			for _, s := range own {
				if s.Error {
					errs++
				}
				sum += s.Latency
			}
			row.ErrorRate = fmt.Sprintf("%.1f%%", 100*float64(errs)/float64(len(own)))
			row.AvgLatency = fmt.Sprintf("%dms", int(math.Round(sum/float64(len(own)))))
			if last, ok := mostRecent(own, loc); ok {
				row.LastScanned = Since(last, now)
			}
		}
		out = append(out, row)
	}
	return out
}

func mostRecent(scans []models.Scan, loc *time.Location) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, t := range flatten(scans, loc) {
		if !found || t.After(latest) {
			latest, found = t, true
		}
	}
	return latest, found
}

// Since renders the time elapsed from t to now as "Just now", "{N}h" or
// "{N}d", truncating to whole hours and days.
func Since(t, now time.Time) string {
	hours := int64(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dd", hours/24)
	}
}

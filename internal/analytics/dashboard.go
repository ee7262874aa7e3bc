package analytics

import (
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// Snapshot is the input of every dashboard computation.
type Snapshot struct {
	Lights []models.Light
	Scans  []models.Scan
}

// Dashboard bundles every derived view for one render.
type Dashboard struct {
	GeneratedAt   time.Time         `json:"generatedAt"`
	Summary       Summary           `json:"summary"`
	Lights        []LightSummary    `json:"lights"`
	ScansPerHour  []HourBucket      `json:"scansPerHour"`
	ErrorsPerHour []HourBucket      `json:"errorsPerHour"`
	HourOfDay     []HourOfDayBucket `json:"hourOfDay"`
	Percentiles   []Percentile      `json:"latencyPercentiles"`
	Outcomes      []Slice           `json:"outcomes"`
	Sparkline     Sparkline         `json:"sparkline"`
}

// BuildDashboard computes every view from snap as of now.
func BuildDashboard(snap Snapshot, now time.Time, loc *time.Location) Dashboard {
	loc = location(loc)
	return Dashboard{
		GeneratedAt:   now.UTC(),
		Summary:       Summarize(snap.Lights, snap.Scans),
		Lights:        LightSummaries(snap.Lights, snap.Scans, now, loc),
		ScansPerHour:  ScansPerHour(snap.Scans, now, loc),
		ErrorsPerHour: ErrorsPerHour(snap.Scans, now, loc),
		HourOfDay:     HourOfDay(snap.Scans, loc),
		Percentiles:   LatencyPercentiles(snap.Scans),
		Outcomes:      Outcomes(snap.Scans),
		Sparkline:     BuildSparkline(snap.Scans, now, loc),
	}
}

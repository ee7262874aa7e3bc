package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// Chart colours shared by the outcome split and the sparkline.
const (
	ColorSuccess = "#22c55e"
	ColorError   = "#dc2626"
)

var percentileRanks = []int{50, 90, 95, 99}

// Percentile is one row of the latency table.
type Percentile struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// LatencyPercentiles returns p50, p90, p95 and p99 using the nearest-rank
// index ceil(p/100*n)-1. No scans means an empty table.
func LatencyPercentiles(scans []models.Scan) []Percentile {
	out := []Percentile{}
	if len(scans) == 0 {
		return out
	}
	values := make([]float64, len(scans))
	for i, s := range scans {
		values[i] = s.Latency
	}
	sort.Float64s(values)

	n := len(values)
	for _, p := range percentileRanks {
		idx := int(math.Ceil(float64(p)/100*float64(n))) - 1
		idx = max(0, min(idx, n-1))
		out = append(out, Percentile{Name: fmt.Sprintf("p%d", p), Value: values[idx]})
	}
	return out
}

// Slice is one segment of a proportion chart.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Outcomes splits scans into successful and failed.
func Outcomes(scans []models.Scan) []Slice {
	ok, failed := 0, 0
	for _, s := range scans {
		if s.Error {
			failed++
		} else {
			ok++
		}
	}
	return []Slice{
		{Name: "Success", Value: ok, Color: ColorSuccess},
		{Name: "Error", Value: failed, Color: ColorError},
	}
}

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	LightCount       int    `json:"lightCount"`
	TotalScans       int    `json:"totalScans"`
	ErrorRate        string `json:"errorRate"`
	AvgLatency       int    `json:"avgLatency"`
	AvgScansPerLight int    `json:"avgScansPerLight"`
}

// Summarize computes the KPI summary over all scans.
func Summarize(lights []models.Light, scans []models.Scan) Summary {
	s := Summary{
		LightCount: len(lights),
		TotalScans: len(scans),
		ErrorRate:  "0",
	}
	if len(scans) > 0 {
		errs, sum := 0, 0.0
		for _, sc := range scans {
			if sc.Error {
				errs++
			}
			sum += sc.Latency
		}
		s.ErrorRate = fmt.Sprintf("%.1f", 100*float64(errs)/float64(len(scans)))
		s.AvgLatency = int(math.Round(sum / float64(len(scans))))
	}
	if len(lights) > 0 {
		s.AvgScansPerLight = int(math.Round(float64(len(scans)) / float64(len(lights))))
	}
	return s
}

// Sparkline is the compact 24-hour scan chart shown next to the totals.
type Sparkline struct {
	Total      int          `json:"total"`
	TotalLabel string       `json:"totalLabel"`
	Positive   bool         `json:"positive"`
	Color      string       `json:"color"`
	Buckets    []HourBucket `json:"buckets"`
}

// BuildSparkline summarizes the trailing-24-hour scan histogram.
func BuildSparkline(scans []models.Scan, now time.Time, loc *time.Location) Sparkline {
	buckets := ScansPerHour(scans, now, loc)
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	sp := Sparkline{
		Total:      total,
		TotalLabel: FormatCount(total),
		Positive:   PositiveTrend(buckets),
		Buckets:    buckets,
	}
	sp.Color = ColorError
	if sp.Positive {
		sp.Color = ColorSuccess
	}
	return sp
}

// FormatCount abbreviates counts of a thousand or more: 1234 -> "1.2k".
func FormatCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

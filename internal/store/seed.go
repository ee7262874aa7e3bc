package store

import (
	"context"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// SeedResult reports how many rows Seed created.
type SeedResult struct {
	LightsCreated int `json:"lightsCreated"`
	ScansCreated  int `json:"scansCreated"`
}

type seedLight struct {
	lightID string
	name    string
	scans   []models.NewScan
}

var sampleData = []seedLight{
	{
		lightID: "LGT-1A2B3C",
		name:    "DPIT Information System - Light 1",
		scans: []models.NewScan{
			{Date: []string{"2024-01-15T10:30:00Z", "2024-01-15T14:22:00Z"}, Latency: 120},
			{Date: []string{"2024-01-16T09:15:00Z"}, Latency: 95},
		},
	},
	{
		lightID: "LGT-4D5E6F",
		name:    "DPIT Information System - Light 2",
		scans: []models.NewScan{
			{Date: []string{"2024-01-15T11:00:00Z"}, Latency: 250, Error: true},
			{Date: []string{"2024-01-16T10:30:00Z", "2024-01-16T15:45:00Z"}, Latency: 88},
		},
	},
	{
		lightID: "LGT-7G8H9I",
		name:    "Navigation System - Light 1",
		scans: []models.NewScan{
			{Date: []string{"2024-01-15T08:00:00Z"}, Latency: 110},
		},
	},
}

// Seed clears st and loads the sample lights and scans.
func Seed(ctx context.Context, st Store) (SeedResult, error) {
	var res SeedResult
	if err := st.Reset(ctx); err != nil {
		return res, err
	}
	for _, sl := range sampleData {
		id, err := st.AddLight(ctx, sl.lightID, sl.name)
		if err != nil {
			return res, err
		}
		res.LightsCreated++
		for _, sc := range sl.scans {
			sc.LightID = id
			if _, err := st.AddScan(ctx, sc); err != nil {
				return res, err
			}
			res.ScansCreated++
		}
	}
	return res, nil
}

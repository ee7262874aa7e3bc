package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Scan is one stored measurement against a light. LightID references the
// light's internal ID, not its human-facing identifier.
type Scan struct {
	ID        string    `json:"id"`
	LightID   string    `json:"lightId"`
	Date      Dates     `json:"date"`
	Latency   float64   `json:"latency"`
	Error     bool      `json:"error"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewScan is the insert shape for a scan.
type NewScan struct {
	LightID string
	Date    []string
	Latency float64
	Error   bool
}

// ScanIngestResponse is returned by POST /api/scans on success.
type ScanIngestResponse struct {
	Success bool   `json:"success"`
	ScanID  string `json:"scanId"`
	Message string `json:"message"`
}

// Dates is the timestamp list of a scan. Older records stored a bare string,
// so decoding accepts either a string or an array of strings.
type Dates []string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dates) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*d = list
		return nil
	}
	var single string
	if err := json.Unmarshal(b, &single); err != nil {
		return errors.New("date must be a string or an array of strings")
	}
	*d = Dates{single}
	return nil
}

// MarshalJSON always emits an array, never null.
func (d Dates) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

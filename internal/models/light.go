package models

import (
	"strings"
	"time"
)

// Light is a registered device. ID is store-assigned; LightID is the
// human-facing identifier devices report with.
type Light struct {
	ID        string    `json:"id"`
	LightID   string    `json:"lightId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLightRequest is the POST /api/lights payload. Both fields are optional.
type CreateLightRequest struct {
	LightID string `json:"lightId"`
	Name    string `json:"name"`
}

// lightColors is checked in order; the first keyword found in the name wins.
var lightColors = []string{"red", "blue", "green", "yellow", "white"}

// Color derives the display colour of a light from its name.
func Color(name string) string {
	lower := strings.ToLower(name)
	for _, c := range lightColors {
		if strings.Contains(lower, c) {
			return c
		}
	}
	return "blue"
}

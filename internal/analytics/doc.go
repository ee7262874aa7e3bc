// Package analytics derives dashboard views from a snapshot of lights and
// scans. Every function is pure: the current time and the display location
// are parameters, inputs are never modified, and empty input yields
// zero-valued output.
package analytics

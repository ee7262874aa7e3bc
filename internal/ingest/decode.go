package ingest

import (
	"encoding/json"
	"time"
)

// isoMillis matches the timestamp shape devices send (UTC, millisecond precision).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Submission is a validated scan payload whose light is not yet resolved.
type Submission struct {
	LightID string
	Date    []string
	Latency float64
	Error   bool
}

// Decode validates a raw scan payload. Checks run in a fixed order and the
// first failure is returned. When date is omitted it defaults to now.
func Decode(payload []byte, now time.Time) (Submission, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return Submission{}, newError(KindInvalidType, MsgInvalidPayload)
	}

	var sub Submission

	lightID, ok := decodeAny(fields["lightId"]).(string)
	if !ok || lightID == "" {
		return Submission{}, newError(KindMissingField, MsgLightIDRequired)
	}
	sub.LightID = lightID

	if raw, present := fields["date"]; present {
		dates, ok := stringList(decodeAny(raw))
		if !ok {
			return Submission{}, newError(KindInvalidType, MsgDateType)
		}
		sub.Date = dates
	} else {
		sub.Date = []string{now.UTC().Format(isoMillis)}
	}

	latency, ok := decodeAny(fields["latency"]).(float64)
	if !ok {
		return Submission{}, newError(KindInvalidType, MsgLatencyType)
	}
	sub.Latency = latency

	failed, ok := decodeAny(fields["error"]).(bool)
	if !ok {
		return Submission{}, newError(KindInvalidType, MsgErrorType)
	}
	sub.Error = failed

	return sub, nil
}

// decodeAny returns nil for absent or undecodable values.
func decodeAny(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

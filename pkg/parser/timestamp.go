package parser

import "time"

// timestampLayouts are the known timestamp layouts, tried in order. The
// list mirrors the formats seen across supported log types.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05Z07:00",
	"02/Jan/2006:15:04:05 -0700",
	"Jan _2 15:04:05",
	"20060102 15:04:05",
}

// NormalizeTimestamp parses a timestamp string against the known layouts,
// trying hint first when non-empty. All results are made timezone-naive by
// discarding any offset and keeping the wall-clock reading, so timestamps
// from different formats compare consistently. Returns the zero time when
// no layout matches.
func NormalizeTimestamp(value string, hint string) time.Time {
	layouts := timestampLayouts
	if hint != "" {
		layouts = append([]string{hint}, timestampLayouts...)
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return stripZone(t)
	}
	return time.Time{}
}

// stripZone drops the timezone from t, keeping the wall-clock reading.
func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

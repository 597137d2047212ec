package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the zone alert timestamps are rendered in.
const DefaultTimezone = "America/Monterrey"

// LoadLocation resolves an IANA zone name; empty means DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// AlertStamp returns the long date and wall-clock strings for t in loc.
func AlertStamp(t time.Time, loc *time.Location) (string, string) {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("Monday, 02 January 2006"), t.Format("15:04:05")
}

// SimulatedHour maps a sample time index onto an hour of day.
func SimulatedHour(timeIndex float64) int {
	hour := int(math.Floor(timeIndex)) % 24
	if hour < 0 {
		hour += 24
	}
	return hour
}

package model

import "time"

// UsageReport is a point-in-time snapshot of the metric counters, used by the
// owner report and the export command.
type UsageReport struct {
	GeneratedAt time.Time
	Counters    map[string]int64
	Daily       map[int64]int64
}

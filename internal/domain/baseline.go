// Package domain defines the types and pure calculations for the training
// plan engine: biometric baselines, training zones, workout structures,
// periodization math, and the repository contracts the engine persists
// through.
package domain

import (
	"math"
	"time"
)

// Baselines holds an athlete's physiological reference values. Each field is
// optional; a missing value means the corresponding test has not been
// recorded yet. Rows are append-only; the most recent recording is
// authoritative.
type Baselines struct {
	AthleteID         string
	CriticalSwimSpeed *float64 // seconds per 100m
	ThresholdRunPace  *int     // seconds per mile
	FTP               *int     // watts
	MaxHeartRate      *int     // bpm
	RestingHeartRate  *int     // bpm
	RecordedAt        time.Time
}

// HasSwim reports whether a swim baseline is recorded.
func (b *Baselines) HasSwim() bool { return b != nil && b.CriticalSwimSpeed != nil }

// HasRun reports whether a run baseline is recorded.
func (b *Baselines) HasRun() bool { return b != nil && b.ThresholdRunPace != nil }

// HasBike reports whether a bike baseline is recorded.
func (b *Baselines) HasBike() bool { return b != nil && b.FTP != nil }

// Complete reports whether all three sport baselines are present.
func (b *Baselines) Complete() bool { return b.HasSwim() && b.HasRun() && b.HasBike() }

// CalculateCSS derives critical swim speed (sec/100m) from a 400m time trial.
func CalculateCSS(time400Sec float64) float64 {
	return time400Sec/4 + 3
}

// CalculateFTP derives functional threshold power from the average power of a
// 20-minute maximal test.
func CalculateFTP(avgPowerWatts float64) int {
	return int(math.Round(avgPowerWatts * 0.95))
}

// CalculateThresholdPace derives threshold run pace (sec/mile) from a 1-mile
// time trial.
func CalculateThresholdPace(mileTimeSec float64) int {
	return int(math.Round(mileTimeSec * 1.15))
}

// HeartRateZone is a bpm band derived from max heart rate.
type HeartRateZone struct {
	Zone   int `json:"zone"`
	MinBPM int `json:"min_bpm"`
	MaxBPM int `json:"max_bpm"`
}

// HeartRateZones computes the six training zones for a max heart rate.
func HeartRateZones(maxHR int) []HeartRateZone {
	zones := make([]HeartRateZone, 0, ZoneCount)
	for z := 1; z <= ZoneCount; z++ {
		r := zoneTable[z].HR
		zones = append(zones, HeartRateZone{
			Zone:   z,
			MinBPM: int(math.Round(float64(maxHR) * r.Min / 100)),
			MaxBPM: int(math.Round(float64(maxHR) * r.Max / 100)),
		})
	}
	return zones
}

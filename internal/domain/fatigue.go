package domain

import (
	"errors"
	"time"
)

// Rating is the subjective post-workout difficulty impression.
type Rating string

const (
	RatingEasier Rating = "easier"
	RatingSame   Rating = "same"
	RatingHarder Rating = "harder"
)

// ErrInvalidRating rejects ratings outside the closed set.
var ErrInvalidRating = errors.New("rating must be one of easier, same, harder")

// ValidateRating checks a rating value. Malformed ratings are rejected,
// never coerced.
func ValidateRating(r Rating) error {
	switch r {
	case RatingEasier, RatingSame, RatingHarder:
		return nil
	}
	return ErrInvalidRating
}

// SkipReason explains why a workout was skipped. Fatigue-signal reasons
// count as strikes; logistical reasons do not.
type SkipReason string

const (
	SkipTooTired SkipReason = "too_tired"
	SkipSick     SkipReason = "sick"
	SkipNoTime   SkipReason = "no_time"
	SkipOther    SkipReason = "other"
)

// FatigueSignal reports whether the skip reason indicates fatigue.
func (r SkipReason) FatigueSignal() bool {
	return r == SkipTooTired || r == SkipSick
}

// Feedback is an append-only record tied to a completed workout.
type Feedback struct {
	ID        string
	WorkoutID string
	AthleteID string
	Rating    Rating
	RPE       *int // 1..10, optional
	CreatedAt time.Time
}

// FatigueState is the per-athlete strike counter driving plan adaptation.
// Mutated only by the adaptation engine.
type FatigueState struct {
	AthleteID            string
	Strikes              int
	LastStrikeAt         *time.Time
	LastAdaptationAt     *time.Time
	ConsecutiveCompletes int
	UpdatedAt            time.Time
}

// AdaptationLog is the append-only audit record of one adaptation event.
type AdaptationLog struct {
	ID               string
	AthleteID        string
	PlanID           string
	Reason           string
	StrikeCount      int
	WorkoutsAffected int
	Actions          []string
	CreatedAt        time.Time
}

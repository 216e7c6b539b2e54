package score

import (
	"math"
)

// ModelVersion is the current scoring model version.
const ModelVersion = "1.0.0"

const (
	// Per-axis point ceilings.
	followerCeil = 100.0
	starCeil     = 200.0
	repoCeil     = 150.0
	ageCeil      = 100.0
	activityCeil = 100.0
	forkCeil     = 50.0

	// Points awarded per unit of each signal.
	starPoints     = 0.1
	repoPoints     = 2.0
	agePointsYear  = 10.0
	activityPoints = 2.0
	forkPoints     = 0.5

	daysPerYear = 365.0
)

// MaxScore is the highest attainable score, reached when every
// contribution hits its ceiling. The total is intentionally not
// clamped to a 0-100 scale; callers that expect one are relying on
// realistic input ranges.
const MaxScore = int(followerCeil + starCeil + repoCeil + ageCeil + activityCeil + forkCeil)

// Snapshot holds point-in-time activity counters for one developer.
// All values are expected to be non-negative; negative values
// contribute nothing rather than subtracting.
type Snapshot struct {
	Followers      int64 `json:"followers" yaml:"followers"`
	Stars          int64 `json:"stars" yaml:"stars"`
	Repos          int64 `json:"repos" yaml:"repos"`
	AccountAgeDays int64 `json:"account_age_days" yaml:"accountAgeDays"`
	RecentActivity int64 `json:"recent_activity" yaml:"recentActivity"`
	Forks          int64 `json:"forks" yaml:"forks"`
}

// Compute returns the reputation score for the given snapshot.
//
// Each signal earns points independently up to its ceiling:
// 1 point per follower (max 100), 0.1 per star (max 200), 2 per
// repository (max 150), 10 per year of account age (max 100), 2 per
// recent activity event (max 100), and 0.5 per fork (max 50). The
// capped contributions are summed and rounded half-up.
func Compute(s Snapshot) int {
	var total float64

	total += capped(float64(s.Followers), followerCeil)
	total += capped(float64(s.Stars)*starPoints, starCeil)
	total += capped(float64(s.Repos)*repoPoints, repoCeil)
	total += capped(float64(s.AccountAgeDays)/daysPerYear*agePointsYear, ageCeil)
	total += capped(float64(s.RecentActivity)*activityPoints, activityCeil)
	total += capped(float64(s.Forks)*forkPoints, forkCeil)

	return int(math.Floor(total + 0.5))
}

// capped clamps val into [0, ceil].
func capped(val, ceil float64) float64 {
	if val <= 0 {
		return 0
	}
	if val >= ceil {
		return ceil
	}
	return val
}

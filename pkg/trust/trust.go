package trust

import (
	"math"
	"strings"
)

// Policy selects how the overall trust score combines credential
// contributions.
type Policy int

const (
	// PolicyObserved accumulates score*weight and weight per
	// credential and divides once at the end. Each additional
	// credential of a kind pulls the average toward that kind, so
	// five skill credentials dominate one portfolio credential even
	// though portfolio carries the larger per-credential weight.
	// Kept as the default for compatibility with the original model.
	PolicyObserved Policy = iota

	// PolicyNormalized averages each kind's credentials first, then
	// takes one weighted average across the kinds present. This is
	// the corrected variant of the observed quirk.
	PolicyNormalized
)

func (p Policy) String() string {
	if p == PolicyNormalized {
		return "normalized"
	}
	return "observed"
}

// ParsePolicy maps a flag value to a Policy, defaulting to observed.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "normalized") {
		return PolicyNormalized
	}
	return PolicyObserved
}

const (
	portfolioWeight   = 0.4
	skillWeight       = 0.3
	projectWeight     = 0.2
	endorsementWeight = 0.1

	projectCommitPoints = 0.1
	projectScoreCeil    = 100.0

	endorsementRatingPoints = 20.0
)

// Score computes the weighted overall trust score for one developer's
// credential list. Credentials of unknown kind contribute nothing.
// An empty or all-unknown list yields 0.
func Score(creds []Credential, policy Policy) int {
	if policy == PolicyNormalized {
		return normalizedScore(creds)
	}
	return observedScore(creds)
}

// credentialValue returns the 0-100 point value of a single credential
// and its kind weight. ok is false for kinds the model does not score.
func credentialValue(c Credential) (value, weight float64, ok bool) {
	switch c.Kind {
	case KindPortfolio:
		v := 0.0
		if c.Portfolio != nil && c.Portfolio.ReputationScore > 0 {
			v = c.Portfolio.ReputationScore
		}
		return v, portfolioWeight, true
	case KindSkill:
		if c.Skill == nil {
			return 0, skillWeight, true
		}
		return float64(SkillScore(c.Skill.Level, c.Skill.Evidence)), skillWeight, true
	case KindProject:
		v := 0.0
		if c.Project != nil && c.Project.CommitCount > 0 {
			v = float64(c.Project.CommitCount) * projectCommitPoints
			if v > projectScoreCeil {
				v = projectScoreCeil
			}
		}
		return v, projectWeight, true
	case KindEndorsement:
		if c.Endorsement == nil {
			return 0, endorsementWeight, true
		}
		return float64(clampRating(c.Endorsement.Rating)) * endorsementRatingPoints, endorsementWeight, true
	default:
		return 0, 0, false
	}
}

func observedScore(creds []Credential) int {
	var score, weight float64
	for _, c := range creds {
		v, w, ok := credentialValue(c)
		if !ok {
			continue
		}
		score += v * w
		weight += w
	}
	if weight <= 0 {
		return 0
	}
	return int(math.Floor(score/weight + 0.5))
}

func normalizedScore(creds []Credential) int {
	type kindAccum struct {
		sum    float64
		count  int
		weight float64
	}
	accum := make(map[Kind]*kindAccum, 4)

	for _, c := range creds {
		v, w, ok := credentialValue(c)
		if !ok {
			continue
		}
		a, exists := accum[c.Kind]
		if !exists {
			a = &kindAccum{weight: w}
			accum[c.Kind] = a
		}
		a.sum += v
		a.count++
	}

	var score, weight float64
	for _, a := range accum {
		score += a.sum / float64(a.count) * a.weight
		weight += a.weight
	}
	if weight <= 0 {
		return 0
	}
	return int(math.Floor(score/weight + 0.5))
}

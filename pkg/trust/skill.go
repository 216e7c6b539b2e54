package trust

import (
	"math"
)

const (
	// Evidence multiplier parameters: a flat floor plus three equally
	// weighted saturating factors. The multiplier ranges over
	// [0.4, 1.0], so a score never falls below 40% of its level base.
	evidenceFloor      = 0.4
	evidenceAxisWeight = 0.2

	commitsSaturation  = 100.0
	locSaturation      = 10000.0
	projectsSaturation = 5.0

	maxSkillScore = 100.0
)

// SkillScore returns the proficiency score in [0, 100] for a skill
// level scaled by its supporting evidence. Negative evidence counts
// contribute nothing; the result is clamped to 100 defensively even
// though the product cannot algebraically exceed it.
func SkillScore(level Proficiency, ev Evidence) int {
	multiplier := evidenceFloor +
		evidenceAxisWeight*clampedRatio(float64(ev.CommitCount), commitsSaturation) +
		evidenceAxisWeight*clampedRatio(float64(ev.LinesOfCode), locSaturation) +
		evidenceAxisWeight*clampedRatio(float64(len(distinct(ev.ProjectNames))), projectsSaturation)

	s := level.baseScore() * multiplier
	if s > maxSkillScore {
		s = maxSkillScore
	}

	return int(math.Floor(s + 0.5))
}

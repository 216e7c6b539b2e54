package trust

// EndorsementAggregate is the rolled-up view of all endorsements
// received for one skill.
type EndorsementAggregate struct {
	SkillName string `json:"skill_name" yaml:"skillName"`
	// Endorser is whichever endorsement was processed last for the
	// skill (last-write-wins), not a dominant-type computation.
	Endorser      EndorserType `json:"endorser" yaml:"endorser"`
	AverageRating float64      `json:"average_rating" yaml:"averageRating"`
	Count         int          `json:"count" yaml:"count"`
}

// AggregateEndorsements rolls up the endorsement credentials in creds
// into one aggregate per distinct skill name, in order of first
// appearance. Non-endorsement credentials are skipped. Ratings are
// clamped into [1,5] before averaging.
func AggregateEndorsements(creds []Credential) []EndorsementAggregate {
	out := make([]EndorsementAggregate, 0)
	index := make(map[string]int)

	for _, c := range creds {
		if c.Kind != KindEndorsement || c.Endorsement == nil {
			continue
		}
		e := c.Endorsement
		rating := float64(clampRating(e.Rating))

		i, ok := index[e.SkillName]
		if !ok {
			index[e.SkillName] = len(out)
			out = append(out, EndorsementAggregate{
				SkillName:     e.SkillName,
				Endorser:      e.Endorser,
				AverageRating: rating,
				Count:         1,
			})
			continue
		}

		agg := &out[i]
		agg.AverageRating = (agg.AverageRating*float64(agg.Count) + rating) / float64(agg.Count+1)
		agg.Count++
		agg.Endorser = e.Endorser
	}

	return out
}

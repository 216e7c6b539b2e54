package trust

// RelationshipRelated is the only edge kind the graph currently
// computes: two skills sharing project evidence.
const RelationshipRelated = "related"

// sharedProjectSaturation is the shared-project count at which edge
// strength reaches 1.0.
const sharedProjectSaturation = 3.0

// SkillNode is one skill credential projected into the graph.
type SkillNode struct {
	Name     string      `json:"name" yaml:"name"`
	Level    Proficiency `json:"level" yaml:"level"`
	Evidence Evidence    `json:"evidence" yaml:"evidence"`
}

// SkillEdge connects two skills that share project evidence. Each
// unordered pair is stored once, From being the skill that appears
// first in the node list.
type SkillEdge struct {
	From         string  `json:"from" yaml:"from"`
	To           string  `json:"to" yaml:"to"`
	Relationship string  `json:"relationship" yaml:"relationship"`
	Strength     float64 `json:"strength" yaml:"strength"`
}

// Graph is the derived skill relationship structure for one developer.
type Graph struct {
	Skills       []SkillNode            `json:"skills" yaml:"skills"`
	Connections  []SkillEdge            `json:"connections" yaml:"connections"`
	Endorsements []EndorsementAggregate `json:"endorsements" yaml:"endorsements"`
}

// BuildSkillGraph derives the skill graph from the full credential
// list: one node per skill credential in input order, one edge per
// skill pair with shared project names, and the endorsement
// aggregates. The pairwise scan is O(n²) over the skill nodes, which
// is fine at the expected tens of skills per developer.
func BuildSkillGraph(creds []Credential) Graph {
	g := Graph{
		Skills:       make([]SkillNode, 0),
		Connections:  make([]SkillEdge, 0),
		Endorsements: AggregateEndorsements(creds),
	}

	projects := make([][]string, 0)
	for _, c := range creds {
		if c.Kind != KindSkill || c.Skill == nil {
			continue
		}
		g.Skills = append(g.Skills, SkillNode{
			Name:     c.Skill.Name,
			Level:    c.Skill.Level,
			Evidence: c.Skill.Evidence,
		})
		projects = append(projects, distinct(c.Skill.Evidence.ProjectNames))
	}

	for i := 0; i < len(g.Skills); i++ {
		for j := i + 1; j < len(g.Skills); j++ {
			shared := intersectCount(projects[i], projects[j])
			if shared == 0 {
				continue
			}
			g.Connections = append(g.Connections, SkillEdge{
				From:         g.Skills[i].Name,
				To:           g.Skills[j].Name,
				Relationship: RelationshipRelated,
				Strength:     clampedRatio(float64(shared), sharedProjectSaturation),
			})
		}
	}

	return g
}

// intersectCount counts names present in both lists. Both inputs are
// already deduplicated; matching is exact (case-sensitive).
func intersectCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	n := 0
	for _, name := range b {
		if set[name] {
			n++
		}
	}
	return n
}

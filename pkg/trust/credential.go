package trust

import (
	"strings"
)

// Kind discriminates the credential union.
type Kind int

const (
	KindUnknown Kind = iota
	KindPortfolio
	KindSkill
	KindProject
	KindEndorsement
)

var kindNames = map[Kind]string{
	KindPortfolio:   "portfolio",
	KindSkill:       "skill",
	KindProject:     "project",
	KindEndorsement: "endorsement",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKind maps a stored discriminator back to its Kind.
// Unrecognized values yield KindUnknown, which every engine
// operation silently skips.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portfolio":
		return KindPortfolio
	case "skill":
		return KindSkill
	case "project":
		return KindProject
	case "endorsement":
		return KindEndorsement
	default:
		return KindUnknown
	}
}

// Proficiency is the self-reported skill level on a skill credential.
type Proficiency int

const (
	ProficiencyUnknown Proficiency = iota
	Beginner
	Intermediate
	Advanced
	Expert
)

func (p Proficiency) String() string {
	switch p {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	case Expert:
		return "expert"
	default:
		return "unknown"
	}
}

// baseScore is the level's point base before evidence scaling.
// An unknown level scores zero rather than erroring.
func (p Proficiency) baseScore() float64 {
	switch p {
	case Beginner:
		return 25
	case Intermediate:
		return 50
	case Advanced:
		return 75
	case Expert:
		return 100
	default:
		return 0
	}
}

func ParseProficiency(s string) Proficiency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner
	case "intermediate":
		return Intermediate
	case "advanced":
		return Advanced
	case "expert":
		return Expert
	default:
		return ProficiencyUnknown
	}
}

// EndorserType describes the relationship of the endorser to the
// endorsed developer.
type EndorserType int

const (
	EndorserUnknown EndorserType = iota
	Peer
	Mentor
	Employer
	Community
)

func (e EndorserType) String() string {
	switch e {
	case Peer:
		return "peer"
	case Mentor:
		return "mentor"
	case Employer:
		return "employer"
	case Community:
		return "community"
	default:
		return "unknown"
	}
}

func ParseEndorserType(s string) EndorserType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "peer":
		return Peer
	case "mentor":
		return Mentor
	case "employer":
		return Employer
	case "community":
		return Community
	default:
		return EndorserUnknown
	}
}

// Evidence holds the supporting metrics attached to a skill credential.
type Evidence struct {
	RepositoryNames []string `json:"repository_names,omitempty" yaml:"repositoryNames,omitempty"`
	CommitCount     int64    `json:"commit_count" yaml:"commitCount"`
	LinesOfCode     int64    `json:"lines_of_code" yaml:"linesOfCode"`
	ProjectNames    []string `json:"project_names,omitempty" yaml:"projectNames,omitempty"`
}

// PortfolioClaim summarizes a developer's overall standing.
type PortfolioClaim struct {
	ReputationScore float64  `json:"reputation_score" yaml:"reputationScore"`
	TopLanguages    []string `json:"top_languages,omitempty" yaml:"topLanguages,omitempty"`
}

// SkillClaim asserts proficiency in one named skill.
type SkillClaim struct {
	Name     string      `json:"name" yaml:"name"`
	Level    Proficiency `json:"level" yaml:"level"`
	Evidence Evidence    `json:"evidence" yaml:"evidence"`
}

// ProjectClaim records contribution to a project.
type ProjectClaim struct {
	CommitCount int64 `json:"commit_count" yaml:"commitCount"`
}

// EndorsementClaim is a third-party rating of one skill.
type EndorsementClaim struct {
	SkillName string       `json:"skill_name" yaml:"skillName"`
	Endorser  EndorserType `json:"endorser" yaml:"endorser"`
	Rating    int          `json:"rating" yaml:"rating"`
}

// Credential is a typed claim about a developer. Kind selects which
// case pointer is populated; the engine treats a nil case as a
// zero-valued claim rather than an error.
type Credential struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	SubjectID string `json:"subject_id" yaml:"subjectId"`
	Kind      Kind   `json:"kind" yaml:"kind"`

	Portfolio   *PortfolioClaim   `json:"portfolio,omitempty" yaml:"portfolio,omitempty"`
	Skill       *SkillClaim       `json:"skill,omitempty" yaml:"skill,omitempty"`
	Project     *ProjectClaim     `json:"project,omitempty" yaml:"project,omitempty"`
	Endorsement *EndorsementClaim `json:"endorsement,omitempty" yaml:"endorsement,omitempty"`
}

// clampRating forces a rating into the documented [1,5] range.
func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}

// clampedRatio maps val linearly into [0.0, 1.0] with ceil as the
// saturation point.
func clampedRatio(val, ceil float64) float64 {
	if ceil <= 0 || val <= 0 {
		return 0
	}
	if val >= ceil {
		return 1
	}
	return val / ceil
}

// distinct returns the set view of names, preserving first-seen order.
// Matching is exact: no trimming, no case folding.
func distinct(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

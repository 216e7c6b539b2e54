package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/proofofdev/devtrust/pkg/trust"
)

var (
	subjectFlag = &urfave.StringFlag{
		Name:     "subject",
		Aliases:  []string{"s"},
		Usage:    "Developer the credential describes",
		Required: true,
	}

	credentialIDFlag = &urfave.StringFlag{
		Name:     "id",
		Usage:    "Credential ID",
		Required: true,
	}

	credentialFileFlag = &urfave.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Credential batch file (YAML or JSON list)",
		Required: true,
	}

	reputationScoreFlag = &urfave.Float64Flag{
		Name:  "reputation",
		Usage: "Reputation score (0-100 expected)",
	}

	languagesFlag = &urfave.StringSliceFlag{
		Name:  "language",
		Usage: "Top language (repeatable, ordered)",
	}

	skillNameFlag = &urfave.StringFlag{
		Name:     "skill",
		Usage:    "Skill name",
		Required: true,
	}

	levelFlag = &urfave.StringFlag{
		Name:     "level",
		Usage:    "Proficiency level [beginner, intermediate, advanced, expert]",
		Required: true,
	}

	commitsFlag = &urfave.Int64Flag{
		Name:  "commits",
		Usage: "Commit count evidence",
	}

	locFlag = &urfave.Int64Flag{
		Name:  "loc",
		Usage: "Lines of code evidence",
	}

	projectsFlag = &urfave.StringSliceFlag{
		Name:  "project",
		Usage: "Project name evidence (repeatable)",
	}

	reposFlag = &urfave.StringSliceFlag{
		Name:  "repo",
		Usage: "Repository name evidence (repeatable)",
	}

	endorserFlag = &urfave.StringFlag{
		Name:     "endorser",
		Usage:    "Endorser type [peer, mentor, employer, community]",
		Required: true,
	}

	ratingFlag = &urfave.IntFlag{
		Name:     "rating",
		Usage:    "Endorsement rating (1-5)",
		Required: true,
	}

	credentialCmd = &urfave.Command{
		Name:    "credential",
		Aliases: []string{"cred", "c"},
		Usage:   "Manage the local credential store",
		Subcommands: []*urfave.Command{
			{
				Name:  "add",
				Usage: "Add a single credential",
				Subcommands: []*urfave.Command{
					{
						Name:   "portfolio",
						Usage:  "Add a portfolio credential",
						Action: cmdAddPortfolio,
						Flags:  []urfave.Flag{subjectFlag, reputationScoreFlag, languagesFlag},
					},
					{
						Name:   "skill",
						Usage:  "Add a skill credential with evidence",
						Action: cmdAddSkill,
						Flags:  []urfave.Flag{subjectFlag, skillNameFlag, levelFlag, commitsFlag, locFlag, projectsFlag, reposFlag},
					},
					{
						Name:   "project",
						Usage:  "Add a project contribution credential",
						Action: cmdAddProject,
						Flags:  []urfave.Flag{subjectFlag, commitsFlag},
					},
					{
						Name:   "endorsement",
						Usage:  "Add a skill endorsement",
						Action: cmdAddEndorsement,
						Flags:  []urfave.Flag{subjectFlag, skillNameFlag, endorserFlag, ratingFlag},
					},
				},
			},
			{
				Name:    "import",
				Usage:   "Import credentials from a YAML or JSON file",
				Action:  cmdImportCredentials,
				Flags:   []urfave.Flag{credentialFileFlag},
				Aliases: []string{"i"},
			},
			{
				Name:    "list",
				Usage:   "List stored credentials for a subject",
				Action:  cmdListCredentials,
				Flags:   []urfave.Flag{subjectFlag},
				Aliases: []string{"l"},
			},
			{
				Name:    "remove",
				Usage:   "Remove a credential by ID",
				Action:  cmdRemoveCredential,
				Flags:   []urfave.Flag{credentialIDFlag},
				Aliases: []string{"rm"},
			},
		},
	}
)

type savedCredential struct {
	ID      string `json:"id" yaml:"id"`
	Subject string `json:"subject" yaml:"subject"`
	Kind    string `json:"kind" yaml:"kind"`
}

func saveAndEncode(c *urfave.Context, cred trust.Credential) error {
	cfg := getConfig(c)
	id, err := cfg.DB.SaveCredential(cred)
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return encode(&savedCredential{ID: id, Subject: cred.SubjectID, Kind: cred.Kind.String()})
}

func cmdAddPortfolio(c *urfave.Context) error {
	return saveAndEncode(c, trust.Credential{
		SubjectID: c.String(subjectFlag.Name),
		Kind:      trust.KindPortfolio,
		Portfolio: &trust.PortfolioClaim{
			ReputationScore: c.Float64(reputationScoreFlag.Name),
			TopLanguages:    c.StringSlice(languagesFlag.Name),
		},
	})
}

func cmdAddSkill(c *urfave.Context) error {
	level := trust.ParseProficiency(c.String(levelFlag.Name))
	if level == trust.ProficiencyUnknown {
		return fmt.Errorf("unknown proficiency level: %s", c.String(levelFlag.Name))
	}

	return saveAndEncode(c, trust.Credential{
		SubjectID: c.String(subjectFlag.Name),
		Kind:      trust.KindSkill,
		Skill: &trust.SkillClaim{
			Name:  c.String(skillNameFlag.Name),
			Level: level,
			Evidence: trust.Evidence{
				RepositoryNames: c.StringSlice(reposFlag.Name),
				CommitCount:     c.Int64(commitsFlag.Name),
				LinesOfCode:     c.Int64(locFlag.Name),
				ProjectNames:    c.StringSlice(projectsFlag.Name),
			},
		},
	})
}

func cmdAddProject(c *urfave.Context) error {
	return saveAndEncode(c, trust.Credential{
		SubjectID: c.String(subjectFlag.Name),
		Kind:      trust.KindProject,
		Project:   &trust.ProjectClaim{CommitCount: c.Int64(commitsFlag.Name)},
	})
}

func cmdAddEndorsement(c *urfave.Context) error {
	endorser := trust.ParseEndorserType(c.String(endorserFlag.Name))
	if endorser == trust.EndorserUnknown {
		return fmt.Errorf("unknown endorser type: %s", c.String(endorserFlag.Name))
	}

	rating := c.Int(ratingFlag.Name)
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be in [1,5], got %d", rating)
	}

	return saveAndEncode(c, trust.Credential{
		SubjectID: c.String(subjectFlag.Name),
		Kind:      trust.KindEndorsement,
		Endorsement: &trust.EndorsementClaim{
			SkillName: c.String(skillNameFlag.Name),
			Endorser:  endorser,
			Rating:    rating,
		},
	})
}

func cmdImportCredentials(c *urfave.Context) error {
	cfg := getConfig(c)
	file := c.String(credentialFileFlag.Name)

	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading credential file %s: %w", file, err)
	}

	var creds []trust.Credential
	if strings.HasSuffix(file, ".json") {
		err = json.Unmarshal(b, &creds)
	} else {
		err = yaml.Unmarshal(b, &creds)
	}
	if err != nil {
		return fmt.Errorf("parsing credential file %s: %w", file, err)
	}

	saved := make([]*savedCredential, 0, len(creds))
	for i, cred := range creds {
		id, saveErr := cfg.DB.SaveCredential(cred)
		if saveErr != nil {
			return fmt.Errorf("saving credential %d from %s: %w", i, file, saveErr)
		}
		saved = append(saved, &savedCredential{ID: id, Subject: cred.SubjectID, Kind: cred.Kind.String()})
	}

	return encode(saved)
}

func cmdListCredentials(c *urfave.Context) error {
	cfg := getConfig(c)
	creds, err := cfg.DB.ListCredentials(c.String(subjectFlag.Name))
	if err != nil {
		return fmt.Errorf("listing credentials: %w", err)
	}
	return encode(creds)
}

func cmdRemoveCredential(c *urfave.Context) error {
	cfg := getConfig(c)
	id := c.String(credentialIDFlag.Name)
	if err := cfg.DB.DeleteCredential(id); err != nil {
		return fmt.Errorf("removing credential: %w", err)
	}
	return encode(map[string]string{"removed": id})
}

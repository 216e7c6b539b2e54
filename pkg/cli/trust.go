package cli

import (
	"fmt"
	"time"

	urfave "github.com/urfave/cli/v2"

	"github.com/proofofdev/devtrust/pkg/trust"
)

var (
	policyFlag = &urfave.StringFlag{
		Name:  "policy",
		Usage: "Trust score policy [observed, normalized]",
		Value: "observed",
	}

	trustCmd = &urfave.Command{
		Name:    "trust",
		Aliases: []string{"t"},
		Usage:   "Credential trust engine operations",
		Subcommands: []*urfave.Command{
			{
				Name:    "score",
				Usage:   "Compute the weighted trust score over stored credentials",
				Action:  cmdTrustScore,
				Flags:   []urfave.Flag{subjectFlag, policyFlag},
				Aliases: []string{"s"},
			},
			{
				Name:    "graph",
				Usage:   "Build the skill graph from stored credentials",
				Action:  cmdTrustGraph,
				Flags:   []urfave.Flag{subjectFlag},
				Aliases: []string{"g"},
			},
		},
	}
)

// TrustResult is the trust score command output.
type TrustResult struct {
	Subject     string `json:"subject" yaml:"subject"`
	Score       int    `json:"score" yaml:"score"`
	Policy      string `json:"policy" yaml:"policy"`
	Credentials int    `json:"credentials" yaml:"credentials"`
	ComputedAt  string `json:"computed_at" yaml:"computedAt"`
}

func cmdTrustScore(c *urfave.Context) error {
	cfg := getConfig(c)
	subject := c.String(subjectFlag.Name)
	policy := trust.ParsePolicy(c.String(policyFlag.Name))

	creds, err := cfg.DB.ListCredentials(subject)
	if err != nil {
		return fmt.Errorf("loading credentials for %s: %w", subject, err)
	}

	s := trust.Score(creds, policy)
	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")

	if err := cfg.DB.SaveTrust(subject, s, policy.String(), now); err != nil {
		return fmt.Errorf("caching trust score for %s: %w", subject, err)
	}

	return encode(&TrustResult{
		Subject:     subject,
		Score:       s,
		Policy:      policy.String(),
		Credentials: len(creds),
		ComputedAt:  now,
	})
}

func cmdTrustGraph(c *urfave.Context) error {
	cfg := getConfig(c)
	subject := c.String(subjectFlag.Name)

	creds, err := cfg.DB.ListCredentials(subject)
	if err != nil {
		return fmt.Errorf("loading credentials for %s: %w", subject, err)
	}

	return encode(trust.BuildSkillGraph(creds))
}

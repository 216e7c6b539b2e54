package cli

import (
	"fmt"
	"time"

	"github.com/google/go-github/v83/github"
	urfave "github.com/urfave/cli/v2"

	"github.com/proofofdev/devtrust/pkg/auth"
	"github.com/proofofdev/devtrust/pkg/data"
	"github.com/proofofdev/devtrust/pkg/net"
	"github.com/proofofdev/devtrust/pkg/score"
)

var (
	ghUserNameFlag = &urfave.StringFlag{
		Name:     "name",
		Usage:    "GitHub username",
		Required: true,
	}

	refreshFlag = &urfave.BoolFlag{
		Name:  "refresh",
		Usage: "Recompute the score even when a fresh cached one exists",
	}

	scoreCmd = &urfave.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Compute a developer's reputation score from GitHub activity",
		Action:  cmdScore,
		Flags: []urfave.Flag{
			ghUserNameFlag,
			refreshFlag,
		},
	}
)

func cmdScore(c *urfave.Context) error {
	cfg := getConfig(c)
	username := c.String(ghUserNameFlag.Name)

	if !c.Bool(refreshFlag.Name) {
		cached, err := cfg.DB.GetFreshReputation(username)
		if err != nil {
			return fmt.Errorf("reading cached reputation: %w", err)
		}
		if cached != nil {
			return encode(cached)
		}
	}

	token, err := auth.GetToken(getHomeDir())
	if err != nil {
		return fmt.Errorf("no GitHub token found, run `devtrust auth` first: %w", err)
	}

	ctx := c.Context
	client := github.NewClient(net.GetOAuthClient(ctx, token))

	dev, err := data.GetGitHubDeveloper(ctx, client, username)
	if err != nil {
		return fmt.Errorf("fetching developer %s: %w", username, err)
	}
	if err := cfg.DB.SaveDeveloper(dev); err != nil {
		return fmt.Errorf("saving developer %s: %w", username, err)
	}

	snap, err := data.CollectSnapshot(ctx, client, username)
	if err != nil {
		return fmt.Errorf("collecting snapshot for %s: %w", username, err)
	}

	rep := score.Compute(*snap)
	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")

	if err := cfg.DB.SaveReputation(username, rep, *snap, now); err != nil {
		return fmt.Errorf("caching reputation for %s: %w", username, err)
	}

	return encode(&data.ReputationResult{
		Username:   username,
		Score:      rep,
		Snapshot:   *snap,
		ComputedAt: now,
	})
}

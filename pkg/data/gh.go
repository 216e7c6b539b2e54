package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v83/github"
	"golang.org/x/sync/errgroup"

	"github.com/proofofdev/devtrust/pkg/score"
)

const (
	// recentActivityDays is the trailing window counted into the
	// snapshot's recent activity signal.
	recentActivityDays = 90

	reposPerPage  = 100
	eventsPerPage = 100
	// The events API serves at most 300 events (10 pages of 30, or 3
	// of 100); no point asking for more.
	maxEventPages = 3

	maxConcurrentPages = 4
)

func mapUserToDeveloper(u *github.User) *Developer {
	return &Developer{
		Username:   trim(u.Login),
		FullName:   trim(u.Name),
		Email:      trim(u.Email),
		AvatarURL:  trim(u.AvatarURL),
		ProfileURL: trim(u.HTMLURL),
		Entity:     trim(u.Company),
		Updated:    time.Now().UTC().Format(timeFormat),
	}
}

func trim(s *string) string {
	if s != nil {
		return strings.ReplaceAll(strings.TrimSpace(*s), "@", "")
	}
	return ""
}

func rateInfo(r *github.Rate) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("rate:%d/%d until:%s", r.Remaining, r.Limit, r.Reset.Format("15:04"))
}

// GetGitHubDeveloper fetches the user's public profile.
func GetGitHubDeveloper(ctx context.Context, client *github.Client, username string) (*Developer, error) {
	if client == nil {
		return nil, errors.New("client required")
	}
	if username == "" {
		return nil, errors.New("username is required")
	}

	usr, resp, err := client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	if err := waitForRateLimit(ctx, resp); err != nil {
		return nil, err
	}

	slog.Debug("got user details", "username", username, "rate", rateInfo(&resp.Rate))

	return mapUserToDeveloper(usr), nil
}

// CollectSnapshot builds the activity snapshot for one developer from
// the GitHub API: profile counters, star/fork sums across public
// repositories, and event count in the trailing activity window.
func CollectSnapshot(ctx context.Context, client *github.Client, username string) (*score.Snapshot, error) {
	if client == nil {
		return nil, errors.New("client required")
	}
	if username == "" {
		return nil, errors.New("username is required")
	}

	usr, resp, err := client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	if err := waitForRateLimit(ctx, resp); err != nil {
		return nil, err
	}

	snap := &score.Snapshot{
		Followers: int64(usr.GetFollowers()),
		Repos:     int64(usr.GetPublicRepos()),
	}
	if usr.CreatedAt != nil {
		snap.AccountAgeDays = int64(time.Since(usr.CreatedAt.Time).Hours() / 24)
	}

	stars, forks, err := sumRepoCounters(ctx, client, username)
	if err != nil {
		return nil, err
	}
	snap.Stars = stars
	snap.Forks = forks

	activity, err := countRecentEvents(ctx, client, username)
	if err != nil {
		return nil, err
	}
	snap.RecentActivity = activity

	slog.Debug("snapshot collected",
		"username", username,
		"followers", snap.Followers,
		"stars", snap.Stars,
		"repos", snap.Repos,
		"age_days", snap.AccountAgeDays,
		"recent", snap.RecentActivity,
		"forks", snap.Forks,
	)

	return snap, nil
}

// sumRepoCounters totals stargazers and forks across the user's
// repositories. The first page reveals the page count; remaining
// pages are fetched concurrently with a bounded group.
func sumRepoCounters(ctx context.Context, client *github.Client, username string) (stars, forks int64, err error) {
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}

	repos, resp, err := client.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return 0, 0, fmt.Errorf("listing repositories for %s: %w", username, err)
	}
	if err := waitForRateLimit(ctx, resp); err != nil {
		return 0, 0, err
	}

	var mu sync.Mutex
	add := func(list []*github.Repository) {
		mu.Lock()
		defer mu.Unlock()
		for _, r := range list {
			stars += int64(r.GetStargazersCount())
			forks += int64(r.GetForksCount())
		}
	}
	add(repos)

	if resp.LastPage <= 1 {
		return stars, forks, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPages)

	for page := 2; page <= resp.LastPage; page++ {
		g.Go(func() error {
			pageOpts := &github.RepositoryListByUserOptions{
				Type:        "owner",
				ListOptions: github.ListOptions{PerPage: reposPerPage, Page: page},
			}
			list, pageResp, pageErr := client.Repositories.ListByUser(gctx, username, pageOpts)
			if pageErr != nil {
				return fmt.Errorf("listing repositories page %d for %s: %w", page, username, pageErr)
			}
			if err := waitForRateLimit(gctx, pageResp); err != nil {
				return err
			}
			add(list)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	return stars, forks, nil
}

// countRecentEvents counts the user's public events inside the
// trailing activity window. Events arrive newest first, so the scan
// stops at the first event older than the cutoff.
func countRecentEvents(ctx context.Context, client *github.Client, username string) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -recentActivityDays)

	var count int64
	opts := &github.ListOptions{PerPage: eventsPerPage}

	for page := 1; page <= maxEventPages; page++ {
		opts.Page = page
		events, resp, err := client.Activity.ListEventsPerformedByUser(ctx, username, true, opts)
		if err != nil {
			return 0, fmt.Errorf("listing events page %d for %s: %w", page, username, err)
		}
		if err := waitForRateLimit(ctx, resp); err != nil {
			return 0, err
		}

		for _, e := range events {
			if e.CreatedAt != nil && e.CreatedAt.Time.Before(cutoff) {
				return count, nil
			}
			count++
		}

		if resp.NextPage == 0 {
			break
		}
	}

	return count, nil
}

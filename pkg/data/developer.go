package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/proofofdev/devtrust/pkg/score"
)

// scoreStaleHours is how long cached reputation and trust scores are
// served before being recomputed.
const scoreStaleHours = 24

const (
	upsertDeveloperSQL = `INSERT INTO developer (
			username,
			full_name,
			email,
			avatar,
			url,
			entity,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			avatar = excluded.avatar,
			url = excluded.url,
			entity = excluded.entity,
			updated_at = excluded.updated_at
	`

	selectDeveloperSQL = `SELECT
			username,
			COALESCE(full_name, ''),
			COALESCE(email, ''),
			COALESCE(avatar, ''),
			COALESCE(url, ''),
			COALESCE(entity, ''),
			COALESCE(updated_at, '')
		FROM developer
		WHERE username = ?
	`

	updateReputationSQL = `UPDATE developer
		SET reputation = ?, reputation_updated_at = ?, snapshot = ?
		WHERE username = ?
	`

	selectReputationSQL = `SELECT reputation, snapshot, reputation_updated_at
		FROM developer
		WHERE username = ?
		  AND reputation IS NOT NULL
		  AND reputation_updated_at IS NOT NULL
		  AND reputation_updated_at >= ?
	`

	updateTrustSQL = `UPDATE developer
		SET trust = ?, trust_policy = ?, trust_updated_at = ?
		WHERE username = ?
	`
)

// Developer is the cached GitHub profile of a scored user.
type Developer struct {
	Username   string `json:"username" yaml:"username"`
	FullName   string `json:"full_name,omitempty" yaml:"fullName,omitempty"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	AvatarURL  string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	ProfileURL string `json:"url,omitempty" yaml:"url,omitempty"`
	Entity     string `json:"entity,omitempty" yaml:"entity,omitempty"`
	Updated    string `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// ReputationResult is the scored snapshot returned to callers.
type ReputationResult struct {
	Username   string         `json:"username" yaml:"username"`
	Score      int            `json:"score" yaml:"score"`
	Snapshot   score.Snapshot `json:"snapshot" yaml:"snapshot"`
	Cached     bool           `json:"cached" yaml:"cached"`
	ComputedAt string         `json:"computed_at" yaml:"computedAt"`
}

// SaveDeveloper upserts the developer profile.
func (d *DB) SaveDeveloper(dev *Developer) error {
	if d == nil || d.DB == nil {
		return errDBNotInitialized
	}
	if dev == nil || dev.Username == "" {
		return errors.New("developer username required")
	}

	updated := dev.Updated
	if updated == "" {
		updated = time.Now().UTC().Format(timeFormat)
	}

	_, err := d.Exec(d.rebind(upsertDeveloperSQL),
		dev.Username, dev.FullName, dev.Email, dev.AvatarURL, dev.ProfileURL, dev.Entity, updated)
	if err != nil {
		return fmt.Errorf("saving developer %s: %w", dev.Username, err)
	}

	return nil
}

// GetDeveloper returns the cached profile, or nil when unknown.
func (d *DB) GetDeveloper(username string) (*Developer, error) {
	if d == nil || d.DB == nil {
		return nil, errDBNotInitialized
	}
	if username == "" {
		return nil, errors.New("username required")
	}

	var dev Developer
	err := d.QueryRow(d.rebind(selectDeveloperSQL), username).Scan(
		&dev.Username, &dev.FullName, &dev.Email, &dev.AvatarURL, &dev.ProfileURL, &dev.Entity, &dev.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying developer %s: %w", username, err)
	}

	return &dev, nil
}

// SaveReputation caches a computed reputation score and the snapshot
// it was derived from.
func (d *DB) SaveReputation(username string, rep int, snap score.Snapshot, computedAt string) error {
	if d == nil || d.DB == nil {
		return errDBNotInitialized
	}
	if username == "" {
		return errors.New("username required")
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot for %s: %w", username, err)
	}

	_, err = d.Exec(d.rebind(updateReputationSQL), rep, computedAt, string(b), username)
	if err != nil {
		return fmt.Errorf("saving reputation for %s: %w", username, err)
	}

	return nil
}

// GetFreshReputation returns the cached reputation when it is newer
// than the staleness threshold, or nil when missing or stale.
func (d *DB) GetFreshReputation(username string) (*ReputationResult, error) {
	if d == nil || d.DB == nil {
		return nil, errDBNotInitialized
	}
	if username == "" {
		return nil, errors.New("username required")
	}

	threshold := time.Now().UTC().Add(-scoreStaleHours * time.Hour).Format(timeFormat)

	var (
		rep        int
		snapJSON   sql.NullString
		computedAt string
	)
	err := d.QueryRow(d.rebind(selectReputationSQL), username, threshold).Scan(&rep, &snapJSON, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reputation for %s: %w", username, err)
	}

	res := &ReputationResult{
		Username:   username,
		Score:      rep,
		Cached:     true,
		ComputedAt: computedAt,
	}
	if snapJSON.Valid && snapJSON.String != "" {
		if err := json.Unmarshal([]byte(snapJSON.String), &res.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshaling snapshot for %s: %w", username, err)
		}
	}

	return res, nil
}

// SaveTrust caches a trust score on the developer row when one
// exists. Subjects without a profile are simply not cached.
func (d *DB) SaveTrust(username string, trustScore int, policy, computedAt string) error {
	if d == nil || d.DB == nil {
		return errDBNotInitialized
	}
	if username == "" {
		return errors.New("username required")
	}

	_, err := d.Exec(d.rebind(updateTrustSQL), trustScore, policy, computedAt, username)
	if err != nil {
		return fmt.Errorf("saving trust score for %s: %w", username, err)
	}

	return nil
}

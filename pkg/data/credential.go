package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/proofofdev/devtrust/pkg/trust"
)

const (
	insertCredentialSQL = `INSERT INTO credential (
			id,
			subject,
			kind,
			reputation_score,
			top_languages,
			skill_name,
			proficiency,
			evidence,
			commit_count,
			endorsed_skill,
			endorser_type,
			rating,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectCredentialsSQL = `SELECT
			id,
			subject,
			kind,
			reputation_score,
			top_languages,
			skill_name,
			proficiency,
			evidence,
			commit_count,
			endorsed_skill,
			endorser_type,
			rating
		FROM credential
		WHERE subject = ?
		ORDER BY created_at, id
	`

	deleteCredentialSQL = `DELETE FROM credential WHERE id = ?`

	// Fixed-width fractional seconds keep lexicographic order equal to
	// chronological order, preserving credential insertion order.
	credTimeFormat = "2006-01-02T15:04:05.000000000Z"

	countCredentialsSQL = `SELECT COUNT(*) FROM credential WHERE subject = ?`
)

// SaveCredential persists one credential and returns its ID, minting
// a new one when the credential does not carry an ID yet.
func (d *DB) SaveCredential(c trust.Credential) (string, error) {
	if d == nil || d.DB == nil {
		return "", errDBNotInitialized
	}
	if c.SubjectID == "" {
		return "", errors.New("credential subject required")
	}
	if c.Kind == trust.KindUnknown {
		return "", errors.New("credential kind required")
	}

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}

	var (
		repScore      sql.NullFloat64
		topLanguages  sql.NullString
		skillName     sql.NullString
		proficiency   sql.NullString
		evidence      sql.NullString
		commitCount   sql.NullInt64
		endorsedSkill sql.NullString
		endorserType  sql.NullString
		rating        sql.NullInt64
	)

	switch c.Kind {
	case trust.KindPortfolio:
		if c.Portfolio != nil {
			repScore = sql.NullFloat64{Float64: c.Portfolio.ReputationScore, Valid: true}
			if len(c.Portfolio.TopLanguages) > 0 {
				b, err := json.Marshal(c.Portfolio.TopLanguages)
				if err != nil {
					return "", fmt.Errorf("marshaling top languages: %w", err)
				}
				topLanguages = sql.NullString{String: string(b), Valid: true}
			}
		}
	case trust.KindSkill:
		if c.Skill != nil {
			skillName = sql.NullString{String: c.Skill.Name, Valid: true}
			proficiency = sql.NullString{String: c.Skill.Level.String(), Valid: true}
			b, err := json.Marshal(c.Skill.Evidence)
			if err != nil {
				return "", fmt.Errorf("marshaling evidence: %w", err)
			}
			evidence = sql.NullString{String: string(b), Valid: true}
		}
	case trust.KindProject:
		if c.Project != nil {
			commitCount = sql.NullInt64{Int64: c.Project.CommitCount, Valid: true}
		}
	case trust.KindEndorsement:
		if c.Endorsement != nil {
			endorsedSkill = sql.NullString{String: c.Endorsement.SkillName, Valid: true}
			endorserType = sql.NullString{String: c.Endorsement.Endorser.String(), Valid: true}
			rating = sql.NullInt64{Int64: int64(c.Endorsement.Rating), Valid: true}
		}
	}

	now := time.Now().UTC().Format(credTimeFormat)

	_, err := d.Exec(d.rebind(insertCredentialSQL),
		id, c.SubjectID, c.Kind.String(),
		repScore, topLanguages,
		skillName, proficiency, evidence,
		commitCount,
		endorsedSkill, endorserType, rating,
		now,
	)
	if err != nil {
		return "", fmt.Errorf("saving credential for %s: %w", c.SubjectID, err)
	}

	return id, nil
}

// ListCredentials returns all stored credentials for a subject in
// insertion order, ready for the trust engine.
func (d *DB) ListCredentials(subject string) ([]trust.Credential, error) {
	if d == nil || d.DB == nil {
		return nil, errDBNotInitialized
	}
	if subject == "" {
		return nil, errors.New("subject required")
	}

	rows, err := d.Query(d.rebind(selectCredentialsSQL), subject)
	if err != nil {
		return nil, fmt.Errorf("querying credentials for %s: %w", subject, err)
	}
	defer rows.Close()

	list := make([]trust.Credential, 0)
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credentials for %s: %w", subject, err)
	}

	return list, nil
}

// DeleteCredential removes a credential by ID. Deleting an unknown ID
// is an error so callers can surface typos.
func (d *DB) DeleteCredential(id string) error {
	if d == nil || d.DB == nil {
		return errDBNotInitialized
	}
	if id == "" {
		return errors.New("credential id required")
	}

	res, err := d.Exec(d.rebind(deleteCredentialSQL), id)
	if err != nil {
		return fmt.Errorf("deleting credential %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result for %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("credential not found: %s", id)
	}

	return nil
}

// CountCredentials returns the number of stored credentials for a subject.
func (d *DB) CountCredentials(subject string) (int, error) {
	if d == nil || d.DB == nil {
		return 0, errDBNotInitialized
	}

	var n int
	if err := d.QueryRow(d.rebind(countCredentialsSQL), subject).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting credentials for %s: %w", subject, err)
	}
	return n, nil
}

func scanCredential(rows *sql.Rows) (trust.Credential, error) {
	var (
		c             trust.Credential
		kind          string
		repScore      sql.NullFloat64
		topLanguages  sql.NullString
		skillName     sql.NullString
		proficiency   sql.NullString
		evidence      sql.NullString
		commitCount   sql.NullInt64
		endorsedSkill sql.NullString
		endorserType  sql.NullString
		rating        sql.NullInt64
	)

	if err := rows.Scan(
		&c.ID, &c.SubjectID, &kind,
		&repScore, &topLanguages,
		&skillName, &proficiency, &evidence,
		&commitCount,
		&endorsedSkill, &endorserType, &rating,
	); err != nil {
		return c, fmt.Errorf("scanning credential row: %w", err)
	}

	c.Kind = trust.ParseKind(kind)

	switch c.Kind {
	case trust.KindPortfolio:
		p := &trust.PortfolioClaim{ReputationScore: repScore.Float64}
		if topLanguages.Valid && topLanguages.String != "" {
			if err := json.Unmarshal([]byte(topLanguages.String), &p.TopLanguages); err != nil {
				return c, fmt.Errorf("unmarshaling top languages for %s: %w", c.ID, err)
			}
		}
		c.Portfolio = p
	case trust.KindSkill:
		s := &trust.SkillClaim{
			Name:  skillName.String,
			Level: trust.ParseProficiency(proficiency.String),
		}
		if evidence.Valid && evidence.String != "" {
			if err := json.Unmarshal([]byte(evidence.String), &s.Evidence); err != nil {
				return c, fmt.Errorf("unmarshaling evidence for %s: %w", c.ID, err)
			}
		}
		c.Skill = s
	case trust.KindProject:
		c.Project = &trust.ProjectClaim{CommitCount: commitCount.Int64}
	case trust.KindEndorsement:
		c.Endorsement = &trust.EndorsementClaim{
			SkillName: endorsedSkill.String,
			Endorser:  trust.ParseEndorserType(endorserType.String),
			Rating:    int(rating.Int64),
		}
	}

	return c, nil
}

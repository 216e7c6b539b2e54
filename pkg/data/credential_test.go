package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofdev/devtrust/pkg/trust"
)

func TestSaveCredential_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	creds := []trust.Credential{
		{
			SubjectID: "dev1",
			Kind:      trust.KindPortfolio,
			Portfolio: &trust.PortfolioClaim{
				ReputationScore: 87.5,
				TopLanguages:    []string{"go", "rust"},
			},
		},
		{
			SubjectID: "dev1",
			Kind:      trust.KindSkill,
			Skill: &trust.SkillClaim{
				Name:  "go",
				Level: trust.Expert,
				Evidence: trust.Evidence{
					RepositoryNames: []string{"repo1"},
					CommitCount:     120,
					LinesOfCode:     5000,
					ProjectNames:    []string{"p1", "p2"},
				},
			},
		},
		{
			SubjectID: "dev1",
			Kind:      trust.KindProject,
			Project:   &trust.ProjectClaim{CommitCount: 42},
		},
		{
			SubjectID: "dev1",
			Kind:      trust.KindEndorsement,
			Endorsement: &trust.EndorsementClaim{
				SkillName: "go",
				Endorser:  trust.Mentor,
				Rating:    4,
			},
		},
	}

	for i := range creds {
		id, err := db.SaveCredential(creds[i])
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		creds[i].ID = id
	}

	loaded, err := db.ListCredentials("dev1")
	require.NoError(t, err)
	require.Len(t, loaded, 4)

	byKind := make(map[trust.Kind]trust.Credential, 4)
	for _, c := range loaded {
		byKind[c.Kind] = c
	}

	p := byKind[trust.KindPortfolio]
	require.NotNil(t, p.Portfolio)
	assert.InDelta(t, 87.5, p.Portfolio.ReputationScore, 0.0001)
	assert.Equal(t, []string{"go", "rust"}, p.Portfolio.TopLanguages)

	s := byKind[trust.KindSkill]
	require.NotNil(t, s.Skill)
	assert.Equal(t, "go", s.Skill.Name)
	assert.Equal(t, trust.Expert, s.Skill.Level)
	assert.Equal(t, int64(120), s.Skill.Evidence.CommitCount)
	assert.Equal(t, []string{"p1", "p2"}, s.Skill.Evidence.ProjectNames)

	pr := byKind[trust.KindProject]
	require.NotNil(t, pr.Project)
	assert.Equal(t, int64(42), pr.Project.CommitCount)

	e := byKind[trust.KindEndorsement]
	require.NotNil(t, e.Endorsement)
	assert.Equal(t, "go", e.Endorsement.SkillName)
	assert.Equal(t, trust.Mentor, e.Endorsement.Endorser)
	assert.Equal(t, 4, e.Endorsement.Rating)
}

func TestSaveCredential_KeepsProvidedID(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.SaveCredential(trust.Credential{
		ID:        "fixed-id",
		SubjectID: "dev1",
		Kind:      trust.KindProject,
		Project:   &trust.ProjectClaim{CommitCount: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestSaveCredential_Validation(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.SaveCredential(trust.Credential{Kind: trust.KindProject})
	assert.Error(t, err)

	_, err = db.SaveCredential(trust.Credential{SubjectID: "dev1"})
	assert.Error(t, err)
}

func TestSaveCredential_NilDB(t *testing.T) {
	var d *DB
	_, err := d.SaveCredential(trust.Credential{SubjectID: "dev1", Kind: trust.KindProject})
	assert.Error(t, err)
}

func TestListCredentials_EmptySubject(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.ListCredentials("")
	assert.Error(t, err)
}

func TestListCredentials_UnknownSubject(t *testing.T) {
	db := setupTestDB(t)
	list, err := db.ListCredentials("nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteCredential(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.SaveCredential(trust.Credential{
		SubjectID: "dev1",
		Kind:      trust.KindProject,
		Project:   &trust.ProjectClaim{CommitCount: 10},
	})
	require.NoError(t, err)

	require.NoError(t, db.DeleteCredential(id))

	list, err := db.ListCredentials("dev1")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Error(t, db.DeleteCredential(id))
	assert.Error(t, db.DeleteCredential(""))
}

func TestCountCredentials(t *testing.T) {
	db := setupTestDB(t)

	n, err := db.CountCredentials("dev1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = db.SaveCredential(trust.Credential{
		SubjectID: "dev1",
		Kind:      trust.KindProject,
		Project:   &trust.ProjectClaim{CommitCount: 10},
	})
	require.NoError(t, err)

	n, err = db.CountCredentials("dev1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListCredentials_PreservesInsertionOrder(t *testing.T) {
	db := setupTestDB(t)

	names := []string{"go", "rust", "sql", "python", "zig"}
	for _, n := range names {
		_, err := db.SaveCredential(trust.Credential{
			SubjectID: "dev1",
			Kind:      trust.KindSkill,
			Skill:     &trust.SkillClaim{Name: n, Level: trust.Intermediate},
		})
		require.NoError(t, err)
	}

	loaded, err := db.ListCredentials("dev1")
	require.NoError(t, err)
	require.Len(t, loaded, len(names))
	for i, n := range names {
		assert.Equal(t, n, loaded[i].Skill.Name)
	}
}

func TestStoredCredentials_FeedTrustEngine(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.SaveCredential(trust.Credential{
		SubjectID: "dev1",
		Kind:      trust.KindPortfolio,
		Portfolio: &trust.PortfolioClaim{ReputationScore: 100},
	})
	require.NoError(t, err)

	creds, err := db.ListCredentials("dev1")
	require.NoError(t, err)
	assert.Equal(t, 100, trust.Score(creds, trust.PolicyObserved))
}

package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofdev/devtrust/pkg/data"
	"github.com/proofofdev/devtrust/pkg/score"
	"github.com/proofofdev/devtrust/pkg/trust"
)

func seedCredentials(t *testing.T, db *data.DB, subject string) {
	t.Helper()
	creds := []trust.Credential{
		{
			SubjectID: subject,
			Kind:      trust.KindPortfolio,
			Portfolio: &trust.PortfolioClaim{ReputationScore: 100},
		},
		{
			SubjectID: subject,
			Kind:      trust.KindSkill,
			Skill: &trust.SkillClaim{
				Name:  "go",
				Level: trust.Expert,
				Evidence: trust.Evidence{
					CommitCount:  100,
					LinesOfCode:  10000,
					ProjectNames: []string{"p1", "p2", "p3", "p4", "p5"},
				},
			},
		},
		{
			SubjectID: subject,
			Kind:      trust.KindSkill,
			Skill: &trust.SkillClaim{
				Name:     "rust",
				Level:    trust.Advanced,
				Evidence: trust.Evidence{ProjectNames: []string{"p1", "p2", "p3"}},
			},
		},
		{
			SubjectID: subject,
			Kind:      trust.KindEndorsement,
			Endorsement: &trust.EndorsementClaim{
				SkillName: "go",
				Endorser:  trust.Peer,
				Rating:    5,
			},
		},
	}
	for _, c := range creds {
		_, err := db.SaveCredential(c)
		require.NoError(t, err)
	}
}

func doRequest(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestScoreAPI_RequiresName(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/score")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreAPI_ServesCachedScore(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.SaveDeveloper(&data.Developer{Username: "octocat"}))

	snap := score.Snapshot{Followers: 50, Stars: 200}
	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")
	require.NoError(t, db.SaveReputation("octocat", score.Compute(snap), snap, now))

	mux := makeRouter(db, "")
	rec := doRequest(t, mux, "/data/score?name=octocat")
	require.Equal(t, http.StatusOK, rec.Code)

	var res data.ReputationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "octocat", res.Username)
	assert.Equal(t, 70, res.Score) // 50 followers + 20 star points
	assert.True(t, res.Cached)
}

func TestScoreAPI_NoCacheNoToken(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/score?name=nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrustAPI(t *testing.T) {
	db := setupTestDB(t)
	seedCredentials(t, db, "dev1")
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/trust?subject=dev1")
	require.Equal(t, http.StatusOK, rec.Code)

	var res TrustResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "dev1", res.Subject)
	assert.Equal(t, "observed", res.Policy)
	assert.Equal(t, 4, res.Credentials)
	assert.Greater(t, res.Score, 0)

	rec = doRequest(t, mux, "/data/trust?subject=dev1&policy=normalized")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "normalized", res.Policy)
}

func TestTrustAPI_RequiresSubject(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/trust")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrustAPI_EmptySubjectScoresZero(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/trust?subject=nobody")
	require.Equal(t, http.StatusOK, rec.Code)

	var res TrustResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.Credentials)
}

func TestGraphAPI(t *testing.T) {
	db := setupTestDB(t)
	seedCredentials(t, db, "dev1")
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/graph?subject=dev1")
	require.Equal(t, http.StatusOK, rec.Code)

	var g trust.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	require.Len(t, g.Skills, 2)
	assert.Equal(t, "go", g.Skills[0].Name)
	assert.Equal(t, "rust", g.Skills[1].Name)
	require.Len(t, g.Connections, 1)
	// go and rust share p1, p2, p3 -> full strength edge.
	assert.Equal(t, "go", g.Connections[0].From)
	assert.Equal(t, "rust", g.Connections[0].To)
	assert.InDelta(t, 1.0, g.Connections[0].Strength, 0.0001)
	require.Len(t, g.Endorsements, 1)
	assert.Equal(t, "go", g.Endorsements[0].SkillName)
}

func TestCredentialsAPI(t *testing.T) {
	db := setupTestDB(t)
	seedCredentials(t, db, "dev1")
	mux := makeRouter(db, "")

	rec := doRequest(t, mux, "/data/credentials?subject=dev1")
	require.Equal(t, http.StatusOK, rec.Code)

	var creds []trust.Credential
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &creds))
	assert.Len(t, creds, 4)
}

func TestMetricsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	mux := makeRouter(db, "")

	// Generate some traffic first.
	doRequest(t, mux, "/health")

	rec := doRequest(t, mux, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "devtrust_http_requests_total")
}

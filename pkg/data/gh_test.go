package data

import (
	"testing"

	"github.com/google/go-github/v83/github"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestMapUserToDeveloper(t *testing.T) {
	u := &github.User{
		Login:     strPtr(" octocat "),
		Name:      strPtr("The Octocat"),
		Email:     strPtr("octo@github.com"),
		AvatarURL: strPtr("https://avatars.example/octocat"),
		HTMLURL:   strPtr("https://github.com/octocat"),
		Company:   strPtr("@GitHub"),
	}

	dev := mapUserToDeveloper(u)
	assert.Equal(t, "octocat", dev.Username)
	assert.Equal(t, "The Octocat", dev.FullName)
	assert.Equal(t, "octo@github.com", dev.Email)
	assert.Equal(t, "GitHub", dev.Entity)
	assert.NotEmpty(t, dev.Updated)
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "", trim(nil))
	assert.Equal(t, "value", trim(strPtr("  value  ")))
	assert.Equal(t, "GitHub", trim(strPtr("@GitHub")))
}

func TestRateInfo(t *testing.T) {
	assert.Equal(t, "", rateInfo(nil))
	r := &github.Rate{Remaining: 10, Limit: 60}
	assert.Contains(t, rateInfo(r), "rate:10/60")
}

func TestCollectSnapshot_Validation(t *testing.T) {
	_, err := CollectSnapshot(t.Context(), nil, "octocat")
	assert.Error(t, err)

	_, err = CollectSnapshot(t.Context(), github.NewClient(nil), "")
	assert.Error(t, err)
}

func TestGetGitHubDeveloper_Validation(t *testing.T) {
	_, err := GetGitHubDeveloper(t.Context(), nil, "octocat")
	assert.Error(t, err)

	_, err = GetGitHubDeveloper(t.Context(), github.NewClient(nil), "")
	assert.Error(t, err)
}

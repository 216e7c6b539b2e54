package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v83/github"

	"github.com/proofofdev/devtrust/pkg/data"
	"github.com/proofofdev/devtrust/pkg/net"
	"github.com/proofofdev/devtrust/pkg/score"
	"github.com/proofofdev/devtrust/pkg/trust"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version,
	})
}

func scoreAPIHandler(db *data.DB, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("name")
		if username == "" {
			writeError(w, http.StatusBadRequest, "name parameter required")
			return
		}

		refresh := r.URL.Query().Get("refresh") == "true"

		if !refresh {
			cached, err := db.GetFreshReputation(username)
			if err != nil {
				slog.Error("reading cached reputation", "username", username, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to read cached reputation")
				return
			}
			if cached != nil {
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}

		if token == "" {
			writeError(w, http.StatusNotFound, "no cached score and no GitHub token configured")
			return
		}

		ctx := r.Context()
		client := github.NewClient(net.GetOAuthClient(ctx, token))

		dev, err := data.GetGitHubDeveloper(ctx, client, username)
		if err != nil {
			slog.Error("fetching developer", "username", username, "error", err)
			writeError(w, http.StatusBadGateway, "failed to fetch developer from GitHub")
			return
		}
		if err := db.SaveDeveloper(dev); err != nil {
			slog.Error("saving developer", "username", username, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save developer")
			return
		}

		snap, err := data.CollectSnapshot(ctx, client, username)
		if err != nil {
			slog.Error("collecting snapshot", "username", username, "error", err)
			writeError(w, http.StatusBadGateway, "failed to collect activity snapshot")
			return
		}

		rep := score.Compute(*snap)
		now := time.Now().UTC().Format("2006-01-02T15:04:05Z")

		if err := db.SaveReputation(username, rep, *snap, now); err != nil {
			slog.Error("caching reputation", "username", username, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to cache reputation")
			return
		}

		writeJSON(w, http.StatusOK, &data.ReputationResult{
			Username:   username,
			Score:      rep,
			Snapshot:   *snap,
			ComputedAt: now,
		})
	}
}

func trustAPIHandler(db *data.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := r.URL.Query().Get("subject")
		if subject == "" {
			writeError(w, http.StatusBadRequest, "subject parameter required")
			return
		}

		policy := trust.ParsePolicy(r.URL.Query().Get("policy"))

		creds, err := db.ListCredentials(subject)
		if err != nil {
			slog.Error("loading credentials", "subject", subject, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load credentials")
			return
		}

		now := time.Now().UTC().Format("2006-01-02T15:04:05Z")
		writeJSON(w, http.StatusOK, &TrustResult{
			Subject:     subject,
			Score:       trust.Score(creds, policy),
			Policy:      policy.String(),
			Credentials: len(creds),
			ComputedAt:  now,
		})
	}
}

func graphAPIHandler(db *data.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := r.URL.Query().Get("subject")
		if subject == "" {
			writeError(w, http.StatusBadRequest, "subject parameter required")
			return
		}

		creds, err := db.ListCredentials(subject)
		if err != nil {
			slog.Error("loading credentials", "subject", subject, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load credentials")
			return
		}

		writeJSON(w, http.StatusOK, trust.BuildSkillGraph(creds))
	}
}

func credentialsAPIHandler(db *data.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := r.URL.Query().Get("subject")
		if subject == "" {
			writeError(w, http.StatusBadRequest, "subject parameter required")
			return
		}

		creds, err := db.ListCredentials(subject)
		if err != nil {
			slog.Error("loading credentials", "subject", subject, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load credentials")
			return
		}

		writeJSON(w, http.StatusOK, creds)
	}
}

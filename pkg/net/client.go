package net

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
)

var reqTransport = &http.Transport{
	MaxIdleConns:          maxIdleConns,
	IdleConnTimeout:       timeoutInSeconds * time.Second,
	ResponseHeaderTimeout: timeoutInSeconds * time.Second,
}

// GetOAuthClient returns an HTTP client authenticating with the given
// GitHub access token.
func GetOAuthClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{
			TokenType:   "token",
			AccessToken: token,
		},
	)
	return oauth2.NewClient(ctx, ts)
}

// GetHTTPClient returns the shared unauthenticated client used for
// the device-flow endpoints.
func GetHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   timeoutInSeconds * time.Second,
		Transport: reqTransport,
	}
}

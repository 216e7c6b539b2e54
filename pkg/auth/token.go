// Package auth implements the GitHub device authorization flow and
// local token storage (OS keychain with a file fallback).
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/proofofdev/devtrust/pkg/net"
)

const (
	deviceCodeURL = "https://github.com/login/device/code"
	accessCodeURL = "https://github.com/login/oauth/access_token"
	deviceScopes  = "" // read-only public access, no scopes requested
	grantType     = "urn:ietf:params:oauth:grant-type:device_code"
)

// DeviceCode is the response of the device code request.
type DeviceCode struct {
	// DeviceCode is the 40-character verification code for the device.
	DeviceCode string `json:"device_code,omitempty"`
	// UserCode is displayed to the user to enter in a browser
	// (8 characters with a hyphen in the middle).
	UserCode string `json:"user_code,omitempty"`
	// VerificationURL is where the user enters the user code.
	VerificationURL string `json:"verification_uri,omitempty"`
	// ExpiresInSec is the code lifetime (default 900 seconds).
	ExpiresInSec int `json:"expires_in,omitempty"`
	// Interval is the minimum seconds between token poll requests.
	Interval int `json:"interval,omitempty"`
}

// AccessTokenResponse is the response of the access token exchange.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// GetDeviceCode starts the device flow for the given OAuth app.
func GetDeviceCode(clientID string) (*DeviceCode, error) {
	if clientID == "" {
		return nil, errors.New("clientID is required")
	}

	req, err := http.NewRequest(http.MethodPost, deviceCodeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := req.URL.Query()
	q.Add("client_id", clientID)
	q.Add("scope", deviceScopes)
	req.URL.RawQuery = q.Encode()

	req.Header.Add("content-type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	res, err := net.GetHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending device code request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body := ""
		if b, readErr := io.ReadAll(res.Body); readErr == nil {
			body = string(b)
		}
		return nil, fmt.Errorf("getting device code: %s - %s - %s", res.Status, req.URL, body)
	}

	var dc DeviceCode
	if err := json.NewDecoder(res.Body).Decode(&dc); err != nil {
		return nil, fmt.Errorf("decoding device code response: %w", err)
	}

	return &dc, nil
}

// ExchangeToken exchanges a verified device code for an access token.
func ExchangeToken(clientID string, code *DeviceCode) (*AccessTokenResponse, error) {
	if clientID == "" {
		return nil, errors.New("clientID is required")
	}
	if code == nil {
		return nil, errors.New("device code is nil")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(code.ExpiresInSec) * time.Second)

	req, err := http.NewRequest(http.MethodPost, accessCodeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := req.URL.Query()
	q.Add("client_id", clientID)
	q.Add("device_code", code.DeviceCode)
	q.Add("grant_type", grantType)
	req.URL.RawQuery = q.Encode()

	req.Header.Add("content-type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	res, err := net.GetHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending token request: %w", err)
	}
	defer res.Body.Close()

	var t AccessTokenResponse
	if err := json.NewDecoder(res.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	if time.Now().UTC().After(expiresAt) {
		return nil, errors.New("access token expired")
	}

	if t.AccessToken == "" {
		return nil, errors.New("access token is empty")
	}

	return &t, nil
}

package auth

import (
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDeviceCode_EmptyClientID(t *testing.T) {
	_, err := GetDeviceCode("")
	assert.Error(t, err)
}

func TestExchangeToken_EmptyClientID(t *testing.T) {
	_, err := ExchangeToken("", &DeviceCode{})
	assert.Error(t, err)
}

func TestExchangeToken_NilCode(t *testing.T) {
	_, err := ExchangeToken("test-client", nil)
	assert.Error(t, err)
}

// The stored-token loader and the device-flow exchanger are distinct
// functions with distinct arities.
func TestGetToken_IsStoredTokenLoader(t *testing.T) {
	var loader func(string) (string, error) = GetToken
	var exchanger func(string, *DeviceCode) (*AccessTokenResponse, error) = ExchangeToken
	assert.NotNil(t, loader)
	assert.NotNil(t, exchanger)
}

func TestDeviceCode_Unmarshal(t *testing.T) {
	raw := `{"device_code":"dc_test","user_code":"ABCD-1234","verification_uri":"https://github.com/login/device","expires_in":900,"interval":5}`
	var dc DeviceCode
	require.NoError(t, json.Unmarshal([]byte(raw), &dc))
	assert.Equal(t, "dc_test", dc.DeviceCode)
	assert.Equal(t, "ABCD-1234", dc.UserCode)
	assert.Equal(t, "https://github.com/login/device", dc.VerificationURL)
	assert.Equal(t, 900, dc.ExpiresInSec)
	assert.Equal(t, 5, dc.Interval)
}

func TestSaveToken_EmptyToken(t *testing.T) {
	assert.Error(t, SaveToken("", t.TempDir()))
}

func TestTokenFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, saveTokenFile("gho_test123", dir))

	info, err := os.Stat(path.Join(dir, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFileMode), info.Mode().Perm())

	token, err := getTokenFile(dir)
	require.NoError(t, err)
	assert.Equal(t, "gho_test123", token)
}

func TestTokenFile_Missing(t *testing.T) {
	_, err := getTokenFile(t.TempDir())
	assert.Error(t, err)
}

func TestSaveTokenFile_EmptyDir(t *testing.T) {
	assert.Error(t, saveTokenFile("tok", ""))
}

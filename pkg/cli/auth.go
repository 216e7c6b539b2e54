package cli

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/proofofdev/devtrust/pkg/auth"
)

// clientID identifies the devtrust OAuth app (public, device flow).
const clientID = "a7c2410fbe9d2208c5d1"

var authCmd = &urfave.Command{
	Name:            "auth",
	HideHelpCommand: true,
	Usage:           "Authenticate to GitHub to obtain an access token",
	Action:          cmdInitAuthFlow,
}

func cmdInitAuthFlow(_ *urfave.Context) error {
	code, err := auth.GetDeviceCode(clientID)
	if err != nil {
		return fmt.Errorf("getting device code: %w", err)
	}

	fmt.Printf("1). Copy this code: %s\n", code.UserCode)
	fmt.Printf("2). Navigate to this URL in your browser to authenticate: %s\n", code.VerificationURL)
	fmt.Print("3). Hit enter to complete the process:\n")
	fmt.Print(">")

	if _, err = fmt.Scanln(); err != nil {
		return fmt.Errorf("reading user input: %w", err)
	}

	token, err := auth.ExchangeToken(clientID, code)
	if err != nil {
		return fmt.Errorf("getting token: %w", err)
	}

	if err = auth.SaveToken(token.AccessToken, getHomeDir()); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Println("Token saved to OS keychain")
	return nil
}

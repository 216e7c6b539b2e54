// Package cli implements the devtrust command line application.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	urfave "github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/proofofdev/devtrust/pkg/data"
	"github.com/proofofdev/devtrust/pkg/logging"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite database file",
	}

	driverFlag = &urfave.StringFlag{
		Name:  "driver",
		Usage: "Database driver [sqlite, postgres]",
		Value: data.DriverSQLite,
	}

	dsnFlag = &urfave.StringFlag{
		Name:  "dsn",
		Usage: "Database connection string (postgres driver only)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath string
	Driver string
	Debug  bool
	DB     *data.DB
}

func getConfig(c *urfave.Context) *appConfig {
	return c.App.Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "devtrust",
		Version:              fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Compiled:             time.Now(),
		EnableBashCompletion: true,
		HideHelpCommand:      true,
		Usage:                "CLI for GitHub developer reputation and credential trust scoring",
		Flags: []urfave.Flag{
			debugFlag,
			dbFilePathFlag,
			driverFlag,
			dsnFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			authCmd,
			scoreCmd,
			credentialCmd,
			trustCmd,
			serverCmd,
		},
		Before: func(c *urfave.Context) error {
			if c.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			f := c.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			driver := c.String(driverFlag.Name)
			dsn := c.String(dsnFlag.Name)
			if driver != data.DriverPostgres {
				dsn = c.String(dbFilePathFlag.Name)
				if dsn == "" {
					dsn = path.Join(getHomeDir(), data.DataFileName)
				}
			}

			db, err := data.Open(driver, dsn)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			if err := db.Init(); err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}

			c.App.Metadata[appConfigKey] = &appConfig{
				DBPath: dsn,
				Driver: driver,
				Debug:  c.Bool(debugFlag.Name),
				DB:     db,
			}
			return nil
		},
		After: func(c *urfave.Context) error {
			if cfg, ok := c.App.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, ".devtrust")
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(os.Stdout).Encode(v)
	}
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

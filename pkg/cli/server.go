package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	urfave "github.com/urfave/cli/v2"

	"github.com/proofofdev/devtrust/pkg/auth"
	"github.com/proofofdev/devtrust/pkg/data"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &urfave.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	noBrowserFlag = &urfave.BoolFlag{
		Name:    "no-browser",
		Aliases: []string{"nb"},
		Usage:   "Do not open browser automatically",
	}

	serverCmd = &urfave.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP API server",
		Action:  cmdStartServer,
		Flags: []urfave.Flag{
			portFlag,
			noBrowserFlag,
		},
	}
)

func cmdStartServer(c *urfave.Context) error {
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	// On-demand scoring needs a token; without one the server still
	// serves cached scores and the trust engine endpoints.
	token, err := auth.GetToken(getHomeDir())
	if err != nil {
		slog.Warn("no GitHub token found, serving cached scores only")
		token = ""
	}

	mux := makeRouter(cfg.DB, token)
	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	url := fmt.Sprintf("http://%s", address)
	slog.Info("server started", "address", url)

	if !c.Bool(noBrowserFlag.Name) {
		openBrowser(url)
	}

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(db *data.DB, token string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", instrument("/health", healthHandler))

	mux.HandleFunc("GET /data/score", instrument("/data/score", scoreAPIHandler(db, token)))
	mux.HandleFunc("GET /data/trust", instrument("/data/trust", trustAPIHandler(db)))
	mux.HandleFunc("GET /data/graph", instrument("/data/graph", graphAPIHandler(db)))
	mux.HandleFunc("GET /data/credentials", instrument("/data/credentials", credentialsAPIHandler(db)))

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func openBrowser(url string) {
	var cmd string
	args := make([]string, 0, 1)

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
	case "linux":
		cmd = "xdg-open"
	default: // windows
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	}

	args = append(args, url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		slog.Error("failed to open browser", "error", err)
	}
}

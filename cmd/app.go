package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swapwizard/config"
	"swapwizard/pkg/client"
	"swapwizard/pkg/logging"
	"swapwizard/pkg/session"
)

// app bundles what every command needs
type app struct {
	cfg      *config.Config
	api      *client.LayerswapClient
	sessions session.Provider
	json     bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	token, _ := cmd.Flags().GetString("token")

	var sessions session.Provider
	if token != "" {
		sessions = session.NewMemoryStoreWith(session.Credential{
			AccessToken: token,
			ExpiresAt:   session.ExpiryFromToken(token),
		})
	} else {
		store, err := session.NewFileStore(cfg.SessionFile)
		if err != nil {
			return nil, err
		}
		sessions = store
	}

	return &app{
		cfg: cfg,
		api: client.NewLayerswapClient(cfg.BaseURL,
			client.WithRateLimit(cfg.RequestRate),
			client.WithLogger(logging.Logger),
		),
		sessions: sessions,
		json:     jsonOutput,
	}, nil
}

// signalContext is cancelled on Ctrl+C
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withSpinner runs fn while a spinner is shown, unless output is JSON
func (a *app) withSpinner(suffix string, fn func() error) error {
	if a.json {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError(fmt.Errorf("failed to encode output: %w", err))
		return
	}
	fmt.Println(string(data))
}

// terminalNotifier prints transient wizard messages
type terminalNotifier struct{}

func (terminalNotifier) Error(msg string) {
	color.Red("\n%s", msg)
}

func exitOnError(err error) {
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/edupulse/inbox/internal/api"
	"github.com/edupulse/inbox/internal/app"
	"github.com/edupulse/inbox/internal/credential"
	"github.com/edupulse/inbox/internal/inbox"
	"github.com/edupulse/inbox/internal/logging"
	"github.com/edupulse/inbox/internal/model"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "auth" {
		if err := runAuth(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runAuth stores the API token in the system keyring.
func runAuth(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: inbox auth <token>")
	}
	if err := credential.Set(credential.TokenKey, args[0]); err != nil {
		return err
	}
	fmt.Println("token stored")
	return nil
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is not set; edit %s", model.DefaultConfigPath())
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	token, err := credential.Token()
	if err != nil || token == "" {
		return fmt.Errorf("no API token; run `inbox auth <token>` or set %s", credential.TokenEnvVar)
	}

	client := api.NewClient(
		cfg.API.BaseURL,
		token,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
	)

	sess := inbox.NewSession(client, logger, inbox.SessionOptions{
		PollInterval: time.Duration(cfg.Sync.PollIntervalSec) * time.Second,
		PerPage:      cfg.Sync.PerPage,
	})
	defer sess.Close()

	p := tea.NewProgram(app.New(sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

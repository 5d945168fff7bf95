package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/swiftstay/admin/internal/api"
	"github.com/swiftstay/admin/internal/config"
	"github.com/swiftstay/admin/internal/session"
	"github.com/swiftstay/admin/internal/storage"
)

// Env is everything a command needs. Fields left nil are filled in by Open from the
// configuration, so tests can inject a store, session or client.
type Env struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Version string

	Store   storage.Store
	Session *session.Session
	Client  *api.Client

	Out io.Writer
	Err io.Writer

	// Output is table, json or yaml
	Output string

	Now func() time.Time

	// Confirm asks a yes/no question. It defaults to a promptui prompt.
	Confirm func(label string) (bool, error)

	// ReadPassword reads a password without echo. It defaults to the terminal.
	ReadPassword func(prompt string) (string, error)
}

// Open builds the store, session and API client that were not injected
func (e *Env) Open(ctx context.Context) error {
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Err == nil {
		e.Err = os.Stderr
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Confirm == nil {
		e.Confirm = promptConfirm
	}
	if e.ReadPassword == nil {
		e.ReadPassword = terminalPassword(e.Err)
	}

	if e.Store == nil {
		store, err := storage.Open(e.Config.Storage, e.Logger)
		if err != nil {
			return fmt.Errorf("failed to open session storage: %w", err)
		}
		e.Store = store
	}

	if e.Session == nil {
		e.Session = session.New(e.Store, session.WithLogger(e.Logger))
		if err := e.Session.Restore(ctx); err != nil {
			return fmt.Errorf("failed to restore session: %w", err)
		}
	}

	if e.Client == nil {
		e.Client = api.New(e.Config.API.BaseURL(), e.Store,
			api.WithSession(e.Session),
			api.WithLogger(e.Logger),
			api.WithHTTPClient(&http.Client{Timeout: e.Config.API.Timeout}),
			api.WithUserAgent("swiftstay-admin/"+e.Version),
		)
	}

	return nil
}

// Close releases the store
func (e *Env) Close() error {
	if e.Store == nil {
		return nil
	}
	return e.Store.Close()
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

func terminalPassword(w io.Writer) func(string) (string, error) {
	return func(prompt string) (string, error) {
		// Check if stdin is a terminal (not piped)
		if !term.IsTerminal(int(syscall.Stdin)) {
			return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or SWIFTSTAY_PASSWORD env var)")
		}

		fmt.Fprint(w, prompt)
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(bytePassword), nil
	}
}

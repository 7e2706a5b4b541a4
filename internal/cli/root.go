// Package cli is the tasquest command line client. It stands in for the
// mobile presentation layer: every command resumes the persisted session,
// works on the account's AppData and saves it back.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tasquest/internal/appdata/models"
	identity "tasquest/internal/identity/models"
	"tasquest/internal/session"
	"tasquest/pkg/client"
	dErrors "tasquest/pkg/domain-errors"
)

// app carries what the commands share once flags are parsed.
type app struct {
	apiURL      string
	sessionFile string
	verbose     bool

	client  *client.Client
	session *session.Session
}

func Execute() error {
	return NewRoot().Execute()
}

func NewRoot() *cobra.Command {
	a := &app{}
	cfg := client.ConfigFromEnv()

	root := &cobra.Command{
		Use:           "tasquest",
		Short:         "Goals, tasks and tags from the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfg)
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", cfg.BaseURL, "TasQuest API base URL")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "session file (default $XDG_CONFIG_HOME/tasquest/session.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log client diagnostics to stderr")

	root.AddCommand(
		signUpCmd(a),
		signInCmd(a),
		signOutCmd(a),
		whoAmICmd(a),
		avatarCmd(a),
		showCmd(a),
		starCmd(a),
		statusCmd(a),
		goalCmd(a),
		tagCmd(a),
		taskCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, cfg client.Config) error {
	path := a.sessionFile
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return err
		}
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.client = client.New(a.apiURL,
		client.WithTimeout(cfg.Timeout),
		client.WithTokenStore(client.NewFileTokenStore(path)),
		client.WithLogger(log),
	)
	a.session = session.New(a.client.Auth(), a.client.Data(), session.WithLogger(log))
	return nil
}

// resume restores the persisted session or fails with a hint to sign in.
func (a *app) resume(ctx context.Context) (*identity.AccountIdentity, *models.AppData, error) {
	ok, err := a.session.Resume(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in; run `tasquest signin`")
	}
	return a.session.Identity(), a.session.AppData(), nil
}

// mutate resumes the session, applies fn to the AppData and saves it.
func (a *app) mutate(ctx context.Context, fn func(*models.AppData) error) error {
	_, data, err := a.resume(ctx)
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return a.session.Save(ctx)
}

// password takes the --password flag, then TASQUEST_PASSWORD, then one line
// from stdin.
func password(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("TASQUEST_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

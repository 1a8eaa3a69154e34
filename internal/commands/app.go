package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"time"

	"github.com/p4tools/p/internal/config"
	"github.com/p4tools/p/internal/logging"
	"github.com/p4tools/p/internal/p4"
	"github.com/p4tools/p/internal/secrets"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

// loadedConfig is set by setup before any subcommand runs.
var loadedConfig *config.Config

// setup loads configuration and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFilePath: configFlag})
	if err != nil {
		return err
	}
	jsonLogs, err := parseLogFormat(logFormatFlag)
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, verboseFlag, jsonLogs, cmd.ErrOrStderr()); err != nil {
		return err
	}
	logging.Debug("config loaded", "file", cfg.File, "p4_command", cfg.P4Command)
	loadedConfig = cfg
	return nil
}

// parseLogFormat reports whether format selects JSON logs.
func parseLogFormat(format string) (bool, error) {
	switch format {
	case "", "text":
		return false, nil
	case "json":
		return true, nil
	}
	return false, fmt.Errorf("unknown log format %q, want text or json", format)
}

// app carries what the command bodies share. Tests build one directly.
type app struct {
	cfg    *config.Config
	client *p4.Client

	// status receives spinner output. Spinners never draw on the widget
	// terminal.
	status io.Writer

	openTerminal func() (terminal.Terminal, func() error, error)
	now          func() time.Time
}

func newApp() (*app, error) {
	cfg := loadedConfig
	argv, err := cfg.P4Argv()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:          cfg,
		client:       p4.NewClient(p4.NewExecRunner(argv, storedPassword(cfg))),
		status:       os.Stderr,
		openTerminal: openTTY,
		now:          time.Now,
	}, nil
}

func openTTY() (terminal.Terminal, func() error, error) {
	tty, err := terminal.OpenTTY()
	if err != nil {
		return nil, nil, err
	}
	return tty, tty.Close, nil
}

// interact opens the terminal and runs fn in a raw session on it.
func (a *app) interact(fn func(*terminal.Session) error) (err error) {
	t, closeFn, err := a.openTerminal()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return terminal.Interact(t, fn)
}

// spin runs fn behind a spinner on the status writer. fn may retitle the
// spinner as it moves through steps.
func (a *app) spin(message string, fn func(sp *terminal.Spinner) error) error {
	sp := terminal.NewSpinner(a.status, message)
	sp.Start()
	err := fn(sp)
	sp.Stop()
	return err
}

func (a *app) loadTracked() (*config.Tracked, error) {
	return config.LoadTracked(a.cfg.TrackedPath())
}

// describe fetches descriptions for changes, logging rather than failing
// when p4 cannot answer.
func (a *app) describe(ctx context.Context, changes []string) map[string]string {
	descs, err := a.client.Descriptions(ctx, changes, a.cfg.DescribeWorkers)
	if err != nil {
		logging.Warn("failed to fetch changelist descriptions", "err", err)
		return map[string]string{}
	}
	return descs
}

// p4Identity returns the server and user the password is stored under.
func p4Identity() (port, userName string) {
	userName = os.Getenv("P4USER")
	if userName == "" {
		if u, err := user.Current(); err == nil {
			userName = u.Username
		}
	}
	return os.Getenv("P4PORT"), userName
}

// storedPassword returns the saved password unless P4PASSWD is already set.
func storedPassword(cfg *config.Config) string {
	if os.Getenv("P4PASSWD") != "" {
		return ""
	}
	port, userName := p4Identity()
	pw, err := secrets.New(cfg.Dir).Get(secrets.PasswordKey(port, userName))
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			logging.Warn("failed to read stored password", "err", err)
		}
		return ""
	}
	return pw
}

func changeIDs(groups []p4.ChangeGroup) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.Change
	}
	return ids
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

package commands

import (
	"errors"
	"fmt"

	"github.com/p4tools/p/internal/secrets"
	"github.com/p4tools/p/internal/terminal"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save your Perforce password in the system keychain",
	Long: `Reads your Perforce password without echo and stores it in the system
keychain (or a 0600 file when no keychain is available). p passes it to
p4 as P4PASSWD unless P4PASSWD is already set. The entry is keyed by
P4PORT and P4USER.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.login(secrets.New(a.cfg.Dir))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved Perforce password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.logout(secrets.New(a.cfg.Dir))
	},
}

// passwordReader is implemented by terminals that can read without echo.
type passwordReader interface {
	ReadPassword() (string, error)
}

func (a *app) login(store secrets.Store) error {
	port, user := p4Identity()
	if user == "" {
		return errors.New("cannot determine the Perforce user, set P4USER")
	}

	t, closeFn, err := a.openTerminal()
	if err != nil {
		return err
	}
	defer closeFn()

	pr, ok := t.(passwordReader)
	if !ok {
		return errors.New("terminal cannot read a password without echo")
	}
	if err := t.Print(fmt.Sprintf("Password for %s@%s: ", user, portLabel(port))); err != nil {
		return err
	}
	password, err := pr.ReadPassword()
	if perr := t.Print("\r\n"); perr != nil && err == nil {
		err = perr
	}
	if err != nil {
		return err
	}
	if password == "" {
		terminal.Info("Empty password, nothing saved.")
		return nil
	}

	if err := store.Set(secrets.PasswordKey(port, user), password); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}
	terminal.Success(fmt.Sprintf("Saved password for %s@%s", user, portLabel(port)))
	return nil
}

func (a *app) logout(store secrets.Store) error {
	port, user := p4Identity()
	if err := store.Delete(secrets.PasswordKey(port, user)); err != nil {
		return fmt.Errorf("failed to remove password: %w", err)
	}
	terminal.Success(fmt.Sprintf("Removed saved password for %s@%s", user, portLabel(port)))
	return nil
}

func portLabel(port string) string {
	if port == "" {
		return "default"
	}
	return port
}

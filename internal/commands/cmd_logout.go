package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/portal/internal/core/auth"
	"github.com/colonyops/portal/internal/printer"
)

type LogoutCmd struct {
	flags *Flags
}

// NewLogoutCmd creates a new logout command
func NewLogoutCmd(flags *Flags) *LogoutCmd {
	return &LogoutCmd{flags: flags}
}

// Register adds the logout command to the application
func (cmd *LogoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "logout",
		Usage:       "End the gateway session",
		UsageText:   "portal logout",
		Description: "Revokes the session token and removes it from the data directory.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *LogoutCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	session, err := openSession(cmd.flags.Config)
	if err != nil {
		return err
	}

	user := session.CurrentUserID()
	err = session.Logout(ctx)
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		p.Infof("Not signed in")
		return nil
	case err != nil:
		p.Warnf("Signed out locally; the gateway did not confirm: %v", err)
		return fmt.Errorf("logout: %w", err)
	}

	p.Successf("Signed out %s", user)
	return nil
}

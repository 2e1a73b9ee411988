package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/portal/internal/printer"
)

type LoginCmd struct {
	flags    *Flags
	username string
	password string
}

// NewLoginCmd creates a new login command
func NewLoginCmd(flags *Flags) *LoginCmd {
	return &LoginCmd{flags: flags}
}

// Register adds the login command to the application
func (cmd *LoginCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "login",
		Usage:     "Sign in to the gateway",
		UsageText: "portal login [--username NAME] [--password PASS]",
		Description: `Creates a gateway session and stores its token in the data directory.

Missing credentials are prompted for when stdin is a terminal.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "gateway username",
				Sources:     cli.EnvVars("PORTAL_USERNAME"),
				Destination: &cmd.username,
			},
			&cli.StringFlag{
				Name:        "password",
				Aliases:     []string{"p"},
				Usage:       "gateway password",
				Sources:     cli.EnvVars("PORTAL_PASSWORD"),
				Destination: &cmd.password,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LoginCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.username == "" || cmd.password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--username and --password are required when stdin is not a terminal")
		}
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	session, err := openSession(cmd.flags.Config)
	if err != nil {
		return err
	}

	if err := session.Login(ctx, strings.TrimSpace(cmd.username), cmd.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	p.Successf("Signed in as %s", session.CurrentUserID())
	return nil
}

func (cmd *LoginCmd) runForm() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Validate(required("username")).
				Value(&cmd.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(required("password")).
				Value(&cmd.password),
		),
	).Run()
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

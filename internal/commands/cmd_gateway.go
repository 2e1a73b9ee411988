package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/portal/internal/gateway"
	"github.com/colonyops/portal/internal/printer"
)

const gatewayShutdownTimeout = 5 * time.Second

type GatewayCmd struct {
	flags     *Flags
	listen    string
	usersFile string
	password  string
}

// NewGatewayCmd creates a new gateway command
func NewGatewayCmd(flags *Flags) *GatewayCmd {
	return &GatewayCmd{flags: flags}
}

// Register adds the gateway command to the application
func (cmd *GatewayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "gateway",
		Usage:     "Run a development gateway",
		UsageText: "portal gateway --users users.yaml [--listen :8080]",
		Description: `Serves the gateway API from a local users file. Tokens are kept in memory
and are lost on restart.

The users file lists accounts with bcrypt password hashes and their grants:

  users:
    - username: alice
      password_hash: $2a$10$...
      permissions:
        - { type: SYSTEM, action: ADMINISTER }

Use 'portal gateway hash-password' to create a hash.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "listen",
				Usage:       "address to listen on",
				Sources:     cli.EnvVars("PORTAL_GATEWAY_LISTEN"),
				Value:       ":8080",
				Destination: &cmd.listen,
			},
			&cli.StringFlag{
				Name:        "users",
				Usage:       "path to the users file",
				Sources:     cli.EnvVars("PORTAL_GATEWAY_USERS"),
				Destination: &cmd.usersFile,
			},
		},
		Action: cmd.run,
		Commands: []*cli.Command{
			{
				Name:      "hash-password",
				Usage:     "Print a bcrypt hash for the users file",
				UsageText: "portal gateway hash-password [--password PASS]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "password",
						Usage:       "password to hash (prompted for when omitted)",
						Destination: &cmd.password,
					},
				},
				Action: cmd.runHashPassword,
			},
		},
	})

	return app
}

func (cmd *GatewayCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.usersFile == "" {
		return fmt.Errorf("--users is required")
	}

	users, err := gateway.LoadUsers(cmd.usersFile)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cmd.listen,
		Handler:           gateway.NewServer(users).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	p.Successf("Gateway listening on %s with %d user(s)", cmd.listen, len(users))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve gateway: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gatewayShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown gateway")
		return err
	}
	return nil
}

func (cmd *GatewayCmd) runHashPassword(ctx context.Context, c *cli.Command) error {
	if cmd.password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--password is required when stdin is not a terminal")
		}
		err := huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(required("password")).
			Value(&cmd.password).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	hash, err := gateway.HashPassword(cmd.password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.Root().Writer, hash)
	return err
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/portal/internal/core/permission"
	"github.com/colonyops/portal/internal/printer"
	"github.com/colonyops/portal/pkg/iojson"
)

type WhoamiCmd struct {
	flags   *Flags
	jsonOut bool
}

// NewWhoamiCmd creates a new whoami command
func NewWhoamiCmd(flags *Flags) *WhoamiCmd {
	return &WhoamiCmd{flags: flags}
}

// Register adds the whoami command to the application
func (cmd *WhoamiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "whoami",
		Usage:     "Show the signed in user and their permissions",
		UsageText: "portal whoami [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})

	return app
}

type whoami struct {
	Username   string             `json:"username"`
	SignedInAt time.Time          `json:"signedInAt"`
	IsAdmin    bool               `json:"isAdmin"`
	HasUpdate  bool               `json:"hasUpdate"`
	Grants     []permission.Grant `json:"grants"`
}

func (cmd *WhoamiCmd) run(ctx context.Context, c *cli.Command) error {
	session, err := openSession(cmd.flags.Config)
	if err != nil {
		return err
	}

	sess, ok := session.Session()
	if !ok {
		return cli.Exit("not signed in; run 'portal login'", 1)
	}

	set, err := session.Permissions(ctx, sess.Username)
	if err != nil {
		return fmt.Errorf("load permissions: %w", err)
	}

	var checker permission.Checker
	isAdmin := permission.IsAdmin(checker, &set)
	out := whoami{
		Username:   sess.Username,
		SignedInAt: sess.CreatedAt,
		IsAdmin:    isAdmin,
		HasUpdate:  isAdmin || checker.Check(&set, "", "", permission.ActionUpdate),
		Grants:     set.Grants,
	}

	if cmd.jsonOut {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
	}

	p := printer.Ctx(ctx)
	p.Section(out.Username)
	p.Printf("  signed in   %s", out.SignedInAt.Local().Format(time.RFC1123))
	p.Printf("  admin       %t", out.IsAdmin)
	p.Printf("  can update  %t", out.HasUpdate)
	p.Printf("  grants      %d", len(out.Grants))
	for _, g := range out.Grants {
		if g.ObjectID == "" {
			p.Printf("    %s %s", g.ObjectType, g.Action)
			continue
		}
		p.Printf("    %s %s %s", g.ObjectType, g.ObjectID, g.Action)
	}
	return nil
}

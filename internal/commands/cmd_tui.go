package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Drive a portal's notice queue interactively",
		UsageText: "noticeq tui [portal]",
		Description: `Opens a full-screen preview of one portal's queue. Keys push notices of
each variant, update or dismiss the newest one, and clear the queue.

The portal defaults to "` + config.PortalInbox + `".`,
		ShellComplete: PortalNameCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *TuiCmd) run(ctx context.Context, c *cli.Command) error {
	name := config.PortalInbox
	if c.Args().Present() {
		name = c.Args().First()
	}

	d, err := cmd.flags.Hub.Lookup(name)
	if err != nil {
		return err
	}

	m := tui.New(d)
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

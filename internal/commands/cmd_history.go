package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/mscartozzoni/noticeq/internal/data/stores"
	"github.com/mscartozzoni/noticeq/internal/printer"
)

var errHistoryDisabled = errors.New("notice history is disabled in the config (history.enabled)")

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	portal string
	limit  int
	format string
	yes    bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	portalFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "portal",
			Aliases:     []string{"p"},
			Usage:       "limit to one portal (default: all portals)",
			Destination: &cmd.portal,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "history",
		Usage: "Inspect notices recorded by every portal",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List recorded notices, newest first",
				UsageText: "noticeq history ls [options]",
				Flags: []cli.Flag{
					portalFlag(),
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "maximum number of notices (0 = all)",
						Value:       20,
						Destination: &cmd.limit,
					},
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json, markdown)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "clear",
				Usage:     "Delete recorded notices",
				UsageText: "noticeq history clear [options]",
				Flags: []cli.Flag{
					portalFlag(),
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	if cmd.flags.History == nil {
		return errHistoryDisabled
	}

	entries, err := cmd.flags.History.List(ctx, cmd.portal, cmd.limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out := c.Root().Writer
	switch cmd.format {
	case "json":
		return writeHistoryJSON(out, entries)
	case "markdown":
		return writeHistoryMarkdown(out, entries)
	case "text":
		if len(entries) == 0 {
			printer.Ctx(ctx).Infof("No notices recorded")
			return nil
		}
		return writeHistoryText(out, entries)
	default:
		return fmt.Errorf("unknown format %q (text, json, markdown)", cmd.format)
	}
}

const titleWidth = 50

func writeHistoryText(out io.Writer, entries []stores.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SEQ\tPORTAL\tVARIANT\tTITLE\tCREATED")

	for _, e := range entries {
		title := ansi.Truncate(e.Notice.Title, titleWidth, "...")
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.Seq,
			e.Portal,
			e.Notice.Variant,
			title,
			e.Notice.CreatedAt.Format(time.DateTime),
		)
	}

	return w.Flush()
}

type historyJSON struct {
	Seq         int64     `json:"seq"`
	Portal      string    `json:"portal"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     string    `json:"variant"`
	TTL         string    `json:"ttl,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func writeHistoryJSON(out io.Writer, entries []stores.Entry) error {
	items := make([]historyJSON, 0, len(entries))
	for _, e := range entries {
		item := historyJSON{
			Seq:         e.Seq,
			Portal:      e.Portal,
			ID:          e.Notice.ID,
			Title:       e.Notice.Title,
			Description: e.Notice.Description,
			Variant:     string(e.Notice.Variant),
			CreatedAt:   e.Notice.CreatedAt,
		}
		if e.Notice.TTL > 0 {
			item.TTL = e.Notice.TTL.String()
		}
		items = append(items, item)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// historyMarkdown renders entries as a markdown table.
func historyMarkdown(entries []stores.Entry) string {
	var b strings.Builder
	b.WriteString("# Notice history\n\n")
	if len(entries) == 0 {
		b.WriteString("_No notices recorded._\n")
		return b.String()
	}

	b.WriteString("| Portal | Variant | Title | Description | Created |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Portal,
			e.Notice.Variant,
			markdownCell(e.Notice.Title),
			markdownCell(e.Notice.Description),
			e.Notice.CreatedAt.Format(time.DateTime),
		)
	}
	return b.String()
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeHistoryMarkdown(out io.Writer, entries []stores.Entry) error {
	style, width := "notty", 100
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		style = "dark"
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := r.Render(historyMarkdown(entries))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	_, err = io.WriteString(out, rendered)
	return err
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.flags.History == nil {
		return errHistoryDisabled
	}

	scope := "every portal"
	if cmd.portal != "" {
		scope = fmt.Sprintf("portal %q", cmd.portal)
	}

	if !cmd.yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to clear history of %s without --yes", scope)
		}

		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete the notice history of %s?", scope)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			p.Infof("History kept")
			return nil
		}
	}

	n, err := cmd.flags.History.Clear(ctx, cmd.portal)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	p.Successf("Removed %d notice(s) from %s", n, scope)
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/core/notice"
	"github.com/mscartozzoni/noticeq/internal/core/styles"
	"github.com/mscartozzoni/noticeq/internal/demo"
	"github.com/mscartozzoni/noticeq/internal/printer"
	"github.com/mscartozzoni/noticeq/internal/toast"
	"github.com/mscartozzoni/noticeq/internal/tui"
)

type DemoCmd struct {
	flags *Flags

	// Command-specific flags
	portal string
	script string
	width  int
}

// NewDemoCmd creates a new demo command
func NewDemoCmd(flags *Flags) *DemoCmd {
	return &DemoCmd{flags: flags}
}

// Register adds the demo command to the application
func (cmd *DemoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "demo",
		Usage:     "Play a notice script against a portal and print every state",
		UsageText: "noticeq demo [options]",
		Description: `Runs a YAML notice script against one portal's queue and prints each
state the queue publishes, newest notice first.

Without --script the built-in walkthrough is played. --script accepts a
file path or a glob such as 'scripts/**/*.yaml'; matches run in lexical order
against the same queue.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "portal",
				Aliases:     []string{"p"},
				Usage:       "portal whose queue receives the notices",
				Value:       config.PortalInbox,
				Destination: &cmd.portal,
			},
			&cli.StringFlag{
				Name:        "script",
				Aliases:     []string{"s"},
				Usage:       "script file or glob pattern",
				Destination: &cmd.script,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "render width (defaults to the terminal width)",
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DemoCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	d, err := cmd.flags.Hub.Lookup(cmd.portal)
	if err != nil {
		return err
	}

	scripts, err := cmd.loadScripts()
	if err != nil {
		return err
	}

	frames := watchFrames(d, c.Root().Writer, cmd.renderWidth())
	defer frames.stop()

	runner := demo.NewRunner(d, nil)
	for _, s := range scripts {
		if err := runner.Run(ctx, s); err != nil {
			return fmt.Errorf("run %s: %w", s.Name, err)
		}
	}

	p.Successf("%d state(s) published on %s", frames.count.Load(), d.Name())
	return nil
}

func (cmd *DemoCmd) loadScripts() ([]demo.Script, error) {
	if cmd.script == "" {
		return []demo.Script{demo.Default()}, nil
	}

	matches, err := doublestar.FilepathGlob(cmd.script)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", cmd.script, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no script matches %q", cmd.script)
	}
	slices.Sort(matches)

	scripts := make([]demo.Script, 0, len(matches))
	for _, path := range matches {
		s, err := readScript(path)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

func readScript(path string) (demo.Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return demo.Script{}, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()
	return demo.Parse(path, f)
}

func (cmd *DemoCmd) renderWidth() int {
	if cmd.width > 0 {
		return cmd.width
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// frameWriter prints every state published by a dispatcher.
type frameWriter struct {
	count       atomic.Int64
	unsubscribe func()
}

func watchFrames(d *toast.Dispatcher, w io.Writer, width int) *frameWriter {
	fw := &frameWriter{}
	fw.unsubscribe = d.Subscribe(func(s notice.State) {
		n := fw.count.Add(1)
		header := fmt.Sprintf("── %s #%d  %d/%d", d.Name(), n, s.Len(), d.Capacity())
		_, _ = fmt.Fprintln(w, styles.MutedStyle.Render(header))
		if stack := tui.RenderStack(s, width); stack != "" {
			_, _ = fmt.Fprintln(w, stack)
		}
	})
	return fw
}

func (fw *frameWriter) stop() {
	fw.unsubscribe()
}

package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// PortalNameCompleter suggests configured portal names. When the user is
// typing a flag it falls back to the default flag completion.
func PortalNameCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Config == nil {
			return
		}

		w := cmd.Root().Writer
		for _, name := range flags.Config.PortalNames() {
			_, _ = fmt.Fprintln(w, name)
		}
	}
}

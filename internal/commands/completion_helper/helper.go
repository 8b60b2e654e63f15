package completion_helper

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints every flag of the current command so shells
// suggest them even where the default urfave/cli completion stays silent.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	writeFlags(writer(cmd), cmd.Flags)
}

func writeFlags(w io.Writer, flags []cli.Flag) {
	for _, f := range flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}

func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// cliptoo: clipboard history capture daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "cliptoo",
		Short: "Clipboard history capture daemon",
		Long: `cliptoo watches the system clipboard, deduplicates genuine changes,
classifies them (text, link, color, code, image, files), and stores them in a
local SQLite history. Images are cached content-addressed on disk.

Run "cliptoo watch" to start the capture daemon. Use "cliptoo recent" and
"cliptoo status" to query a running daemon over its local socket.

Config file search order (first found wins):
  /etc/cliptoo/cliptoo.toml
  $HOME/.config/cliptoo/cliptoo.toml
  path supplied via --config

All flags can be set via CLIPTOO_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newWatchCmd(),
		newRecentCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("cliptoo %s\n", Version)
		},
	}
}

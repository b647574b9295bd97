// Command compose-serve runs a tool pipeline assembled from a manifest.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "compose-serve",
		Short:   "Serve a composed tool pipeline",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newToolsCmd(),
		newHandlersCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

func newToolsCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the merged tool catalog of the manifest's pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(manifestPath)
			if err != nil {
				return err
			}

			handlers, err := buildPipeline(cfg.Pipeline)
			if err != nil {
				return err
			}
			ep := chain.New(handlers...)

			req, err := protocol.NewRequest(json.RawMessage("1"), protocol.MethodToolsList, nil)
			if err != nil {
				return err
			}
			resp, err := ep.HandleRequest(context.Background(), req)
			if err != nil {
				return err
			}

			var result protocol.ListToolsResult
			if err := resp.DecodeResult(&result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tool := range result.Tools {
				fmt.Fprintf(out, "%-16s %s\n", tool.Name, tool.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "path to the pipeline manifest")
	return cmd
}

func newHandlersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List handler aliases available to manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range knownHandlers() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

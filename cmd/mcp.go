package cmd

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/bootstrap"
	"github.com/riggerhq/rigger/internal/mcpserver"
	"github.com/riggerhq/rigger/internal/store"
	"github.com/riggerhq/rigger/internal/tools"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing the task and artifact tool surface",
	Long: `mcp runs a Model Context Protocol server over stdin/stdout so AI
clients (Claude Code, Cursor, and similar) can search tasks, inspect
artifacts, and read/write files confined to the project sandbox. The
server is started without a persona, and tool calls are checked against
the policy engine only when a persona is configured, so this command runs
them without a policy check.

The server runs until the client disconnects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}

		db, err := store.OpenFromConfigAt(root, cfg.Database)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		ctx := cmd.Context()
		rt, err := bootstrap.NewRuntime(ctx, root, cfg, db)
		if err != nil {
			return err
		}
		defer rt.Close()

		server := mcpserver.NewServer("rigger", GetVersion(), mcpserver.Deps{
			Sandbox:    tools.NewSandbox(root),
			Tasks:      rt.Tasks,
			Artifacts:  rt.Artifacts,
			Embedder:   rt.Embedder,
			Authorizer: rt.Authorizer,
		})

		if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/edscope/edscope/internal/client"
	"github.com/edscope/edscope/internal/request"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the client as an MCP server over stdio",
	Long: "serve runs a Model Context Protocol server on stdin/stdout so agents\n" +
		"can query the platform through the same injected-parameter client the\n" +
		"CLI uses.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		return runMCPServer(c)
	},
}

func runMCPServer(c *client.Client) error {
	s := server.NewMCPServer(
		"edscope",
		appVersion,
		server.WithToolCapabilities(false),
	)

	queryTool := mcp.NewTool("query_endpoint",
		mcp.WithDescription("Call a platform query endpoint by operation name. Program and institution context is injected automatically; explicit params win."),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("Operation name, e.g. eventQuery or scoreQuery"),
		),
		mcp.WithObject("params",
			mcp.Description("Query parameters as a flat string map"),
		),
	)
	s.AddTool(queryTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		operation, _ := args["operation"].(string)
		if operation == "" {
			return mcp.NewToolResultError("operation is required"), nil
		}
		envlp, err := c.Query(ctx, operation, toolParams(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("authentication failed: %v", err)), nil
		}
		return envelopeResult(envlp)
	})

	askTool := mcp.NewTool("ask",
		mcp.WithDescription("Resolve a natural-language phrase to the best-matching platform endpoint and query it."),
		mcp.WithString("phrase",
			mcp.Required(),
			mcp.Description("What to look up, e.g. 'upcoming testing events'"),
		),
		mcp.WithObject("params",
			mcp.Description("Query parameters as a flat string map"),
		),
	)
	s.AddTool(askTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		phrase, _ := args["phrase"].(string)
		if phrase == "" {
			return mcp.NewToolResultError("phrase is required"), nil
		}
		_, envlp, err := c.Ask(ctx, phrase, toolParams(args))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return envelopeResult(envlp)
	})

	listTool := mcp.NewTool("list_endpoints",
		mcp.WithDescription("List the cataloged platform endpoints with their descriptions."),
	)
	s.AddTool(listTool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.MarshalIndent(c.Endpoints(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	})

	return server.ServeStdio(s)
}

// toolParams extracts the optional params object into the flat string map the
// client expects. Non-string values are stringified.
func toolParams(args map[string]any) map[string]string {
	raw, ok := args["params"].(map[string]any)
	if !ok {
		return nil
	}
	params := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			params[k] = s
		} else {
			params[k] = fmt.Sprintf("%v", v)
		}
	}
	return params
}

func envelopeResult(envlp *request.Envelope) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(envlp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

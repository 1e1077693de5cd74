package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/priyanshu1677/agentic-ai/internal/intent"
	"github.com/priyanshu1677/agentic-ai/internal/jobclient"
	"github.com/priyanshu1677/agentic-ai/internal/logger"
	"github.com/priyanshu1677/agentic-ai/internal/metrics"
	"github.com/priyanshu1677/agentic-ai/pkg/workspace"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the workspace actions as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := googleRegistry(cmd.Context(), cfg.Google.Services)
		if err != nil {
			return err
		}
		logger.L.Info("serving MCP over stdio", "services", reg.Len())
		return server.ServeStdio(newMCPServer(reg))
	},
}

// newMCPServer registers one tool per service action, named <service>_<action>.
func newMCPServer(reg *workspace.Registry) *server.MCPServer {
	s := server.NewMCPServer("workspace-agent", version, server.WithToolCapabilities(false))
	for _, svc := range reg.List() {
		for _, act := range svc.Actions() {
			s.AddTool(toolFor(svc, act), toolHandler(svc, act))
		}
	}
	return s
}

func toolFor(svc workspace.Service, act workspace.Action) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(fmt.Sprintf("%s: %s", svc.Title(), act.Description)),
	}
	for _, p := range act.Params {
		desc := p.Description
		if desc == "" {
			desc = p.Example
		}
		props := []mcp.PropertyOption{mcp.Description(desc)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		if p.Kind == workspace.ParamNumber {
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		} else {
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(svc.Name()+"_"+act.Name, opts...)
}

func toolHandler(svc workspace.Service, act workspace.Action) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := svc.Execute(ctx, act.Name, intent.Args(req.GetArguments()))
		metrics.IncreaseRequestsTotal(svc.Name(), act.Name, jobclient.Kind(err))
		if err != nil {
			logger.L.Error("tool call failed", "service", svc.Name(), "action", act.Name, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

package resources

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"ladder-mcp/internal/mcpserver/tools"
	"ladder-mcp/internal/scheduler"
)

const (
	URIWeights = "ladder://weights"
	URIServer  = "ladder://server"
)

// RegisterAll registers resources with the MCP server.
func RegisterAll(server *mcp.Server, deps tools.Dependencies) {
	server.AddResource(&mcp.Resource{URI: URIWeights, Name: "weights", Title: "Penalty weights", Description: "Penalty weights per schedule mode", MIMEType: "application/json"}, jsonResource(func(ctx context.Context) (any, error) {
		return Weights(), nil
	}))
	server.AddResource(&mcp.Resource{URI: URIServer, Name: "server", Title: "Server info", Description: "Build and scheduler settings", MIMEType: "application/json"}, jsonResource(func(ctx context.Context) (any, error) {
		_, out, err := tools.ServerInfo(ctx, deps)
		return out, err
	}))
}

// Weights is the published weight table keyed by mode.
func Weights() map[scheduler.Mode]scheduler.Weights {
	return map[scheduler.Mode]scheduler.Weights{
		scheduler.ModeSocial:      scheduler.WeightsFor(scheduler.ModeSocial),
		scheduler.ModeCompetitive: scheduler.WeightsFor(scheduler.ModeCompetitive),
	}
}

func jsonResource(load func(ctx context.Context) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
			{URI: req.Params.URI, MIMEType: "application/json", Text: string(b)},
		}}, nil
	}
}

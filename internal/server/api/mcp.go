package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atlanticdynamic/lynxeval/internal/response"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP tool names.
const (
	ToolNewSession = "new_session"
	ToolEvaluate   = "evaluate"
)

type newSessionInput struct{}

type evaluateInput struct {
	Session  string `json:"session"  jsonschema:"session id returned by new_session"`
	Language string `json:"language" jsonschema:"language name, such as starlark"`
	Code     string `json:"code"     jsonschema:"source code to evaluate"`
}

// NewMCPServer exposes ev as MCP tools. Tool results carry the same JSON
// bodies as the HTTP endpoints.
func NewMCPServer(ev Evaluator, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "lynxeval",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolNewSession,
		Description: "Create an evaluation session. Returns the session id as a JSON string.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ newSessionInput) (*mcp.CallToolResult, any, error) {
		id, err := ev.NewSession(ctx)
		if err != nil {
			return nil, nil, err
		}
		body, err := json.Marshal(id)
		if err != nil {
			return nil, nil, err
		}
		return textResult(string(body), false), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: ToolEvaluate,
		Description: "Evaluate code in a session. Globals persist between calls on the same " +
			"session and language. Returns the result value graph as JSON.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in evaluateInput) (*mcp.CallToolResult, any, error) {
		resp, err := ev.Evaluate(ctx, in.Session, in.Language, in.Code)
		body, mErr := response.Marshal(resp)
		if mErr != nil {
			return nil, nil, mErr
		}
		return textResult(string(body), err != nil), nil, nil
	})

	return server
}

// NewMCPHandler serves server over the streamable HTTP transport.
func NewMCPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/browser-cli/internal/steps"
)

// resultToText serializes a result to YAML for the MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) handleOpenSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	id, err := s.openSession(steps.StringParam(params, "backend", ""))
	if err != nil {
		return errorResult(err), nil
	}
	out := map[string]interface{}{"ok": true, "session": id}
	if url := steps.StringParam(params, "url", ""); url != "" {
		res, err := s.withSession(id, func(r *steps.Runner) (steps.StepResult, error) {
			return r.Execute("open", map[string]interface{}{"url": url})
		})
		if err != nil {
			out["ok"] = false
			out["error"] = err.Error()
			return mcp.NewToolResultError(resultToText(out)), nil
		}
		out["url"] = res.URL
	}
	return mcp.NewToolResultText(resultToText(out)), nil
}

func (s *Server) handleCloseSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := steps.StringParam(request.GetArguments(), "session", "")
	if err := s.sessions.Remove(id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(resultToText(map[string]interface{}{"ok": true, "session": id})), nil
}

func (s *Server) handleListSessions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(resultToText(map[string]interface{}{"sessions": s.sessions.IDs()})), nil
}

// withSession runs fn while holding the lock of session id.
func (s *Server) withSession(id string, fn func(*steps.Runner) (steps.StepResult, error)) (steps.StepResult, error) {
	r, release, err := s.sessions.Acquire(id)
	if err != nil {
		return steps.StepResult{}, err
	}
	defer release()
	return fn(r)
}

// stepHandler runs one step action on the session named by the "session"
// argument.
func (s *Server) stepHandler(action string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := stepParams(request.GetArguments())
		result, err := s.withSession(steps.StringParam(request.GetArguments(), "session", ""), func(r *steps.Runner) (steps.StepResult, error) {
			return r.Execute(action, params)
		})
		result.Action = action
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			return mcp.NewToolResultError(resultToText(result)), nil
		}
		result.OK = true
		if action == "screenshot" && result.Path != "" {
			return screenshotResult(result), nil
		}
		return mcp.NewToolResultText(resultToText(result)), nil
	}
}

// screenshotResult returns the saved PNG inline next to the step result.
func screenshotResult(result steps.StepResult) *mcp.CallToolResult {
	text := mcp.TextContent{Type: "text", Text: resultToText(result)}
	data, err := os.ReadFile(result.Path)
	if err != nil {
		return &mcp.CallToolResult{Content: []mcp.Content{text}}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			text,
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(data),
				MIMEType: "image/png",
			},
		},
	}
}

func (s *Server) handleDo(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	stepsRaw, ok := params["steps"]
	if !ok {
		return mcp.NewToolResultError("steps parameter is required"), nil
	}
	arr, ok := stepsRaw.([]interface{})
	if !ok {
		return mcp.NewToolResultError("steps must be an array"), nil
	}
	list := make([]steps.Step, 0, len(arr))
	for _, item := range arr {
		m, ok := item.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("each step must be an object"), nil
		}
		list = append(list, m)
	}

	r, release, err := s.sessions.Acquire(steps.StringParam(params, "session", ""))
	if err != nil {
		return errorResult(err), nil
	}
	defer release()

	saved := r.StopOnError
	r.StopOnError = steps.BoolParam(params, "stop-on-error", true)
	result := r.Run(list)
	r.StopOnError = saved

	if !result.OK {
		return mcp.NewToolResultError(resultToText(result)), nil
	}
	return mcp.NewToolResultText(resultToText(result)), nil
}

// stepParams drops the session id from tool arguments. JSON numbers
// arrive as float64, which the step param helpers accept.
func stepParams(args map[string]interface{}) map[string]interface{} {
	params := make(map[string]interface{}, len(args))
	for k, v := range args {
		if k != "session" {
			params[k] = v
		}
	}
	return params
}

package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/jobfill/bridge"
	"github.com/hazyhaar/jobfill/kit"
	"github.com/hazyhaar/jobfill/profile"
)

// RegisterMCP registers the jobfill tools on an MCP server. The tools
// are one more UI surface: they reach the coordinator over the bus like
// the popup does, never touching inspectors or the store directly.
func (c *Coordinator) RegisterMCP(srv *mcp.Server) {
	conn := c.bus.Conn("mcp")
	c.registerDetectTool(srv, conn)
	c.registerAutofillTool(srv, conn)
	c.registerProfileTool(srv, conn)
	c.registerImportTool(srv, conn)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- detect ---

type detectReq struct {
	Page string `json:"page"`
}

func (c *Coordinator) registerDetectTool(srv *mcp.Server, conn *bridge.Conn) {
	tool := &mcp.Tool{
		Name:        "jobfill_detect",
		Description: "Scan a page for job application forms and return their field inventory.",
		InputSchema: inputSchema(map[string]any{
			"page": map[string]any{"type": "string", "description": "Page identifier; empty for the active page"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*detectReq)
		resp, err := conn.Call(ctx, Name, bridge.KindDetectForms, bridge.PageRequest{Page: r.Page})
		if err != nil {
			return nil, err
		}
		var report bridge.DetectionReport
		if err := resp.Decode(&report); err != nil {
			return nil, err
		}
		return report, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r detectReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- autofill ---

type autofillReq struct {
	Page string `json:"page"`
}

func (c *Coordinator) registerAutofillTool(srv *mcp.Server, conn *bridge.Conn) {
	tool := &mcp.Tool{
		Name:        "jobfill_autofill",
		Description: "Fill the job application form on a page with the stored profile.",
		InputSchema: inputSchema(map[string]any{
			"page": map[string]any{"type": "string", "description": "Page identifier; empty for the active page"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*autofillReq)

		resp, err := conn.Call(ctx, Name, bridge.KindGetUserProfile, nil)
		if err != nil {
			return nil, err
		}
		var p profile.UserProfile
		if err := resp.Decode(&p); err != nil {
			return nil, err
		}

		fillResp, err := conn.Call(ctx, Name, bridge.KindAutofillForm,
			bridge.AutofillRequest{Page: r.Page, Values: p.FormValues()})
		if err != nil {
			return nil, err
		}
		var result bridge.AutofillResult
		if err := fillResp.Decode(&result); err != nil {
			return nil, err
		}
		return result, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r autofillReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- profile ---

func (c *Coordinator) registerProfileTool(srv *mcp.Server, conn *bridge.Conn) {
	tool := &mcp.Tool{
		Name:        "jobfill_profile",
		Description: "Return the stored applicant profile.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		resp, err := conn.Call(ctx, Name, bridge.KindGetUserProfile, nil)
		if err != nil {
			return nil, err
		}
		var p profile.UserProfile
		if err := resp.Decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	}

	decode := func(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- import ---

type importReq struct {
	Text string `json:"text"`
}

func (c *Coordinator) registerImportTool(srv *mcp.Server, conn *bridge.Conn) {
	tool := &mcp.Tool{
		Name:        "jobfill_import_profile",
		Description: "Replace the stored profile from plain text (line-oriented 'Key: Value' pairs).",
		InputSchema: inputSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Profile text, one 'Key: Value' per line"},
		}, []string{"text"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*importReq)
		if r.Text == "" {
			return nil, fmt.Errorf("empty profile text")
		}
		p := profile.ParseText(r.Text)
		resp, err := conn.Call(ctx, Name, bridge.KindUpdateUserProfile,
			bridge.UpdateProfileRequest{Profile: *p})
		if err != nil {
			return nil, err
		}
		if err := resp.Decode(nil); err != nil {
			return nil, err
		}
		return p, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r importReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

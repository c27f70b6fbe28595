// Package tastymcp exposes the unpickler over the Model Context Protocol:
// a single tool that decodes a TASTy artifact and returns its symbol
// table, and a resource template that lets a client address a
// previously-decoded artifact's symbols by URI. This is the direct
// descendant of the teacher's mcptools package, now serving a reader
// instead of an editor.
package tastymcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yosida95/uritemplate/v3"

	"github.com/gaudelbinod/tastyunpickler/tastydump"
)

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// resourceURITemplate is the address shape for a decoded artifact's
// symbol table: tasty://{artifact}/symbols.
const resourceURITemplate = "tasty://{artifact}/symbols"

// Server bundles an MCP server exposing unpickle_tasty plus a cache of
// the last dump produced per artifact, so the resource template can
// serve symbols without re-decoding.
type Server struct {
	mcp       *server.MCPServer
	tpl       *uritemplate.Template
	tplRegexp *regexp.Regexp

	decode func(artifact string, data []byte) (tastydump.Dump, error)

	mu    sync.Mutex
	dumps map[string]tastydump.Dump
}

// New builds a Server. decode performs one artifact's full unpickle and
// returns its dump; callers wire this to tasty.NewTreeUnpickler plus
// tastydump.Build against whatever host collaborators this process uses.
func New(decode func(artifact string, data []byte) (tastydump.Dump, error)) (*Server, error) {
	tpl, err := uritemplate.New(resourceURITemplate)
	if err != nil {
		return nil, fmt.Errorf("tastymcp: parse resource template: %w", err)
	}
	tplRegexp, err := tpl.Regexp()
	if err != nil {
		return nil, fmt.Errorf("tastymcp: compile resource template matcher: %w", err)
	}
	s := &Server{
		mcp:       server.NewMCPServer("tastyunpickler", "0.1.0"),
		tpl:       tpl,
		tplRegexp: tplRegexp,
		decode:    decode,
		dumps:     make(map[string]tastydump.Dump),
	}

	tool := mcp.NewTool("unpickle_tasty",
		mcp.WithDescription("Decode a TASTy artifact and report the symbols it would contribute to a host compiler's symbol table."),
		mcp.WithString("artifact", mcp.Required(), mcp.Description("Logical name of the artifact, used to address its symbols afterward.")),
		mcp.WithString("dataBase64", mcp.Required(), mcp.Description("Base64-encoded .tasty file contents.")),
	)
	s.mcp.AddTool(tool, s.handleUnpickle)

	resourceTpl := mcp.NewResourceTemplate(resourceURITemplate, "tasty symbol table",
		mcp.WithTemplateDescription("Symbols produced by a previously decoded TASTy artifact."),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.mcp.AddResourceTemplate(resourceTpl, s.handleSymbolsResource)

	return s, nil
}

// ServeStdio runs the server over stdio, the transport an editor/agent
// spawning this process as a subprocess expects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleUnpickle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	artifact, err := req.RequireString("artifact")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dataB64, err := req.RequireString("dataBase64")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := decodeBase64(dataB64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dataBase64: %v", err)), nil
	}

	dump, err := s.decode(artifact, data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	s.dumps[artifact] = dump
	s.mu.Unlock()

	body, err := json.Marshal(dump)
	if err != nil {
		return nil, fmt.Errorf("tastymcp: marshal dump: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleSymbolsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	match := s.tplRegexp.FindStringSubmatch(req.Params.URI)
	artifactIdx := s.tplRegexp.SubexpIndex("artifact")
	if match == nil || artifactIdx < 0 {
		return nil, fmt.Errorf("tastymcp: URI %q does not match %q", req.Params.URI, resourceURITemplate)
	}
	artifact := match[artifactIdx]

	s.mu.Lock()
	dump, ok := s.dumps[artifact]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("tastymcp: no dump recorded for artifact %q; call unpickle_tasty first", artifact)
	}

	body, err := json.Marshal(dump)
	if err != nil {
		return nil, fmt.Errorf("tastymcp: marshal dump: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(body),
		},
	}, nil
}

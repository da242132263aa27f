package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/alexandremahdhaoui/ez-relink/internal/mcpserver"
	"github.com/alexandremahdhaoui/ez-relink/internal/relinkerr"
	"github.com/alexandremahdhaoui/ez-relink/internal/version"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RelinkInput is the input of the "relink" MCP tool.
type RelinkInput struct {
	// Target is the built firmware image, relative to the project dir or absolute.
	Target string `json:"target" jsonschema:"built firmware image, e.g. .pio/build/due/firmware.elf"`
	// Board restricts the hook to one board.
	Board string `json:"board,omitempty" jsonschema:"board this hook owns, defaults to the target's directory name"`
}

// BoardsInput is the input of the "boards" MCP tool.
type BoardsInput struct{}

func (a *app) runMCPServer(ctx context.Context, info *version.Info) error {
	// stdout carries the JSON-RPC stream.
	s, err := a.load(os.Stderr)
	if err != nil {
		return err
	}

	server := mcpserver.New(info, s.Logger)

	mcpserver.RegisterTool(server, &mcp.Tool{
		Name:        "relink",
		Description: "Relink a built firmware image against the alternate device library and swap it in",
	}, a.handleRelink)

	mcpserver.RegisterTool(server, &mcp.Tool{
		Name:        "boards",
		Description: "List the boards relink knows about",
	}, a.handleBoards)

	return server.Run(ctx)
}

func (a *app) handleRelink(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelinkInput,
) (*mcp.CallToolResult, any, error) {
	if input.Target == "" {
		return mcpserver.ErrorResult("Relink failed: missing required field 'target'"), nil, nil
	}

	s, err := a.load(os.Stderr)
	if err != nil {
		return mcpserver.ErrorResult("Relink failed: %v", err), nil, nil
	}

	target := input.Target
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.ProjectDir, target)
	}

	rep, err := runHook(ctx, s, runOptions{
		Board:  input.Board,
		Target: target,
		Stdout: os.Stderr,
		Stderr: os.Stderr,
	})
	if err != nil {
		return mcpserver.ErrorResult("Relink failed: %v%s", err, subBuildOutput(err)), nil, nil
	}

	res, err := mcpserver.JSONResult(rep)
	if err != nil {
		return nil, nil, err
	}

	return res, rep, nil
}

// subBuildOutput returns the captured output of a failed sub-build in err,
// verbatim, or "".
func subBuildOutput(err error) string {
	var subBuild *relinkerr.SubBuildError
	if !errors.As(err, &subBuild) {
		return ""
	}

	return "\n\nSub-build output:\n" + subBuild.Stdout + subBuild.Stderr
}

func (a *app) handleBoards(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ BoardsInput,
) (*mcp.CallToolResult, any, error) {
	s, err := a.load(os.Stderr)
	if err != nil {
		return mcpserver.ErrorResult("Listing boards failed: %v", err), nil, nil
	}

	boards := listBoards(s.Registry)

	res, err := mcpserver.JSONResult(boards)
	if err != nil {
		return nil, nil, err
	}

	return res, map[string]any{"boards": boards}, nil
}

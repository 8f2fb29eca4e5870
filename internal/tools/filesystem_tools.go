package tools

import (
	"context"
)

// ReadFileParams names the sandboxed file to read.
type ReadFileParams struct {
	Path string
}

// ReadFileTool reads a file confined to a project sandbox.
type ReadFileTool struct {
	sandbox *Sandbox
}

func NewReadFileTool(sandbox *Sandbox) *ReadFileTool {
	return &ReadFileTool{sandbox: sandbox}
}

func (t *ReadFileTool) Call(_ context.Context, params ReadFileParams) (string, error) {
	if params.Path == "" {
		return "", &ToolError{Kind: ErrInvalidParams, Message: "path is required"}
	}
	content, err := t.sandbox.ReadFile(params.Path)
	if err != nil {
		return "", wrapSandboxErr(err, "read_file failed")
	}
	return content, nil
}

// WriteFileParams names the sandboxed file to write and its new content.
type WriteFileParams struct {
	Path    string
	Content string
}

// WriteFileTool writes a file confined to a project sandbox, creating
// missing parent directories.
type WriteFileTool struct {
	sandbox *Sandbox
}

func NewWriteFileTool(sandbox *Sandbox) *WriteFileTool {
	return &WriteFileTool{sandbox: sandbox}
}

func (t *WriteFileTool) Call(_ context.Context, params WriteFileParams) error {
	if params.Path == "" {
		return &ToolError{Kind: ErrInvalidParams, Message: "path is required"}
	}
	if err := t.sandbox.WriteFile(params.Path, params.Content); err != nil {
		return wrapSandboxErr(err, "write_file failed")
	}
	return nil
}

// ListDirectoryParams names the sandboxed directory to list.
type ListDirectoryParams struct {
	Path string
}

// ListDirectoryTool lists entry names of a directory confined to a project
// sandbox.
type ListDirectoryTool struct {
	sandbox *Sandbox
}

func NewListDirectoryTool(sandbox *Sandbox) *ListDirectoryTool {
	return &ListDirectoryTool{sandbox: sandbox}
}

func (t *ListDirectoryTool) Call(_ context.Context, params ListDirectoryParams) ([]string, error) {
	if params.Path == "" {
		return nil, &ToolError{Kind: ErrInvalidParams, Message: "path is required"}
	}
	names, err := t.sandbox.ListDirectory(params.Path)
	if err != nil {
		return nil, wrapSandboxErr(err, "list_directory failed")
	}
	return names, nil
}

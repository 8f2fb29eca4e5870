package mcpserver

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/tools"
)

// authorized wraps handler with a policy check: if deps.Authorizer and
// deps.Persona are both set, the call is authorized against the tool's
// catalog entry before handler ever runs. A tool absent from the catalog is
// allowed through unchecked (it carries no declared risk to evaluate).
func authorized[P, R any](deps Deps, toolID string, handler mcpsdk.ToolHandlerFor[P, R]) mcpsdk.ToolHandlerFor[P, R] {
	return func(ctx context.Context, ss *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[P]) (*mcpsdk.CallToolResultFor[R], error) {
		if deps.Authorizer != nil && deps.Persona != nil {
			if tool, ok := deps.Catalog[toolID]; ok {
				if err := deps.Authorizer.Authorize(ctx, deps.Persona, tool); err != nil {
					return nil, err
				}
			}
		}
		return handler(ctx, ss, params)
	}
}

func textResult[R any](text string, structured R) *mcpsdk.CallToolResultFor[R] {
	return &mcpsdk.CallToolResultFor[R]{
		Content:           []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		StructuredContent: structured,
	}
}

// SearchTasksParams is the MCP-facing argument shape for search_tasks.
type SearchTasksParams struct {
	ProjectPRD string `json:"project_prd,omitempty"`
	Status     string `json:"status,omitempty"`
	Persona    string `json:"persona,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// TaskListResult is the MCP-facing result shape for tools returning tasks.
type TaskListResult struct {
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

func searchTasksHandler(tool *tools.SearchTasksTool) mcpsdk.ToolHandlerFor[SearchTasksParams, TaskListResult] {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[SearchTasksParams]) (*mcpsdk.CallToolResultFor[TaskListResult], error) {
		args := params.Arguments
		found, err := tool.Call(ctx, tools.SearchTasksParams{
			ProjectPRD: args.ProjectPRD,
			Status:     domain.TaskStatus(args.Status),
			Persona:    args.Persona,
			Limit:      args.Limit,
		})
		if err != nil {
			return nil, err
		}
		result := TaskListResult{Tasks: found, Count: len(found)}
		return textResult(fmt.Sprintf("found %d task(s)", len(found)), result), nil
	}
}

// GetTaskDetailsParams is the MCP-facing argument shape for get_task_details.
type GetTaskDetailsParams struct {
	IDOrPrefix string `json:"id_or_prefix"`
}

func getTaskDetailsHandler(tool *tools.GetTaskDetailsTool) mcpsdk.ToolHandlerFor[GetTaskDetailsParams, *domain.Task] {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[GetTaskDetailsParams]) (*mcpsdk.CallToolResultFor[*domain.Task], error) {
		task, err := tool.Call(ctx, tools.GetTaskDetailsParams{IDOrPrefix: params.Arguments.IDOrPrefix})
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("task %s: %s", task.ID, task.Title), task), nil
	}
}

// ListProjectArtifactsParams is the MCP-facing argument shape for
// list_project_artifacts.
type ListProjectArtifactsParams struct {
	ProjectID string `json:"project_id"`
	Limit     int    `json:"limit,omitempty"`
}

// ArtifactListResult is the MCP-facing result shape for artifact listings.
type ArtifactListResult struct {
	Artifacts []*domain.Artifact `json:"artifacts"`
	Count     int                `json:"count"`
}

func listProjectArtifactsHandler(tool *tools.ListProjectArtifactsTool) mcpsdk.ToolHandlerFor[ListProjectArtifactsParams, ArtifactListResult] {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[ListProjectArtifactsParams]) (*mcpsdk.CallToolResultFor[ArtifactListResult], error) {
		args := params.Arguments
		found, err := tool.Call(ctx, tools.ListProjectArtifactsParams{ProjectID: args.ProjectID, Limit: args.Limit})
		if err != nil {
			return nil, err
		}
		result := ArtifactListResult{Artifacts: found, Count: len(found)}
		return textResult(fmt.Sprintf("found %d artifact(s)", len(found)), result), nil
	}
}

// SearchArtifactsParams is the MCP-facing argument shape for
// search_artifacts.
type SearchArtifactsParams struct {
	Query     string   `json:"query"`
	ProjectID string   `json:"project_id,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// ScoredArtifactListResult is the MCP-facing result shape for
// search_artifacts.
type ScoredArtifactListResult struct {
	Results []ports.ScoredArtifact `json:"results"`
	Count   int                    `json:"count"`
}

func searchArtifactsHandler(tool *tools.SearchArtifactsTool) mcpsdk.ToolHandlerFor[SearchArtifactsParams, ScoredArtifactListResult] {
	return func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[SearchArtifactsParams]) (*mcpsdk.CallToolResultFor[ScoredArtifactListResult], error) {
		args := params.Arguments
		found, err := tool.Call(ctx, tools.SearchArtifactsParams{
			Query:     args.Query,
			ProjectID: args.ProjectID,
			Limit:     args.Limit,
			Threshold: args.Threshold,
		})
		if err != nil {
			return nil, err
		}
		result := ScoredArtifactListResult{Results: found, Count: len(found)}
		return textResult(fmt.Sprintf("found %d matching artifact(s)", len(found)), result), nil
	}
}

// FileReadParams is the MCP-facing argument shape for read_file.
type FileReadParams struct {
	Path string `json:"path"`
}

// FileContentResult is the MCP-facing result shape for read_file.
type FileContentResult struct {
	Content string `json:"content"`
}

func readFileHandler(sandbox *tools.Sandbox) mcpsdk.ToolHandlerFor[FileReadParams, FileContentResult] {
	return func(_ context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[FileReadParams]) (*mcpsdk.CallToolResultFor[FileContentResult], error) {
		content, err := sandbox.ReadFile(params.Arguments.Path)
		if err != nil {
			return nil, err
		}
		return textResult(content, FileContentResult{Content: content}), nil
	}
}

// FileWriteParams is the MCP-facing argument shape for write_file.
type FileWriteParams struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// WriteResult is the MCP-facing result shape for write_file.
type WriteResult struct {
	Written bool `json:"written"`
}

func writeFileHandler(sandbox *tools.Sandbox) mcpsdk.ToolHandlerFor[FileWriteParams, WriteResult] {
	return func(_ context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[FileWriteParams]) (*mcpsdk.CallToolResultFor[WriteResult], error) {
		args := params.Arguments
		if err := sandbox.WriteFile(args.Path, args.Content); err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("wrote %s", args.Path), WriteResult{Written: true}), nil
	}
}

// ListDirectoryParams is the MCP-facing argument shape for list_directory.
type ListDirectoryParams struct {
	Path string `json:"path"`
}

// DirectoryListResult is the MCP-facing result shape for list_directory.
type DirectoryListResult struct {
	Entries []string `json:"entries"`
}

func listDirectoryHandler(sandbox *tools.Sandbox) mcpsdk.ToolHandlerFor[ListDirectoryParams, DirectoryListResult] {
	return func(_ context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[ListDirectoryParams]) (*mcpsdk.CallToolResultFor[DirectoryListResult], error) {
		entries, err := sandbox.ListDirectory(params.Arguments.Path)
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("%d entr(ies)", len(entries)), DirectoryListResult{Entries: entries}), nil
	}
}

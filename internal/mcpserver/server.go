// Package mcpserver exposes the tool surface in internal/tools over the
// Model Context Protocol, so AI clients (Claude Code, Cursor, and similar)
// can drive Rigger the same way they drive TaskWing. Grounded on
// mcp/core_tools.go and cmd/mcp.go's NewServer/AddTool/Run(StdioTransport)
// bootstrap idiom.
package mcpserver

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/policy"
	"github.com/riggerhq/rigger/internal/tools"
)

// Deps wires the tool surface and the persona/risk authorization layer
// into the MCP server. Authorizer and Persona may both be nil to disable
// authorization (e.g. a trusted local session); Catalog then goes unused.
type Deps struct {
	Sandbox   *tools.Sandbox
	Tasks     ports.TaskRepository
	Artifacts ports.ArtifactRepository
	Embedder  ports.EmbeddingPort

	Authorizer *policy.Authorizer
	Persona    *domain.Persona
	Catalog    map[string]*domain.AgentTool // tool id -> descriptor, for Authorizer checks
}

// NewServer builds an MCP server exposing Rigger's tool surface, identified
// to clients as name/version.
func NewServer(name, version string, deps Deps) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: name, Version: version}, &mcpsdk.ServerOptions{})
	registerTools(server, deps)
	return server
}

func registerTools(server *mcpsdk.Server, deps Deps) {
	searchTasks := tools.NewSearchTasksTool(deps.Tasks)
	getTaskDetails := tools.NewGetTaskDetailsTool(deps.Tasks)
	listProjectArtifacts := tools.NewListProjectArtifactsTool(deps.Artifacts)
	searchArtifacts := tools.NewSearchArtifactsTool(deps.Artifacts, deps.Embedder)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "search_tasks",
		Description: "List tasks matching an optional PRD, status, or persona filter.",
	}, authorized(deps, "search_tasks", searchTasksHandler(searchTasks)))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get_task_details",
		Description: "Retrieve a task by exact ID or unambiguous ID prefix.",
	}, authorized(deps, "get_task_details", getTaskDetailsHandler(getTaskDetails)))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_project_artifacts",
		Description: "List every RAG artifact ingested for a project.",
	}, authorized(deps, "list_project_artifacts", listProjectArtifactsHandler(listProjectArtifacts)))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "search_artifacts",
		Description: "Semantically search ingested artifacts for a project by embedding a query and finding its nearest neighbors.",
	}, authorized(deps, "search_artifacts", searchArtifactsHandler(searchArtifacts)))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "read_file",
		Description: "Read a file's contents, confined to the project sandbox.",
	}, authorized(deps, "read_file", readFileHandler(deps.Sandbox)))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "write_file",
		Description: "Write a file's contents, confined to the project sandbox.",
	}, authorized(deps, "write_file", writeFileHandler(deps.Sandbox)))

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_directory",
		Description: "List entry names of a directory, confined to the project sandbox.",
	}, authorized(deps, "list_directory", listDirectoryHandler(deps.Sandbox)))
}

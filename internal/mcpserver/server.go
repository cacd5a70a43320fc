// Package mcpserver exposes the catalog and analytics fetches over the Model
// Context Protocol.
package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ghforecast/internal/backend"
	"ghforecast/internal/catalog"
	"ghforecast/internal/eventbus"
	"ghforecast/internal/fetch"
	"ghforecast/internal/history"
	"ghforecast/internal/selection"
)

// Version is reported to MCP clients
const Version = "1.0.0"

// Deps are the collaborators of the tool handlers. History is optional.
type Deps struct {
	Catalog *catalog.Catalog
	Fetcher backend.Fetcher
	Bus     eventbus.EventBus
	History *history.Store
	Timeout time.Duration
}

// NewMCPServer configures the server without starting it
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"ghforecast",
		Version,
		server.WithLogging(),
	)

	h := &toolHandler{
		catalog:    deps.Catalog,
		history:    deps.History,
		store:      selection.NewStore(deps.Bus),
		controller: fetch.NewController(deps.Fetcher, deps.Bus, fetch.WithTimeout(deps.Timeout)),
	}

	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("List the tracked repositories and the stars and forks aggregates."),
	), h.handleListRepositories)

	s.AddTool(mcp.NewTool("fetch_analytics",
		mcp.WithDescription("Fetch issue activity, forecast images or star and fork counts for a catalog entry."),
		mcp.WithString("repository", mcp.Description("Repository key or label, or 'stars' / 'forks' for the aggregates."), mcp.Required()),
	), h.handleFetchAnalytics)

	if deps.History != nil && deps.History.Enabled() {
		s.AddTool(mcp.NewTool("recent_fetches",
			mcp.WithDescription("List recent fetch cycles, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of rows (default 20).")),
		), h.handleRecentFetches)
	}

	return s
}

// Start serves deps over stdio until the client disconnects
func Start(_ context.Context, deps Deps) error {
	return server.ServeStdio(NewMCPServer(deps))
}

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"ghforecast/internal/catalog"
	"ghforecast/internal/fetch"
	"ghforecast/internal/history"
	"ghforecast/internal/selection"
	"ghforecast/internal/viewmodel"
)

// toolHandler serializes fetch cycles so the store and controller keep a single writer
type toolHandler struct {
	catalog *catalog.Catalog
	history *history.Store

	mu         sync.Mutex
	store      *selection.Store
	controller *fetch.Controller
}

type repositoryInfo struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	Mode         string   `json:"mode"`
	Repositories []string `json:"repositories"`
	Default      bool     `json:"default,omitempty"`
}

type fetchResponse struct {
	Repository string                  `json:"repository"`
	Label      string                  `json:"label"`
	Mode       string                  `json:"mode"`
	Seq        uint64                  `json:"seq"`
	Error      string                  `json:"error,omitempty"`
	Variant    viewmodel.RenderVariant `json:"variant"`
}

type historyRow struct {
	Seq        uint64 `json:"seq"`
	Repository string `json:"repository"`
	Label      string `json:"label"`
	Mode       string `json:"mode"`
	Outcome    string `json:"outcome"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	DurationMs int64  `json:"duration_ms"`
}

func (h *toolHandler) handleListRepositories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def := h.catalog.DefaultSelection()
	var out []repositoryInfo
	for _, e := range h.catalog.Entries() {
		out = append(out, repositoryInfo{
			Key:          e.Key,
			Label:        e.Label,
			Mode:         e.Mode.String(),
			Repositories: e.Repositories(),
			Default:      e == def,
		})
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFetchAnalytics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("repository", "")
	if query == "" {
		return mcp.NewToolResultError("repository is required"), nil
	}
	entry, err := h.catalog.Resolve(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.mu.Lock()
	snap := h.store.Select(entry)
	ticket, fetchCtx := h.controller.Begin(snap)
	runCtx, cancel := context.WithCancel(fetchCtx)
	stop := context.AfterFunc(ctx, cancel)
	h.controller.Apply(h.controller.Run(runCtx, ticket))
	stop()
	cancel()
	state := h.controller.State()
	h.mu.Unlock()

	resp := fetchResponse{
		Repository: entry.Key,
		Label:      entry.Label,
		Mode:       entry.Mode.String(),
		Seq:        state.Seq,
		Variant:    viewmodel.Derive(viewmodel.ContextFor(snap, state)),
	}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}

	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRecentFetches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := h.history.Recent(ctx, request.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history query failed: %v", err)), nil
	}

	out := make([]historyRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, historyRow{
			Seq:        r.Seq,
			Repository: r.Repository,
			Label:      r.Label,
			Mode:       r.Mode,
			Outcome:    string(r.Outcome),
			Error:      r.Error,
			StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
			DurationMs: r.Duration.Milliseconds(),
		})
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

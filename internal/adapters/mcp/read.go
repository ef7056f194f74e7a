package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"studybuddy/internal/application/commands"
	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// ReadStore is what the read-only tools need from the cache.
type ReadStore interface {
	ports.RecordRepository
	ports.VocabularyRepository
	ports.RunRepository
}

// RegisterReadTools adds all read-only cluster tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store ReadStore, excluded []string) {
	s.AddTool(listClustersTool(), listClustersHandler(store))
	s.AddTool(showClusterTool(), showClusterHandler(store))
	s.AddTool(searchClustersTool(), searchClustersHandler(store))
	s.AddTool(recordLineageTool(), recordLineageHandler(store, excluded))
}

// --- list_clusters ---

func listClustersTool() mcp.Tool {
	return mcp.NewTool("list_clusters",
		mcp.WithDescription("List the clusters of a clustering run, largest first. Defaults to the latest run."),
		mcp.WithString("run_id",
			mcp.Description("Run ID. Omit for the latest run."),
		),
	)
}

func listClustersHandler(store ReadStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		run, err := commands.NewShowRunCommand(store, req.GetString("run_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Run %s (%s): %d of %d records clustered\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Stats.Clustered, run.Stats.Records)
		if len(run.Clusters) == 0 {
			sb.WriteString("No clusters.\n")
		}
		for _, c := range run.Clusters {
			sb.WriteString(formatCluster(c))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- show_cluster ---

func showClusterTool() mcp.Tool {
	return mcp.NewTool("show_cluster",
		mcp.WithDescription("Show one cluster: its records with PubMed links and the topics they share."),
		mcp.WithString("cluster",
			mcp.Description("Cluster name or subject ID (e.g. Neoplasms, D009369)"),
			mcp.Required(),
		),
		mcp.WithString("run_id",
			mcp.Description("Run ID. Omit for the latest run."),
		),
	)
}

func showClusterHandler(store ReadStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewShowClusterCommand(store, store, req.GetString("run_id", ""), req.GetString("cluster", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(formatCluster(result.Cluster))
		sb.WriteByte('\n')
		if len(result.SharedTopics) > 0 {
			fmt.Fprintf(&sb, "Shared topics: %s\n", strings.Join(result.SharedTopics, "; "))
		}
		sb.WriteByte('\n')
		for _, r := range result.Cluster.Records {
			sb.WriteString(formatRecord(r))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search_clusters ---

func searchClustersTool() mcp.Tool {
	return mcp.NewTool("search_clusters",
		mcp.WithDescription("Fuzzy search the clusters of a run by name, subject ID and record titles."),
		mcp.WithString("query",
			mcp.Description("Search query, at least 2 characters"),
			mcp.Required(),
		),
		mcp.WithString("run_id",
			mcp.Description("Run ID. Omit for the latest run."),
		),
	)
}

func searchClustersHandler(store ReadStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		matches, err := commands.NewSearchClustersCommand(store, req.GetString("run_id", ""), query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(matches) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&sb, "%s  score %d\n", formatCluster(m.Cluster), m.Score)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- record_lineage ---

func recordLineageTool() mcp.Tool {
	return mcp.NewTool("record_lineage",
		mcp.WithDescription("Explain how a record is placed: its major subjects and every tree-number node in its lineage."),
		mcp.WithString("id",
			mcp.Description("Record ID (PMID)"),
			mcp.Required(),
		),
	)
}

func recordLineageHandler(store ReadStore, excluded []string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		result, err := commands.NewLineageCommand(store, store, id, excluded).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", result.Record.ID, result.Record.Title)
		for _, s := range result.Subjects {
			fmt.Fprintf(&sb, "subject %s  %s  %s\n", s.ID, s.Name, strings.Join(s.TreeNumbers, ", "))
		}
		for _, id := range result.Missing {
			fmt.Fprintf(&sb, "subject %s  (not in vocabulary)\n", id)
		}
		for _, n := range result.Nodes {
			owner := n.Owner
			if owner == "" {
				owner = "-"
			}
			fmt.Fprintf(&sb, "%s%s  %s\n", strings.Repeat("  ", n.Depth-1), n.Node, owner)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatCluster(c domain.Cluster) string {
	return fmt.Sprintf("%s  %s  (%d records)", c.SubjectID, c.Name, c.Size())
}

func formatRecord(r domain.Record) string {
	return fmt.Sprintf("%s  %s  %s", r.ID, r.Title, r.URL())
}

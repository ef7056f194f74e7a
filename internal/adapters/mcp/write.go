package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"studybuddy/internal/application/commands"
	"studybuddy/internal/clustering"
)

// RegisterWriteTools adds the tools that change the cache to the MCP server.
// defaults supplies the knobs a call leaves out.
func RegisterWriteTools(s *server.MCPServer, store commands.ClusterStore, defaults clustering.Options, log zerolog.Logger) {
	s.AddTool(clusterRecordsTool(defaults), clusterRecordsHandler(store, defaults, log))
}

// --- cluster_records ---

func clusterRecordsTool(defaults clustering.Options) mcp.Tool {
	return mcp.NewTool("cluster_records",
		mcp.WithDescription("Cluster every cached record by MeSH lineage and save the result as a new run."),
		mcp.WithNumber("min_cluster_size",
			mcp.Description(fmt.Sprintf("Record count at which a node becomes a cluster on its own (default %d)", defaults.MinClusterSize)),
		),
		mcp.WithNumber("min_lineage_depth",
			mcp.Description(fmt.Sprintf("Minimum node depth used when no node is big enough (default %d)", defaults.MinLineageDepth)),
		),
	)
}

func clusterRecordsHandler(store commands.ClusterStore, defaults clustering.Options, log zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		opts := defaults
		opts.MinClusterSize = req.GetInt("min_cluster_size", defaults.MinClusterSize)
		opts.MinLineageDepth = req.GetInt("min_lineage_depth", defaults.MinLineageDepth)

		result, err := commands.NewClusterCommand(store, opts, log).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s (run %s)\n", result.Message, result.Run.ID)
		stats := result.Run.Stats
		if stats.Fallbacks > 0 || stats.UnresolvedNodes > 0 || stats.UnknownSubjects > 0 {
			fmt.Fprintf(&sb, "fallbacks %d, unresolved nodes %d, unknown subjects %d\n",
				stats.Fallbacks, stats.UnresolvedNodes, stats.UnknownSubjects)
		}
		for _, c := range result.Run.Clusters {
			sb.WriteString(formatCluster(c))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/tako"
)

const (
	// defaultExploreLimit is the per-type result cap when none is given.
	defaultExploreLimit = 20

	// maxListPreview caps the list fields echoed back per node, keeping the
	// payload readable for agents.
	maxListPreview = 3
)

// ExploreInput defines the input schema for explore_knowledge_graph.
type ExploreInput struct {
	Query     string   `json:"query" jsonschema:"Natural language query to explore the knowledge graph, e.g. tech companies or GDP metrics"`
	NodeTypes []string `json:"node_types,omitempty" jsonschema:"Optional filter for node types: entity, metric, cohort, db, units, time_period, property"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Maximum number of results per type (1-50), defaults to 20"`
}

// Trimmed node shapes echoed back to the agent.
type exploreEntity struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Aliases         []string `json:"aliases"`
	AvailableTables []string `json:"available_tables"`
	NodeID          string   `json:"node_id"`
}

type exploreMetric struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Units            []string `json:"units"`
	TimePeriods      []string `json:"time_periods"`
	CompatibleTables []string `json:"compatible_tables"`
	NodeID           string   `json:"node_id"`
}

type exploreCohort struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	MemberCount   int      `json:"member_count"`
	SampleMembers []string `json:"sample_members"`
	NodeID        string   `json:"node_id"`
}

// exploreOutput is the payload serialized for explore_knowledge_graph.
type exploreOutput struct {
	Query           string          `json:"query"`
	TotalMatches    int             `json:"total_matches"`
	Entities        []exploreEntity `json:"entities"`
	Metrics         []exploreMetric `json:"metrics"`
	Cohorts         []exploreCohort `json:"cohorts"`
	TimePeriods     json.RawMessage `json:"time_periods"`
	ExecutionTimeMS float64         `json:"execution_time_ms"`
}

// registerGraphTools registers the explore_knowledge_graph tool.
func (s *Server) registerGraphTools() error {
	exploreSchema, err := jsonschema.For[ExploreInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolExploreKnowledgeGraph, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolExploreKnowledgeGraph,
		Description: "Explore Tako's knowledge graph to discover available entities, metrics, " +
			"cohorts, and time periods. Use it to check which data exists and to disambiguate " +
			"entity names before constructing a search query.",
		InputSchema: exploreSchema,
	}, s.ExploreKnowledgeGraph)

	return nil
}

// ExploreKnowledgeGraph handles the explore_knowledge_graph MCP tool call.
func (s *Server) ExploreKnowledgeGraph(ctx context.Context, _ *mcp.CallToolRequest, input ExploreInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultExploreLimit
	}

	start := time.Now()
	resp, err := s.tako.Explore(ctx, tako.ExploreRequest{
		Query:     input.Query,
		NodeTypes: input.NodeTypes,
		Limit:     input.Limit,
	})
	if err != nil {
		s.logger.Warn("explore_knowledge_graph failed",
			"query", truncate(input.Query, 50),
			"elapsed", time.Since(start),
			"error", err)
		return errorResult(upstreamMessage(err, "")), nil, nil
	}

	out := exploreOutput{
		Query:           resp.Query,
		TotalMatches:    resp.TotalMatches,
		Entities:        make([]exploreEntity, 0, len(resp.Entities)),
		Metrics:         make([]exploreMetric, 0, len(resp.Metrics)),
		Cohorts:         make([]exploreCohort, 0, len(resp.Cohorts)),
		TimePeriods:     resp.TimePeriods,
		ExecutionTimeMS: resp.ExecutionTimeMS,
	}
	for _, e := range resp.Entities {
		out.Entities = append(out.Entities, exploreEntity{
			Name:            e.Name,
			Type:            e.Type,
			Description:     e.Description,
			Aliases:         capList(e.Aliases),
			AvailableTables: capList(e.AvailableTables),
			NodeID:          e.NodeID,
		})
	}
	for _, m := range resp.Metrics {
		out.Metrics = append(out.Metrics, exploreMetric{
			Name:             m.Name,
			Description:      m.Description,
			Units:            capList(m.Units),
			TimePeriods:      capList(m.TimePeriods),
			CompatibleTables: capList(m.CompatibleTables),
			NodeID:           m.NodeID,
		})
	}
	for _, c := range resp.Cohorts {
		out.Cohorts = append(out.Cohorts, exploreCohort{
			Name:          c.Name,
			Description:   c.Description,
			MemberCount:   c.MemberCount,
			SampleMembers: c.SampleMembers,
			NodeID:        c.NodeID,
		})
	}

	s.logger.Debug("explore_knowledge_graph completed",
		"query", truncate(input.Query, 50),
		"total_matches", out.TotalMatches,
		"elapsed", time.Since(start))

	return dataToMCP(out), nil, nil
}

// capList bounds a list field at maxListPreview entries.
func capList(items []string) []string {
	if len(items) > maxListPreview {
		return items[:maxListPreview]
	}
	return items
}

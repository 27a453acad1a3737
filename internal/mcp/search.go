package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/tako"
)

// Knowledge search defaults, matching the hosted Tako deployment.
const (
	defaultSearchCount   = 5
	defaultSearchEffort  = "deep"
	defaultCountryCode   = "US"
	defaultSearchLocale  = "en-US"
	defaultSourceIndexes = "tako"
)

// KnowledgeSearchInput defines the input schema for knowledge_search.
type KnowledgeSearchInput struct {
	Query        string `json:"query" jsonschema:"Natural language search query for charts and data"`
	Count        int    `json:"count,omitempty" jsonschema:"Number of results to return (1-20), defaults to 5"`
	SearchEffort string `json:"search_effort,omitempty" jsonschema:"Search depth: fast for quick results, deep for comprehensive search (default deep)"`
	CountryCode  string `json:"country_code,omitempty" jsonschema:"ISO country code for localized results, defaults to US"`
	Locale       string `json:"locale,omitempty" jsonschema:"Locale for results, defaults to en-US"`
}

// searchHit is one trimmed card in a knowledge_search result. Cards with a
// card_id carry a hint pointing agents at open_chart_ui.
type searchHit struct {
	CardID      string            `json:"card_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	Source      string            `json:"source"`
	OpenUITool  string            `json:"open_ui_tool,omitempty"`
	OpenUIArgs  map[string]string `json:"open_ui_args,omitempty"`
}

// searchOutput is the payload serialized into the knowledge_search content block.
type searchOutput struct {
	Results []searchHit `json:"results"`
	Count   int         `json:"count"`
}

// registerSearchTools registers the knowledge_search tool.
func (s *Server) registerSearchTools() error {
	searchSchema, err := jsonschema.For[KnowledgeSearchInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolKnowledgeSearch, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolKnowledgeSearch,
		Description: "Search Tako's knowledge base for charts and data visualizations. " +
			"Returns matching charts with URLs, titles, descriptions, and metadata.",
		InputSchema: searchSchema,
	}, s.KnowledgeSearch)

	return nil
}

// KnowledgeSearch handles the knowledge_search MCP tool call.
func (s *Server) KnowledgeSearch(ctx context.Context, _ *mcp.CallToolRequest, input KnowledgeSearchInput) (*mcp.CallToolResult, any, error) {
	if input.Count <= 0 {
		input.Count = defaultSearchCount
	}
	if input.SearchEffort == "" {
		input.SearchEffort = defaultSearchEffort
	}
	if input.CountryCode == "" {
		input.CountryCode = defaultCountryCode
	}
	if input.Locale == "" {
		input.Locale = defaultSearchLocale
	}

	start := time.Now()
	resp, err := s.tako.KnowledgeSearch(ctx, tako.KnowledgeSearchRequest{
		Inputs: tako.SearchInputs{
			Text:  input.Query,
			Count: input.Count,
		},
		SourceIndexes: []string{defaultSourceIndexes},
		SearchEffort:  input.SearchEffort,
		CountryCode:   input.CountryCode,
		Locale:        input.Locale,
	})
	if err != nil {
		s.logger.Warn("knowledge_search failed",
			"query", truncate(input.Query, 50),
			"effort", input.SearchEffort,
			"elapsed", time.Since(start),
			"error", err)
		return errorResult(upstreamMessage(err, "")), nil, nil
	}

	hits := make([]searchHit, 0, len(resp.Outputs.KnowledgeCards))
	for _, card := range resp.Outputs.KnowledgeCards {
		hit := searchHit{
			CardID:      card.CardID,
			Title:       card.Title,
			Description: card.Description,
			URL:         card.URL,
			Source:      card.Source,
		}
		if card.CardID != "" {
			hit.OpenUITool = ToolOpenChartUI
			hit.OpenUIArgs = map[string]string{"pub_id": card.CardID}
		}
		hits = append(hits, hit)
	}

	s.logger.Debug("knowledge_search completed",
		"query", truncate(input.Query, 50),
		"count", len(hits),
		"effort", input.SearchEffort,
		"elapsed", time.Since(start))

	return dataToMCP(searchOutput{Results: hits, Count: len(hits)}), nil, nil
}

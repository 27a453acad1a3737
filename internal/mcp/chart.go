package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultInsightEffort is the reasoning effort used when none is given.
const defaultInsightEffort = "medium"

// ChartImageInput defines the input schema for get_chart_image.
type ChartImageInput struct {
	PubID    string `json:"pub_id" jsonschema:"The unique identifier (pub_id/card_id) of the chart"`
	DarkMode *bool  `json:"dark_mode,omitempty" jsonschema:"Whether to return the dark mode version of the image (default true)"`
}

// CardInsightsInput defines the input schema for get_card_insights.
type CardInsightsInput struct {
	PubID  string `json:"pub_id" jsonschema:"The unique identifier (pub_id/card_id) of the chart"`
	Effort string `json:"effort,omitempty" jsonschema:"Reasoning effort level: low, medium, or high (default medium)"`
}

// chartImageOutput is the payload serialized for get_chart_image.
type chartImageOutput struct {
	ImageURL string `json:"image_url"`
	PubID    string `json:"pub_id"`
	DarkMode bool   `json:"dark_mode"`
}

// cardInsightsOutput is the payload serialized for get_card_insights.
type cardInsightsOutput struct {
	PubID       string          `json:"pub_id"`
	Insights    json.RawMessage `json:"insights"`
	Description string          `json:"description"`
}

// registerChartTools registers get_chart_image and get_card_insights.
func (s *Server) registerChartTools() error {
	imageSchema, err := jsonschema.For[ChartImageInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolGetChartImage, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolGetChartImage,
		Description: "Get the preview image URL for a chart. " +
			"The URL can be displayed or embedded directly.",
		InputSchema: imageSchema,
	}, s.GetChartImage)

	insightsSchema, err := jsonschema.For[CardInsightsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolGetCardInsights, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolGetCardInsights,
		Description: "Get AI-generated insights for a chart: bullet-point findings " +
			"and a description analyzing the chart's data.",
		InputSchema: insightsSchema,
	}, s.GetCardInsights)

	return nil
}

// GetChartImage handles the get_chart_image MCP tool call.
func (s *Server) GetChartImage(ctx context.Context, _ *mcp.CallToolRequest, input ChartImageInput) (*mcp.CallToolResult, any, error) {
	darkMode := input.DarkMode == nil || *input.DarkMode

	imageURL, err := s.tako.ChartImage(ctx, input.PubID, darkMode)
	if err != nil {
		s.logger.Warn("get_chart_image failed", "pub_id", input.PubID, "error", err)
		return errorResult(upstreamMessage(err, "Chart image not found")), nil, nil
	}

	return dataToMCP(chartImageOutput{
		ImageURL: imageURL,
		PubID:    input.PubID,
		DarkMode: darkMode,
	}), nil, nil
}

// GetCardInsights handles the get_card_insights MCP tool call.
func (s *Server) GetCardInsights(ctx context.Context, _ *mcp.CallToolRequest, input CardInsightsInput) (*mcp.CallToolResult, any, error) {
	if input.Effort == "" {
		input.Effort = defaultInsightEffort
	}

	resp, err := s.tako.CardInsights(ctx, input.PubID, input.Effort)
	if err != nil {
		s.logger.Warn("get_card_insights failed", "pub_id", input.PubID, "error", err)
		return errorResult(upstreamMessage(err, "Chart not found")), nil, nil
	}

	return dataToMCP(cardInsightsOutput{
		PubID:       input.PubID,
		Insights:    resp.Insights,
		Description: resp.Description,
	}), nil, nil
}

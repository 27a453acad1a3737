package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takodata/tako-mcp/internal/tako"
)

// ListChartSchemasInput defines the input schema for list_chart_schemas.
// The tool takes no parameters.
type ListChartSchemasInput struct{}

// GetChartSchemaInput defines the input schema for get_chart_schema.
type GetChartSchemaInput struct {
	SchemaName string `json:"schema_name" jsonschema:"Name of the schema, e.g. stock_card, bar_chart, grouped_bar_chart"`
}

// CreateChartInput defines the input schema for create_chart.
type CreateChartInput struct {
	SchemaName string                `json:"schema_name" jsonschema:"Name of the schema to use, e.g. stock_card, bar_chart, grouped_bar_chart"`
	Components []tako.ChartComponent `json:"components" jsonschema:"Component configurations matching the schema; each needs component_type and config fields"`
	Source     string                `json:"source,omitempty" jsonschema:"Optional attribution text, e.g. Yahoo Finance or Company Reports"`
}

// schemaSummary is one entry in the list_chart_schemas payload.
type schemaSummary struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Components  json.RawMessage `json:"components"`
}

// schemaListOutput is the payload serialized for list_chart_schemas.
type schemaListOutput struct {
	Schemas []schemaSummary `json:"schemas"`
	Count   int             `json:"count"`
}

// schemaDetailOutput is the payload serialized for get_chart_schema.
type schemaDetailOutput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Components  json.RawMessage `json:"components"`
	Template    json.RawMessage `json:"template"`
}

// createChartOutput is the payload serialized for create_chart, with the
// open-UI hint appended when the chart has a card_id.
type createChartOutput struct {
	CardID      string            `json:"card_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	WebpageURL  string            `json:"webpage_url"`
	EmbedURL    string            `json:"embed_url"`
	ImageURL    string            `json:"image_url"`
	OpenUITool  string            `json:"open_ui_tool,omitempty"`
	OpenUIArgs  map[string]string `json:"open_ui_args,omitempty"`
}

// registerSchemaTools registers the ThinViz tools:
// list_chart_schemas, get_chart_schema, create_chart.
func (s *Server) registerSchemaTools() error {
	listSchema, err := jsonschema.For[ListChartSchemasInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolListChartSchemas, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolListChartSchemas,
		Description: "List available chart schemas (templates) for creating visualizations. " +
			"Each schema defines what components a chart needs.",
		InputSchema: listSchema,
	}, s.ListChartSchemas)

	getSchema, err := jsonschema.For[GetChartSchemaInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolGetChartSchema, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolGetChartSchema,
		Description: "Get detailed information about a chart schema including required component " +
			"configurations. Use this before create_chart to learn the expected data format.",
		InputSchema: getSchema,
	}, s.GetChartSchema)

	createSchema, err := jsonschema.For[CreateChartInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolCreateChart, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolCreateChart,
		Description: "Create a new chart using a schema template and your own data. " +
			"Use list_chart_schemas and get_chart_schema to understand available options. " +
			"Returns the created chart's card_id, embed_url, and image_url.",
		InputSchema: createSchema,
	}, s.CreateChart)

	return nil
}

// ListChartSchemas handles the list_chart_schemas MCP tool call.
func (s *Server) ListChartSchemas(ctx context.Context, _ *mcp.CallToolRequest, _ ListChartSchemasInput) (*mcp.CallToolResult, any, error) {
	schemas, err := s.tako.ListChartSchemas(ctx)
	if err != nil {
		s.logger.Warn("list_chart_schemas failed", "error", err)
		return errorResult(upstreamMessage(err, "")), nil, nil
	}

	out := schemaListOutput{Schemas: make([]schemaSummary, 0, len(schemas))}
	for _, schema := range schemas {
		out.Schemas = append(out.Schemas, schemaSummary{
			Name:        schema.Name,
			Description: schema.Description,
			Components:  schema.Components,
		})
	}
	out.Count = len(out.Schemas)

	return dataToMCP(out), nil, nil
}

// GetChartSchema handles the get_chart_schema MCP tool call.
func (s *Server) GetChartSchema(ctx context.Context, _ *mcp.CallToolRequest, input GetChartSchemaInput) (*mcp.CallToolResult, any, error) {
	schema, err := s.tako.GetChartSchema(ctx, input.SchemaName)
	if err != nil {
		s.logger.Warn("get_chart_schema failed", "schema", input.SchemaName, "error", err)
		notFound := fmt.Sprintf("Schema %q not found", input.SchemaName)
		return errorResult(upstreamMessage(err, notFound)), nil, nil
	}

	return dataToMCP(schemaDetailOutput{
		Name:        schema.Name,
		Description: schema.Description,
		Components:  schema.Components,
		Template:    schema.Template,
	}), nil, nil
}

// CreateChart handles the create_chart MCP tool call.
func (s *Server) CreateChart(ctx context.Context, _ *mcp.CallToolRequest, input CreateChartInput) (*mcp.CallToolResult, any, error) {
	chart, err := s.tako.CreateChart(ctx, input.SchemaName, tako.CreateChartRequest{
		Components: input.Components,
		Source:     input.Source,
	})
	if err != nil {
		s.logger.Warn("create_chart failed", "schema", input.SchemaName, "error", err)
		if tako.IsStatus(err, 400) {
			return errorResult("Invalid component configuration for schema " + input.SchemaName), nil, nil
		}
		notFound := fmt.Sprintf("Schema %q not found", input.SchemaName)
		return errorResult(upstreamMessage(err, notFound)), nil, nil
	}

	out := createChartOutput{
		CardID:      chart.CardID,
		Title:       chart.Title,
		Description: chart.Description,
		WebpageURL:  chart.WebpageURL,
		EmbedURL:    chart.EmbedURL,
		ImageURL:    chart.ImageURL,
	}
	if chart.CardID != "" {
		out.OpenUITool = ToolOpenChartUI
		out.OpenUIArgs = map[string]string{"pub_id": chart.CardID}
	}

	s.logger.Debug("create_chart completed", "schema", input.SchemaName, "card_id", chart.CardID)

	return dataToMCP(out), nil, nil
}

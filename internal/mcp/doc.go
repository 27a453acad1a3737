// Package mcp exposes the Tako API as Model Context Protocol tools.
//
// The package wraps the official MCP SDK server and registers one tool per
// Tako endpoint plus one prompt. Every tool handler is a direct
// pass-through: decode the typed input, issue one HTTP call through
// internal/tako, reshape the response, and emit a single JSON text content
// block. Upstream failures never become protocol errors; they are returned
// as error-flagged content so agents can read and react to them.
//
// Tool surface:
//
//	knowledge_search         search charts and datasets
//	get_chart_image          preview image URL for a chart
//	get_card_insights        AI-generated insights for a chart
//	explore_knowledge_graph  discover entities, metrics, and cohorts
//	list_chart_schemas       ThinViz templates for chart creation
//	get_chart_schema         component details for one template
//	create_chart             render a chart from a template and data
//	open_chart_ui            interactive chart embed as an MCP-UI resource
//
// File structure:
//   - server.go: server construction, tool names, registration
//   - search.go, chart.go, graph.go, schema.go, ui.go: tool handlers
//   - prompt.go: the generate_search_query prompt
//   - util.go: content-block formatting helpers
package mcp

package mcp

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Default embed dimensions, matching the hosted chart embed.
const (
	defaultEmbedWidth  = 900
	defaultEmbedHeight = 600
)

// uiPreferredFrameSizeKey is the mcp-ui metadata key renderers use to size
// the frame before the embed loads.
const uiPreferredFrameSizeKey = "mcpui.dev/ui-preferred-frame-size"

// OpenChartUIInput defines the input schema for open_chart_ui.
type OpenChartUIInput struct {
	PubID    string `json:"pub_id" jsonschema:"The unique identifier (pub_id/card_id) of the chart"`
	DarkMode *bool  `json:"dark_mode,omitempty" jsonschema:"Whether to use the dark mode theme (default true)"`
	Width    int    `json:"width,omitempty" jsonschema:"Initial width in pixels (default 900)"`
	Height   int    `json:"height,omitempty" jsonschema:"Initial height in pixels (default 600)"`
}

// registerUITools registers the open_chart_ui tool.
func (s *Server) registerUITools() error {
	uiSchema, err := jsonschema.For[OpenChartUIInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", ToolOpenChartUI, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: ToolOpenChartUI,
		Description: "Open an interactive chart in the UI. Returns an MCP-UI resource that " +
			"renders a fully interactive Tako chart with zooming, filtering, hover " +
			"interactions, and responsive resizing.",
		InputSchema: uiSchema,
	}, s.OpenChartUI)

	return nil
}

// OpenChartUI handles the open_chart_ui MCP tool call.
// It makes no upstream request: the embed page is served by the public site.
func (s *Server) OpenChartUI(_ context.Context, _ *mcp.CallToolRequest, input OpenChartUIInput) (*mcp.CallToolResult, any, error) {
	if input.PubID == "" {
		return errorResult("pub_id is required"), nil, nil
	}

	theme := "dark"
	if input.DarkMode != nil && !*input.DarkMode {
		theme = "light"
	}
	width := input.Width
	if width <= 0 {
		width = defaultEmbedWidth
	}
	height := input.Height
	if height <= 0 {
		height = defaultEmbedHeight
	}

	embedURL := fmt.Sprintf("%s/embed/%s/?theme=%s", s.publicBaseURL, url.PathEscape(input.PubID), theme)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.EmbeddedResource{
				Resource: &mcp.ResourceContents{
					URI:      "ui://tako/embed/" + input.PubID,
					MIMEType: "text/html",
					Text:     embedDocument(embedURL, height),
					Meta: mcp.Meta{
						uiPreferredFrameSizeKey: []string{
							strconv.Itoa(width) + "px",
							strconv.Itoa(height) + "px",
						},
					},
				},
			},
		},
	}, nil, nil
}

// embedDocument builds the HTML page wrapping the chart iframe. The page
// listens for the embed's resize messages and grows the iframe to fit.
func embedDocument(embedURL string, height int) string {
	r := strings.NewReplacer(
		"{{SRC}}", html.EscapeString(embedURL),
		"{{HEIGHT}}", strconv.Itoa(height),
	)
	return r.Replace(embedTemplate)
}

const embedTemplate = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      html, body { margin: 0; padding: 0; width: 100%; height: 100%; background: transparent; }
      #tako-embed {
        width: 100% !important;
        height: {{HEIGHT}}px !important;
        min-height: {{HEIGHT}}px !important;
        border: 0 !important;
        display: block !important;
      }
    </style>
  </head>
  <body>
    <iframe
      id="tako-embed"
      width="100%"
      height="{{HEIGHT}}"
      src="{{SRC}}"
      scrolling="no"
      frameborder="0"
      allow="fullscreen"
    ></iframe>

    <script>
      (function() {
        "use strict";
        var iframe = document.getElementById("tako-embed");
        if (!iframe) return;

        iframe.style.height = "{{HEIGHT}}px";
        iframe.style.minHeight = "{{HEIGHT}}px";

        window.addEventListener("message", function(e) {
          var d = e.data || {};
          if (d.type !== "tako::resize") return;

          var target = document.getElementById("tako-embed");
          if (!target || target.contentWindow !== e.source) return;

          if (typeof d.height === "number" && d.height > 0) {
            var newHeight = d.height + "px";
            target.style.height = newHeight;
            target.style.minHeight = newHeight;
            target.setAttribute("height", d.height);
          }
        });
      })();
    </script>
  </body>
</html>`

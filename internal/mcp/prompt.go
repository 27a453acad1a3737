package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PromptGenerateSearchQuery turns free-form user text into focused Tako
// search queries.
const PromptGenerateSearchQuery = "generate_search_query"

// registerPrompts registers the server's prompts.
func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(&mcp.Prompt{
		Name:        PromptGenerateSearchQuery,
		Description: "Generate a prompt that turns user input text into Tako search queries.",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "text",
				Description: "User input text to build search queries for",
				Required:    true,
			},
		},
	}, s.GenerateSearchQuery)
}

// GenerateSearchQuery handles the generate_search_query prompt request.
func (s *Server) GenerateSearchQuery(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := req.Params.Arguments["text"]
	if text == "" {
		return nil, fmt.Errorf("argument %q is required", "text")
	}

	return &mcp.GetPromptResult{
		Description: "Tako search query generation",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: searchQueryPrompt(text)},
			},
		},
	}, nil
}

func searchQueryPrompt(text string) string {
	return `You are a data analyst agent that generates Tako search queries for a user input text to search Tako and retrieve real-time data and visualizations.

Generate queries and search Tako following the instructions below:

Step 1. Generate search queries following the instructions below and call ` + "`knowledge_search(query)`" + ` for each query.
* If the text includes a cohort such as "G7", "African Countries", "Magnificent 7 stocks", generate search queries for each individual country, stock, or company within the cohort. For example, if user input includes "G7", generate queries for "United States", "Canada", "France", "Germany", "Italy", "Japan", and "United Kingdom".
* If the text is about a broad topic, generate specific search queries related to the topic.
* If the text can be answered by categorizing the data, generate search queries using semantic functions such as "Top 10" or "Bottom 10".
* If the text is about a timeline, generate a search query starting with "Timeline of".
* Search for a single metric per query. For example, if the user wants to know about a company, you may generate a query like "Market Cap of Tesla" or "Revenue of Tesla" but not "Tesla's Market Cap and Revenue".

Step 2. Ground your answer based on the results from Tako.
* Using the data provided by Tako, ground your answer.

Step 3. Add visualizations from Step 1 to your answer.
* Use the embed or image link provided by Tako to add visualizations to your answer.

<UserInputText>
` + text + `
</UserInputText>`
}

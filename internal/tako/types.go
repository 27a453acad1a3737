package tako

import "encoding/json"

// Request/response shapes mirror the Tako API JSON bodies. They are
// ephemeral: decoded for one call, reshaped, and discarded.

// SearchInputs is the inner "inputs" object of a knowledge search request.
type SearchInputs struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// KnowledgeSearchRequest is the body of POST /api/v1/knowledge_search.
type KnowledgeSearchRequest struct {
	Inputs        SearchInputs `json:"inputs"`
	SourceIndexes []string     `json:"source_indexes"`
	SearchEffort  string       `json:"search_effort"`
	CountryCode   string       `json:"country_code"`
	Locale        string       `json:"locale"`
}

// KnowledgeCard is one chart result inside a knowledge search response.
type KnowledgeCard struct {
	CardID      string `json:"card_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// KnowledgeSearchResponse is the body returned by knowledge search.
type KnowledgeSearchResponse struct {
	Outputs struct {
		KnowledgeCards []KnowledgeCard `json:"knowledge_cards"`
	} `json:"outputs"`
}

// InsightsResponse is the body returned by the chart-insights endpoint.
// Insights is kept raw: the API returns either a string or a list of
// bullet strings depending on effort level.
type InsightsResponse struct {
	Insights    json.RawMessage `json:"insights"`
	Description string          `json:"description"`
}

// ExploreRequest is the body of POST /api/v1/explore/.
type ExploreRequest struct {
	Query     string   `json:"query"`
	NodeTypes []string `json:"node_types,omitempty"`
	Limit     int      `json:"limit"`
}

// GraphEntity is a company, country, person, or organization node.
type GraphEntity struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	Aliases         []string `json:"aliases"`
	AvailableTables []string `json:"available_tables"`
	NodeID          string   `json:"node_id"`
}

// GraphMetric is a measurement node such as revenue or GDP.
type GraphMetric struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Units            []string `json:"units"`
	TimePeriods      []string `json:"time_periods"`
	CompatibleTables []string `json:"compatible_tables"`
	NodeID           string   `json:"node_id"`
}

// GraphCohort is a named group node such as "S&P 500" or "BRICS".
type GraphCohort struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	MemberCount   int      `json:"member_count"`
	SampleMembers []string `json:"sample_members"`
	NodeID        string   `json:"node_id"`
}

// ExploreResponse is the body returned by the knowledge-graph endpoint.
type ExploreResponse struct {
	Query           string          `json:"query"`
	TotalMatches    int             `json:"total_matches"`
	Entities        []GraphEntity   `json:"entities"`
	Metrics         []GraphMetric   `json:"metrics"`
	Cohorts         []GraphCohort   `json:"cohorts"`
	TimePeriods     json.RawMessage `json:"time_periods"`
	ExecutionTimeMS float64         `json:"execution_time_ms"`
}

// ChartSchema is a ThinViz chart template. Components and Template are kept
// raw so schema details pass through to the agent unmodified.
type ChartSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Components  json.RawMessage `json:"components"`
	Template    json.RawMessage `json:"template,omitempty"`
}

// ChartComponent is one component configuration in a chart-creation request.
type ChartComponent struct {
	ComponentType string         `json:"component_type"`
	Config        map[string]any `json:"config"`
}

// CreateChartRequest is the body of the ThinViz create endpoint.
type CreateChartRequest struct {
	Components []ChartComponent `json:"components"`
	Source     string           `json:"source,omitempty"`
}

// CreatedChart is the body returned after creating a chart.
type CreatedChart struct {
	CardID      string `json:"card_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	WebpageURL  string `json:"webpage_url"`
	EmbedURL    string `json:"embed_url"`
	ImageURL    string `json:"image_url"`
}

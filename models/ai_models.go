package models

// InsightsRequest carries the processed-analysis context the AI assistant
// should narrate.
type InsightsRequest struct {
	Summary         AnalysisSummary           `json:"summary"`
	Business        BusinessMetrics           `json:"business_metrics"`
	TopInventory    []InventoryRecommendation `json:"top_inventory,omitempty"`
	PriorityActions []ActionItem              `json:"priority_actions,omitempty"`
	Question        string                    `json:"question,omitempty"`
}

// InsightsResponse is the narrative produced by the AI assistant.
type InsightsResponse struct {
	Insights    string `json:"insights"`
	Model       string `json:"model"`
	GeneratedAt string `json:"generated_at"`
}

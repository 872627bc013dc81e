package models

import "time"

// SalesRecord is one cleaned point-of-sale row. Built by the cleaner from a
// raw upload; immutable afterwards and scoped to a single request.
type SalesRecord struct {
	Date      time.Time `json:"date"`
	SKU       string    `json:"sku"`
	ItemName  string    `json:"item_name"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price,omitempty"`
	Store     string    `json:"store,omitempty"`
}

// SeriesPoint is one day of a gap-filled per-product series.
type SeriesPoint struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
}

// ProductShare is a product's contribution within a day or revenue ranking.
type ProductShare struct {
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue,omitempty"`
	Share    float64 `json:"share_percent,omitempty"`
}

// DayAggregate is one observed calendar day of sales history.
type DayAggregate struct {
	Date          string         `json:"date"`
	TotalQuantity float64        `json:"total_quantity"`
	Transactions  int            `json:"transactions"`
	TopProducts   []ProductShare `json:"top_products"`
	GrowthRate    float64        `json:"growth_rate"`
	Trend         string         `json:"trend"`
}

// ForecastPoint is a single predicted future day for one product.
type ForecastPoint struct {
	Date           string  `json:"date"`
	PredictedUnits float64 `json:"predicted_units"`
	LowerCI        float64 `json:"lower_ci"`
	UpperCI        float64 `json:"upper_ci"`
	Confidence     float64 `json:"confidence"`
}

// ForecastAccuracy carries holdout-validation metrics for the full model.
type ForecastAccuracy struct {
	MAE      float64 `json:"mae"`
	Accuracy float64 `json:"accuracy"`
	R2       float64 `json:"r2_score"`
}

// ProductForecast is the per-product forecasting output.
type ProductForecast struct {
	SKU       string            `json:"sku"`
	ItemName  string            `json:"item_name"`
	Model     string            `json:"model"`
	RiskLevel string            `json:"risk_level"`
	Accuracy  *ForecastAccuracy `json:"accuracy,omitempty"`
	Forecast  []ForecastPoint   `json:"forecast"`
}

// ProductStats holds per-product demand statistics and catalog-relative
// percentiles. Percentiles are rank-based within the current catalog only.
type ProductStats struct {
	SKU                  string  `json:"sku"`
	ItemName             string  `json:"item_name"`
	DailyAvg             float64 `json:"daily_avg"`
	DailyStd             float64 `json:"daily_std"`
	CV                   float64 `json:"coefficient_of_variation"`
	DemandPercentile     float64 `json:"demand_percentile"`
	VolatilityPercentile float64 `json:"volatility_percentile"`
	CombinedRisk         float64 `json:"combined_risk_percentile"`
}

// InventoryRecommendation is the reorder guidance for one product.
type InventoryRecommendation struct {
	SKU                  string   `json:"sku"`
	ItemName             string   `json:"item_name"`
	DailyAvg             float64  `json:"daily_sales_avg"`
	DailyStd             float64  `json:"daily_sales_std"`
	CV                   float64  `json:"coefficient_of_variation"`
	DemandClass          string   `json:"demand_classification"`
	VolatilityClass      string   `json:"volatility_classification"`
	DemandPercentile     float64  `json:"demand_percentile"`
	VolatilityPercentile float64  `json:"volatility_percentile"`
	CombinedRisk         float64  `json:"combined_risk_percentile"`
	Priority             string   `json:"priority"`
	RecommendedStock     float64  `json:"recommended_stock"`
	SafetyStock          float64  `json:"safety_stock"`
	ReorderPoint         float64  `json:"reorder_point"`
	LeadTimeDays         float64  `json:"lead_time_days"`
	UnitCost             float64  `json:"unit_cost"`
	UnitPrice            float64  `json:"unit_price"`
	CurrentStock         *float64 `json:"current_stock,omitempty"`
	DaysRemaining        *float64 `json:"days_remaining,omitempty"`
	StockoutRisk         string   `json:"stockout_risk,omitempty"`
	Shortage             float64  `json:"shortage"`
	InvestmentRequired   float64  `json:"investment_required"`
	ExpectedRevenue      float64  `json:"expected_revenue"`
	ExpectedProfit       float64  `json:"expected_profit"`
	ExpectedROI          float64  `json:"expected_roi_percent"`
}

// ActionItem is one prioritized restock action derived from an
// InventoryRecommendation. The list is a total order over
// (priority, urgency, revenue at risk).
type ActionItem struct {
	SKU                string  `json:"sku"`
	ItemName           string  `json:"item_name"`
	Priority           string  `json:"priority"`
	UrgencyScore       float64 `json:"urgency_score"`
	Basis              string  `json:"basis"`
	Reason             string  `json:"reason"`
	Action             string  `json:"action"`
	Deadline           string  `json:"action_deadline"`
	ReorderTimelineDay float64 `json:"reorder_timeline_days"`
	DailyRevenueAtRisk float64 `json:"daily_revenue_at_risk"`
	Shortage           float64 `json:"shortage"`
	InvestmentRequired float64 `json:"investment_required"`
	ExpectedRevenue    float64 `json:"expected_revenue"`
	ExpectedROI        float64 `json:"expected_roi_percent"`
}

// BusinessMetrics aggregates revenue and growth over the filtered window.
type BusinessMetrics struct {
	TotalRevenue       float64        `json:"total_revenue"`
	TotalTransactions  int            `json:"total_transactions"`
	UniqueProducts     int            `json:"unique_products"`
	AvgDailyRevenue    float64        `json:"average_daily_revenue"`
	GrowthRatePercent  float64        `json:"growth_rate_percent"`
	TopProducts        []ProductShare `json:"top_products"`
}

// ROIEstimate is a projected (not measured) return from acting on the
// recommendations.
type ROIEstimate struct {
	CurrentMonthlyRevenue float64 `json:"current_monthly_revenue"`
	ProjectedIncrease     float64 `json:"projected_increase"`
	ProjectedRevenue      float64 `json:"projected_revenue"`
	InventoryCostSavings  float64 `json:"inventory_cost_savings"`
	ImprovementPercent    float64 `json:"improvement_percent"`
	NetProfit             float64 `json:"net_profit"`
	NetROI                float64 `json:"net_roi"`
	PaybackPeriodDays     int     `json:"payback_period_days"`
	Disclaimer            string  `json:"disclaimer"`
}

// AnalysisSummary describes the processed dataset and filter context.
type AnalysisSummary struct {
	TotalRecords    int     `json:"total_records"`
	UniqueItems     int     `json:"unique_items"`
	DateRange       string  `json:"date_range"`
	FilterApplied   string  `json:"filter_applied,omitempty"`
	TotalUnits      float64 `json:"total_units"`
	AvgDailyUnits   float64 `json:"average_daily_units"`
	ProcessedAt     string  `json:"processed_at"`
	FileName        string  `json:"file_name,omitempty"`
	SalesColumnUsed string  `json:"sales_column_used"`
}

// AnalysisResult is the full response body for one pipeline run.
type AnalysisResult struct {
	Summary         AnalysisSummary           `json:"summary"`
	Historical      []DayAggregate            `json:"historical"`
	Forecasts       []ProductForecast         `json:"forecasts"`
	Inventory       []InventoryRecommendation `json:"inventory"`
	PriorityActions []ActionItem              `json:"priority_actions"`
	Business        BusinessMetrics           `json:"business_metrics"`
	ROI             ROIEstimate               `json:"roi"`
	Warnings        []string                  `json:"warnings,omitempty"`
}

// UploadPreview is the response for the pre-processing preview endpoint.
type UploadPreview struct {
	RecordCount     int                 `json:"recordCount"`
	Columns         []string            `json:"columns"`
	DetectedColumns map[string]string   `json:"detected_columns"`
	DateRange       map[string]string   `json:"dateRange"`
	TopProducts     []ProductShare      `json:"topProducts"`
	Samples         []map[string]string `json:"samples"`
	Message         string              `json:"message"`
}

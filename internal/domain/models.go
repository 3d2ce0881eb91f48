// internal/domain/models.go
package domain

import "time"

// SalesRecord is one day of observed sales for a product. There is at most one
// record per product per date; duplicates are a data-quality bug upstream.
type SalesRecord struct {
	Product        string    `json:"product" db:"product"`
	Date           time.Time `json:"date" db:"date"`
	QuantitySold   int       `json:"quantity_sold" db:"quantity_sold"`
	QuantityWasted int       `json:"quantity_wasted" db:"quantity_wasted"`
	Temperature    float64   `json:"temperature" db:"temperature"`
	Precipitation  float64   `json:"precipitation" db:"precipitation"`
	IsWeekend      bool      `json:"is_weekend" db:"is_weekend"`
	IsHoliday      bool      `json:"is_holiday" db:"is_holiday"`
}

// InventoryBatch is a snapshot of a single procurement batch. Batches are
// created and consumed externally; this system only reads them.
// Invariant: ExpirationDate >= DateAcquired.
type InventoryBatch struct {
	Product        string    `json:"product" db:"product"`
	BatchID        string    `json:"batch_id" db:"batch_id"`
	DateAcquired   time.Time `json:"date_acquired" db:"date_acquired"`
	ExpirationDate time.Time `json:"expiration_date" db:"expiration_date"`
	Quantity       int       `json:"quantity" db:"quantity"`
}

// BatchStatus is an InventoryBatch annotated with its days to expiry relative
// to the summary's reference date.
type BatchStatus struct {
	BatchID        string    `json:"batch_id"`
	Quantity       int       `json:"quantity"`
	DaysToExpiry   int       `json:"days_to_expiry"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// InventorySummary buckets a product's batches by time to expiry. It is
// recomputed on every query and never persisted.
type InventorySummary struct {
	Product         string        `json:"product"`
	TotalQuantity   int           `json:"total_quantity"`
	Expired         int           `json:"expired"`
	ExpiringSoon    int           `json:"expiring_soon"`    // 0-5 days
	ExpiringWarning int           `json:"expiring_warning"` // 6-14 days
	ExpiringGood    int           `json:"expiring_good"`    // 15+ days
	Batches         []BatchStatus `json:"batches"`
}

// ForecastPoint is a single day of a demand forecast.
// Invariant: LowerBound <= PredictedDemand <= UpperBound.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	DayOfWeek       string    `json:"day_of_week"`
	PredictedDemand float64   `json:"predicted_demand"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
	Temperature     float64   `json:"temperature"`
	Precipitation   float64   `json:"precipitation"`
	IsWeekend       bool      `json:"is_weekend"`
}

// Forecast is the full multi-day forecast for a product, tagged with the
// provenance of the weather inputs ("live" or "mock").
type Forecast struct {
	Product        string          `json:"product"`
	ForecastDays   int             `json:"forecast_days"`
	Predictions    []ForecastPoint `json:"predictions"`
	TotalPredicted float64         `json:"total_predicted"`
	WeatherSource  string          `json:"weather_source"`
}

// WeatherDay is one day of weather features for forecasting.
type WeatherDay struct {
	Day           int     `json:"day"`
	Temperature   float64 `json:"temperature"`   // degrees F
	Precipitation float64 `json:"precipitation"` // inches
	Description   string  `json:"description"`
}

// SalesStats are trailing-window statistics over a product's sales history.
type SalesStats struct {
	Product       string  `json:"product"`
	PeriodDays    int     `json:"period_days"`
	AvgDailySold  float64 `json:"avg_daily_sold"`
	AvgDailyWaste float64 `json:"avg_daily_wasted"`
	WasteRatePct  float64 `json:"waste_rate_pct"`
	TotalSold     int     `json:"total_sold"`
	TotalWasted   int     `json:"total_wasted"`
}

// SalesTrend is the per-day trend rows plus the statistics block.
type SalesTrend struct {
	Product   string       `json:"product"`
	TrendData []TrendPoint `json:"trend_data"`
	Stats     SalesStats   `json:"statistics"`
}

// TrendPoint is one row of a sales trend.
type TrendPoint struct {
	Date       time.Time `json:"date"`
	DayOfWeek  string    `json:"day_of_week"`
	ItemsSold  int       `json:"items_sold"`
	ItemsWaste int       `json:"items_wasted"`
}

// WeatherImpact summarizes how weather correlates with a product's sales.
type WeatherImpact struct {
	Product                string  `json:"product"`
	TemperatureCorrelation float64 `json:"temperature_correlation"`
	RainImpactPct          float64 `json:"rain_impact_pct"`
	AvgSalesRainyDays      float64 `json:"avg_sales_rainy_days"`
	AvgSalesClearDays      float64 `json:"avg_sales_clear_days"`
	Interpretation         string  `json:"interpretation"`
}

// DiscountRecommendation is a derived, stateless pricing decision.
type DiscountRecommendation struct {
	Product        string  `json:"product"`
	NeedsDiscount  bool    `json:"needs_discount"`
	Urgency        Urgency `json:"urgency"`
	DiscountPct    float64 `json:"recommended_discount_pct"`
	WasteRatePct   float64 `json:"waste_rate_pct"`
	PerformancePct float64 `json:"performance_vs_prediction_pct"`
	Reasoning      string  `json:"reasoning"`
	Source         string  `json:"source"` // "reasoning" or "fallback"
}

// OrderRecommendation is a derived, stateless reorder decision. The
// intermediate DaysOfInventory and WasteRisk values are included so callers
// can audit the arithmetic.
type OrderRecommendation struct {
	Product          string        `json:"product"`
	CurrentInventory int           `json:"current_inventory"`
	ExpiringSoon     int           `json:"expiring_soon"`
	PredictedDemand  float64       `json:"predicted_demand"`
	DaysOfInventory  float64       `json:"days_of_inventory"`
	WasteRisk        float64       `json:"waste_risk"`
	RecommendedOrder float64       `json:"recommended_order"`
	Confidence       Confidence    `json:"confidence"`
	Priority         OrderPriority `json:"order_priority"`
	Reason           string        `json:"reason"`
}

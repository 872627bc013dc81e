package analytics

import (
	"fmt"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"forecastai/models"
)

// ForecastStrategy routes a product to one of the forecasting models. The
// choice is made once per product by chooseStrategy; there is no runtime
// polymorphism over model objects.
type ForecastStrategy int

const (
	StrategyInsufficient ForecastStrategy = iota
	StrategyShortHistory
	StrategySparse
	StrategyFull
)

const (
	modelShortHistory = "Exponential Smoothing (Short History)"
	modelCroston      = "Croston (Intermittent Demand)"
	modelFull         = "Additive Regression (Trend + Weekly Seasonality)"
)

const (
	RiskGreen  = "GREEN"
	RiskYellow = "YELLOW"
	RiskRed    = "RED"
)

// DefaultForecastDays is the horizon used when the caller does not override it.
const DefaultForecastDays = 15

// topForecastProducts caps how many products get individual forecasts.
const topForecastProducts = 5

// forecastWorkers bounds the per-product fitting pool. Products are
// independent; each worker writes only its own result slot.
const forecastWorkers = 4

// ForecastOptions control the horizon and the optional output date window.
type ForecastOptions struct {
	Horizon int
	Window  DateWindow
}

func (o ForecastOptions) horizon() int {
	if o.Horizon <= 0 {
		return DefaultForecastDays
	}
	return o.Horizon
}

// chooseStrategy picks the forecasting model for a product by data volume and
// shape; first match wins.
func chooseStrategy(ps *ProductSeries) ForecastStrategy {
	switch {
	case ps.ObservedDays < 5:
		return StrategyInsufficient
	case ps.ObservedDays < 15:
		return StrategyShortHistory
	case isSparse(ps.Quantities()):
		return StrategySparse
	default:
		return StrategyFull
	}
}

// Forecast produces per-product forecasts for the top products by total
// quantity. Products with insufficient history are omitted entirely; a
// product whose fit fails is skipped with a warning while the rest proceed.
func Forecast(series []ProductSeries, opts ForecastOptions) ([]models.ProductForecast, []string) {
	candidates := series
	if len(candidates) > topForecastProducts {
		candidates = candidates[:topForecastProducts]
	}

	results := make([]*models.ProductForecast, len(candidates))
	warnings := make([]string, len(candidates))

	var g errgroup.Group
	g.SetLimit(forecastWorkers)
	for i := range candidates {
		g.Go(func() error {
			ps := &candidates[i]
			fc, err := forecastProduct(ps, opts)
			if err != nil {
				log.Printf("⚠️  %v", err)
				warnings[i] = err.Error()
				return nil
			}
			if fc == nil {
				return nil
			}
			if len(fc.Forecast) == 0 {
				warnings[i] = fmt.Sprintf("forecast for %s empty after date filter, product excluded", ps.SKU)
				log.Printf("⚠️  %s", warnings[i])
				return nil
			}
			results[i] = fc
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.ProductForecast, 0, len(candidates))
	var warn []string
	for i := range candidates {
		if results[i] != nil {
			out = append(out, *results[i])
		}
		if warnings[i] != "" {
			warn = append(warn, warnings[i])
		}
	}
	return out, warn
}

func forecastProduct(ps *ProductSeries, opts ForecastOptions) (*models.ProductForecast, error) {
	switch chooseStrategy(ps) {
	case StrategyInsufficient:
		log.Printf("⏭️  %s: only %d observed days, skipping forecast", ps.SKU, ps.ObservedDays)
		return nil, nil
	case StrategyShortHistory:
		return forecastShortHistory(ps, opts), nil
	case StrategySparse:
		return forecastSparse(ps, opts), nil
	default:
		return forecastFull(ps, opts)
	}
}

func lastDate(ps *ProductSeries) time.Time {
	return ps.Points[len(ps.Points)-1].Date
}

// futureDates enumerates the horizon days strictly after the last observed
// day, already restricted to the caller's output window.
func futureDates(ps *ProductSeries, opts ForecastOptions) []time.Time {
	last := lastDate(ps)
	dates := make([]time.Time, 0, opts.horizon())
	for i := 1; i <= opts.horizon(); i++ {
		d := last.AddDate(0, 0, i)
		if opts.Window.From != nil && d.Before(*opts.Window.From) {
			continue
		}
		if opts.Window.To != nil && d.After(*opts.Window.To) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func forecastShortHistory(ps *ProductSeries, opts ForecastOptions) *models.ProductForecast {
	preds := shortHistoryForecast(ps.Quantities(), opts.horizon())
	last := lastDate(ps)

	fc := &models.ProductForecast{
		SKU:       ps.SKU,
		ItemName:  ps.ItemName,
		Model:     modelShortHistory,
		RiskLevel: RiskRed,
	}
	for i, d := range allHorizonDates(last, opts.horizon()) {
		if !inWindow(d, opts.Window) {
			continue
		}
		p := preds[i]
		fc.Forecast = append(fc.Forecast, models.ForecastPoint{
			Date:           d.Format("2006-01-02"),
			PredictedUnits: p,
			LowerCI:        0.5 * p,
			UpperCI:        1.5 * p,
			Confidence:     0.50,
		})
	}
	return fc
}

func forecastSparse(ps *ProductSeries, opts ForecastOptions) *models.ProductForecast {
	rate := crostonRate(ps.Quantities())
	last := lastDate(ps)

	fc := &models.ProductForecast{
		SKU:       ps.SKU,
		ItemName:  ps.ItemName,
		Model:     modelCroston,
		RiskLevel: RiskRed,
	}
	for _, d := range allHorizonDates(last, opts.horizon()) {
		if !inWindow(d, opts.Window) {
			continue
		}
		fc.Forecast = append(fc.Forecast, models.ForecastPoint{
			Date:           d.Format("2006-01-02"),
			PredictedUnits: rate,
			LowerCI:        0.2 * rate,
			UpperCI:        2.0 * rate,
			Confidence:     0.50,
		})
	}
	return fc
}

func forecastFull(ps *ProductSeries, opts ForecastOptions) (*models.ProductForecast, error) {
	qs := ps.Quantities()

	// Confidence tier by volatility.
	cv := coefficientOfVariation(qs)
	confidence := 0.60
	switch {
	case cv < 0.20:
		confidence = 0.85
	case cv < 0.50:
		confidence = 0.75
	}

	accuracy, err := validateHoldout(ps.Points)
	if err != nil {
		return nil, &ModelFittingError{SKU: ps.SKU, Stage: "holdout validation", Err: err}
	}

	model, err := fitRegression(ps.Points)
	if err != nil {
		return nil, &ModelFittingError{SKU: ps.SKU, Stage: "production fit", Err: err}
	}

	histMax := 0.0
	for _, q := range qs {
		histMax = math.Max(histMax, q)
	}
	nz := nonZero(qs)
	p25 := quantile(0.25, nz)
	p75 := quantile(0.75, nz)
	z := 1.96

	fc := &models.ProductForecast{
		SKU:       ps.SKU,
		ItemName:  ps.ItemName,
		Model:     modelFull,
		RiskLevel: fullModelRisk(p25, p75, mean(qs)),
		Accuracy:  accuracy,
	}
	for _, d := range futureDates(ps, opts) {
		pred := model.predictDate(d)
		pred = math.Max(0, math.Min(pred, 1.5*histMax))

		lower, upper := blendBounds(pred, model.residualStd*z, p25, p75)
		fc.Forecast = append(fc.Forecast, models.ForecastPoint{
			Date:           d.Format("2006-01-02"),
			PredictedUnits: pred,
			LowerCI:        lower,
			UpperCI:        upper,
			Confidence:     confidence,
		})
	}
	return fc, nil
}

// blendBounds mixes the model's native interval with a business-realistic
// band derived from historical non-zero demand percentiles, then clamps to
// plus/minus 20 percent if the result inverts around the prediction.
func blendBounds(pred, nativeHalfWidth, p25, p75 float64) (lower, upper float64) {
	lower = math.Max(pred-nativeHalfWidth, 0.8*p25)
	lower = math.Max(lower, 0.6*pred)
	upper = math.Min(pred+nativeHalfWidth, 1.5*p75)
	upper = math.Min(upper, 1.4*pred)

	if lower > pred || upper < pred {
		lower = 0.8 * pred
		upper = 1.2 * pred
	}
	lower = math.Max(0, lower)
	return lower, upper
}

// fullModelRisk classifies forecast confidence from prediction variance and
// sales volume.
func fullModelRisk(p25, p75, mean float64) string {
	if mean <= 0 {
		return RiskRed
	}
	varianceRatio := (p75 - p25) / 2 / mean
	switch {
	case varianceRatio < 0.15 && mean > 100:
		return RiskGreen
	case varianceRatio < 0.35 && mean > 20:
		return RiskYellow
	default:
		return RiskRed
	}
}

func allHorizonDates(last time.Time, horizon int) []time.Time {
	dates := make([]time.Time, horizon)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}

func inWindow(d time.Time, w DateWindow) bool {
	if w.From != nil && d.Before(*w.From) {
		return false
	}
	if w.To != nil && d.After(*w.To) {
		return false
	}
	return true
}

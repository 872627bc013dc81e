package analytics

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"forecastai/models"
)

// regressionModel is an additive OLS model with an intercept, a linear trend
// term, and six weekday dummies (Sunday is the baseline). Fitting is a
// deterministic normal-equations solve, so identical input yields identical
// coefficients.
type regressionModel struct {
	beta        []float64
	start       time.Time
	residualStd float64
}

const regressionFeatures = 8

func featureRow(t int, weekday time.Weekday) []float64 {
	row := make([]float64, regressionFeatures)
	row[0] = 1
	row[1] = float64(t)
	if weekday != time.Sunday {
		row[1+int(weekday)] = 1
	}
	return row
}

// fitRegression fits the model to a gap-filled daily series.
func fitRegression(points []models.SeriesPoint) (*regressionModel, error) {
	n := len(points)
	if n < regressionFeatures {
		return nil, errors.New("not enough observations for regression")
	}

	xData := make([]float64, 0, n*regressionFeatures)
	yData := make([]float64, n)
	for i, pt := range points {
		xData = append(xData, featureRow(i, pt.Date.Weekday())...)
		yData[i] = pt.Quantity
	}
	x := mat.NewDense(n, regressionFeatures, xData)
	y := mat.NewVecDense(n, yData)

	var qr mat.QR
	qr.Factorize(x)
	var betaVec mat.VecDense
	if err := qr.SolveVecTo(&betaVec, false, y); err != nil {
		return nil, err
	}

	m := &regressionModel{beta: make([]float64, regressionFeatures), start: points[0].Date}
	for i := range m.beta {
		b := betaVec.AtVec(i)
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, errors.New("regression produced non-finite coefficients")
		}
		m.beta[i] = b
	}

	// Residual standard deviation drives the model's native interval width.
	var ss float64
	for i, pt := range points {
		r := pt.Quantity - m.predictAt(i, pt.Date.Weekday())
		ss += r * r
	}
	m.residualStd = math.Sqrt(ss / float64(n))
	return m, nil
}

func (m *regressionModel) predictAt(t int, weekday time.Weekday) float64 {
	row := featureRow(t, weekday)
	sum := 0.0
	for i, x := range row {
		sum += m.beta[i] * x
	}
	return sum
}

// predictDate predicts demand for a calendar date, which may lie beyond the
// fitted span.
func (m *regressionModel) predictDate(d time.Time) float64 {
	t := int(d.Sub(m.start).Hours() / 24)
	return m.predictAt(t, d.Weekday())
}

// validateHoldout refits on the training prefix, predicts the holdout tail,
// and reports MAE, MAPE-derived accuracy (1 - MAPE/100, floored at zero) and
// R squared. The holdout is the last 15 days when at least 22 days exist,
// otherwise the last half.
func validateHoldout(points []models.SeriesPoint) (*models.ForecastAccuracy, error) {
	n := len(points)
	holdout := 15
	if n < 22 {
		holdout = n / 2
	}
	if holdout < 1 || n-holdout < regressionFeatures {
		return nil, errors.New("series too short for holdout validation")
	}

	train, test := points[:n-holdout], points[n-holdout:]
	m, err := fitRegression(train)
	if err != nil {
		return nil, err
	}

	var absErr, pctErr, ssRes, ssTot float64
	pctCount := 0
	testMean := 0.0
	for _, pt := range test {
		testMean += pt.Quantity
	}
	testMean /= float64(len(test))

	for _, pt := range test {
		pred := math.Max(0, m.predictDate(pt.Date))
		diff := pt.Quantity - pred
		absErr += math.Abs(diff)
		ssRes += diff * diff
		ssTot += (pt.Quantity - testMean) * (pt.Quantity - testMean)
		if pt.Quantity > 0 {
			pctErr += math.Abs(diff) / pt.Quantity * 100
			pctCount++
		}
	}

	acc := &models.ForecastAccuracy{MAE: absErr / float64(len(test))}
	if pctCount > 0 {
		acc.Accuracy = math.Max(0, 1-(pctErr/float64(pctCount))/100)
	}
	if ssTot > 0 {
		acc.R2 = 1 - ssRes/ssTot
	}
	return acc, nil
}

package analytics

import (
	// Go Internal Packages
	"fmt"
	"math"

	// External Packages
	"gonum.org/v1/gonum/mat"
)

// Fixed ARIMA(2,1,2) order. One fixed model family is enough here; the
// fallback in forecast.go covers everything the fit cannot.
const (
	arOrder = 2
	maOrder = 2
)

var (
	errShortSeries = fmt.Errorf("series too short to fit")
	errDiverged    = fmt.Errorf("forecast recursion diverged")
)

// arimaForecast fits ARIMA(2,1,2) to the series with the Hannan-Rissanen
// procedure and forecasts steps values ahead on the original scale:
// difference once, estimate innovations with a long autoregression, regress
// on lagged values and lagged innovations, forecast recursively with future
// innovations at zero, then integrate back from the last observation.
func arimaForecast(series []float64, steps int) ([]float64, error) {
	w := difference(series)

	phi, theta, resid, err := fitARMA(w)
	if err != nil {
		return nil, err
	}

	e := append([]float64(nil), resid...)
	preds := make([]float64, steps)
	for h := 0; h < steps; h++ {
		var v float64
		for i := 0; i < arOrder; i++ {
			if idx := len(w) - 1 - i; idx >= 0 {
				v += phi[i] * w[idx]
			}
		}
		for j := 0; j < maOrder; j++ {
			if idx := len(e) - 1 - j; idx >= 0 {
				v += theta[j] * e[idx]
			}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errDiverged
		}
		w = append(w, v)
		e = append(e, 0)
		preds[h] = v
	}

	out := make([]float64, steps)
	level := series[len(series)-1]
	for h, p := range preds {
		level += p
		out[h] = level
	}
	return out, nil
}

func difference(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	diff := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diff[i-1] = series[i] - series[i-1]
	}
	return diff
}

// fitARMA estimates ARMA(2,2) coefficients on the differenced series.
// Stage one fits a long autoregression to estimate the innovation sequence;
// stage two regresses each value on its two lags and the two lagged
// innovation estimates.
func fitARMA(w []float64) (phi, theta, resid []float64, err error) {
	p := longAROrder(len(w))
	if len(w)-p < arOrder+maOrder+1 {
		return nil, nil, nil, errShortSeries
	}

	arCoef, err := olsAR(w, p)
	if err != nil {
		return nil, nil, nil, err
	}

	resid = make([]float64, len(w))
	for t := p; t < len(w); t++ {
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += arCoef[i] * w[t-1-i]
		}
		resid[t] = w[t] - pred
	}

	// The first p residuals are zero placeholders; start late enough that
	// every innovation lag in the design matrix is a real estimate.
	start := p + maOrder
	rows := len(w) - start
	cols := arOrder + maOrder
	if rows < cols {
		return nil, nil, nil, errShortSeries
	}

	X := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for t := start; t < len(w); t++ {
		r := t - start
		for i := 0; i < arOrder; i++ {
			X.Set(r, i, w[t-1-i])
		}
		for j := 0; j < maOrder; j++ {
			X.Set(r, arOrder+j, resid[t-1-j])
		}
		y.Set(r, 0, w[t])
	}

	coef, err := solveLeastSquares(X, y)
	if err != nil {
		return nil, nil, nil, err
	}
	return coef[:arOrder], coef[arOrder:], resid, nil
}

// longAROrder picks the stage-one autoregression order: enough lags to
// approximate the innovations, capped so short series keep enough rows.
func longAROrder(n int) int {
	p := n / 4
	if p > 8 {
		p = 8
	}
	if p < 4 {
		p = 4
	}
	return p
}

func olsAR(w []float64, p int) ([]float64, error) {
	rows := len(w) - p
	if rows < p {
		return nil, errShortSeries
	}

	X := mat.NewDense(rows, p, nil)
	y := mat.NewDense(rows, 1, nil)
	for t := p; t < len(w); t++ {
		r := t - p
		for i := 0; i < p; i++ {
			X.Set(r, i, w[t-1-i])
		}
		y.Set(r, 0, w[t])
	}
	return solveLeastSquares(X, y)
}

func solveLeastSquares(X, y *mat.Dense) ([]float64, error) {
	var qr mat.QR
	qr.Factorize(X)

	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, y); err != nil {
		return nil, fmt.Errorf("least squares solve: %w", err)
	}

	_, cols := X.Dims()
	coef := make([]float64, cols)
	for i := range coef {
		v := sol.At(i, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errDiverged
		}
		coef[i] = v
	}
	return coef, nil
}

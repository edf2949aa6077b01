package analytics

import (
	// Go Internal Packages
	"math"

	// External Packages
	"github.com/montanaflynn/stats"
)

const DefaultForecastSteps = 10

// Forecast method tags. The caller always gets a usable value list; the tag
// records whether it came from a fitted model or the degenerate fallback.
const (
	MethodARIMA = "arima"
	MethodMean  = "mean"
)

type Forecast struct {
	Values []float64
	Method string
}

// ForecastLoad produces a steps-long forecast of the count series. Series
// with fewer than five observations skip the model entirely; a failed fit
// falls back the same way. Forecasting never fails: the result is always
// exactly steps values, clamped non-negative and rounded to two decimals.
func ForecastLoad(series []float64, steps int) Forecast {
	if len(series) < 5 {
		return meanFallback(series, steps)
	}

	values, err := arimaForecast(series, steps)
	if err != nil {
		return meanFallback(series, steps)
	}
	for i, v := range values {
		values[i] = round2(math.Max(0, v))
	}
	return Forecast{Values: values, Method: MethodARIMA}
}

// meanFallback repeats the series mean (0.0 for an empty series) for every
// step.
func meanFallback(series []float64, steps int) Forecast {
	mean := 0.0
	if len(series) > 0 {
		mean, _ = stats.Mean(series)
	}
	mean = round2(math.Max(0, mean))

	values := make([]float64, steps)
	for i := range values {
		values[i] = mean
	}
	return Forecast{Values: values, Method: MethodMean}
}

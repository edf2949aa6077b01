package analytics

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	models "aether/models"

	// External Packages
	"go.uber.org/zap"
)

const DefaultLookback = 24 * time.Hour

type TxQuerier interface {
	QueryByTimeRange(ctx context.Context, since time.Time) ([]models.Transaction, error)
}

// Engine runs the full analysis: aggregate recent history into minute
// buckets, forecast the count series, and score both series for spikes.
// It holds no state between runs and is safe to invoke concurrently with
// ingestion and with other analyses.
type Engine struct {
	logger    *zap.Logger
	store     TxQuerier
	lookback  time.Duration
	steps     int
	threshold float64
}

func NewEngine(logger *zap.Logger, store TxQuerier, lookback time.Duration, steps int, threshold float64) *Engine {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if steps <= 0 {
		steps = DefaultForecastSteps
	}
	if threshold <= 0 {
		threshold = DefaultZScoreThreshold
	}
	return &Engine{logger: logger, store: store, lookback: lookback, steps: steps, threshold: threshold}
}

// Run produces one analysis report. An empty window short-circuits to an
// insufficient_data report without touching the forecaster or detectors; the
// overall fraud flag is the OR of the two detector verdicts.
func (e *Engine) Run(ctx context.Context) (models.AnalysisReport, error) {
	since := time.Now().UTC().Add(-e.lookback)
	txs, err := e.store.QueryByTimeRange(ctx, since)
	if err != nil {
		return models.AnalysisReport{}, err
	}

	buckets := Aggregate(txs)
	if len(buckets) == 0 {
		return models.AnalysisReport{
			Status:   models.ReportStatusInsufficientData,
			Message:  "not enough transactions to analyze yet",
			Forecast: []float64{},
		}, nil
	}

	counts := CountSeries(buckets)
	amounts := AmountSeries(buckets)

	forecast := ForecastLoad(counts, e.steps)
	e.logger.Debug("forecast computed",
		zap.String("method", forecast.Method), zap.Int("buckets", len(buckets)))

	velocity := NewVelocityDetector(e.threshold).Detect(counts)
	amount := NewAmountDetector(e.threshold).Detect(amounts)

	return models.AnalysisReport{
		Status:             models.ReportStatusOK,
		DataPointsAnalyzed: len(buckets),
		Forecast:           forecast.Values,
		VelocityAnomaly:    velocity,
		AmountAnomaly:      amount,
		FraudRiskDetected:  velocity.IsAnomaly || amount.IsAnomaly,
		AnalyzedAt:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

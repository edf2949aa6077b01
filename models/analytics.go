package models

import (
	// Go Internal Packages
	"time"
)

// Analysis report statuses.
const (
	ReportStatusOK               = "ok"
	ReportStatusInsufficientData = "insufficient_data"
)

// Bucket is one fixed-width time bucket of transaction history. Buckets are
// sparse: a minute with no transactions produces no bucket at all.
type Bucket struct {
	Minute      time.Time
	Count       int
	TotalAmount float64
}

// AnomalyVerdict is the outcome of one detector over one series. ZScore is
// nil when the detector could not compute one (too few points, no variance).
type AnomalyVerdict struct {
	IsAnomaly bool     `json:"is_anomaly"`
	Reason    string   `json:"reason,omitempty"`
	ZScore    *float64 `json:"z_score,omitempty"`
}

// AnalysisReport is the full analytics response returned to the caller.
type AnalysisReport struct {
	Status             string         `json:"status"`
	Message            string         `json:"message,omitempty"`
	DataPointsAnalyzed int            `json:"data_points_analyzed"`
	Forecast           []float64      `json:"forecast_next_10_minutes"`
	VelocityAnomaly    AnomalyVerdict `json:"velocity_anomaly"`
	AmountAnomaly      AnomalyVerdict `json:"amount_anomaly"`
	FraudRiskDetected  bool           `json:"fraud_risk_detected"`
	AnalyzedAt         string         `json:"analyzed_at,omitempty"`
}

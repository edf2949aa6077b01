package analytics

import (
	// Go Internal Packages
	"fmt"
	"math"

	// Local Packages
	models "aether/models"

	// External Packages
	"github.com/montanaflynn/stats"
)

const DefaultZScoreThreshold = 3.0

// Detector flags the most recent observation of a series when it sits at or
// above threshold population standard deviations over the series mean.
//
// The check is one-sided on purpose: fraud shows up as spikes, so a sharp
// drop in volume or amount never trips it. A quiet outage is invisible to
// this detector; that is a known limitation, not a bug.
type Detector struct {
	label     string
	reason    string
	threshold float64
}

func NewVelocityDetector(threshold float64) Detector {
	return Detector{label: "velocity", reason: "transaction velocity spike detected", threshold: threshold}
}

func NewAmountDetector(threshold float64) Detector {
	return Detector{label: "amount", reason: "unusual amount spike detected", threshold: threshold}
}

// Detect scores the latest observation against the full series. Fewer than
// three points or a flat series cannot be scored and is never anomalous.
func (d Detector) Detect(series []float64) models.AnomalyVerdict {
	if len(series) < 3 {
		return models.AnomalyVerdict{Reason: "insufficient data"}
	}

	mean, _ := stats.Mean(series)
	std, _ := stats.StandardDeviationPopulation(series)
	if std == 0 {
		return models.AnomalyVerdict{Reason: "no variance"}
	}

	latest := series[len(series)-1]
	z := round2((latest - mean) / std)

	if z >= d.threshold {
		return models.AnomalyVerdict{
			IsAnomaly: true,
			Reason:    fmt.Sprintf("%s (z-score: %.2f)", d.reason, z),
			ZScore:    &z,
		}
	}
	return models.AnomalyVerdict{ZScore: &z}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

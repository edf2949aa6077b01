package analytics

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/stretchr/testify/require"
)

func TestDetectInsufficientData(t *testing.T) {
	d := NewVelocityDetector(DefaultZScoreThreshold)

	for _, series := range [][]float64{nil, {10}, {10, 20}} {
		verdict := d.Detect(series)
		require.False(t, verdict.IsAnomaly)
		require.Equal(t, "insufficient data", verdict.Reason)
		require.Nil(t, verdict.ZScore)
	}
}

func TestDetectNoVariance(t *testing.T) {
	verdict := NewAmountDetector(DefaultZScoreThreshold).Detect([]float64{5, 5, 5, 5})

	require.False(t, verdict.IsAnomaly)
	require.Equal(t, "no variance", verdict.Reason)
	require.Nil(t, verdict.ZScore)
}

func TestDetectModerateSpikeNotFlagged(t *testing.T) {
	// mean 28, deviation 36, latest 100: z = 2.0, below the threshold
	verdict := NewVelocityDetector(DefaultZScoreThreshold).Detect([]float64{10, 10, 10, 10, 100})

	require.False(t, verdict.IsAnomaly)
	require.Empty(t, verdict.Reason)
	require.NotNil(t, verdict.ZScore)
	require.InDelta(t, 2.0, *verdict.ZScore, 0.01)
}

func TestDetectSharpSpikeFlagged(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 1000}
	verdict := NewVelocityDetector(DefaultZScoreThreshold).Detect(series)

	require.True(t, verdict.IsAnomaly)
	require.Contains(t, verdict.Reason, "spike")
	require.NotNil(t, verdict.ZScore)
	require.InDelta(t, 3.0, *verdict.ZScore, 0.01)
}

func TestDetectIsOneSided(t *testing.T) {
	// A collapse as extreme as the spike above must never flag.
	series := []float64{1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 10}
	verdict := NewAmountDetector(DefaultZScoreThreshold).Detect(series)

	require.False(t, verdict.IsAnomaly)
	require.NotNil(t, verdict.ZScore)
	require.Negative(t, *verdict.ZScore)
}

func TestDetectorLabels(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 1000}

	velocity := NewVelocityDetector(DefaultZScoreThreshold).Detect(series)
	require.Contains(t, velocity.Reason, "velocity")

	amount := NewAmountDetector(DefaultZScoreThreshold).Detect(series)
	require.Contains(t, amount.Reason, "amount")
}

package analytics

import (
	// Go Internal Packages
	"sort"
	"time"

	// Local Packages
	models "aether/models"
)

const bucketWidth = time.Minute

// Aggregate groups transactions into fixed one-minute buckets keyed by the
// truncated creation time. The result is sparse and sorted ascending; a
// minute with no transactions simply does not appear, and callers treat the
// gap as zero where that matters.
func Aggregate(txs []models.Transaction) []models.Bucket {
	if len(txs) == 0 {
		return nil
	}

	byMinute := make(map[time.Time]*models.Bucket)
	for _, tx := range txs {
		minute := tx.CreatedAt.UTC().Truncate(bucketWidth)
		bucket, ok := byMinute[minute]
		if !ok {
			bucket = &models.Bucket{Minute: minute}
			byMinute[minute] = bucket
		}
		bucket.Count++
		bucket.TotalAmount += tx.Amount
	}

	buckets := make([]models.Bucket, 0, len(byMinute))
	for _, bucket := range byMinute {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Minute.Before(buckets[j].Minute)
	})
	return buckets
}

// CountSeries extracts the per-bucket transaction counts.
func CountSeries(buckets []models.Bucket) []float64 {
	series := make([]float64, len(buckets))
	for i, bucket := range buckets {
		series[i] = float64(bucket.Count)
	}
	return series
}

// AmountSeries extracts the per-bucket summed amounts.
func AmountSeries(buckets []models.Bucket) []float64 {
	series := make([]float64, len(buckets))
	for i, bucket := range buckets {
		series[i] = bucket.TotalAmount
	}
	return series
}

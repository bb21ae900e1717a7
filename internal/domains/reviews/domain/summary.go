package domain

import "math"

// Bucket is one row of the star distribution.
type Bucket struct {
	Stars   int
	Count   int
	Percent float64
}

// Summary aggregates a product's reviews.
type Summary struct {
	Average      float64
	Count        int
	Distribution []Bucket
}

// Summarize computes the average rounded to one decimal and the 5..1 star distribution.
func Summarize(reviews []*Review) Summary {
	counts := make(map[int]int, MaxRating)
	total := 0
	for _, review := range reviews {
		if review == nil || review.Rating < MinRating || review.Rating > MaxRating {
			continue
		}
		counts[review.Rating]++
		total += review.Rating
	}
	count := 0
	for _, c := range counts {
		count += c
	}

	summary := Summary{Count: count, Distribution: make([]Bucket, 0, MaxRating)}
	if count > 0 {
		summary.Average = math.Round(float64(total)/float64(count)*10) / 10
	}
	for stars := MaxRating; stars >= MinRating; stars-- {
		bucket := Bucket{Stars: stars, Count: counts[stars]}
		if count > 0 {
			bucket.Percent = float64(counts[stars]) / float64(count) * 100
		}
		summary.Distribution = append(summary.Distribution, bucket)
	}
	return summary
}

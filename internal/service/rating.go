package service

import "math"

// Ratings are kept with three decimals. The epsilon absorbs binary artifacts
// such as 4.6 being stored as 4.59999... before truncation.
const ratingEpsilon = 1e-9

func truncateRating(x float64) float64 {
	return math.Trunc(x*1000+ratingEpsilon) / 1000
}

func roundRating(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// ComputeReviewRating is the mean of the four sub-scores truncated to three decimals.
func ComputeReviewRating(learning, grading, attendance, difficulty int64) float64 {
	return truncateRating(float64(learning+grading+attendance+difficulty) / 4)
}

// IncrementTeacherRating folds a new review into the running mean.
func IncrementTeacherRating(newRating, oldRating float64, oldCount int64) float64 {
	if oldCount <= 0 {
		return truncateRating(newRating)
	}
	return truncateRating((oldRating*float64(oldCount) + newRating) / float64(oldCount+1))
}

// DecrementTeacherRating removes a review from the running mean. The numerator
// is rounded before division to cancel drift from the multiply and subtract.
// Removing the last review yields zero.
func DecrementTeacherRating(removedRating, currentRating float64, currentCount int64) float64 {
	if currentCount <= 1 {
		return 0
	}
	numerator := roundRating(currentRating*float64(currentCount) - removedRating)
	if numerator <= 0 {
		return 0
	}
	return truncateRating(numerator / float64(currentCount-1))
}

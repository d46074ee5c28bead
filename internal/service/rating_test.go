package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReviewRatingTruncates(t *testing.T) {
	assert.Equal(t, 3.75, ComputeReviewRating(3, 4, 3, 5))
	assert.Equal(t, 5.0, ComputeReviewRating(5, 5, 5, 5))
	assert.Equal(t, 1.0, ComputeReviewRating(1, 1, 1, 1))
	// 14/3 style values never round up.
	assert.Equal(t, 4.666, truncateRating(14.0/3))
	assert.Equal(t, 4.6, truncateRating(4.6))
}

func TestIncrementTeacherRating(t *testing.T) {
	assert.Equal(t, 4.5, IncrementTeacherRating(4.0, 5.0, 1))
	assert.Equal(t, 3.75, IncrementTeacherRating(3.75, 0, 0))
	assert.Equal(t, 4.333, IncrementTeacherRating(4.0, 4.5, 2))
}

func TestDecrementTeacherRating(t *testing.T) {
	assert.Equal(t, 5.0, DecrementTeacherRating(4.0, 4.5, 2))
	assert.Equal(t, 0.0, DecrementTeacherRating(4.0, 4.0, 1))
	assert.Equal(t, 0.0, DecrementTeacherRating(4.0, 4.0, 0))
}

func TestDecrementInvertsIncrement(t *testing.T) {
	cases := []struct {
		newRating float64
		oldRating float64
		count     int64
	}{
		{4.0, 5.0, 1},
		{3.75, 4.5, 2},
		{1.25, 3.333, 3},
		{2.5, 4.125, 8},
		{5.0, 1.0, 1},
		{4.75, 2.916, 12},
		{0.25, 4.999, 40},
	}
	for _, tc := range cases {
		inc := IncrementTeacherRating(tc.newRating, tc.oldRating, tc.count)
		back := DecrementTeacherRating(tc.newRating, inc, tc.count+1)
		// the increment truncates by less than 0.001, which the inverse scales by (n+1)/n
		tolerance := 0.001*float64(tc.count+1)/float64(tc.count) + ratingEpsilon
		assert.InDelta(t, tc.oldRating, back, tolerance, "new=%v old=%v n=%d", tc.newRating, tc.oldRating, tc.count)
	}
}

func TestRemovingEveryReviewResetsAggregate(t *testing.T) {
	avg, total := 0.0, int64(0)
	scores := []float64{3.75, 4.5, 2.25, 5.0, 1.0, 4.25}
	for _, s := range scores {
		avg = IncrementTeacherRating(s, avg, total)
		total++
	}
	for i := len(scores) - 1; i >= 0; i-- {
		avg = DecrementTeacherRating(scores[i], avg, total)
		total--
	}
	assert.Equal(t, int64(0), total)
	assert.Equal(t, 0.0, avg)
}

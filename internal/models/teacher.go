package models

import "time"

// Teacher carries the persisted rating aggregate of its reviews.
type Teacher struct {
	TeacherID     int64   `db:"teacher_id" json:"teacher_id"`
	FullName      string  `db:"full_name" json:"full_name"`
	Email         *string `db:"email" json:"email"`
	AverageRating float64 `db:"average_rating" json:"average_rating"`
	TotalReviews  int64   `db:"total_reviews" json:"total_reviews"`
}

// RatingAggregate is the locked view of a teacher's aggregate.
type RatingAggregate struct {
	TeacherID     int64   `db:"teacher_id"`
	AverageRating float64 `db:"average_rating"`
	TotalReviews  int64   `db:"total_reviews"`
}

// Subject is a course offered by the university.
type Subject struct {
	SubjectCode string `db:"subject_code" json:"subject_code"`
	Title       string `db:"title" json:"title"`
	CreditHours int64  `db:"credit_hours" json:"credit_hours"`
}

// TeacherReview is a student's rating of a teacher for a subject.
type TeacherReview struct {
	ReviewID      int64     `db:"review_id" json:"review_id"`
	TeacherID     int64     `db:"teacher_id" json:"teacher_id"`
	SubjectCode   string    `db:"subject_code" json:"subject_code"`
	ReviewedByERP int64     `db:"reviewed_by_erp" json:"reviewed_by_erp"`
	Learning      int64     `db:"learning" json:"learning"`
	Grading       int64     `db:"grading" json:"grading"`
	Attendance    int64     `db:"attendance" json:"attendance"`
	Difficulty    int64     `db:"difficulty" json:"difficulty"`
	OverallRating float64   `db:"overall_rating" json:"overall_rating"`
	Comment       *string   `db:"comment" json:"comment"`
	ReviewedAt    time.Time `db:"reviewed_at" json:"reviewed_at"`
}

// CreateTeacherReviewRequest is the review creation payload.
type CreateTeacherReviewRequest struct {
	TeacherID     int64   `json:"teacher_id" validate:"required,gt=0"`
	SubjectCode   string  `json:"subject_code" validate:"required,max=20"`
	ReviewedByERP int64   `json:"reviewed_by_erp"`
	Learning      int64   `json:"learning" validate:"required,min=1,max=5"`
	Grading       int64   `json:"grading" validate:"required,min=1,max=5"`
	Attendance    int64   `json:"attendance" validate:"required,min=1,max=5"`
	Difficulty    int64   `json:"difficulty" validate:"required,min=1,max=5"`
	Comment       *string `json:"comment" validate:"omitempty,max=2000"`
}

// RatingSnapshot is the aggregate a client observed before deleting a review.
// Stored values win when they disagree.
type RatingSnapshot struct {
	OverallRating *float64 `json:"overall_rating" form:"overall_rating" validate:"omitempty,gte=0,lte=5"`
	AverageRating *float64 `json:"average_rating" form:"average_rating" validate:"omitempty,gte=0,lte=5"`
	TotalReviews  *int64   `json:"total_reviews" form:"total_reviews" validate:"omitempty,gte=0"`
}

// ReviewOutcome reports the review write and the resulting aggregate.
type ReviewOutcome struct {
	Review        *TeacherReview `json:"review,omitempty"`
	ReviewID      int64          `json:"review_id"`
	TeacherID     int64          `json:"teacher_id"`
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int64          `json:"total_reviews"`
}

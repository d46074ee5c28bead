package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

const lockTeacherAggregateQuery = `SELECT teacher_id, average_rating, total_reviews
FROM teachers
WHERE teacher_id = $1
FOR NO KEY UPDATE`

const writeTeacherAggregateQuery = `UPDATE teachers SET average_rating = $1, total_reviews = $2 WHERE teacher_id = $3`

// TeacherReviewRepository persists reviews together with the teacher rating aggregate.
type TeacherReviewRepository struct {
	gw      *database.Gateway
	reviews *Table[models.TeacherReview]
}

// NewTeacherReviewRepository constructs the repository.
func NewTeacherReviewRepository(gw *database.Gateway) *TeacherReviewRepository {
	return &TeacherReviewRepository{gw: gw, reviews: NewTable[models.TeacherReview](gw, "teacher_reviews", "review_id")}
}

// WithTx runs fn in a transaction on the underlying gateway.
func (r *TeacherReviewRepository) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return r.gw.WithTx(ctx, fn)
}

// LockAggregate reads the teacher's aggregate and holds the row until the
// transaction ends. The lock mode stays compatible with the key-share lock
// taken by review inserts referencing the teacher.
func (r *TeacherReviewRepository) LockAggregate(ctx context.Context, tx *sqlx.Tx, teacherID int64) (*models.RatingAggregate, error) {
	var agg models.RatingAggregate
	if err := r.gw.Get(ctx, tx, &agg, lockTeacherAggregateQuery, teacherID); err != nil {
		if appErrors.FromError(err).Code == appErrors.CodeNotFound {
			return nil, appErrors.Wrap(err, appErrors.CodeNotFound, appErrors.ErrNotFound.Status, "teacher not found")
		}
		return nil, err
	}
	return &agg, nil
}

// WriteAggregate stores the recomputed aggregate.
func (r *TeacherReviewRepository) WriteAggregate(ctx context.Context, tx *sqlx.Tx, teacherID int64, average float64, total int64) error {
	res, err := r.gw.Exec(ctx, tx, writeTeacherAggregateQuery, average, total, teacherID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnexpected.Code, appErrors.ErrUnexpected.Status, appErrors.ErrUnexpected.Message)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrUpdateFailed, fmt.Sprintf("rating of teacher %d was not updated", teacherID))
	}
	return nil
}

// Insert stores the review and returns its generated id.
func (r *TeacherReviewRepository) Insert(ctx context.Context, tx *sqlx.Tx, review *models.TeacherReview) (int64, error) {
	attrs := database.Columns{
		{Name: "teacher_id", Value: review.TeacherID},
		{Name: "subject_code", Value: review.SubjectCode},
		{Name: "reviewed_by_erp", Value: review.ReviewedByERP},
		{Name: "learning", Value: review.Learning},
		{Name: "grading", Value: review.Grading},
		{Name: "attendance", Value: review.Attendance},
		{Name: "difficulty", Value: review.Difficulty},
		{Name: "overall_rating", Value: review.OverallRating},
		{Name: "comment", Value: review.Comment},
	}
	result, err := r.reviews.Create(ctx, tx, attrs)
	if err != nil {
		return 0, err
	}
	id, ok := result.GeneratedID.(int64)
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrUnexpected, fmt.Sprintf("unexpected review id %v", result.GeneratedID))
	}
	return id, nil
}

// FindByID loads one review.
func (r *TeacherReviewRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, reviewID int64) (*models.TeacherReview, error) {
	return r.reviews.FindOne(ctx, exec, database.Columns{{Name: "review_id", Value: reviewID}})
}

// ListByTeacher returns every review of a teacher.
func (r *TeacherReviewRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherReview, error) {
	return r.reviews.FindAll(ctx, nil, database.Columns{{Name: "teacher_id", Value: teacherID}})
}

// Delete removes one review.
func (r *TeacherReviewRepository) Delete(ctx context.Context, tx *sqlx.Tx, reviewID int64) error {
	_, err := r.reviews.Delete(ctx, tx, database.Columns{{Name: "review_id", Value: reviewID}})
	return err
}

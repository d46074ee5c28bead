package service

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/campus-connect-api/internal/models"
	"github.com/noah-isme/campus-connect-api/internal/repository"
	"github.com/noah-isme/campus-connect-api/pkg/database"
	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

var reviewColumns = []string{
	"review_id", "teacher_id", "subject_code", "reviewed_by_erp",
	"learning", "grading", "attendance", "difficulty", "overall_rating", "comment", "reviewed_at",
}

func newReviewService(t *testing.T) (*TeacherReviewService, sqlmock.Sqlmock, *observer.ObservedLogs) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	core, logs := observer.New(zapcore.InfoLevel)
	gw := database.NewGateway(sqlx.NewDb(db, "sqlmock"), zap.NewNop(), false, nil)
	svc := NewTeacherReviewService(repository.NewTeacherReviewRepository(gw), NewValidator(), NewMetricsService(), zap.New(core))
	return svc, mock, logs
}

func studentClaims(erp int64) *models.JWTClaims {
	return &models.JWTClaims{ERP: erp, Role: models.RoleStudent}
}

func reviewRequest() models.CreateTeacherReviewRequest {
	return models.CreateTeacherReviewRequest{
		TeacherID:   7,
		SubjectCode: "CSE101",
		Learning:    4,
		Grading:     4,
		Attendance:  4,
		Difficulty:  4,
	}
}

func TestTeacherReviewCreateThenDeleteRestoresAggregate(t *testing.T) {
	svc, mock, _ := newReviewService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR NO KEY UPDATE").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "average_rating", "total_reviews"}).AddRow(7, 4.5, 1))
	mock.ExpectQuery("INSERT INTO teacher_reviews").
		WithArgs(int64(7), "CSE101", int64(21001), int64(4), int64(4), int64(4), int64(4), 4.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(int64(31)))
	mock.ExpectExec("UPDATE teachers SET average_rating").WithArgs(4.25, int64(2), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := svc.Create(ctx, studentClaims(21001), reviewRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(31), created.ReviewID)
	assert.Equal(t, 4.25, created.AverageRating)
	assert.Equal(t, int64(2), created.TotalReviews)
	assert.Equal(t, 4.0, created.Review.OverallRating)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM teacher_reviews WHERE review_id = \\$1").WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(31, 7, "CSE101", 21001, 4, 4, 4, 4, 4.0, nil, time.Now()))
	mock.ExpectQuery("FOR NO KEY UPDATE").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "average_rating", "total_reviews"}).AddRow(7, 4.25, 2))
	mock.ExpectExec("DELETE FROM teacher_reviews WHERE review_id = \\$1").WithArgs(int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE teachers SET average_rating").WithArgs(4.5, int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	overall, avg, total := 4.0, 4.25, int64(2)
	deleted, err := svc.Delete(ctx, studentClaims(21001), 31, models.RatingSnapshot{
		OverallRating: &overall, AverageRating: &avg, TotalReviews: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.5, deleted.AverageRating)
	assert.Equal(t, int64(1), deleted.TotalReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewCreateRollsBackWhenAggregateWriteFails(t *testing.T) {
	svc, mock, _ := newReviewService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR NO KEY UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "average_rating", "total_reviews"}).AddRow(7, 0, 0))
	mock.ExpectQuery("INSERT INTO teacher_reviews").
		WillReturnRows(sqlmock.NewRows([]string{"review_id"}).AddRow(int64(32)))
	mock.ExpectExec("UPDATE teachers SET average_rating").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), studentClaims(21001), reviewRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeUnknown, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewCreateMissingTeacherIsForeignKeyViolation(t *testing.T) {
	svc, mock, _ := newReviewService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR NO KEY UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "average_rating", "total_reviews"}))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), studentClaims(21001), reviewRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeForeignKeyViolation, appErr.Code)
	assert.Equal(t, 512, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewCreateRejectsOtherReviewer(t *testing.T) {
	svc, mock, _ := newReviewService(t)
	req := reviewRequest()
	req.ReviewedByERP = 22002

	_, err := svc.Create(context.Background(), studentClaims(21001), req)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewCreateValidatesSubscores(t *testing.T) {
	svc, mock, _ := newReviewService(t)
	req := reviewRequest()
	req.Learning = 6

	_, err := svc.Create(context.Background(), studentClaims(21001), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.CodeInvalidProperties, appErr.Code)
	assert.Equal(t, []appErrors.FieldError{{Param: "learning", Msg: "must be at most 5"}}, appErr.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewDeleteByAnotherStudentIsForbidden(t *testing.T) {
	svc, mock, _ := newReviewService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM teacher_reviews WHERE review_id").
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(31, 7, "CSE101", 21001, 4, 4, 4, 4, 4.0, nil, time.Now()))
	mock.ExpectRollback()

	_, err := svc.Delete(context.Background(), studentClaims(22002), 31, models.RatingSnapshot{})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewDeleteLastReviewResetsAndLogsStaleSnapshot(t *testing.T) {
	svc, mock, logs := newReviewService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM teacher_reviews WHERE review_id").
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(40, 9, "MTH201", 21001, 3, 4, 3, 5, 3.75, "fair", time.Now()))
	mock.ExpectQuery("FOR NO KEY UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "average_rating", "total_reviews"}).AddRow(9, 3.75, 1))
	mock.ExpectExec("DELETE FROM teacher_reviews").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE teachers SET average_rating").WithArgs(0.0, int64(0), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	staleTotal := int64(5)
	out, err := svc.Delete(context.Background(), studentClaims(21001), 40, models.RatingSnapshot{TotalReviews: &staleTotal})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.AverageRating)
	assert.Equal(t, int64(0), out.TotalReviews)
	assert.Equal(t, 1, logs.FilterMessage("stale rating snapshot on review delete").Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherReviewDeleteMissingReview(t *testing.T) {
	svc, mock, _ := newReviewService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM teacher_reviews WHERE review_id").
		WillReturnRows(sqlmock.NewRows(reviewColumns))
	mock.ExpectRollback()

	_, err := svc.Delete(context.Background(), studentClaims(21001), 99, models.RatingSnapshot{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
